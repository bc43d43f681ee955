package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TableRefreshDuration tracks how long each table refresh takes
	TableRefreshDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "silverload",
			Subsystem: "refresh",
			Name:      "table_duration_seconds",
			Help:      "Duration of single table refreshes in seconds",
			Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"table"},
	)

	// TablesTotal tracks table refresh outcomes by status
	TablesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "silverload",
			Subsystem: "refresh",
			Name:      "tables_total",
			Help:      "Total number of table refreshes by status",
		},
		[]string{"table", "status"},
	)

	// RowsLoadedTotal tracks rows copied into silver tables
	RowsLoadedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "silverload",
			Subsystem: "refresh",
			Name:      "rows_loaded_total",
			Help:      "Total number of rows loaded into silver tables",
		},
		[]string{"table"},
	)

	// BatchDuration tracks full-refresh batch duration
	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "silverload",
			Subsystem: "refresh",
			Name:      "batch_duration_seconds",
			Help:      "Duration of full-refresh batches in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
	)

	// RefreshInProgress is 1 while a batch is running
	RefreshInProgress = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "silverload",
			Subsystem: "refresh",
			Name:      "in_progress",
			Help:      "Whether a full-refresh batch is currently running",
		},
	)
)
