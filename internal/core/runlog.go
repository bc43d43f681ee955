package core

// runlog.go records start and end timestamps around each table refresh and
// around the whole batch. It writes progress lines and observes the refresh
// metrics; it never changes the outcome of a refresh.

import (
	"context"
	"log/slog"
	"time"

	"github.com/JonMunkholm/silverload/internal/logging"
)

// RunLogger times a batch and the tables inside it.
type RunLogger struct {
	logger  *slog.Logger
	now     func() time.Time
	started time.Time
}

// NewRunLogger starts timing a batch. The logger is taken from ctx so it
// carries the run ID and, for HTTP-triggered runs, the request ID.
func NewRunLogger(ctx context.Context, now func() time.Time) *RunLogger {
	if now == nil {
		now = time.Now
	}
	return &RunLogger{
		logger:  logging.FromContext(ctx),
		now:     now,
		started: now(),
	}
}

// Started returns the batch start time.
func (l *RunLogger) Started() time.Time {
	return l.started
}

// BatchStarted logs the beginning of a batch.
func (l *RunLogger) BatchStarted(tables int, parallel bool) {
	l.logger.Info("batch started",
		"tables", tables,
		"parallel", parallel,
		"started_at", l.started.Format(time.RFC3339),
	)
}

// TableSpan times one table refresh.
type TableSpan struct {
	l       *RunLogger
	logger  *slog.Logger
	info    TableInfo
	started time.Time
}

// StartTable begins timing a table refresh. Lines written for the table
// carry the run ID from ctx and the table key.
func (l *RunLogger) StartTable(ctx context.Context, info TableInfo) *TableSpan {
	logger := logging.WithFields(ctx, "table", info.Key)
	logger.Info("refreshing table",
		"source", info.Source,
		"target", info.Target,
	)
	return &TableSpan{l: l, logger: logger, info: info, started: l.now()}
}

// Finish stamps res with the span's timings, logs the outcome and records
// metrics.
func (s *TableSpan) Finish(res *TableResult) {
	res.StartedAt = s.started
	res.FinishedAt = s.l.now()
	res.Duration = res.FinishedAt.Sub(res.StartedAt)
	res.ElapsedSeconds = res.Duration.Seconds()

	TableRefreshDuration.WithLabelValues(s.info.Key).Observe(res.ElapsedSeconds)
	TablesTotal.WithLabelValues(s.info.Key, string(res.Status)).Inc()

	switch res.Status {
	case StatusSucceeded:
		RowsLoadedTotal.WithLabelValues(s.info.Key).Add(float64(res.Loaded))
		s.logger.Info("table refreshed",
			"extracted", res.Extracted,
			"loaded", res.Loaded,
			"elapsed_seconds", res.ElapsedSeconds,
		)
	case StatusSkipped:
		s.logger.Warn("table skipped",
			"reason", res.Error,
			"code", res.ErrorCode,
			"elapsed_seconds", res.ElapsedSeconds,
		)
	default:
		s.logger.Error("table refresh failed",
			"error", res.Error,
			"code", res.ErrorCode,
			"severity", res.Severity,
			"elapsed_seconds", res.ElapsedSeconds,
		)
	}
}

// Skip records a table that was not attempted.
func (l *RunLogger) Skip(res *TableResult) {
	at := l.now()
	res.StartedAt = at
	res.FinishedAt = at

	TablesTotal.WithLabelValues(res.Table, string(StatusSkipped)).Inc()
	l.logger.Warn("table skipped", "table", res.Table, "reason", res.Error)
}

// BatchFinished stamps res with the batch timings and logs the summary.
func (l *RunLogger) BatchFinished(res *RunResult) {
	res.StartedAt = l.started
	res.FinishedAt = l.now()
	res.Duration = res.FinishedAt.Sub(res.StartedAt)
	res.ElapsedSeconds = res.Duration.Seconds()

	BatchDuration.Observe(res.ElapsedSeconds)

	succeeded, failed, skipped := res.Counts()
	attrs := []any{
		"succeeded", succeeded,
		"failed", failed,
		"skipped", skipped,
		"elapsed_seconds", res.ElapsedSeconds,
	}
	if failed > 0 {
		l.logger.Error("batch failed", attrs...)
		return
	}
	l.logger.Info("batch complete", attrs...)
}
