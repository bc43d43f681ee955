package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the interface for database reads.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// DB is a DBTX that can open transactions. Satisfied by *pgxpool.Pool.
type DB interface {
	DBTX
	Begin(context.Context) (pgx.Tx, error)
	Ping(context.Context) error
}

// TableInfo describes one silver table and where it comes from.
type TableInfo struct {
	Key      string   `json:"key"`      // Unique identifier: "crm_cust_info"
	Group    string   `json:"group"`    // Source system: "CRM", "ERP"
	Label    string   `json:"label"`    // Display name: "Customers"
	Sequence int      `json:"sequence"` // Position in the refresh order
	Source   string   `json:"source"`   // Bronze table name, unqualified
	Target   string   `json:"target"`   // Silver table name, unqualified
	Columns  []string `json:"columns"`  // Silver columns in CopyFrom order
}

// BuildContext carries the per-batch inputs a table build needs.
type BuildContext struct {
	BronzeSchema string
	// Now is the batch start time, used by rules that compare against the
	// current date.
	Now time.Time
}

// BuildResult holds the rows produced for one silver table.
type BuildResult struct {
	Extracted int     // Bronze rows read
	Rows      [][]any // Silver rows, values ordered as TableInfo.Columns
}

// BuildRowsFunc extracts bronze rows, applies the table's rules, and returns
// rows ready for CopyFrom. It must not write to the database.
type BuildRowsFunc func(ctx context.Context, db DBTX, bc BuildContext) (BuildResult, error)

// TableDefinition contains everything needed to refresh a table.
type TableDefinition struct {
	Info      TableInfo
	BuildRows BuildRowsFunc
}

// TableStatus is the outcome of one table within a batch.
type TableStatus string

const (
	StatusSucceeded TableStatus = "succeeded"
	StatusFailed    TableStatus = "failed"
	StatusSkipped   TableStatus = "skipped"
)

// TableResult contains the outcome of refreshing one table.
type TableResult struct {
	Table          string        `json:"table"`
	Target         string        `json:"target"`
	Status         TableStatus   `json:"status"`
	Extracted      int           `json:"extracted"`
	Loaded         int64         `json:"loaded"`
	StartedAt      time.Time     `json:"startedAt"`
	FinishedAt     time.Time     `json:"finishedAt"`
	Duration       time.Duration `json:"-"`
	ElapsedSeconds float64       `json:"elapsedSeconds"`
	Error          string        `json:"error,omitempty"`
	ErrorCode      string        `json:"errorCode,omitempty"`
	Severity       string        `json:"severity,omitempty"`

	err error
}

// Err returns the error that failed or skipped the table, if any.
func (r TableResult) Err() error {
	return r.err
}

// Description returns the recorded error description of the table.
func (r TableResult) Description() ErrorDescription {
	return ErrorDescription{Message: r.Error, Code: r.ErrorCode, Severity: r.Severity}
}

// RunResult contains the outcome of one full-refresh batch.
type RunResult struct {
	RunID          string        `json:"runId"`
	StartedAt      time.Time     `json:"startedAt"`
	FinishedAt     time.Time     `json:"finishedAt"`
	Duration       time.Duration `json:"-"`
	ElapsedSeconds float64       `json:"elapsedSeconds"`
	Tables         []TableResult `json:"tables"`
}

// Failed reports whether any table failed.
func (r RunResult) Failed() bool {
	for _, t := range r.Tables {
		if t.Status == StatusFailed {
			return true
		}
	}
	return false
}

// Err joins the errors of all failed tables, or returns nil.
func (r RunResult) Err() error {
	var errs []error
	for _, t := range r.Tables {
		if t.Status == StatusFailed && t.err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", t.Table, t.err))
		}
	}
	return errors.Join(errs...)
}

// Counts returns the number of tables per status.
func (r RunResult) Counts() (succeeded, failed, skipped int) {
	for _, t := range r.Tables {
		switch t.Status {
		case StatusSucceeded:
			succeeded++
		case StatusFailed:
			failed++
		case StatusSkipped:
			skipped++
		}
	}
	return succeeded, failed, skipped
}
