package core

// error_messages.go describes refresh failures for logs and results.
//
// # Error Codes Reference
//
// Database errors reported by PostgreSQL carry their own SQLSTATE code and
// severity (for example 42P01 ERROR for a missing table); those are used
// verbatim. Other failures are matched against known patterns:
//
//	DB004  - Connection refused: Unable to connect to database
//	         Patterns: "connection refused"
//
//	DB005  - Connection reset: Database connection was interrupted
//	         Patterns: "connection reset", "unexpected eof"
//
//	DB008  - Pool closed: Connection pool is closed
//	         Patterns: "closed pool"
//
//	RUN001 - Cancelled: The batch was cancelled
//	         Patterns: "context canceled"
//
//	RUN002 - Timeout: The batch exceeded REFRESH_TIMEOUT
//	         Patterns: "context deadline exceeded", "timeout"
//
//	RUN003 - Panic: A table build panicked
//	         Patterns: "panic"
//
//	RUN004 - Aborted: An earlier table failed
//	         Patterns: "earlier table failed"
//
//	RUN005 - Busy: Another batch is running
//	         Patterns: "refresh already in progress"
//
//	RUN006 - No runs: No batch has completed since start
//	         Patterns: "no refresh has completed"
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the logged error text.
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns should be
// defined before general ones.

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// severityError is reported for failures that did not come from PostgreSQL.
const severityError = "ERROR"

// ErrorDescription is the message, code and severity of a refresh failure.
type ErrorDescription struct {
	Message  string // What happened
	Code     string // SQLSTATE for database errors, otherwise a pattern code
	Severity string // PostgreSQL severity, or ERROR
	Detail   string // Extra context from the server, if any
}

// errorPattern defines a pattern to match and its corresponding code.
type errorPattern struct {
	pattern string
	code    string
	summary string
}

var errorPatterns = []errorPattern{
	{pattern: "connection refused", code: "DB004", summary: "Unable to connect to database"},
	{pattern: "connection reset", code: "DB005", summary: "Database connection was interrupted"},
	{pattern: "unexpected eof", code: "DB005", summary: "Database connection was interrupted"},
	{pattern: "closed pool", code: "DB008", summary: "Connection pool is closed"},
	{pattern: "context canceled", code: "RUN001", summary: "Refresh was cancelled"},
	{pattern: "context deadline exceeded", code: "RUN002", summary: "Refresh timed out"},
	{pattern: "timeout", code: "RUN002", summary: "Refresh timed out"},
	{pattern: "panic", code: "RUN003", summary: "Table build panicked"},
	{pattern: "earlier table failed", code: "RUN004", summary: "Skipped after an earlier failure"},
	{pattern: "refresh already in progress", code: "RUN005", summary: "Another refresh is running"},
	{pattern: "no refresh has completed", code: "RUN006", summary: "No refresh has run yet"},
}

// defaultCode is returned when no pattern matches.
const defaultCode = "ERR000"

// DescribeError converts an error into its message, code and severity.
//
// When err wraps a *pgconn.PgError the server's message, SQLSTATE code and
// severity are returned. Otherwise the full error text is the message and
// the code comes from the first matching pattern.
//
// Example:
//
//	d := DescribeError(err)
//	// d.Code == "42P01", d.Severity == "ERROR" for a missing relation
func DescribeError(err error) ErrorDescription {
	if err == nil {
		return ErrorDescription{}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return ErrorDescription{
			Message:  pgErr.Message,
			Code:     pgErr.Code,
			Severity: pgErr.Severity,
			Detail:   pgErr.Detail,
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ErrorDescription{
				Message:  err.Error(),
				Code:     ep.code,
				Severity: severityError,
				Detail:   ep.summary,
			}
		}
	}

	return ErrorDescription{
		Message:  err.Error(),
		Code:     defaultCode,
		Severity: severityError,
	}
}

// String formats the description as one line for reports:
// "Message (Code: XXX, Severity: YYY)". It is empty when there is no message.
func (d ErrorDescription) String() string {
	if d.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s, Severity: %s)", d.Message, d.Code, d.Severity)
}
