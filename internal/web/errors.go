package web

// errors.go provides unified error response handling for the web layer.
//
// Errors are logged with full technical details and the request ID, then
// returned to clients as JSON carrying the message, code and severity from
// core.DescribeError.

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/silverload/internal/core"
)

// ErrorResponse represents the JSON structure for API error responses.
type ErrorResponse struct {
	Error    string `json:"error"`
	Code     string `json:"code"`
	Severity string `json:"severity,omitempty"`
}

// respondError logs err and writes it as an ErrorResponse.
func respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	d := core.DescribeError(err)

	slog.Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", d.Code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	writeJSON(w, statusCode, ErrorResponse{
		Error:    d.Message,
		Code:     d.Code,
		Severity: d.Severity,
	})
}
