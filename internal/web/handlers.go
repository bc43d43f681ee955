package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/JonMunkholm/silverload/internal/core"
	"github.com/JonMunkholm/silverload/internal/logging"
)

// healthTimeout bounds the database ping behind /healthz.
const healthTimeout = 5 * time.Second

var errNoRuns = errors.New("no refresh has completed yet")

// handleHealth reports whether the database is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := s.service.Ping(ctx); err != nil {
		respondError(w, r, err, http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListTables returns the registered tables in refresh order.
func (s *Server) handleListTables(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.ListTables())
}

// handleLatestRun returns the most recent batch result.
func (s *Server) handleLatestRun(w http.ResponseWriter, r *http.Request) {
	res, ok := s.service.LatestRun()
	if !ok {
		respondError(w, r, errNoRuns, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// handleRefresh runs a full refresh and returns its result.
//
// The batch is detached from the request's cancellation so a client
// disconnect does not roll back a refresh in flight; REFRESH_TIMEOUT still
// bounds it.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := context.WithoutCancel(r.Context())
	logging.FromContext(ctx).Info("refresh requested")

	res, err := s.service.TryRunFullRefresh(ctx)
	if errors.Is(err, core.ErrRefreshInProgress) {
		respondError(w, r, err, http.StatusConflict)
		return
	}
	if err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	status := http.StatusOK
	if res.Failed() {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, res)
}
