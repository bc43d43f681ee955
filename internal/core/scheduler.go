package core

// scheduler.go runs full refreshes periodically in serve mode.
//
// The scheduler is long-running and context-aware for graceful shutdown. A
// tick that lands while another batch is running (for example one triggered
// over HTTP) is skipped rather than queued. Failed batches are logged and do
// not stop the scheduler.

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// StartRefreshScheduler starts a loop that runs a full refresh every
// interval. It runs immediately on start, then on every tick.
// The scheduler stops when the context is cancelled.
func (s *Service) StartRefreshScheduler(ctx context.Context, interval time.Duration) {
	slog.Info("refresh scheduler started", "interval", interval.String())

	// Run immediately on startup
	s.runScheduledRefresh(ctx)

	// Then run periodically
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh scheduler stopped")
			return
		case <-ticker.C:
			s.runScheduledRefresh(ctx)
		}
	}
}

// runScheduledRefresh performs one scheduled batch.
func (s *Service) runScheduledRefresh(ctx context.Context) {
	result, err := s.TryRunFullRefresh(ctx)
	if errors.Is(err, ErrRefreshInProgress) {
		slog.Info("scheduled refresh skipped: refresh already in progress")
		return
	}
	if result.Failed() {
		slog.Error("scheduled refresh failed", "run_id", result.RunID, "error", result.Err())
		return
	}
	slog.Debug("scheduled refresh completed", "run_id", result.RunID, "elapsed_seconds", result.ElapsedSeconds)
}
