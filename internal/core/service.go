package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/silverload/internal/logging"
)

// ErrRefreshInProgress is returned when a refresh is requested while another
// batch is still running.
var ErrRefreshInProgress = errors.New("refresh already in progress")

// errAborted marks tables that were not attempted after an earlier failure.
var errAborted = errors.New("earlier table failed")

// Options configures a Service.
type Options struct {
	BronzeSchema    string
	SilverSchema    string
	Timeout         time.Duration // Bounds a whole batch; 0 means no limit
	Parallel        bool          // Refresh all tables concurrently
	ContinueOnError bool          // Keep going after a table fails
}

// Service runs full refreshes of every registered table.
type Service struct {
	db        DB
	opts      Options
	refresher *TableRefresher

	now      func() time.Time
	newRunID func() string

	runMu sync.Mutex // held for the duration of a batch

	mu     sync.RWMutex
	latest *RunResult
}

// NewService creates a new Service instance.
func NewService(db DB, opts Options) *Service {
	return &Service{
		db:        db,
		opts:      opts,
		refresher: NewTableRefresher(db, opts.SilverSchema),
		now:       time.Now,
		newRunID:  uuid.NewString,
	}
}

// ListTables returns information about all registered tables in refresh order.
func (s *Service) ListTables() []TableInfo {
	defs := All()
	infos := make([]TableInfo, len(defs))
	for i, def := range defs {
		infos[i] = def.Info
	}
	return infos
}

// Ping checks database connectivity.
func (s *Service) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

// LatestRun returns the result of the most recent batch.
// Returns false if no batch has completed yet.
func (s *Service) LatestRun() (RunResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.latest == nil {
		return RunResult{}, false
	}
	return *s.latest, true
}

// RunFullRefresh rebuilds every silver table from bronze and returns the
// per-table outcome. It waits for any batch already running to finish first.
// Failures are reported through the result; it never panics.
func (s *Service) RunFullRefresh(ctx context.Context) RunResult {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	return s.run(ctx)
}

// TryRunFullRefresh is RunFullRefresh, except it returns ErrRefreshInProgress
// instead of waiting when another batch is running.
func (s *Service) TryRunFullRefresh(ctx context.Context) (RunResult, error) {
	if !s.runMu.TryLock() {
		return RunResult{}, ErrRefreshInProgress
	}
	defer s.runMu.Unlock()

	return s.run(ctx), nil
}

// run executes one batch. Callers must hold runMu.
func (s *Service) run(ctx context.Context) RunResult {
	RefreshInProgress.Set(1)
	defer RefreshInProgress.Set(0)

	runID := s.newRunID()
	ctx = logging.ContextWithRunID(ctx, runID)

	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	defs := All()
	runLog := NewRunLogger(ctx, s.now)
	runLog.BatchStarted(len(defs), s.opts.Parallel)

	bc := BuildContext{
		BronzeSchema: s.opts.BronzeSchema,
		Now:          runLog.Started(),
	}

	result := RunResult{
		RunID:  runID,
		Tables: make([]TableResult, len(defs)),
	}

	if s.opts.Parallel {
		s.runParallel(ctx, defs, bc, runLog, result.Tables)
	} else {
		s.runSequential(ctx, defs, bc, runLog, result.Tables)
	}

	runLog.BatchFinished(&result)

	s.mu.Lock()
	latest := result
	s.latest = &latest
	s.mu.Unlock()

	return result
}

// runSequential refreshes tables one after another in registry order.
func (s *Service) runSequential(ctx context.Context, defs []TableDefinition, bc BuildContext, runLog *RunLogger, results []TableResult) {
	failed := false
	for i, def := range defs {
		if failed && !s.opts.ContinueOnError {
			results[i] = skipped(def.Info, errAborted)
			runLog.Skip(&results[i])
			continue
		}

		results[i] = s.refreshTable(ctx, ctx, def, bc, runLog)
		if results[i].Status == StatusFailed {
			failed = true
		}
	}
}

// runParallel refreshes all tables concurrently, each in its own transaction.
// Unless ContinueOnError is set, the first failure cancels the others; their
// transactions roll back and they are reported as skipped.
func (s *Service) runParallel(ctx context.Context, defs []TableDefinition, bc BuildContext, runLog *RunLogger, results []TableResult) {
	g, gctx := errgroup.WithContext(ctx)
	if s.opts.ContinueOnError {
		g = &errgroup.Group{}
		gctx = ctx
	}

	for i, def := range defs {
		g.Go(func() error {
			res := s.refreshTable(gctx, ctx, def, bc, runLog)
			results[i] = res

			if res.Status == StatusFailed {
				return fmt.Errorf("%s: %w", def.Info.Key, res.err)
			}
			return nil
		})
	}

	// Failures are already recorded per table.
	_ = g.Wait()
}

// refreshTable builds and loads one table under ctx. Panics are recovered
// into a failed result. A table cancelled through ctx while batchCtx is still
// live was stopped by a sibling's failure and is reported skipped.
func (s *Service) refreshTable(ctx, batchCtx context.Context, def TableDefinition, bc BuildContext, runLog *RunLogger) (res TableResult) {
	res = TableResult{Table: def.Info.Key, Target: def.Info.Target}

	span := runLog.StartTable(ctx, def.Info)
	defer func() {
		if p := recover(); p != nil {
			res.fail(fmt.Errorf("panic: %v", p))
		}
		if res.Status == StatusFailed && errors.Is(res.err, context.Canceled) &&
			ctx.Err() != nil && batchCtx.Err() == nil {
			res.skip(errAborted)
		}
		span.Finish(&res)
	}()

	built, err := def.BuildRows(ctx, s.db, bc)
	if err != nil {
		res.fail(fmt.Errorf("build rows: %w", err))
		return res
	}
	res.Extracted = built.Extracted

	loaded, err := s.refresher.Refresh(ctx, def.Info, built.Rows)
	if err != nil {
		res.fail(err)
		return res
	}

	res.Loaded = loaded
	res.Status = StatusSucceeded
	return res
}

// fail marks the result failed and records the error description.
func (r *TableResult) fail(err error) {
	d := DescribeError(err)
	r.Status = StatusFailed
	r.err = err
	r.Error = d.Message
	r.ErrorCode = d.Code
	r.Severity = d.Severity
}

// skip marks the result skipped, keeping whatever was recorded so far.
func (r *TableResult) skip(err error) {
	r.fail(err)
	r.Status = StatusSkipped
}

// skipped returns a result for a table that was not attempted.
func skipped(info TableInfo, err error) TableResult {
	res := TableResult{Table: info.Key, Target: info.Target}
	res.skip(err)
	return res
}
