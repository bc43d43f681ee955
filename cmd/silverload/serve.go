package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/silverload/internal/core"
	"github.com/JonMunkholm/silverload/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the ops HTTP API and run scheduled refreshes",
	Long: `Serve exposes POST /api/refresh, GET /api/runs/latest, GET /api/tables,
GET /healthz and GET /metrics. When REFRESH_INTERVAL is set, a refresh also
runs on start and then on every interval.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := openPool(ctx, cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	service := core.NewService(pool, serviceOptions(cfg))
	slog.Info("tables registered", "count", core.TableCount())

	server := web.NewServer(service, cfg)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	if cfg.Refresh.Interval > 0 {
		go service.StartRefreshScheduler(jobCtx, cfg.Refresh.Interval)
	}

	// Graceful shutdown
	go func() {
		<-ctx.Done()
		slog.Info("shutting down...")

		// Stop background jobs
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	slog.Info("server stopped")
	return nil
}
