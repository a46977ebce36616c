package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/hamed0406/statusdash/internal/config"
	"github.com/hamed0406/statusdash/internal/httpapi"
	"github.com/hamed0406/statusdash/internal/logging"
	"github.com/hamed0406/statusdash/internal/probe"
	"github.com/hamed0406/statusdash/internal/repo/memory"
	"github.com/hamed0406/statusdash/internal/scheduler"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Poll checks and serve the dashboard (default)",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := loadSettings()
	logger, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	doc, err := config.LoadDocument(cfg.ConfigPath)
	if err != nil {
		logger.Error("config_load_failed", zap.String("path", cfg.ConfigPath), zap.Error(err))
		return err
	}
	for _, id := range doc.KeywordlessChecks() {
		logger.Warn("keyword_missing",
			zap.String("environment", id.Environment),
			zap.String("check", id.Check),
		)
	}

	checks := doc.Checks()
	cache := memory.New()
	poller := scheduler.NewPoller(logger, checks, cache,
		probe.NewDispatcher(probe.DefaultTimeout),
		doc.StaleAfter(), cfg.PollInterval, cfg.PollConcurrency)

	api := httpapi.NewServer(logger, doc.ProjectName, checks, cache)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Router(cfg.PublicRPM, cfg.PublicBurst),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("config_loaded",
		zap.String("project", doc.ProjectName),
		zap.Int("checks", len(checks)),
		zap.Duration("stale_after", doc.StaleAfter()),
	)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return serve(ctx, logger, srv, poller)
}

// serve runs the poller and the HTTP server until ctx is done or the
// listener fails, then shuts both down.
func serve(ctx context.Context, logger *zap.Logger, srv *http.Server, poller *scheduler.Poller) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		poller.Run(runCtx)
	}()

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("api_listen", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	var err error
	select {
	case <-runCtx.Done():
		logger.Info("shutdown_requested")
	case err = <-listenErr:
		logger.Error("api_listen_failed", zap.Error(err))
	}
	cancel()

	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	err = multierr.Append(err, srv.Shutdown(shutdownCtx))
	wg.Wait()

	logger.Info("shutdown_complete", zap.Error(err))
	return err
}
