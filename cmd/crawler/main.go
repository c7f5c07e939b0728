package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ksj1368/er-crawler/internal/app"
	"github.com/ksj1368/er-crawler/internal/config"
	"github.com/ksj1368/er-crawler/internal/observability"
	"github.com/ksj1368/er-crawler/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		os.Exit(1)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownUptrace(ctx); err != nil {
			logger.Error("shutdown uptrace", "error", err)
		}
	}()

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := stopPyroscope(); err != nil {
			logger.Error("stop pyroscope", "error", err)
		}
	}()

	crawler, err := app.NewCrawler(cfg, logger)
	if err != nil {
		logger.Error("build crawler", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := crawler.Close(); err != nil {
			logger.Error("close crawler", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := crawler.Run(ctx)
	if err != nil {
		logger.Error("collection run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("collection run complete",
		"users", summary.Users,
		"discovered", summary.Discovered,
		"new", summary.New,
		"saved", summary.Pipeline.Saved,
		"skipped", summary.Pipeline.Skipped,
		"failed", summary.Pipeline.Failed,
		"elapsed", summary.Elapsed,
	)
}
