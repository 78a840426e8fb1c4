// Package main is the entry point of the campus Q&A service.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/campus-qa/internal/adapters/http"
	"github.com/jsamuelsen/campus-qa/internal/adapters/http/handlers"
	"github.com/jsamuelsen/campus-qa/internal/adapters/storage"
	"github.com/jsamuelsen/campus-qa/internal/app"
	"github.com/jsamuelsen/campus-qa/internal/moderation"
	"github.com/jsamuelsen/campus-qa/internal/platform/config"
	"github.com/jsamuelsen/campus-qa/internal/platform/logging"
	"github.com/jsamuelsen/campus-qa/internal/platform/telemetry"
	"github.com/jsamuelsen/campus-qa/internal/ports"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// 1. Profile from environment
	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	// 2. Configuration (fail fast)
	cfg, err := config.Load(profile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// 3. Logging
	logger := logging.New(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	})
	logging.SetDefault(logger)

	logger.Info("starting service",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("backend", cfg.Store.Backend),
	)

	// 4. Telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
	})
	if err != nil {
		return fmt.Errorf("initializing telemetry: %w", err)
	}

	defer func() {
		if shutdownErr := telProvider.Shutdown(ctx); shutdownErr != nil {
			logger.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	storeMetrics, err := telemetry.NewStoreMetrics()
	if err != nil {
		return fmt.Errorf("creating store metrics: %w", err)
	}

	// 5. Storage backend, doubling as the readiness check
	blobs, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("opening %s storage: %w", cfg.Store.Backend, err)
	}

	defer func() {
		if closeErr := blobs.Close(); closeErr != nil {
			logger.Error("closing storage", slog.Any("error", closeErr))
		}
	}()

	healthRegistry := ports.NewHealthRegistry()
	if err := healthRegistry.Register(blobs); err != nil {
		return fmt.Errorf("registering storage health check: %w", err)
	}

	// 6. Banned words: persisted list, overridden by the words file
	wordList := moderation.NewWordList(moderation.DefaultWords...)
	bannedWords := app.NewBannedWords(app.BannedWordsConfig{List: wordList, Blobs: blobs, Logger: logger})

	if err := bannedWords.Load(ctx); err != nil {
		return err
	}

	watcher, err := startWordsWatcher(ctx, cfg.Moderation, wordList, bannedWords, logger)
	if err != nil {
		return err
	}

	if watcher != nil {
		defer watcher.Stop()
	}

	// 7. Content store
	store := app.NewContentStore(app.ContentStoreConfig{
		Blobs:         blobs,
		Filter:        wordList,
		StrictReplies: cfg.Store.StrictReplies,
		Metrics:       storeMetrics,
		Logger:        logger,
	})

	if err := store.Init(ctx); err != nil {
		return fmt.Errorf("loading content: %w", err)
	}

	err = telemetry.RegisterCollectionGauges(prometheus.DefaultRegisterer, func() (int, int, int, int) {
		s := store.Stats()
		return s.Questions, s.Replies, s.Tags, wordList.Len()
	})
	if err != nil {
		return fmt.Errorf("registering gauges: %w", err)
	}

	// 8. HTTP server and routes
	server := http.New(&cfg.Server, logger)

	http.SetupRouter(server.Engine(), http.RouterConfig{
		Logger:            logger,
		AppName:           cfg.App.Name,
		AdminPasswordHash: cfg.Admin.PasswordHash,
		Health:            handlers.NewHealthHandler(healthRegistry, handlers.NewBuildInfo(Version, Commit, BuildTime)),
		Questions:         handlers.NewQuestionHandler(store, cfg.API.DefaultPageSize),
		Replies:           handlers.NewReplyHandler(store, cfg.API.MaxReplyDepth),
		Tags:              handlers.NewTagHandler(store),
		Admin:             handlers.NewAdminHandler(store, bannedWords),
		Timeout:           http.DefaultRequestTimeout,
	})

	serverErr, err := server.Start()
	if err != nil {
		return err
	}

	// 9. Wait for a signal, then drain and flush
	shutdownErr := waitForShutdown(ctx, logger, server, serverErr, cfg.Server.ShutdownTimeout)

	flushCtx, cancel := context.WithTimeout(ctx, cfg.Server.ShutdownTimeout)
	defer cancel()

	return errors.Join(shutdownErr, store.Flush(flushCtx))
}

// startWordsWatcher applies moderation.words_file over the persisted list
// and, when watch is on, follows later edits. It returns nil when no file
// is configured.
func startWordsWatcher(
	ctx context.Context,
	cfg config.ModerationConfig,
	list *moderation.WordList,
	banned *app.BannedWords,
	logger *slog.Logger,
) (*moderation.Watcher, error) {
	if cfg.WordsFile == "" {
		return nil, nil
	}

	words, err := moderation.LoadFile(cfg.WordsFile)
	if err != nil {
		return nil, fmt.Errorf("loading words file: %w", err)
	}

	banned.Sync(ctx, words)
	logger.Info("banned words loaded from file",
		slog.String("path", cfg.WordsFile),
		slog.Int("count", list.Len()),
	)

	if !cfg.Watch {
		return nil, nil
	}

	watcher, err := moderation.NewWatcher(moderation.WatcherConfig{
		Path:     cfg.WordsFile,
		List:     list,
		Debounce: cfg.Debounce,
		OnReload: func(words []string) { banned.Sync(context.WithoutCancel(ctx), words) },
		Logger:   logger,
	})
	if err != nil {
		return nil, err
	}

	if err := watcher.Start(ctx); err != nil {
		return nil, err
	}

	return watcher, nil
}

func waitForShutdown(
	ctx context.Context,
	logger *slog.Logger,
	server *http.Server,
	serverErr <-chan error,
	shutdownTimeout time.Duration,
) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-quit:
		logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	logger.Info("initiating graceful shutdown", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	logger.Info("shutdown complete")

	return nil
}
