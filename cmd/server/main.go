package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/playperu/bracket/internal/config"
	"github.com/playperu/bracket/internal/database"
	"github.com/playperu/bracket/internal/handler/health"
	"github.com/playperu/bracket/internal/kv"
	"github.com/playperu/bracket/internal/levels"
	"github.com/playperu/bracket/internal/migrations"
	"github.com/playperu/bracket/internal/results"
	"github.com/playperu/bracket/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- Store ---
	backend, err := openBackend(ctx, cfg)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.StoreBackend, err)
	}
	defer backend.Close()
	logger.Info("results store ready", "backend", cfg.StoreBackend, "key", cfg.StoreKey)

	broker := server.NewBroker()
	svc := results.NewService(results.NewKVStore(backend, cfg.StoreKey), broker, logger)

	// --- Levels ---
	var (
		levelsSrc server.LevelsSource
		watcher   *levels.Source
	)
	if cfg.LevelsPath != "" {
		src, err := levels.NewSource(cfg.LevelsPath, logger)
		if err != nil {
			return fmt.Errorf("loading levels: %w", err)
		}
		levelsSrc = src
		if cfg.WatchLevels {
			watcher = src
		}
		logger.Info("levels dataset loaded", "path", cfg.LevelsPath, "categories", len(src.Dataset()))
	}

	// --- Auth ---
	if !cfg.EditingEnabled() {
		logger.Warn("no edit key configured, all writes will be rejected")
	}
	var limiter *rate.Limiter
	if cfg.WriteRatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.WriteRatePerSec), cfg.WriteBurst)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, server.Deps{
		Results:    svc,
		Broker:     broker,
		Levels:     levelsSrc,
		Origins:    server.NewOriginPolicy(cfg.AllowedOrigins),
		EditKey:    server.NewEditKey(cfg.EditKey, cfg.EditKeyHash),
		Checks:     map[string]health.Checker{"store": health.CheckFunc(backend.Ping)},
		WriteLimit: limiter,
		StaticDir:  cfg.StaticDir,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	if watcher != nil {
		g.Go(func() error {
			logger.Info("watching levels dataset", "path", cfg.LevelsPath)
			return watcher.Watch(gctx)
		})
	}

	return g.Wait()
}

func openBackend(ctx context.Context, cfg *config.Config) (kv.Backend, error) {
	switch cfg.StoreBackend {
	case config.BackendLibSQL:
		db, err := database.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, err
		}
		if _, err := migrations.Run(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		return kv.NewSQL(db), nil
	case config.BackendFile:
		return kv.NewFile(cfg.DataDir)
	case config.BackendRedis:
		return kv.OpenRedis(ctx, cfg.RedisURL, cfg.StoreNamespace)
	case config.BackendPostgres:
		return kv.OpenPostgres(ctx, cfg.DatabaseURL)
	case config.BackendMemory:
		return kv.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.StoreBackend)
	}
}
