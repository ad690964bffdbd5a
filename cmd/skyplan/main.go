package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/skyplan/skyplan/internal/api"
	"github.com/skyplan/skyplan/internal/auth"
	"github.com/skyplan/skyplan/internal/catalog"
	"github.com/skyplan/skyplan/internal/metrics"
	"github.com/skyplan/skyplan/internal/plancache"
	"github.com/skyplan/skyplan/internal/ranking"
	"github.com/skyplan/skyplan/internal/stream"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	addr := os.Getenv("SKYPLAN_HTTP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	authCfg, err := loadAuthConfig(logger)
	if err != nil {
		logger.Error("invalid auth configuration", "error", err)
		os.Exit(1)
	}

	store := catalog.NewStore()
	loadCatalog(store, logger)

	cacheCfg := loadCacheConfig(logger)
	planCache := plancache.New(cacheCfg, logger)

	workers := loadRankingWorkers(logger)
	pool := ranking.NewPool(workers, logger)

	streamCfg := loadStreamConfig(logger)
	streamHandler := stream.NewHandler(store, streamCfg, logger)

	srv := api.NewServer(addr, store, planCache, pool, streamHandler, logger, authCfg)

	// Graceful shutdown on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start cache eviction loop.
	go planCache.Start(ctx)

	go func() {
		logger.Info("starting server", "addr", addr, "auth_enabled", authCfg.Enabled, "targets", store.Count())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server listen error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.HTTPServer().Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// loadCatalog fills the store from SKYPLAN_CATALOG_PATH when set, falling
// back to the built-in catalog.
func loadCatalog(store *catalog.Store, logger *slog.Logger) {
	path := os.Getenv("SKYPLAN_CATALOG_PATH")
	if path == "" {
		targets := catalog.Builtin()
		store.Set(&catalog.Dataset{
			Source:   "builtin",
			LoadedAt: time.Now().UTC(),
			Targets:  targets,
		})
		metrics.SetCatalogTargets(len(targets))
		logger.Info("loaded built-in catalog", "count", len(targets))
		return
	}

	f, err := os.Open(path)
	if err != nil {
		logger.Error("could not open catalog file", "path", path, "error", err)
		os.Exit(1)
	}
	defer f.Close()

	targets, err := catalog.Parse(f, logger)
	if err != nil {
		logger.Error("could not parse catalog file", "path", path, "error", err)
		os.Exit(1)
	}

	store.Set(&catalog.Dataset{
		Source:   path,
		LoadedAt: time.Now().UTC(),
		Targets:  targets,
	})
	metrics.SetCatalogTargets(len(targets))
	logger.Info("loaded catalog file", "path", path, "count", len(targets))
}

func loadAuthConfig(logger *slog.Logger) (auth.Config, error) {
	cfg := auth.Config{}

	enabledStr := os.Getenv("SKYPLAN_AUTH_ENABLED")
	if enabledStr != "" {
		enabled, err := strconv.ParseBool(enabledStr)
		if err != nil {
			return cfg, errors.New("SKYPLAN_AUTH_ENABLED must be a boolean value (true/false/1/0)")
		}
		cfg.Enabled = enabled
	}

	if cfg.Enabled {
		cfg.Token = os.Getenv("SKYPLAN_AUTH_TOKEN")
		if cfg.Token == "" {
			return cfg, errors.New("SKYPLAN_AUTH_TOKEN is required when auth is enabled")
		}
		logger.Info("auth enabled")
	}

	return cfg, nil
}

func loadCacheConfig(logger *slog.Logger) plancache.Config {
	cfg := plancache.Config{
		TTL:           time.Hour,
		MaxEntries:    4096,
		SweepInterval: time.Minute,
	}

	if v := os.Getenv("SKYPLAN_CACHE_TTL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid SKYPLAN_CACHE_TTL value, using default", "value", v, "default", 3600)
		} else {
			cfg.TTL = time.Duration(n) * time.Second
		}
	}

	if v := os.Getenv("SKYPLAN_CACHE_MAX_ENTRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid SKYPLAN_CACHE_MAX_ENTRIES value, using default", "value", v, "default", 4096)
		} else {
			cfg.MaxEntries = n
		}
	}

	if v := os.Getenv("SKYPLAN_CACHE_SWEEP_INTERVAL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid SKYPLAN_CACHE_SWEEP_INTERVAL value, using default", "value", v, "default", 60)
		} else {
			cfg.SweepInterval = time.Duration(n) * time.Second
		}
	}

	return cfg
}

func loadRankingWorkers(logger *slog.Logger) int {
	workers := runtime.NumCPU()

	if v := os.Getenv("SKYPLAN_RANKING_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid SKYPLAN_RANKING_WORKERS value, using default", "value", v, "default", workers)
		} else {
			workers = n
		}
	}

	logger.Info("ranking config", "workers", workers)
	return workers
}

func loadStreamConfig(logger *slog.Logger) stream.Config {
	cfg := stream.Config{
		MaxConcurrentPerIP: 10,
		KeepaliveInterval:  30 * time.Second,
	}

	if v := os.Getenv("SKYPLAN_STREAM_MAX_CONCURRENT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid SKYPLAN_STREAM_MAX_CONCURRENT value, using default", "value", v, "default", 10)
		} else {
			cfg.MaxConcurrentPerIP = n
		}
	}

	if v := os.Getenv("SKYPLAN_STREAM_KEEPALIVE_INTERVAL"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			logger.Warn("invalid SKYPLAN_STREAM_KEEPALIVE_INTERVAL value, using default", "value", v, "default", 30)
		} else {
			cfg.KeepaliveInterval = time.Duration(n) * time.Second
		}
	}

	logger.Info("stream config",
		"max_concurrent_per_ip", cfg.MaxConcurrentPerIP,
		"keepalive_interval_seconds", cfg.KeepaliveInterval.Seconds(),
	)

	return cfg
}
