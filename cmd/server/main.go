package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gyaneshwarpardhi/tripplanner/internal/api"
	"github.com/gyaneshwarpardhi/tripplanner/internal/catalog"
	"github.com/gyaneshwarpardhi/tripplanner/internal/config"
	"github.com/gyaneshwarpardhi/tripplanner/internal/engine"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cfgPath := flag.String("config", "configs/catalog.yaml", "Path to catalog YAML config")
	debug := flag.Bool("debug", false, "Log per-plan search statistics")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// ── Load config ──────────────────────────────────────────────────────────
	loader, err := config.NewLoader(*cfgPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}
	cfg := loader.Config()
	if err := config.Validate(cfg); err != nil {
		slog.Error("config validation failed", "err", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ── Open catalog ─────────────────────────────────────────────────────────
	cat, err := catalog.Open(ctx, cfg)
	if err != nil {
		slog.Error("failed to open catalog", "driver", cfg.Store.Driver, "err", err)
		os.Exit(1)
	}
	slog.Info("catalog opened",
		"driver", cat.Driver,
		"cities", cat.Graph.CityCount(),
		"routes", cat.Graph.EdgeCount(),
	)

	// ── Engine ────────────────────────────────────────────────────────────────
	eng := engine.New(ctx, cat.Store, catalog.WeightsFromConfig(cfg.Scoring), cfg.Engine)
	catalogs := catalog.NewManager(cat, eng)

	travellers, err := cat.Travellers(ctx)
	if err != nil {
		slog.Error("failed to open traveller store", "err", err)
		os.Exit(1)
	}

	// ── Hot-reload watcher ────────────────────────────────────────────────────
	loader.OnChange(func(newCfg *config.Config) {
		if err := catalogs.Apply(ctx, newCfg); err != nil {
			slog.Warn("hot-reload skipped", "err", err)
		}
	})
	stopWatch, err := loader.Watch()
	if err != nil {
		slog.Warn("config watcher unavailable (hot-reload disabled)", "err", err)
	} else {
		defer stopWatch()
	}

	// ── HTTP server ───────────────────────────────────────────────────────────
	srv := &http.Server{
		Addr:         *addr,
		Handler:      api.New(eng, catalogs, loader, travellers),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down…")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()
	_ = srv.Shutdown(shutCtx)
	cancel()
	eng.Shutdown()
	if err := catalogs.Current().Close(); err != nil {
		slog.Warn("closing catalog", "err", err)
	}
	slog.Info("goodbye")
}
