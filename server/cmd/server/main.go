package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farmwatch/farmwatch/server/internal/alerts"
	"github.com/farmwatch/farmwatch/server/internal/api"
	"github.com/farmwatch/farmwatch/server/internal/auth"
	"github.com/farmwatch/farmwatch/server/internal/config"
	"github.com/farmwatch/farmwatch/server/internal/metrics"
	"github.com/farmwatch/farmwatch/server/internal/receiver"
	"github.com/farmwatch/farmwatch/server/internal/store"
	"github.com/farmwatch/farmwatch/server/internal/ws"
)

// streamInterval is how often the WebSocket hub rebroadcasts the record list.
const streamInterval = 5 * time.Second

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("farmwatch-server starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"expiry", cfg.Server.Expiry,
		"auth_mode", cfg.Server.Auth.Mode,
		"alert_rules", len(cfg.Server.Alerts.Rules),
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Record store with background TTL sweep.
	st := store.New(cfg.Server.Expiry)
	go st.Run(ctx)
	metrics.RegisterStoreSize(st.Count)

	// Alerts engine — evaluates rules on every ingested record.
	alertEngine := alerts.New(cfg.Server.Alerts)

	// WebSocket hub — broadcasts the fresh record list to clients.
	hub := ws.New(st, streamInterval)
	go hub.Run(ctx)

	// Config hot-reload: alert rules apply live, the rest needs a restart.
	go func() {
		if err := config.Watch(ctx, *configPath, func(updated *config.Config) {
			alertEngine.SetRules(updated.Server.Alerts)
			slog.Info("alert rules reloaded", "rules", len(updated.Server.Alerts.Rules))
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	ingestAuth := auth.APIKey(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)

	apiHandler := api.New(st, alertEngine)

	mux := http.NewServeMux()
	mux.Handle("/receive", ingestAuth(receiver.New(st, alertEngine)))
	mux.Handle("/messages", apiHandler)
	mux.Handle("/health", apiHandler)
	mux.Handle("/alerts", apiHandler)
	mux.Handle("/ws/stream", hub)
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: mux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("farmwatch-server shutting down")
	srv.Shutdown(context.Background()) //nolint:errcheck
}
