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

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farmwatch/farmwatch/collector/internal/config"
	"github.com/farmwatch/farmwatch/collector/internal/gateway"
	"github.com/farmwatch/farmwatch/collector/internal/shipper"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Optional .env file for local runs; real deployments set the
	// environment directly.
	if err := godotenv.Load(); err == nil {
		slog.Info("loaded .env file")
	}

	slog.Info("farmwatch-collector starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"channel_id", cfg.Collector.ChannelID,
		"server_endpoint", cfg.Collector.ServerEndpoint,
		"metrics_port", cfg.Collector.MetricsPort,
	)

	if cfg.Collector.Token() == "" {
		slog.Warn("gateway token is empty; the gateway will reject the session",
			"token_env", cfg.Collector.TokenEnv)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sh := shipper.New(cfg.Collector)
	gw := gateway.New(cfg.Collector, sh)

	// Connection settings are bound at construction, so a reload only
	// takes effect after a restart. Watch anyway so operators see that
	// their edit parsed.
	go func() {
		if err := config.Watch(ctx, *configPath, func(*config.Config) {
			slog.Info("config file changed; restart to apply")
		}); err != nil {
			slog.Error("config watcher stopped", "err", err)
		}
	}()

	var metricsSrv *http.Server
	if cfg.Collector.MetricsPort > 0 {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Collector.MetricsPort),
			Handler: mux,
		}
		go func() {
			slog.Info("metrics server listening", "port", cfg.Collector.MetricsPort)
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("metrics server stopped", "err", err)
			}
		}()
	}

	go gw.Run(ctx)

	<-ctx.Done()
	slog.Info("farmwatch-collector shutting down")
	if metricsSrv != nil {
		metricsSrv.Shutdown(context.Background()) //nolint:errcheck
	}
}
