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

	"github.com/cardrelay/cardrelay/internal/api"
	"github.com/cardrelay/cardrelay/internal/auth"
	"github.com/cardrelay/cardrelay/internal/config"
	"github.com/cardrelay/cardrelay/internal/metrics"
	"github.com/cardrelay/cardrelay/internal/notify"
	"github.com/cardrelay/cardrelay/internal/store"
	"github.com/cardrelay/cardrelay/internal/webhook"
	"github.com/cardrelay/cardrelay/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional; defaults are used when empty)")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	slog.Info("cardrelay starting", "config", *configPath)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		os.Exit(1)
	}

	url := cfg.Server.Webhook.URL()
	if url == "" {
		slog.Error("webhook URL environment variable not set",
			"env", cfg.Server.Webhook.URLEnv)
		os.Exit(1)
	}

	slog.Info("config loaded",
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"webhook_url_env", cfg.Server.Webhook.URLEnv,
		"history_capacity", cfg.Server.History.Capacity,
		"history_retention", cfg.Server.History.Retention,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Record history with background retention eviction.
	st := store.New(cfg.Server.History.Capacity, cfg.Server.History.Retention)
	go st.Run(ctx)

	// WebSocket hub streams each processed record to connected clients.
	hub := ws.New(st)
	go hub.Run(ctx)

	reg := metrics.New()
	sender := webhook.New(url, cfg.Server.Webhook.Timeout)
	relay := notify.New(sender, st, hub, reg)

	// Optional API key authentication on the REST API.
	authMW := auth.APIKeyMiddleware(
		cfg.Server.Auth.Mode,
		cfg.Server.Auth.EffectiveHeader(),
		cfg.Server.Auth.Key(),
	)

	// Combined HTTP server: REST API + WebSocket stream + metrics.
	httpMux := http.NewServeMux()
	httpMux.Handle("/api/", authMW(api.New(relay, st)))
	httpMux.Handle("/ws/stream", hub)
	httpMux.Handle("/metrics", reg)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler: httpMux,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("cardrelay shutting down")
	httpSrv.Shutdown(context.Background()) //nolint:errcheck
}
