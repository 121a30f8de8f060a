package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"findash/internal/gateway/allowlist"
	"findash/internal/gateway/cache"
	"findash/internal/gateway/config"
	"findash/internal/gateway/handler"
	"findash/internal/gateway/ratelimit"
	"findash/internal/gateway/server"
	"findash/internal/gateway/service/proxy"
	"findash/internal/gateway/upstream"
)

type App struct {
	server *server.Server
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	// Dependencies
	store, err := newStore(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open response cache: %w", err)
	}
	limiter := ratelimit.New(cfg.RateLimit.Window, cfg.RateLimit.MaxRequests, cfg.RateLimit.MaxClients)
	checker := allowlist.New(cfg.ExtraDomains...)
	fetcher := upstream.NewFetcher(cfg.Upstream.Timeout, cfg.Upstream.Rules, logger)
	svc := proxy.New(checker, limiter, store, fetcher, logger)
	proxyHandler := handler.NewProxyHandler(svc, logger)

	// Routing & Server
	mux := server.NewMux(proxyHandler)
	srv := server.New(cfg.Port, mux)

	return &App{
		server: srv,
	}, nil
}

func newStore(cfg *config.Config, logger *slog.Logger) (cache.Store, error) {
	if cfg.Cache.Dir != "" {
		return cache.NewDisk(cfg.Cache.Dir, cfg.Cache.MaxEntries, cfg.Cache.TTL, logger)
	}
	return cache.NewMemory(cfg.Cache.MaxEntries, cfg.Cache.TTL), nil
}

func (a *App) Start() error {
	return a.server.Start()
}

func (a *App) Shutdown(ctx context.Context) error {
	return a.server.Shutdown(ctx)
}
