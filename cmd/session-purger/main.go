package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Apurer/go-gin-shop-api/internal/app/api"
	sessionspostgres "github.com/Apurer/go-gin-shop-api/internal/domains/sessions/adapters/persistence/postgres"
	platformpostgres "github.com/Apurer/go-gin-shop-api/internal/platform/postgres"
)

// Purges expired sessions once, or every SESSION_PURGE_INTERVAL_MINUTES when set.
func main() {
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	db, cleanup := platformpostgres.ConnectOrFallback(connectCtx, cfg.PostgresDSN, logger)
	cancel()
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge sessions")
	}

	store := sessionspostgres.NewSessionStore(db, cfg.SessionTTL)
	purge := func() {
		purgeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		removed, err := store.PurgeExpired(purgeCtx)
		if err != nil {
			logger.Error("failed to purge sessions", slog.String("error", err.Error()))
			return
		}
		logger.Info("session purge completed", slog.Int64("removed", removed))
	}

	purge()
	if cfg.SessionPurgeInterval <= 0 {
		return
	}
	ticker := time.NewTicker(cfg.SessionPurgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			purge()
		}
	}
}
