// Package app boots the character vault server from resolved configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/demplar/character-vault/internal/cache"
	"github.com/demplar/character-vault/internal/config"
	"github.com/demplar/character-vault/internal/db"
	"github.com/demplar/character-vault/internal/http/api"
	"github.com/demplar/character-vault/internal/session"
	"github.com/demplar/character-vault/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// sweepInterval is how often expired sessions are purged.
const sweepInterval = time.Hour

// shutdownTimeout bounds the drain period on graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Migrate opens the database and brings the schema up to date.
func Migrate(ctx context.Context, cfg config.Config) error {
	conn, errOpen := db.Open(cfg.DatabaseDSN)
	if errOpen != nil {
		return errOpen
	}
	return db.Migrate(conn)
}

// RunServer migrates, bootstraps the default account, and serves the API
// until the context ends.
func RunServer(ctx context.Context, cfg config.Config) error {
	conn, errOpen := db.Open(cfg.DatabaseDSN)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	store := storage.New(conn)
	if errBootstrap := store.InitializeDefaultUser(ctx, cfg.Bootstrap.Username, cfg.Bootstrap.Password); errBootstrap != nil {
		return errBootstrap
	}

	sessions := session.NewManager(conn, cfg.Session.TTL)
	sessions.StartSweeper(ctx, sweepInterval)

	cacheClient, errCache := cache.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, 0)
	if errCache != nil {
		return errCache
	}
	if cacheClient.Enabled() {
		log.Infof("character cache enabled via redis at %s", cfg.Redis.Addr)
	}

	if cfg.Prod {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	api.RegisterRoutes(engine, conn, store, sessions, cacheClient, cfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: engine,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if errShutdown := srv.Shutdown(shutdownCtx); errShutdown != nil {
			log.WithError(errShutdown).Warn("server shutdown failed")
		}
	}()

	log.Infof("character vault listening on :%d", cfg.Port)
	if errServe := srv.ListenAndServe(); errServe != nil && !errors.Is(errServe, http.ErrServerClosed) {
		return errServe
	}
	return nil
}
