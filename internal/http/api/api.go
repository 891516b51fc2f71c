// Package api composes the HTTP surface from the storage gateway, the
// session manager, and the authorization gates.
package api

import (
	"github.com/demplar/character-vault/internal/cache"
	"github.com/demplar/character-vault/internal/config"
	"github.com/demplar/character-vault/internal/http/api/handlers"
	"github.com/demplar/character-vault/internal/ratelimit"
	"github.com/demplar/character-vault/internal/roles"
	"github.com/demplar/character-vault/internal/session"
	"github.com/demplar/character-vault/internal/storage"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRoutes wires every endpoint and its gate onto the engine.
func RegisterRoutes(r *gin.Engine, conn *gorm.DB, store *storage.Storage, sessions *session.Manager, cacheClient *cache.Client, cfg config.Config) {
	if r == nil || store == nil || sessions == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(conn)
	r.GET("/healthz", healthHandler.Healthz)

	apiGroup := r.Group("/api")

	cookieName := cfg.Session.CookieName
	authed := requireAuth(store, sessions, cookieName)
	master := func(capability roles.Capability) gin.HandlerFunc {
		return requireCapability(store, sessions, cookieName, capability)
	}

	loginLimiter := ratelimit.NewMemoryLimiter(0)
	authHandler := handlers.NewAuthHandler(store, sessions, loginLimiter, cfg.LoginRateLimit, cfg.Session)
	apiGroup.POST("/login", authHandler.Login)
	apiGroup.POST("/logout", authHandler.Logout)
	apiGroup.GET("/auth/status", authHandler.Status)

	characterHandler := handlers.NewCharacterHandler(store, cacheClient)
	apiGroup.GET("/characters", authed, characterHandler.List)
	apiGroup.GET("/characters/search", authed, characterHandler.Search)
	apiGroup.GET("/characters/:id", authed, characterHandler.Get)
	apiGroup.GET("/characters/player/:playerName", authed, characterHandler.ListByPlayer)
	apiGroup.POST("/characters", master(roles.CapManageCharacters), characterHandler.Create)
	apiGroup.PATCH("/characters/:id", master(roles.CapManageCharacters), characterHandler.Update)
	apiGroup.DELETE("/characters/:id", master(roles.CapManageCharacters), characterHandler.Delete)

	sessionLogHandler := handlers.NewSessionLogHandler(store)
	apiGroup.GET("/characters/:id/session-logs", authed, sessionLogHandler.ListByCharacter)
	apiGroup.POST("/session-logs", master(roles.CapManageSessionLogs), sessionLogHandler.Create)
	apiGroup.PATCH("/session-logs/:id", master(roles.CapManageSessionLogs), sessionLogHandler.Update)
	apiGroup.DELETE("/session-logs/:id", master(roles.CapManageSessionLogs), sessionLogHandler.Delete)
}
