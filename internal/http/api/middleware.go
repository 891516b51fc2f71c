package api

import (
	"net/http"

	"github.com/demplar/character-vault/internal/models"
	"github.com/demplar/character-vault/internal/roles"
	"github.com/demplar/character-vault/internal/session"
	"github.com/demplar/character-vault/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// userContextKey is where the resolved user lives in the gin context.
const userContextKey = "currentUser"

// CurrentUser returns the user attached by the auth gate, or nil.
func CurrentUser(c *gin.Context) *models.User {
	value, ok := c.Get(userContextKey)
	if !ok {
		return nil
	}
	user, ok := value.(*models.User)
	if !ok {
		return nil
	}
	return user
}

// requireAuth resolves the session cookie to a live user and attaches it to
// the request context. Sessions whose user no longer exists are destroyed
// on the spot. The chain is aborted with 401 when no live user resolves.
func requireAuth(store *storage.Storage, sessions *session.Manager, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, errCookie := c.Cookie(cookieName)
		if errCookie != nil || sid == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}

		ctx := c.Request.Context()
		payload, errGet := sessions.Get(ctx, sid)
		if errGet != nil {
			log.WithError(errGet).Error("session lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Session lookup failed"})
			return
		}
		if payload == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
			return
		}

		user, errUser := store.GetUser(ctx, payload.UserID)
		if errUser != nil {
			log.WithError(errUser).Error("user lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "User lookup failed"})
			return
		}
		if user == nil {
			// The account behind this session is gone; purge the session.
			if errDestroy := sessions.Destroy(ctx, sid); errDestroy != nil {
				log.WithError(errDestroy).Warn("failed to destroy stale session")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid session"})
			return
		}

		c.Set(userContextKey, user)
	}
}

// requireCapability composes the auth gate with a role capability check.
func requireCapability(store *storage.Storage, sessions *session.Manager, cookieName string, capability roles.Capability) gin.HandlerFunc {
	auth := requireAuth(store, sessions, cookieName)
	return func(c *gin.Context) {
		auth(c)
		if c.IsAborted() {
			return
		}
		user := CurrentUser(c)
		if user == nil || !user.Role.Has(capability) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Master access required"})
			return
		}
	}
}
