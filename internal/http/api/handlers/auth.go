package handlers

import (
	"net/http"
	"time"

	"github.com/demplar/character-vault/internal/config"
	"github.com/demplar/character-vault/internal/ratelimit"
	"github.com/demplar/character-vault/internal/session"
	"github.com/demplar/character-vault/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// AuthHandler serves login, logout, and session status.
type AuthHandler struct {
	store      *storage.Storage
	sessions   *session.Manager
	limiter    ratelimit.Limiter
	loginLimit int
	cookie     config.SessionConfig
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(store *storage.Storage, sessions *session.Manager, limiter ratelimit.Limiter, loginLimit int, cookie config.SessionConfig) *AuthHandler {
	return &AuthHandler{
		store:      store,
		sessions:   sessions,
		limiter:    limiter,
		loginLimit: loginLimit,
		cookie:     cookie,
	}
}

// loginRequest defines the login request body.
type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// userResponse is the public view of an account.
type userResponse struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Login validates credentials and issues a session cookie.
func (h *AuthHandler) Login(c *gin.Context) {
	if h.limiter != nil {
		res, errAllow := h.limiter.Allow(c.Request.Context(), "login:"+c.ClientIP(), h.loginLimit, time.Now())
		if errAllow == nil && !res.Allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"message": "Too many login attempts"})
			return
		}
	}

	var body loginRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Username and password are required"})
		return
	}

	user, errValidate := h.store.ValidateUser(c.Request.Context(), body.Username, body.Password)
	if errValidate != nil {
		log.WithError(errValidate).Error("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	sid, errCreate := h.sessions.Create(c.Request.Context(), user)
	if errCreate != nil {
		log.WithError(errCreate).Error("session creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Login failed"})
		return
	}

	h.setSessionCookie(c, sid, int(h.sessions.TTL().Seconds()))
	c.JSON(http.StatusOK, gin.H{"user": userResponse{
		ID:       user.ID,
		Username: user.Username,
		Role:     string(user.Role),
	}})
}

// Logout destroys the session behind the cookie, if any.
func (h *AuthHandler) Logout(c *gin.Context) {
	if sid, errCookie := c.Cookie(h.cookie.CookieName); errCookie == nil && sid != "" {
		if errDestroy := h.sessions.Destroy(c.Request.Context(), sid); errDestroy != nil {
			log.WithError(errDestroy).Warn("failed to destroy session on logout")
		}
	}
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Status reports whether the request carries a live session. Stale sessions
// whose user is gone are destroyed here as well.
func (h *AuthHandler) Status(c *gin.Context) {
	sid, errCookie := c.Cookie(h.cookie.CookieName)
	if errCookie != nil || sid == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	ctx := c.Request.Context()
	payload, errGet := h.sessions.Get(ctx, sid)
	if errGet != nil || payload == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	user, errUser := h.store.GetUser(ctx, payload.UserID)
	if errUser != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	if user == nil {
		if errDestroy := h.sessions.Destroy(ctx, sid); errDestroy != nil {
			log.WithError(errDestroy).Warn("failed to destroy stale session")
		}
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"user": userResponse{
			ID:       user.ID,
			Username: user.Username,
			Role:     string(user.Role),
		},
	})
}

// setSessionCookie writes the HTTP-only session cookie.
func (h *AuthHandler) setSessionCookie(c *gin.Context, sid string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.CookieName, sid, maxAge, "/", "", h.cookie.Secure, true)
}
