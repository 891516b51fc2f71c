package handlers

import (
	"errors"
	"net/http"

	"github.com/demplar/character-vault/internal/models"
	"github.com/demplar/character-vault/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// SessionLogHandler serves session log endpoints.
type SessionLogHandler struct {
	store *storage.Storage
}

// NewSessionLogHandler constructs a SessionLogHandler.
func NewSessionLogHandler(store *storage.Storage) *SessionLogHandler {
	return &SessionLogHandler{store: store}
}

// ListByCharacter returns all logs for one character, newest first.
func (h *SessionLogHandler) ListByCharacter(c *gin.Context) {
	characterID, ok := parseID(c)
	if !ok {
		return
	}
	logs, errList := h.store.GetSessionLogs(c.Request.Context(), characterID)
	if errList != nil {
		log.WithError(errList).Error("failed to fetch session logs")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch session logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// Create records a new session log.
func (h *SessionLogHandler) Create(c *gin.Context) {
	var body models.SessionLogInsert
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid session log payload"})
		return
	}

	logEntry, errCreate := h.store.CreateSessionLog(c.Request.Context(), body)
	if errCreate != nil {
		var validationErr *storage.ValidationError
		if errors.As(errCreate, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Error()})
			return
		}
		log.WithError(errCreate).Error("failed to create session log")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create session log"})
		return
	}
	c.JSON(http.StatusCreated, logEntry)
}

// Update applies a partial patch to a session log.
func (h *SessionLogHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body models.SessionLogPatch
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid session log payload"})
		return
	}

	logEntry, errUpdate := h.store.UpdateSessionLog(c.Request.Context(), id, body)
	if errUpdate != nil {
		var validationErr *storage.ValidationError
		if errors.As(errUpdate, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Error()})
			return
		}
		log.WithError(errUpdate).Error("failed to update session log")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update session log"})
		return
	}
	if logEntry == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Session log not found"})
		return
	}
	c.JSON(http.StatusOK, logEntry)
}

// Delete removes a session log.
func (h *SessionLogHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	removed, errDelete := h.store.DeleteSessionLog(c.Request.Context(), id)
	if errDelete != nil {
		log.WithError(errDelete).Error("failed to delete session log")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete session log"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"message": "Session log not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session log deleted"})
}
