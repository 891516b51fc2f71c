package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/demplar/character-vault/internal/cache"
	"github.com/demplar/character-vault/internal/models"
	"github.com/demplar/character-vault/internal/storage"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// CharacterHandler serves character sheet endpoints.
type CharacterHandler struct {
	store *storage.Storage
	cache *cache.Client
}

// NewCharacterHandler constructs a CharacterHandler.
func NewCharacterHandler(store *storage.Storage, cacheClient *cache.Client) *CharacterHandler {
	return &CharacterHandler{store: store, cache: cacheClient}
}

// characterCacheKey builds the cache key for one character record.
func characterCacheKey(id uint64) string {
	return fmt.Sprintf("character:%d", id)
}

// List returns all characters, most recently active first.
func (h *CharacterHandler) List(c *gin.Context) {
	chars, errList := h.store.GetCharacters(c.Request.Context())
	if errList != nil {
		log.WithError(errList).Error("failed to fetch characters")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch characters"})
		return
	}
	c.JSON(http.StatusOK, chars)
}

// Search returns characters matching the q parameter. A blank query yields
// an empty list.
func (h *CharacterHandler) Search(c *gin.Context) {
	query := c.Query("q")
	chars, errSearch := h.store.SearchCharacters(c.Request.Context(), query)
	if errSearch != nil {
		log.WithError(errSearch).Error("failed to search characters")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to search characters"})
		return
	}
	c.JSON(http.StatusOK, chars)
}

// Get returns a single character by id.
func (h *CharacterHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	if h.cache.Enabled() {
		var cached models.Character
		hit, errCache := h.cache.Get(ctx, characterCacheKey(id), &cached)
		if errCache != nil {
			log.WithError(errCache).Warn("character cache read failed")
		} else if hit {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	ch, errGet := h.store.GetCharacter(ctx, id)
	if errGet != nil {
		log.WithError(errGet).Error("failed to fetch character")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch character"})
		return
	}
	if ch == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Character not found"})
		return
	}

	if errCache := h.cache.Set(ctx, characterCacheKey(id), ch); errCache != nil {
		log.WithError(errCache).Warn("character cache write failed")
	}
	c.JSON(http.StatusOK, ch)
}

// ListByPlayer returns the characters of one player by exact name.
func (h *CharacterHandler) ListByPlayer(c *gin.Context) {
	playerName := c.Param("playerName")
	chars, errList := h.store.GetCharactersByPlayer(c.Request.Context(), playerName)
	if errList != nil {
		log.WithError(errList).Error("failed to fetch characters by player")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch characters by player"})
		return
	}
	c.JSON(http.StatusOK, chars)
}

// Create makes a new character sheet.
func (h *CharacterHandler) Create(c *gin.Context) {
	var body models.CharacterInsert
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid character payload"})
		return
	}

	ch, errCreate := h.store.CreateCharacter(c.Request.Context(), body)
	if errCreate != nil {
		var validationErr *storage.ValidationError
		if errors.As(errCreate, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Error()})
			return
		}
		log.WithError(errCreate).Error("failed to create character")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create character"})
		return
	}
	c.JSON(http.StatusCreated, ch)
}

// Update applies a partial patch to a character.
func (h *CharacterHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var body models.CharacterPatch
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid character payload"})
		return
	}

	ctx := c.Request.Context()
	ch, errUpdate := h.store.UpdateCharacter(ctx, id, body)
	if errUpdate != nil {
		var validationErr *storage.ValidationError
		if errors.As(errUpdate, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"message": validationErr.Error()})
			return
		}
		log.WithError(errUpdate).Error("failed to update character")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to update character"})
		return
	}
	if ch == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "Character not found"})
		return
	}

	if errCache := h.cache.Delete(ctx, characterCacheKey(id)); errCache != nil {
		log.WithError(errCache).Warn("character cache invalidation failed")
	}
	c.JSON(http.StatusOK, ch)
}

// Delete removes a character and all of its session logs.
func (h *CharacterHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	removed, errDelete := h.store.DeleteCharacter(ctx, id)
	if errDelete != nil {
		log.WithError(errDelete).Error("failed to delete character")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to delete character"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"message": "Character not found"})
		return
	}

	if errCache := h.cache.Delete(ctx, characterCacheKey(id)); errCache != nil {
		log.WithError(errCache).Warn("character cache invalidation failed")
	}
	c.JSON(http.StatusOK, gin.H{"message": "Character deleted"})
}

// parseID reads the :id route parameter, writing a 400 on failure.
func parseID(c *gin.Context) (uint64, bool) {
	id, errParse := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid id"})
		return 0, false
	}
	return id, true
}
