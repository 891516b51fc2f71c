package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/demplar/character-vault/internal/models"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// GetSessionLogs returns the logs for one character, newest first.
func (s *Storage) GetSessionLogs(ctx context.Context, characterID uint64) ([]models.SessionLog, error) {
	out := []models.SessionLog{}
	errFind := s.db.WithContext(ctx).
		Where("character_id = ?", characterID).
		Order("created_at DESC").
		Find(&out).Error
	if errFind != nil {
		return nil, fmt.Errorf("storage: list session logs: %w", errFind)
	}
	return out, nil
}

// CreateSessionLog persists a new log entry and returns the stored record.
func (s *Storage) CreateSessionLog(ctx context.Context, in models.SessionLogInsert) (*models.SessionLog, error) {
	if errValidate := validateSessionLogInsert(&in); errValidate != nil {
		return nil, errValidate
	}

	logEntry := models.SessionLog{
		CharacterID: in.CharacterID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		XPGained:    intOr(in.XPGained, 0),
		Duration:    in.Duration,
		Tags:        datatypes.NewJSONSlice(sliceOr(in.Tags)),
		SessionDate: in.SessionDate,
		CreatedAt:   time.Now().UTC(),
	}
	if errCreate := s.db.WithContext(ctx).Create(&logEntry).Error; errCreate != nil {
		log.WithError(errCreate).Error("session log creation failed")
		return nil, errors.New("storage: create session log failed")
	}
	return &logEntry, nil
}

// UpdateSessionLog applies a partial patch. The patch cannot carry the log
// id. Returns nil when no log matched.
func (s *Storage) UpdateSessionLog(ctx context.Context, id uint64, patch models.SessionLogPatch) (*models.SessionLog, error) {
	if errValidate := validateSessionLogPatch(&patch); errValidate != nil {
		return nil, errValidate
	}

	updates := map[string]any{}
	if patch.CharacterID != nil {
		updates["character_id"] = *patch.CharacterID
	}
	if patch.Title != nil {
		updates["title"] = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.XPGained != nil {
		updates["xp_gained"] = *patch.XPGained
	}
	if patch.Duration != nil {
		updates["duration"] = *patch.Duration
	}
	if patch.Tags != nil {
		updates["tags"] = datatypes.NewJSONSlice(patch.Tags)
	}
	if patch.SessionDate != nil {
		updates["session_date"] = *patch.SessionDate
	}
	if len(updates) == 0 {
		// Nothing to write; report existence only.
		existing, errGet := s.getSessionLog(ctx, id)
		if errGet != nil {
			return nil, errGet
		}
		return existing, nil
	}

	res := s.db.WithContext(ctx).
		Model(&models.SessionLog{}).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return nil, fmt.Errorf("storage: update session log: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return s.getSessionLog(ctx, id)
}

// DeleteSessionLog removes one log entry. Reports whether a row was removed.
func (s *Storage) DeleteSessionLog(ctx context.Context, id uint64) (bool, error) {
	res := s.db.WithContext(ctx).Delete(&models.SessionLog{}, id)
	if res.Error != nil {
		return false, fmt.Errorf("storage: delete session log: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// getSessionLog fetches one log by id, nil when absent.
func (s *Storage) getSessionLog(ctx context.Context, id uint64) (*models.SessionLog, error) {
	var logEntry models.SessionLog
	errFind := s.db.WithContext(ctx).First(&logEntry, id).Error
	if errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("storage: get session log: %w", errFind)
	}
	return &logEntry, nil
}

// validateSessionLogInsert rejects malformed log creation payloads.
func validateSessionLogInsert(in *models.SessionLogInsert) error {
	if in.CharacterID == 0 {
		return &ValidationError{Field: "characterId", Reason: "must not be zero"}
	}
	if strings.TrimSpace(in.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.Description) == "" {
		return &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if strings.TrimSpace(in.SessionDate) == "" {
		return &ValidationError{Field: "sessionDate", Reason: "must not be empty"}
	}
	return nil
}

// validateSessionLogPatch rejects malformed log patch payloads.
func validateSessionLogPatch(patch *models.SessionLogPatch) error {
	if patch.CharacterID != nil && *patch.CharacterID == 0 {
		return &ValidationError{Field: "characterId", Reason: "must not be zero"}
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return &ValidationError{Field: "description", Reason: "must not be empty"}
	}
	if patch.SessionDate != nil && strings.TrimSpace(*patch.SessionDate) == "" {
		return &ValidationError{Field: "sessionDate", Reason: "must not be empty"}
	}
	return nil
}
