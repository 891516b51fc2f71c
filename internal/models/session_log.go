package models

import (
	"time"

	"gorm.io/datatypes"
)

// SessionLog is a narrative record of a play session for one character.
type SessionLog struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	CharacterID uint64 `gorm:"not null;index" json:"characterId"` // Owning character.

	Title       string `gorm:"type:text;not null" json:"title"`       // Session title.
	Description string `gorm:"type:text;not null" json:"description"` // What happened.

	XPGained int     `gorm:"column:xp_gained;not null;default:0" json:"xpGained"` // XP awarded.
	Duration *string `gorm:"type:varchar(64)" json:"duration"`                    // Optional play duration label.

	Tags datatypes.JSONSlice[string] `gorm:"type:jsonb;not null;default:'[]'" json:"tags"` // Free-form tags.

	SessionDate string    `gorm:"type:varchar(64);not null" json:"sessionDate"` // Player-facing session date label.
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`                    // Creation timestamp.
}
