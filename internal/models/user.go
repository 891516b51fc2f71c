package models

import (
	"time"

	"github.com/demplar/character-vault/internal/roles"
)

// User represents an account that can sign in to the vault.
type User struct {
	ID uint64 `gorm:"primaryKey;autoIncrement" json:"id"` // Primary key.

	Username     string     `gorm:"type:varchar(255);not null;uniqueIndex" json:"username"` // Unique login name.
	PasswordHash string     `gorm:"type:text;not null" json:"-"`                            // Bcrypt hash, never serialized.
	Role         roles.Role `gorm:"type:varchar(32);not null;default:readonly" json:"role"` // Access role.

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"createdAt"` // Creation timestamp.
}
