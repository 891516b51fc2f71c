package db

import (
	"fmt"

	"github.com/demplar/character-vault/internal/models"
	"gorm.io/gorm"
)

// Migrate brings the schema up to date for the current dialect. Safe to run
// on every process start.
func Migrate(conn *gorm.DB) error {
	if conn == nil {
		return fmt.Errorf("db: nil connection")
	}
	if errAutoMigrate := conn.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Character{},
		&models.SessionLog{},
	); errAutoMigrate != nil {
		return fmt.Errorf("db: migrate: %w", errAutoMigrate)
	}
	return nil
}
