// Package storage is the single gateway to the persistence model. All reads
// and writes of users, characters, and session logs go through it; nothing
// else touches the underlying tables.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/demplar/character-vault/internal/models"
	"github.com/demplar/character-vault/internal/roles"
	"github.com/demplar/character-vault/internal/security"

	"github.com/jackc/pgx/v5/pgconn"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Bootstrap account created on first start when absent.
const (
	DefaultUsername = "master"
	DefaultPassword = "password"
)

// Storage mediates access to the durable store. It is stateless; one
// instance is shared process-wide.
type Storage struct {
	db *gorm.DB
}

// New constructs a Storage over an open database connection.
func New(db *gorm.DB) *Storage {
	return &Storage{db: db}
}

// GetUser returns the user with the given id, or nil when absent.
func (s *Storage) GetUser(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	errFind := s.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if errFind != nil {
		return nil, fmt.Errorf("storage: get user: %w", errFind)
	}
	return &user, nil
}

// GetUserByUsername returns the user with the given username, or nil when absent.
func (s *Storage) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	errFind := s.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if errFind != nil {
		return nil, fmt.Errorf("storage: get user by username: %w", errFind)
	}
	return &user, nil
}

// CreateUser hashes the plaintext password and persists a new account.
// Plaintext is never stored.
func (s *Storage) CreateUser(ctx context.Context, username, password string, role roles.Role) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, &ValidationError{Field: "username", Reason: "must not be empty"}
	}
	if password == "" {
		return nil, &ValidationError{Field: "password", Reason: "must not be empty"}
	}
	if !role.Valid() {
		return nil, &ValidationError{Field: "role", Reason: "unknown role"}
	}

	hash, errHash := security.HashPassword(password)
	if errHash != nil {
		return nil, fmt.Errorf("storage: hash password: %w", errHash)
	}

	user := models.User{
		Username:     username,
		PasswordHash: hash,
		Role:         role,
	}
	if errCreate := s.db.WithContext(ctx).Create(&user).Error; errCreate != nil {
		if isUniqueViolation(errCreate) {
			return nil, &ValidationError{Field: "username", Reason: "already taken"}
		}
		return nil, fmt.Errorf("storage: create user: %w", errCreate)
	}
	return &user, nil
}

// isUniqueViolation reports whether the error is a unique constraint
// failure on either supported dialect.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// ValidateUser checks a username/password pair. It returns the user on a
// match and nil for an unknown username or a wrong password; neither case
// is an error.
func (s *Storage) ValidateUser(ctx context.Context, username, password string) (*models.User, error) {
	user, errGet := s.GetUserByUsername(ctx, username)
	if errGet != nil {
		return nil, errGet
	}
	if user == nil {
		return nil, nil
	}
	if !security.CheckPassword(user.PasswordHash, password) {
		return nil, nil
	}
	return user, nil
}

// InitializeDefaultUser creates the bootstrap master account if no account
// with that username exists yet. Idempotent; called on every process start.
func (s *Storage) InitializeDefaultUser(ctx context.Context, username, password string) error {
	if strings.TrimSpace(username) == "" {
		username = DefaultUsername
	}
	if password == "" {
		password = DefaultPassword
	}

	existing, errGet := s.GetUserByUsername(ctx, username)
	if errGet != nil {
		return errGet
	}
	if existing != nil {
		return nil
	}

	if _, errCreate := s.CreateUser(ctx, username, password, roles.RoleMaster); errCreate != nil {
		return errCreate
	}
	log.Infof("bootstrapped default %s account %q", roles.RoleMaster, username)
	return nil
}
