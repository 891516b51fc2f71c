// Package session manages server-side login sessions. Each session is a
// row in the sessions table addressed by an opaque random sid; the sid is
// the only thing the client ever holds.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/demplar/character-vault/internal/models"
	"github.com/demplar/character-vault/internal/roles"

	log "github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DefaultTTL is the session lifetime from issuance.
const DefaultTTL = 7 * 24 * time.Hour

// sidBytes is the entropy of a generated session id.
const sidBytes = 32

// Payload is the data bound to a session.
type Payload struct {
	UserID   uint64     `json:"userId"`
	UserRole roles.Role `json:"userRole"`
}

// Manager creates, resolves, and destroys persisted sessions.
type Manager struct {
	db  *gorm.DB
	ttl time.Duration
}

// NewManager constructs a Manager. A non-positive TTL falls back to DefaultTTL.
func NewManager(db *gorm.DB, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{db: db, ttl: ttl}
}

// TTL returns the configured session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Create issues a new session for the user and returns its sid.
func (m *Manager) Create(ctx context.Context, user *models.User) (string, error) {
	sid, errSid := newSID()
	if errSid != nil {
		return "", errSid
	}

	payload, errMarshal := json.Marshal(Payload{UserID: user.ID, UserRole: user.Role})
	if errMarshal != nil {
		return "", fmt.Errorf("session: marshal payload: %w", errMarshal)
	}

	record := models.Session{
		SID:    sid,
		Sess:   datatypes.JSON(payload),
		Expire: time.Now().UTC().Add(m.ttl),
	}
	if errCreate := m.db.WithContext(ctx).Create(&record).Error; errCreate != nil {
		return "", fmt.Errorf("session: create: %w", errCreate)
	}
	return sid, nil
}

// Get resolves a sid to its payload. Unknown sids return nil; expired rows
// are deleted on sight and also return nil.
func (m *Manager) Get(ctx context.Context, sid string) (*Payload, error) {
	if sid == "" {
		return nil, nil
	}

	var record models.Session
	errFind := m.db.WithContext(ctx).Where("sid = ?", sid).First(&record).Error
	if errors.Is(errFind, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if errFind != nil {
		return nil, fmt.Errorf("session: get: %w", errFind)
	}

	if time.Now().UTC().After(record.Expire) {
		if errDestroy := m.Destroy(ctx, sid); errDestroy != nil {
			log.WithError(errDestroy).Warn("failed to purge expired session")
		}
		return nil, nil
	}

	var payload Payload
	if errUnmarshal := json.Unmarshal(record.Sess, &payload); errUnmarshal != nil {
		return nil, fmt.Errorf("session: decode payload: %w", errUnmarshal)
	}
	return &payload, nil
}

// Destroy removes a session. Destroying an unknown sid is not an error.
func (m *Manager) Destroy(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	if errDelete := m.db.WithContext(ctx).Where("sid = ?", sid).Delete(&models.Session{}).Error; errDelete != nil {
		return fmt.Errorf("session: destroy: %w", errDelete)
	}
	return nil
}

// Sweep deletes all sessions past their expiry and returns how many went.
func (m *Manager) Sweep(ctx context.Context) (int64, error) {
	res := m.db.WithContext(ctx).
		Where("expire < ?", time.Now().UTC()).
		Delete(&models.Session{})
	if res.Error != nil {
		return 0, fmt.Errorf("session: sweep: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// StartSweeper runs Sweep on the given interval until the context ends.
func (m *Manager) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				swept, errSweep := m.Sweep(ctx)
				if errSweep != nil {
					log.WithError(errSweep).Warn("session sweep failed")
					continue
				}
				if swept > 0 {
					log.Debugf("swept %d expired sessions", swept)
				}
			}
		}
	}()
}

// newSID generates an opaque URL-safe session id.
func newSID() (string, error) {
	buf := make([]byte, sidBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("session: generate sid: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
