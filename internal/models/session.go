package models

import (
	"time"

	"gorm.io/datatypes"
)

// Session is a server-side login session addressed by an opaque sid.
// Rows past their expiry are ignored on read and removed by the sweeper.
type Session struct {
	SID    string         `gorm:"column:sid;type:varchar(128);primaryKey"` // Opaque session id.
	Sess   datatypes.JSON `gorm:"type:jsonb;not null"`                     // Payload: user id and role.
	Expire time.Time      `gorm:"not null;index:idx_sessions_expire"`      // Absolute expiry.
}
