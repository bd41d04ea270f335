package domain

import "time"

// Idempotency records a previously processed submission, keyed by
// (user_id, service_id, key). It lets clients retry POST /applications safely:
// a matching non-expired record means the original application can be replayed
// instead of minting a duplicate.
type Idempotency struct {
	ID            string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	UserID        string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_service_key,priority:1"`
	ServiceID     string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_service_key,priority:2"`
	Key           string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_user_service_key,priority:3"`
	ApplicationID string    `gorm:"type:TEXT NOT NULL"`
	Status        int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt     time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt     time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Idempotency) TableName() string { return "idempotency" }
