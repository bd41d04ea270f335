package domain

import "time"

// Cache keys for the snapshot table. One serialized collection per key,
// mirroring the front end's localStorage layout.
const (
	SnapshotApplications = "applications"
	SnapshotRetailers    = "retailers"
	SnapshotServices     = "services"
)

// Snapshot is one locally cached collection, stored as a JSON blob. The cache
// is a mirror of the last-known remote state: it is rewritten immediately on
// every in-memory change and read back on start when no remote is configured.
type Snapshot struct {
	Key       string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Value     []byte    `gorm:"type:BLOB NOT NULL"`
	UpdatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoUpdateTime"`
}

// TableName implements the GORM tabler interface.
func (Snapshot) TableName() string { return "snapshots" }
