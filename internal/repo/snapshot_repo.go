// Package repo implements the local cache persistence layer, backed by GORM.
// This file provides the snapshot mirror: each collection (applications,
// retailers, services) is written as one JSON blob under a fixed key, exactly
// mirroring the localStorage layout the portal front end uses offline.
//
// Error semantics:
//   - LoadSnapshot returns ErrNotFound when a key has never been written;
//     callers treat that as an empty collection.
//   - Writes upsert unconditionally (last write wins, no batching).
package repo

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/digitalseva/go-portal-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// PutSnapshot upserts the serialized collection stored under key.
func PutSnapshot(ctx context.Context, db *gorm.DB, key string, value []byte) error {
	snap := &domain.Snapshot{Key: key, Value: value}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(snap).Error
}

// GetSnapshot returns the raw serialized collection stored under key, or
// ErrNotFound when the key has never been written.
func GetSnapshot(ctx context.Context, db *gorm.DB, key string) ([]byte, error) {
	var snap domain.Snapshot
	err := db.WithContext(ctx).First(&snap, "key = ?", key).Error
	if err != nil {
		return nil, err
	}
	return snap.Value, nil
}

// SaveApplications mirrors the applications collection into the cache.
func SaveApplications(ctx context.Context, db *gorm.DB, apps []domain.Application) error {
	return putJSON(ctx, db, domain.SnapshotApplications, apps)
}

// LoadApplications reads the cached applications collection. A missing
// snapshot yields an empty (nil) slice, not an error.
func LoadApplications(ctx context.Context, db *gorm.DB) ([]domain.Application, error) {
	var apps []domain.Application
	if err := getJSON(ctx, db, domain.SnapshotApplications, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// SaveRetailers mirrors the retailer collection into the cache.
func SaveRetailers(ctx context.Context, db *gorm.DB, users []domain.User) error {
	return putJSON(ctx, db, domain.SnapshotRetailers, users)
}

// LoadRetailers reads the cached retailer collection. A missing snapshot
// yields an empty (nil) slice; the admin-seed guarantee is the state store's
// job, not the cache's.
func LoadRetailers(ctx context.Context, db *gorm.DB) ([]domain.User, error) {
	var users []domain.User
	if err := getJSON(ctx, db, domain.SnapshotRetailers, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// SaveServices mirrors the service catalog into the cache.
func SaveServices(ctx context.Context, db *gorm.DB, svcs []domain.Service) error {
	return putJSON(ctx, db, domain.SnapshotServices, svcs)
}

// LoadServices reads the cached service catalog. A missing snapshot yields an
// empty (nil) slice; the caller decides whether to fall back to the seeded
// default catalog.
func LoadServices(ctx context.Context, db *gorm.DB) ([]domain.Service, error) {
	var svcs []domain.Service
	if err := getJSON(ctx, db, domain.SnapshotServices, &svcs); err != nil {
		return nil, err
	}
	return svcs, nil
}

func putJSON(ctx context.Context, db *gorm.DB, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return PutSnapshot(ctx, db, key, raw)
}

func getJSON(ctx context.Context, db *gorm.DB, key string, out any) error {
	raw, err := GetSnapshot(ctx, db, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}
