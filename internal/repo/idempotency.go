// Package repo implements the local cache persistence layer, backed by GORM.
// This file provides repository helpers for the Idempotency model used to
// implement safe-retry semantics for application submission.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/digitalseva/go-portal-backend/internal/domain"
)

// ErrDuplicate indicates that an idempotency record already exists for the
// given (user_id, service_id, key) tuple.
var ErrDuplicate = errors.New("duplicate")

// GetIdempotency returns a non-expired record or ErrNotFound.
func GetIdempotency(ctx context.Context, db *gorm.DB, userID, serviceID, key string, now time.Time) (*domain.Idempotency, error) {
	if strings.TrimSpace(serviceID) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Idempotency
	err := db.WithContext(ctx).
		Where("user_id = ? AND service_id = ? AND key = ? AND expires_at > ?", userID, serviceID, key, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &rec, err
}

// HasIdempotency reports whether any non-expired record exists for the
// (user_id, key) pair, regardless of service. Used by the transport-level
// replay detector, which has no access to the request body.
func HasIdempotency(ctx context.Context, db *gorm.DB, userID, key string, now time.Time) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Idempotency{}).
		Where("user_id = ? AND key = ? AND expires_at > ?", userID, key, now).
		Count(&n).Error
	return n > 0, err
}

// CreateIdempotency inserts a record and returns ErrDuplicate on unique violation.
func CreateIdempotency(ctx context.Context, db *gorm.DB, userID, serviceID, key, applicationID string, status int, ttl time.Duration) (*domain.Idempotency, error) {
	now := time.Now().UTC()
	rec := &domain.Idempotency{
		ID:            uuid.NewString(),
		UserID:        userID,
		ServiceID:     serviceID,
		Key:           key,
		ApplicationID: applicationID,
		Status:        status,
		CreatedAt:     now,
		ExpiresAt:     now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}
