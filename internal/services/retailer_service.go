// Package services – RetailerService
//
// This file implements retailer account administration: registration,
// account status changes, profile updates, and removal.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/digitalseva/go-portal-backend/internal/domain"
	"github.com/digitalseva/go-portal-backend/internal/store"
)

// RetailerSheet is the remote contract required by RetailerService.
type RetailerSheet interface {
	// IsConfigured reports whether a remote endpoint is available.
	IsConfigured() bool

	// SaveRetailer inserts a retailer record on the sheet.
	SaveRetailer(ctx context.Context, u domain.User) error

	// UpdateRetailer replaces a retailer record by ID on the sheet.
	UpdateRetailer(ctx context.Context, u domain.User) error
}

// RegisterInput carries a retailer registration request.
type RegisterInput struct {
	Username     string
	FullName     string
	ShopName     string
	Email        string
	MobileNumber string
	AadharNumber string
	PanNumber    string
	Password     string
}

// RetailerService manages the retailer collection.
type RetailerService struct {
	// Store is the live state store.
	Store *store.Store
	// Remote pushes retailer records to the sheet.
	Remote RetailerSheet

	// Now supplies timestamps; overridable in tests.
	Now func() time.Time
}

// NewRetailerService constructs a RetailerService.
func NewRetailerService(st *store.Store, remote RetailerSheet) *RetailerService {
	return &RetailerService{Store: st, Remote: remote, Now: time.Now}
}

// Register creates a new retailer account in Pending status awaiting admin
// approval. Usernames are unique case-insensitively. The record is saved to
// the sheet first and appended locally on success; a remote failure aborts
// the registration with ErrSyncFailed and no local change.
func (s *RetailerService) Register(ctx context.Context, in RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" {
		return nil, ErrInvalidCredentials
	}
	if _, exists := s.Store.RetailerByUsername(username); exists {
		return nil, ErrDuplicateUsername
	}

	u := domain.User{
		ID:             uuid.NewString(),
		Username:       username,
		Role:           domain.RoleRetailer,
		FullName:       in.FullName,
		ShopName:       in.ShopName,
		Email:          in.Email,
		MobileNumber:   in.MobileNumber,
		AadharNumber:   in.AadharNumber,
		PanNumber:      in.PanNumber,
		CustomPassword: in.Password,
		Status:         domain.UserStatusPending,
		RegisteredAt:   s.Now().UTC().Format(time.RFC3339),
		WalletBalance:  0,
		Transactions:   []domain.Transaction{},
	}
	if s.Remote != nil && s.Remote.IsConfigured() {
		s.Store.BeginSync()
		err := s.Remote.SaveRetailer(ctx, u)
		s.Store.EndSync()
		if err != nil {
			log.Warn().Err(err).Str("user_id", u.ID).Msg("sheet: retailer save failed")
			return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
		}
	}
	s.Store.AppendRetailer(ctx, u)
	return &u, nil
}

// SetStatus changes a retailer's account status (admin approval flow).
func (s *RetailerService) SetStatus(ctx context.Context, userID, status string) (*domain.User, error) {
	if !domain.ValidUserStatus(status) {
		return nil, ErrInvalidStatus
	}
	u, ok := s.Store.RetailerByID(userID)
	if !ok {
		return nil, ErrUserNotFound
	}
	u.Status = status
	s.Store.UpsertRetailer(ctx, u)
	s.pushUpdate(ctx, u)
	return &u, nil
}

// UpdateProfile applies the user-editable profile fields. Identity fields
// (ID, username, role, status) and the wallet are never touched here.
func (s *RetailerService) UpdateProfile(ctx context.Context, userID string, in RegisterInput) (*domain.User, error) {
	u, ok := s.Store.RetailerByID(userID)
	if !ok {
		return nil, ErrUserNotFound
	}
	if in.FullName != "" {
		u.FullName = in.FullName
	}
	if in.ShopName != "" {
		u.ShopName = in.ShopName
	}
	if in.Email != "" {
		u.Email = in.Email
	}
	if in.MobileNumber != "" {
		u.MobileNumber = in.MobileNumber
	}
	if in.AadharNumber != "" {
		u.AadharNumber = in.AadharNumber
	}
	if in.PanNumber != "" {
		u.PanNumber = in.PanNumber
	}
	if in.Password != "" {
		u.CustomPassword = in.Password
	}
	s.Store.UpsertRetailer(ctx, u)
	s.pushUpdate(ctx, u)
	return &u, nil
}

// Delete removes a retailer from the local collection only. No remote delete
// exists in the sheet contract, so the row survives there until the next full
// overwrite; a subsequent sync can resurrect the account. This asymmetry is
// intentional and documented.
func (s *RetailerService) Delete(ctx context.Context, userID string) error {
	if !s.Store.RemoveRetailer(ctx, userID) {
		return ErrUserNotFound
	}
	return nil
}

// List returns the full retailer collection, seeded admin included.
func (s *RetailerService) List() []domain.User {
	return s.Store.Retailers()
}

func (s *RetailerService) pushUpdate(ctx context.Context, u domain.User) {
	if s.Remote == nil || !s.Remote.IsConfigured() {
		return
	}
	s.Store.BeginSync()
	defer s.Store.EndSync()
	if err := s.Remote.UpdateRetailer(ctx, u); err != nil {
		log.Warn().Err(err).Str("user_id", u.ID).Msg("sheet: retailer update failed")
	}
}
