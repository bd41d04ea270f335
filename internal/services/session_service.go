// Package services – SessionService
//
// Single-session login/logout and view selection. Authentication is a plain
// comparison against the stored password (or the role default when none is
// set), mirroring the portal's demo credentials. It is deliberately not a
// security mechanism; see DESIGN.md.
package services

import (
	"strings"

	"github.com/digitalseva/go-portal-backend/internal/domain"
	"github.com/digitalseva/go-portal-backend/internal/store"
)

// Role default passwords used when an account carries no custom password.
const (
	defaultAdminPassword    = "admin123"
	defaultRetailerPassword = "retailer123"
)

// SessionService manages the active session and view selection.
type SessionService struct {
	// Store is the live state store.
	Store *store.Store
}

// NewSessionService constructs a SessionService.
func NewSessionService(st *store.Store) *SessionService {
	return &SessionService{Store: st}
}

// Login matches the username case-insensitively against the retailer
// collection and compares the password against the account's custom password,
// or the role default when none is set. Suspended and Rejected accounts are
// refused. On success the session is replaced, which also drives the admin
// poller lifecycle through the store's session listeners.
func (s *SessionService) Login(username, password string) (*domain.User, error) {
	u, ok := s.Store.RetailerByUsername(strings.TrimSpace(username))
	if !ok {
		return nil, ErrInvalidCredentials
	}

	expected := u.CustomPassword
	if expected == "" {
		if u.Role == domain.RoleAdmin {
			expected = defaultAdminPassword
		} else {
			expected = defaultRetailerPassword
		}
	}
	if password != expected {
		return nil, ErrInvalidCredentials
	}

	switch u.Status {
	case domain.UserStatusSuspended, domain.UserStatusRejected:
		return nil, ErrAccountInactive
	}

	s.Store.SetCurrentUser(&u)
	return &u, nil
}

// Logout clears the session. Clearing it while an admin poller is running
// stops the poller through the session listeners.
func (s *SessionService) Logout() {
	s.Store.SetCurrentUser(nil)
}

// Current returns the active session user, or ErrNotLoggedIn.
func (s *SessionService) Current() (*domain.User, error) {
	u := s.Store.CurrentUser()
	if u == nil {
		return nil, ErrNotLoggedIn
	}
	return u, nil
}

// SetView records the active view selection after validating it against the
// known screens.
func (s *SessionService) SetView(v string) (domain.ViewState, error) {
	view := domain.ViewState(v)
	if !view.Valid() {
		return "", ErrInvalidView
	}
	s.Store.SetView(view)
	return view, nil
}

// View returns the active view selection.
func (s *SessionService) View() domain.ViewState {
	return s.Store.View()
}
