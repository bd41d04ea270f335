// Package services defines the business logic for the service catalog,
// applications, retailers, the wallet ledger, and sessions. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the handler
// layer.
package services

import "errors"

// Catalog and application errors.
var (
	// ErrServiceNotFound indicates that the requested catalog entry does not
	// exist.
	ErrServiceNotFound = errors.New("service not found")

	// ErrDuplicateService is returned when a catalog entry with the same ID
	// already exists.
	ErrDuplicateService = errors.New("service id already exists")

	// ErrApplicationNotFound indicates that the requested application does not
	// exist in the live collection.
	ErrApplicationNotFound = errors.New("application not found")

	// ErrInvalidStatus is returned when a status value is outside the allowed
	// set for the record being updated.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrSyncFailed is returned when a write to the remote sheet fails. The
	// local collections are left unchanged when this is returned.
	ErrSyncFailed = errors.New("remote sheet write failed")
)

// User, wallet, and session errors.
var (
	// ErrUserNotFound indicates that the referenced user does not exist in the
	// retailer collection.
	ErrUserNotFound = errors.New("user not found")

	// ErrDuplicateUsername is returned when a registration reuses a username
	// already present (any case).
	ErrDuplicateUsername = errors.New("username already taken")

	// ErrInsufficientBalance is returned when a retailer's wallet cannot cover
	// the price of a submission. No state is mutated when this is returned.
	ErrInsufficientBalance = errors.New("insufficient wallet balance")

	// ErrTransactionNotFound indicates that the referenced wallet transaction
	// does not exist on the user's ledger.
	ErrTransactionNotFound = errors.New("transaction not found")

	// ErrInvalidAmount is returned when a wallet operation carries a
	// non-positive amount.
	ErrInvalidAmount = errors.New("amount must be positive")

	// ErrInvalidCredentials is returned on login when the username/password
	// pair does not match a stored user.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountInactive is returned on login when the account exists but its
	// status forbids access (suspended or rejected).
	ErrAccountInactive = errors.New("account is not active")

	// ErrNotLoggedIn is returned by session-scoped operations when no user is
	// logged in.
	ErrNotLoggedIn = errors.New("no active session")

	// ErrInvalidView is returned when a view selection is not one of the known
	// screens.
	ErrInvalidView = errors.New("unknown view")
)
