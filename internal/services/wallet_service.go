// Package services – WalletService
//
// This file implements the wallet ledger. A user's balance is derived state:
// it moves only when a Success transaction is applied, so Pending top-ups and
// withdrawals sit on the ledger without effect until an admin approves them,
// at which point the balance change happens retroactively. Ledger entries are
// kept most-recent-first, matching the order the portal front end renders.
//
// Remote persistence follows the background-write rule: ledger changes are
// pushed to the sheet best-effort and failures are logged, never surfaced,
// because the local state has already moved on.
package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/digitalseva/go-portal-backend/internal/domain"
	"github.com/digitalseva/go-portal-backend/internal/store"
)

// RetailerWriter is the remote contract required by WalletService.
type RetailerWriter interface {
	// IsConfigured reports whether a remote endpoint is available.
	IsConfigured() bool

	// UpdateRetailer replaces a retailer record by ID on the sheet.
	UpdateRetailer(ctx context.Context, u domain.User) error
}

// WalletService manages wallet transactions and balances for portal users.
type WalletService struct {
	// Store is the live state store holding the retailer collection.
	Store *store.Store
	// Remote pushes updated user records to the sheet.
	Remote RetailerWriter

	// Now supplies timestamps; overridable in tests.
	Now func() time.Time
}

// NewWalletService constructs a WalletService.
func NewWalletService(st *store.Store, remote RetailerWriter) *WalletService {
	return &WalletService{Store: st, Remote: remote, Now: time.Now}
}

// Apply records tx on the user's ledger, moving the balance only when the
// transaction status is Success (Credit adds, Debit and Withdrawal subtract).
// The entry is prepended to the history and the updated user is persisted
// locally and pushed to the sheet. An unknown user is a silent no-op and
// returns (nil, nil).
func (s *WalletService) Apply(ctx context.Context, userID string, tx domain.Transaction) (*domain.User, error) {
	if !domain.ValidTransactionType(tx.Type) {
		return nil, ErrInvalidStatus
	}
	if tx.Amount <= 0 {
		return nil, ErrInvalidAmount
	}

	u, ok := s.Store.RetailerByID(userID)
	if !ok {
		return nil, nil
	}

	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	if tx.Date == "" {
		tx.Date = s.Now().UTC().Format(time.RFC3339)
	}
	if tx.Status == "" {
		tx.Status = domain.TxStatusPending
	}

	if tx.Status == domain.TxStatusSuccess {
		u.WalletBalance += balanceDelta(tx)
	}
	u.Transactions = append([]domain.Transaction{tx}, u.Transactions...)

	s.Store.UpsertRetailer(ctx, u)
	s.pushRemote(ctx, u)
	return &u, nil
}

// RequestTopUp enters a Pending Credit on the user's ledger carrying the
// payment UTR. The balance does not move until an admin approves it.
func (s *WalletService) RequestTopUp(ctx context.Context, userID string, amount int, utr string) (*domain.User, error) {
	return s.Apply(ctx, userID, domain.Transaction{
		Type:        domain.TxCredit,
		Amount:      amount,
		Description: "Wallet top-up request",
		Status:      domain.TxStatusPending,
		UTR:         utr,
	})
}

// RequestWithdrawal enters a Pending Withdrawal on the user's ledger carrying
// the payout bank details.
func (s *WalletService) RequestWithdrawal(ctx context.Context, userID string, amount int, bankDetails string) (*domain.User, error) {
	return s.Apply(ctx, userID, domain.Transaction{
		Type:        domain.TxWithdrawal,
		Amount:      amount,
		Description: "Wallet withdrawal request",
		Status:      domain.TxStatusPending,
		BankDetails: bankDetails,
	})
}

// Approve flips a Pending transaction to Success and applies its balance
// effect retroactively at approval time.
func (s *WalletService) Approve(ctx context.Context, userID, txID string) (*domain.User, error) {
	return s.resolve(ctx, userID, txID, domain.TxStatusSuccess)
}

// Reject flips a Pending transaction to Rejected. Rejected transactions stay
// on the ledger but never have a balance effect.
func (s *WalletService) Reject(ctx context.Context, userID, txID string) (*domain.User, error) {
	return s.resolve(ctx, userID, txID, domain.TxStatusRejected)
}

func (s *WalletService) resolve(ctx context.Context, userID, txID, outcome string) (*domain.User, error) {
	u, ok := s.Store.RetailerByID(userID)
	if !ok {
		return nil, ErrUserNotFound
	}

	// Clone the ledger: the copy from the store shares its backing array.
	txs := make([]domain.Transaction, len(u.Transactions))
	copy(txs, u.Transactions)
	u.Transactions = txs

	idx := -1
	for i := range u.Transactions {
		if u.Transactions[i].ID == txID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, ErrTransactionNotFound
	}
	if u.Transactions[idx].Status != domain.TxStatusPending {
		return nil, ErrInvalidStatus
	}

	u.Transactions[idx].Status = outcome
	if outcome == domain.TxStatusSuccess {
		u.WalletBalance += balanceDelta(u.Transactions[idx])
	}

	s.Store.UpsertRetailer(ctx, u)
	s.pushRemote(ctx, u)
	return &u, nil
}

// pushRemote sends the updated user to the sheet, logging failures.
func (s *WalletService) pushRemote(ctx context.Context, u domain.User) {
	if s.Remote == nil || !s.Remote.IsConfigured() {
		return
	}
	s.Store.BeginSync()
	defer s.Store.EndSync()
	if err := s.Remote.UpdateRetailer(ctx, u); err != nil {
		log.Warn().Err(err).Str("user_id", u.ID).Msg("sheet: retailer update failed")
	}
}

// balanceDelta returns the signed balance effect of a transaction.
func balanceDelta(tx domain.Transaction) int {
	if tx.Type == domain.TxCredit {
		return tx.Amount
	}
	return -tx.Amount
}
