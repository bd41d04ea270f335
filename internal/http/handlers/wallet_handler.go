// Wallet HTTP handlers.
//
//   - GET  /retailers/{id}/wallet                              (balance + ledger)
//   - POST /retailers/{id}/wallet/topup                        (Pending Credit)
//   - POST /retailers/{id}/wallet/withdraw                     (Pending Withdrawal)
//   - POST /retailers/{id}/wallet/transactions/{txId}/approve  (admin)
//   - POST /retailers/{id}/wallet/transactions/{txId}/reject   (admin)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/digitalseva/go-portal-backend/internal/domain"
	"github.com/digitalseva/go-portal-backend/internal/http/middleware"
)

// WalletResponse is the wallet view payload.
type WalletResponse struct {
	UserID       string               `json:"userId"`
	Balance      int                  `json:"balance"`
	Transactions []domain.Transaction `json:"transactions"`
}

// GetWallet returns the user's balance and ledger, most recent entry first.
func (h *Handlers) GetWallet(c *gin.Context) {
	id := c.Param("id")
	for _, u := range h.retailers.List() {
		if u.ID == id {
			txs := u.Transactions
			if txs == nil {
				txs = []domain.Transaction{}
			}
			ok(c, http.StatusOK, WalletResponse{UserID: u.ID, Balance: u.WalletBalance, Transactions: txs})
			return
		}
	}
	fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
}

// TopUpRequest is the JSON payload for wallet top-up requests.
type TopUpRequest struct {
	Amount int    `json:"amount" binding:"required"`
	UTR    string `json:"utr,omitempty"`
}

// RequestTopUp enters a Pending Credit on the ledger.
func (h *Handlers) RequestTopUp(c *gin.Context) {
	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid top-up payload")
		return
	}
	u, err := h.wallet.RequestTopUp(c.Request.Context(), c.Param("id"), req.Amount, req.UTR)
	if err != nil {
		failFromErr(c, err)
		return
	}
	if u == nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
		return
	}
	middleware.ObserveWalletTransaction(domain.TxCredit, domain.TxStatusPending)
	ok(c, http.StatusCreated, u)
}

// WithdrawRequest is the JSON payload for withdrawal requests.
type WithdrawRequest struct {
	Amount      int    `json:"amount" binding:"required"`
	BankDetails string `json:"bankDetails,omitempty"`
}

// RequestWithdrawal enters a Pending Withdrawal on the ledger.
func (h *Handlers) RequestWithdrawal(c *gin.Context) {
	var req WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid withdrawal payload")
		return
	}
	u, err := h.wallet.RequestWithdrawal(c.Request.Context(), c.Param("id"), req.Amount, req.BankDetails)
	if err != nil {
		failFromErr(c, err)
		return
	}
	if u == nil {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "user not found")
		return
	}
	middleware.ObserveWalletTransaction(domain.TxWithdrawal, domain.TxStatusPending)
	ok(c, http.StatusCreated, u)
}

// ApproveTransaction flips a Pending entry to Success, applying its balance
// effect retroactively.
func (h *Handlers) ApproveTransaction(c *gin.Context) {
	u, err := h.wallet.Approve(c.Request.Context(), c.Param("id"), c.Param("txId"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	observeResolved(u, c.Param("txId"))
	ok(c, http.StatusOK, u)
}

// RejectTransaction flips a Pending entry to Rejected with no balance effect.
func (h *Handlers) RejectTransaction(c *gin.Context) {
	u, err := h.wallet.Reject(c.Request.Context(), c.Param("id"), c.Param("txId"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	observeResolved(u, c.Param("txId"))
	ok(c, http.StatusOK, u)
}

// observeResolved records the outcome of an approve/reject on the ledger metric.
func observeResolved(u *domain.User, txID string) {
	if u == nil {
		return
	}
	for _, tx := range u.Transactions {
		if tx.ID == txID {
			middleware.ObserveWalletTransaction(tx.Type, tx.Status)
			return
		}
	}
}
