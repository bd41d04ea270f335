// Retailer HTTP handlers.
//
//   - POST   /retailers                (public registration, starts Pending)
//   - GET    /retailers                (admin listing)
//   - PUT    /retailers/{id}/status    (admin approval flow)
//   - PUT    /retailers/{id}/profile   (self-service profile edit)
//   - DELETE /retailers/{id}           (admin removal; local only)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/digitalseva/go-portal-backend/internal/services"
)

// RegisterRequest is the JSON payload for retailer registration and profile
// updates.
type RegisterRequest struct {
	Username     string `json:"username"`
	FullName     string `json:"fullName"`
	ShopName     string `json:"shopName,omitempty"`
	Email        string `json:"email,omitempty"`
	MobileNumber string `json:"mobileNumber,omitempty"`
	AadharNumber string `json:"aadharNumber,omitempty"`
	PanNumber    string `json:"panNumber,omitempty"`
	Password     string `json:"password,omitempty"`
}

func (r RegisterRequest) toInput() services.RegisterInput {
	return services.RegisterInput{
		Username:     r.Username,
		FullName:     r.FullName,
		ShopName:     r.ShopName,
		Email:        r.Email,
		MobileNumber: r.MobileNumber,
		AadharNumber: r.AadharNumber,
		PanNumber:    r.PanNumber,
		Password:     r.Password,
	}
}

// RegisterRetailer creates a Pending retailer account.
func (h *Handlers) RegisterRetailer(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Username == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid registration payload")
		return
	}
	u, err := h.retailers.Register(c.Request.Context(), req.toInput())
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, u)
}

// ListRetailers returns the full collection, seeded admin included.
func (h *Handlers) ListRetailers(c *gin.Context) {
	ok(c, http.StatusOK, h.retailers.List())
}

// SetRetailerStatusRequest is the JSON payload for account status changes.
type SetRetailerStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// SetRetailerStatus changes an account's status (Active, Suspended, ...).
func (h *Handlers) SetRetailerStatus(c *gin.Context) {
	var req SetRetailerStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid status payload")
		return
	}
	u, err := h.retailers.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// UpdateRetailerProfile applies the user-editable profile fields.
func (h *Handlers) UpdateRetailerProfile(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid profile payload")
		return
	}
	u, err := h.retailers.UpdateProfile(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// DeleteRetailer removes the account from local state. The sheet row is left
// behind; a later sync may bring the account back.
func (h *Handlers) DeleteRetailer(c *gin.Context) {
	if err := h.retailers.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}
