// Service catalog HTTP handlers.
//
//   - GET    /services                (list)
//   - GET    /services/{id}          (fetch one)
//   - GET    /services/{id}/price    (price preview for a role)
//   - POST   /services               (admin add)
//   - PUT    /services/{id}          (admin update)
//   - DELETE /services/{id}          (admin delete)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/digitalseva/go-portal-backend/internal/domain"
)

// ListServices returns the full catalog.
func (h *Handlers) ListServices(c *gin.Context) {
	ok(c, http.StatusOK, h.catalog.List())
}

// GetService returns one catalog entry.
func (h *Handlers) GetService(c *gin.Context) {
	svc, err := h.catalog.Get(c.Param("id"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, svc)
}

// PriceResponse is the price preview payload.
type PriceResponse struct {
	ServiceID string `json:"serviceId"`
	Role      string `json:"role"`
	Price     int    `json:"price"`
}

// ServicePrice returns the price the acting user (or an explicit ?role=) pays.
func (h *Handlers) ServicePrice(c *gin.Context) {
	role := c.Query("role")
	if role == "" {
		if u := h.currentUser(c); u != nil {
			role = u.Role
		}
	}
	price, err := h.catalog.PriceFor(c.Param("id"), role)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, PriceResponse{ServiceID: c.Param("id"), Role: role, Price: price})
}

// CreateService adds a catalog entry.
func (h *Handlers) CreateService(c *gin.Context) {
	var req domain.Service
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid service payload")
		return
	}
	svc, err := h.catalog.Add(c.Request.Context(), req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusCreated, svc)
}

// UpdateService replaces a catalog entry.
func (h *Handlers) UpdateService(c *gin.Context) {
	var req domain.Service
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid service payload")
		return
	}
	req.ID = c.Param("id")
	svc, err := h.catalog.Update(c.Request.Context(), req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, svc)
}

// DeleteService removes a catalog entry.
func (h *Handlers) DeleteService(c *gin.Context) {
	if err := h.catalog.Delete(c.Request.Context(), c.Param("id")); err != nil {
		failFromErr(c, err)
		return
	}
	noContent(c)
}
