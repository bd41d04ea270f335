// Session HTTP handlers.
//
//   - POST /session/login    (credentials → active session)
//   - POST /session/logout   (clears the session; stops the admin poller)
//   - GET  /session          (current user)
//   - PUT  /session/view     (view selection)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LoginRequest is the JSON payload for login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates against the retailer collection.
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid login payload")
		return
	}
	u, err := h.session.Login(req.Username, req.Password)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// Logout clears the active session.
func (h *Handlers) Logout(c *gin.Context) {
	h.session.Logout()
	noContent(c)
}

// CurrentSession returns the active user and view.
func (h *Handlers) CurrentSession(c *gin.Context) {
	u, err := h.session.Current()
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"user": u, "view": h.session.View()})
}

// SetViewRequest is the JSON payload for view selection.
type SetViewRequest struct {
	View string `json:"view" binding:"required"`
}

// SetView records the active view after validating it.
func (h *Handlers) SetView(c *gin.Context) {
	var req SetViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid view payload")
		return
	}
	view, err := h.session.SetView(req.View)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, gin.H{"view": view})
}
