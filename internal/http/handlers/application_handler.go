// Application HTTP handlers.
//
//   - POST /applications                  (submit; editId switches to edit-in-place)
//   - GET  /applications                  (list, paginated)
//   - GET  /applications/track/{ref}      (public tracking lookup)
//   - PUT  /applications/{id}             (admin raw update)
//   - PUT  /applications/{id}/status      (admin status update + processed doc)
//   - PUT  /applications/{id}/assign      (admin assignment)
//
// File uploads travel as base64 file payloads inside the JSON body, mirroring
// the data-URL format the records store.
package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/digitalseva/go-portal-backend/internal/domain"
	"github.com/digitalseva/go-portal-backend/internal/http/middleware"
	"github.com/digitalseva/go-portal-backend/internal/services"
	"github.com/digitalseva/go-portal-backend/internal/utils"
)

// FilePayload is a base64-encoded upload.
type FilePayload struct {
	Name    string `json:"name"`
	Content string `json:"content"` // standard base64
}

func (f *FilePayload) toUpload() (*services.FileUpload, error) {
	if f == nil || f.Content == "" {
		return nil, nil
	}
	raw, err := base64.StdEncoding.DecodeString(f.Content)
	if err != nil {
		return nil, err
	}
	return &services.FileUpload{Name: f.Name, Data: raw}, nil
}

// SubmitApplicationRequest is the JSON payload for submissions and edits.
type SubmitApplicationRequest struct {
	EditID    string `json:"editId,omitempty"`
	ServiceID string `json:"serviceId" binding:"required"`

	FullName     string `json:"fullName" binding:"required"`
	MotherName   string `json:"motherName,omitempty"`
	FatherName   string `json:"fatherName,omitempty"`
	Dob          string `json:"dob,omitempty"`
	MobileNumber string `json:"mobileNumber,omitempty"`

	RationType      string   `json:"rationType,omitempty"`
	AdditionalNames []string `json:"additionalNames,omitempty"`
	EpicNumber      string   `json:"epicNumber,omitempty"`

	AddressInfo *domain.AddressInfo `json:"addressInfo,omitempty"`
	LandInfo    *domain.LandInfo    `json:"landInfo,omitempty"`

	PaymentMethod string `json:"paymentMethod,omitempty"`

	Document  *FilePayload `json:"document,omitempty"`
	Photo     *FilePayload `json:"photo,omitempty"`
	Signature *FilePayload `json:"signature,omitempty"`
}

// SubmitApplication handles new submissions and edits. Citizens submit
// without logging in and pay the base price; a session or X-User-ID identity
// brings role pricing and wallet charging into play.
func (h *Handlers) SubmitApplication(c *gin.Context) {
	var req SubmitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid application payload")
		return
	}
	if len(req.AdditionalNames) > 3 {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "at most 3 additional members")
		return
	}

	doc, err := req.Document.toUpload()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid document encoding")
		return
	}
	photo, err := req.Photo.toUpload()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid photo encoding")
		return
	}
	sig, err := req.Signature.toUpload()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid signature encoding")
		return
	}

	userID := ""
	if u := h.currentUser(c); u != nil {
		userID = u.ID
	}

	in := services.SubmitInput{
		EditID:          req.EditID,
		UserID:          userID,
		ServiceID:       req.ServiceID,
		IdempotencyKey:  c.GetHeader(middleware.HeaderIdempotencyKey),
		FullName:        req.FullName,
		MotherName:      req.MotherName,
		FatherName:      req.FatherName,
		Dob:             req.Dob,
		MobileNumber:    req.MobileNumber,
		RationType:      req.RationType,
		AdditionalNames: req.AdditionalNames,
		EpicNumber:      req.EpicNumber,
		Address:         req.AddressInfo,
		Land:            req.LandInfo,
		PaymentMethod:   req.PaymentMethod,
		Document:        doc,
		Photo:           photo,
		Signature:       sig,
	}

	app, err := h.apps.Submit(c.Request.Context(), in)
	if err != nil {
		failFromErr(c, err)
		return
	}

	status := http.StatusCreated
	if req.EditID != "" {
		status = http.StatusOK
	} else if !middleware.IsReplay(c) {
		middleware.ObserveSubmission(app.ServiceID)
	}
	ok(c, status, app)
}

// ApplicationPage is the paginated listing payload.
type ApplicationPage struct {
	Items    []domain.Application `json:"items"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"pageSize"`
	Total    int                  `json:"total"`
}

// ListApplications returns one page of the collection, most recent first.
func (h *Handlers) ListApplications(c *gin.Context) {
	page := utils.ParsePage(c.Query("page"))
	pageSize := utils.ParsePageSize(c.Query("page_size"))
	items, total := h.apps.List(page, pageSize)
	ok(c, http.StatusOK, ApplicationPage{Items: items, Page: page, PageSize: pageSize, Total: total})
}

// TrackApplication looks an application up by reference ID.
func (h *Handlers) TrackApplication(c *gin.Context) {
	app, err := h.apps.Track(c.Request.Context(), c.Param("ref"))
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, app)
}

// UpdateApplication replaces a record wholesale (admin panel raw edit).
func (h *Handlers) UpdateApplication(c *gin.Context) {
	var req domain.Application
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid application payload")
		return
	}
	req.ID = c.Param("id")
	app, err := h.apps.Update(c.Request.Context(), req)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, app)
}

// UpdateStatusRequest is the JSON payload for status updates.
type UpdateStatusRequest struct {
	Status       string       `json:"status" binding:"required"`
	Remark       string       `json:"remark,omitempty"`
	ProcessedDoc *FilePayload `json:"processedDoc,omitempty"`
}

// UpdateApplicationStatus sets status, remark and processed document.
func (h *Handlers) UpdateApplicationStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid status payload")
		return
	}
	doc, err := req.ProcessedDoc.toUpload()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid document encoding")
		return
	}
	app, err := h.apps.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status, req.Remark, doc)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, app)
}

// AssignRequest is the JSON payload for retailer assignment.
type AssignRequest struct {
	RetailerID string `json:"retailerId" binding:"required"`
}

// AssignApplication stamps the application with the assigned retailer.
func (h *Handlers) AssignApplication(c *gin.Context) {
	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid assignment payload")
		return
	}
	app, err := h.apps.Assign(c.Request.Context(), c.Param("id"), req.RetailerID)
	if err != nil {
		failFromErr(c, err)
		return
	}
	ok(c, http.StatusOK, app)
}
