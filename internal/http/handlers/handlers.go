// Handler wiring.
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses. Service dependencies are consumed
// through narrow interfaces so tests can substitute fakes.
package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/digitalseva/go-portal-backend/internal/domain"
	"github.com/digitalseva/go-portal-backend/internal/services"
)

// CatalogAPI defines catalog operations consumed by HTTP handlers.
type CatalogAPI interface {
	List() []domain.Service
	Get(id string) (*domain.Service, error)
	Add(ctx context.Context, svc domain.Service) (*domain.Service, error)
	Update(ctx context.Context, svc domain.Service) (*domain.Service, error)
	Delete(ctx context.Context, id string) error
	PriceFor(id, role string) (int, error)
}

// ApplicationAPI defines application lifecycle operations consumed by HTTP
// handlers.
type ApplicationAPI interface {
	Submit(ctx context.Context, in services.SubmitInput) (*domain.Application, error)
	Update(ctx context.Context, app domain.Application) (*domain.Application, error)
	UpdateStatus(ctx context.Context, id, status, remark string, doc *services.FileUpload) (*domain.Application, error)
	Assign(ctx context.Context, appID, retailerID string) (*domain.Application, error)
	Track(ctx context.Context, ref string) (*domain.Application, error)
	List(page, pageSize int) ([]domain.Application, int)
}

// RetailerAPI defines retailer administration operations consumed by HTTP
// handlers.
type RetailerAPI interface {
	Register(ctx context.Context, in services.RegisterInput) (*domain.User, error)
	SetStatus(ctx context.Context, userID, status string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, in services.RegisterInput) (*domain.User, error)
	Delete(ctx context.Context, userID string) error
	List() []domain.User
}

// WalletAPI defines wallet ledger operations consumed by HTTP handlers.
type WalletAPI interface {
	RequestTopUp(ctx context.Context, userID string, amount int, utr string) (*domain.User, error)
	RequestWithdrawal(ctx context.Context, userID string, amount int, bankDetails string) (*domain.User, error)
	Approve(ctx context.Context, userID, txID string) (*domain.User, error)
	Reject(ctx context.Context, userID, txID string) (*domain.User, error)
}

// SessionAPI defines session and view operations consumed by HTTP handlers.
type SessionAPI interface {
	Login(username, password string) (*domain.User, error)
	Logout()
	Current() (*domain.User, error)
	SetView(v string) (domain.ViewState, error)
	View() domain.ViewState
}

// Handlers groups HTTP endpoints for the portal API.
type Handlers struct {
	catalog   CatalogAPI
	apps      ApplicationAPI
	retailers RetailerAPI
	wallet    WalletAPI
	session   SessionAPI
}

// New constructs a Handlers instance bound to the given services.
func New(catalog CatalogAPI, apps ApplicationAPI, retailers RetailerAPI, wallet WalletAPI, session SessionAPI) *Handlers {
	return &Handlers{
		catalog:   catalog,
		apps:      apps,
		retailers: retailers,
		wallet:    wallet,
		session:   session,
	}
}

// currentUser resolves the acting user: the active session first, then the
// X-User-ID header as a lookup key for stateless clients and tests.
func (h *Handlers) currentUser(c *gin.Context) *domain.User {
	if u, err := h.session.Current(); err == nil {
		return u
	}
	if id := c.GetHeader("X-User-ID"); id != "" {
		for _, u := range h.retailers.List() {
			if u.ID == id {
				return &u
			}
		}
	}
	return nil
}

// failFromErr maps service sentinel errors onto the error envelope.
func failFromErr(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrServiceNotFound),
		errors.Is(err, services.ErrApplicationNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrTransactionNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrDuplicateService),
		errors.Is(err, services.ErrDuplicateUsername):
		fail(c, http.StatusConflict, ErrCodeConflict, err.Error())
	case errors.Is(err, services.ErrInsufficientBalance):
		fail(c, http.StatusPaymentRequired, ErrCodeInsufficientBalance, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	case errors.Is(err, services.ErrAccountInactive):
		fail(c, http.StatusForbidden, ErrCodeAccountInactive, err.Error())
	case errors.Is(err, services.ErrNotLoggedIn):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, err.Error())
	case errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrInvalidAmount),
		errors.Is(err, services.ErrInvalidView):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrSyncFailed):
		fail(c, http.StatusBadGateway, ErrCodeSyncFailed, "could not save to the remote sheet")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "unexpected error")
	}
}
