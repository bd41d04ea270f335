// Package services – ApplicationService
//
// This file implements the application lifecycle: submission (with wallet
// charging and file encoding), in-place edits, admin status updates with
// non-destructive merges, retailer assignment, cloud-backed tracking lookups,
// and paginated listing for the admin panel.
//
// Submission ordering is strict: the wallet check aborts before any mutation,
// the wallet debit lands before the application record is built, the sheet
// save runs next, and the local collection moves only after the save
// succeeds. A failed sheet write therefore leaves the application collection
// unchanged and the error is returned to the caller.
package services

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math/rand/v2"
	"mime"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/digitalseva/go-portal-backend/internal/domain"
	"github.com/digitalseva/go-portal-backend/internal/repo"
	"github.com/digitalseva/go-portal-backend/internal/store"
	"github.com/digitalseva/go-portal-backend/internal/utils"
)

// ApplicationSheet is the remote contract required by ApplicationService.
type ApplicationSheet interface {
	// IsConfigured reports whether a remote endpoint is available.
	IsConfigured() bool

	// GetAllApplications fetches the full application list.
	GetAllApplications(ctx context.Context) ([]domain.Application, error)

	// SaveApplication writes a full application record (insert or replace).
	SaveApplication(ctx context.Context, app domain.Application) error

	// UpdateStatus updates status, remark, and processed document by ID.
	UpdateStatus(ctx context.Context, id, status, remark, processedDoc string) error
}

// WalletCharger is the wallet contract required for submission fees.
type WalletCharger interface {
	Apply(ctx context.Context, userID string, tx domain.Transaction) (*domain.User, error)
}

// FileUpload is a raw uploaded file to be data-URL encoded.
type FileUpload struct {
	Name string
	Data []byte
}

// SubmitInput carries everything a submission or edit needs. EditID selects
// the application being edited; empty means a new submission.
type SubmitInput struct {
	EditID         string
	UserID         string
	ServiceID      string
	IdempotencyKey string

	FullName     string
	MotherName   string
	FatherName   string
	Dob          string
	MobileNumber string

	RationType      string
	AdditionalNames []string
	EpicNumber      string

	Address *domain.AddressInfo
	Land    *domain.LandInfo

	PaymentMethod string

	Document  *FileUpload
	Photo     *FileUpload
	Signature *FileUpload
}

// ApplicationService manages the application collection.
type ApplicationService struct {
	// DB backs the idempotency ledger; nil disables idempotent replay.
	DB *gorm.DB
	// Store is the live state store.
	Store *store.Store
	// Remote pushes application records to the sheet.
	Remote ApplicationSheet
	// Wallet charges submission fees.
	Wallet WalletCharger

	// IdempotencyTTL bounds how long a submission key is remembered.
	IdempotencyTTL time.Duration
	// Now supplies timestamps; overridable in tests.
	Now func() time.Time
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(db *gorm.DB, st *store.Store, remote ApplicationSheet, wallet WalletCharger, idemTTL time.Duration) *ApplicationService {
	if idemTTL <= 0 {
		idemTTL = 24 * time.Hour
	}
	return &ApplicationService{
		DB:             db,
		Store:          st,
		Remote:         remote,
		Wallet:         wallet,
		IdempotencyTTL: idemTTL,
		Now:            time.Now,
	}
}

// Submit creates a new application or, when in.EditID is set, replaces an
// existing one in place (ID and status preserved). The fee is computed from
// the service's base price and the submitter's role; anonymous citizens pay
// the base price with no wallet involvement. Edits re-run the charge the same
// way a fresh submission does. A Wallet payment that the balance cannot cover
// aborts with ErrInsufficientBalance before any state changes.
//
// The sheet save runs before the collection moves; a failed save leaves the
// collection unchanged and returns ErrSyncFailed.
func (s *ApplicationService) Submit(ctx context.Context, in SubmitInput) (*domain.Application, error) {
	svc, ok := s.Store.ServiceByID(in.ServiceID)
	if !ok {
		return nil, ErrServiceNotFound
	}
	// Citizens submit without an account. The wallet branch and the role
	// discount apply only when the submitter resolves to a known user.
	var user *domain.User
	if in.UserID != "" {
		if u, found := s.Store.RetailerByID(in.UserID); found {
			user = &u
		}
	}

	if in.EditID == "" {
		if app, hit := s.replayIdempotent(ctx, in); hit {
			return app, nil
		}
	}

	var prev *domain.Application
	if in.EditID != "" {
		p, found := s.Store.ApplicationByID(in.EditID)
		if !found {
			return nil, ErrApplicationNotFound
		}
		prev = &p
	}

	app := domain.Application{
		ServiceID:       svc.ID,
		ServiceName:     svc.Title,
		FullName:        in.FullName,
		MotherName:      in.MotherName,
		FatherName:      in.FatherName,
		Dob:             in.Dob,
		MobileNumber:    in.MobileNumber,
		RationType:      in.RationType,
		AdditionalNames: in.AdditionalNames,
		EpicNumber:      in.EpicNumber,
		AddressInfo:     in.Address,
		LandInfo:        in.Land,
		PaymentMethod:   in.PaymentMethod,
	}
	role := ""
	if user != nil {
		app.UserID = user.ID
		app.RoleAtSubmission = user.Role
		role = user.Role
	}

	price := FinalPrice(svc.Price, role)
	if user != nil && in.PaymentMethod == domain.PayWallet && price > 0 {
		if user.WalletBalance < price {
			return nil, ErrInsufficientBalance
		}
		if _, err := s.Wallet.Apply(ctx, user.ID, domain.Transaction{
			Type:        domain.TxDebit,
			Amount:      price,
			Description: "Application fee - " + svc.Title,
			Status:      domain.TxStatusSuccess,
		}); err != nil {
			return nil, err
		}
	}

	if prev != nil {
		// Edits preserve identity, status, assignment, and timestamps; the
		// fee above is re-applied and recorded.
		app.ID = prev.ID
		app.Status = prev.Status
		app.SubmittedAt = prev.SubmittedAt
		app.AmountPaid = price
		app.AssignedToID = prev.AssignedToID
		app.AssignedToName = prev.AssignedToName
		app.Remark = prev.Remark
		app.ProcessedDocumentName = prev.ProcessedDocumentName
		app.ProcessedDocumentURL = prev.ProcessedDocumentURL

		s.attachFiles(&app, in, prev)
		if err := s.pushRemote(ctx, app); err != nil {
			return nil, err
		}
		if !s.Store.ReplaceApplication(ctx, app) {
			return nil, ErrApplicationNotFound
		}
		return &app, nil
	}

	app.ID = mintReferenceID()
	app.Status = domain.AppStatusPending
	app.SubmittedAt = s.Now().UTC().Format(time.RFC3339)
	app.AmountPaid = price
	s.attachFiles(&app, in, nil)

	if err := s.pushRemote(ctx, app); err != nil {
		return nil, err
	}
	s.Store.PrependApplication(ctx, app)
	s.recordIdempotent(ctx, in, app.ID)
	return &app, nil
}

// Update replaces an application record wholesale (admin panel raw edit).
// The sheet save runs first; a failed save leaves the record unchanged.
func (s *ApplicationService) Update(ctx context.Context, app domain.Application) (*domain.Application, error) {
	if _, ok := s.Store.ApplicationByID(app.ID); !ok {
		return nil, ErrApplicationNotFound
	}
	if err := s.pushRemote(ctx, app); err != nil {
		return nil, err
	}
	s.Store.ReplaceApplication(ctx, app)
	return &app, nil
}

// UpdateStatus sets an application's status with an optional remark and an
// optional processed-document upload. Empty remark and absent document retain
// the stored values. The sheet write runs before the local merge; a failed
// write leaves the record unchanged.
func (s *ApplicationService) UpdateStatus(ctx context.Context, id, status, remark string, processedDoc *FileUpload) (*domain.Application, error) {
	if !domain.ValidAppStatus(status) {
		return nil, ErrInvalidStatus
	}
	if _, ok := s.Store.ApplicationByID(id); !ok {
		return nil, ErrApplicationNotFound
	}

	docName, docURL := "", ""
	if processedDoc != nil && len(processedDoc.Data) > 0 {
		docName = processedDoc.Name
		docURL = EncodeDataURL(processedDoc.Name, processedDoc.Data)
	}

	if s.Remote != nil && s.Remote.IsConfigured() {
		s.Store.BeginSync()
		err := s.Remote.UpdateStatus(ctx, id, status, remark, docURL)
		s.Store.EndSync()
		if err != nil {
			log.Warn().Err(err).Str("application_id", id).Msg("sheet: status update failed")
			return nil, fmt.Errorf("%w: %v", ErrSyncFailed, err)
		}
	}

	s.Store.MergeApplicationStatus(ctx, id, status, remark, docURL)
	if docName != "" {
		if app, ok := s.Store.ApplicationByID(id); ok {
			app.ProcessedDocumentName = docName
			s.Store.ReplaceApplication(ctx, app)
		}
	}

	app, _ := s.Store.ApplicationByID(id)
	return &app, nil
}

// Assign stamps an application with the retailer it is assigned to.
func (s *ApplicationService) Assign(ctx context.Context, appID, retailerID string) (*domain.Application, error) {
	ret, ok := s.Store.RetailerByID(retailerID)
	if !ok {
		return nil, ErrUserNotFound
	}
	app, ok := s.Store.ApplicationByID(appID)
	if !ok {
		return nil, ErrApplicationNotFound
	}

	app.AssignedToID = ret.ID
	app.AssignedToName = ret.FullName
	if err := s.pushRemote(ctx, app); err != nil {
		return nil, err
	}
	s.Store.ReplaceApplication(ctx, app)
	return &app, nil
}

// Track looks an application up by reference ID, case-insensitively. When the
// sheet is configured it is consulted first so citizens see cross-device
// submissions; transport failures fall back to local state.
func (s *ApplicationService) Track(ctx context.Context, ref string) (*domain.Application, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrApplicationNotFound
	}

	if s.Remote != nil && s.Remote.IsConfigured() {
		s.Store.BeginSync()
		apps, err := s.Remote.GetAllApplications(ctx)
		s.Store.EndSync()
		if err == nil {
			for i := range apps {
				if strings.EqualFold(apps[i].ID, ref) {
					return &apps[i], nil
				}
			}
			return nil, ErrApplicationNotFound
		}
		log.Warn().Err(err).Msg("sheet: tracking fetch failed, using local state")
	}

	for _, app := range s.Store.Applications() {
		if strings.EqualFold(app.ID, ref) {
			return &app, nil
		}
	}
	return nil, ErrApplicationNotFound
}

// List returns one page of the application collection (most recent first)
// along with the total count.
func (s *ApplicationService) List(page, pageSize int) ([]domain.Application, int) {
	all := s.Store.Applications()
	total := len(all)
	start, end := utils.PageBounds(page, pageSize, total)
	return all[start:end], total
}

// attachFiles encodes the uploads onto app. When editing, absent uploads
// retain the previous record's encoded values.
func (s *ApplicationService) attachFiles(app *domain.Application, in SubmitInput, prev *domain.Application) {
	if in.Document != nil && len(in.Document.Data) > 0 {
		app.DocumentName = in.Document.Name
		app.DocumentURL = EncodeDataURL(in.Document.Name, in.Document.Data)
	} else if prev != nil {
		app.DocumentName = prev.DocumentName
		app.DocumentURL = prev.DocumentURL
	}
	if in.Photo != nil && len(in.Photo.Data) > 0 {
		app.PhotoName = in.Photo.Name
		app.PhotoURL = EncodeDataURL(in.Photo.Name, in.Photo.Data)
	} else if prev != nil {
		app.PhotoName = prev.PhotoName
		app.PhotoURL = prev.PhotoURL
	}
	if in.Signature != nil && len(in.Signature.Data) > 0 {
		app.SignatureName = in.Signature.Name
		app.SignatureURL = EncodeDataURL(in.Signature.Name, in.Signature.Data)
	} else if prev != nil {
		app.SignatureName = prev.SignatureName
		app.SignatureURL = prev.SignatureURL
	}
}

// pushRemote saves an application to the sheet. Callers mutate local state
// only after it returns nil; an unconfigured sheet counts as success.
func (s *ApplicationService) pushRemote(ctx context.Context, app domain.Application) error {
	if s.Remote == nil || !s.Remote.IsConfigured() {
		return nil
	}
	s.Store.BeginSync()
	defer s.Store.EndSync()
	if err := s.Remote.SaveApplication(ctx, app); err != nil {
		log.Warn().Err(err).Str("application_id", app.ID).Msg("sheet: application save failed")
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}
	return nil
}

// replayIdempotent returns the previously created application for a repeated
// submission key, when one exists.
func (s *ApplicationService) replayIdempotent(ctx context.Context, in SubmitInput) (*domain.Application, bool) {
	if s.DB == nil || in.IdempotencyKey == "" {
		return nil, false
	}
	rec, err := repo.GetIdempotency(ctx, s.DB, in.UserID, in.ServiceID, in.IdempotencyKey, s.Now().UTC())
	if err != nil {
		if !errors.Is(err, repo.ErrNotFound) {
			log.Warn().Err(err).Msg("idempotency lookup failed")
		}
		return nil, false
	}
	if app, ok := s.Store.ApplicationByID(rec.ApplicationID); ok {
		return &app, true
	}
	return nil, false
}

func (s *ApplicationService) recordIdempotent(ctx context.Context, in SubmitInput, appID string) {
	if s.DB == nil || in.IdempotencyKey == "" {
		return
	}
	if _, err := repo.CreateIdempotency(ctx, s.DB, in.UserID, in.ServiceID, in.IdempotencyKey, appID, 201, s.IdempotencyTTL); err != nil &&
		!errors.Is(err, repo.ErrDuplicate) {
		log.Warn().Err(err).Msg("idempotency record failed")
	}
}

// EncodeDataURL renders a file as a data URL the way browser FileReader does,
// inferring the media type from the file extension.
func EncodeDataURL(name string, data []byte) string {
	mt := mime.TypeByExtension(filepath.Ext(name))
	if mt == "" {
		mt = "application/octet-stream"
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Reference IDs are "DOS-" plus six uppercase alphanumerics.
const refAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func mintReferenceID() string {
	b := make([]byte, 6)
	for i := range b {
		b[i] = refAlphabet[rand.IntN(len(refAlphabet))]
	}
	return "DOS-" + string(b)
}
