// Package services – CatalogService
//
// Admin maintenance of the service catalog. The catalog is configuration more
// than data: it lives only in the state store and the cache mirror, never on
// the remote sheet.
package services

import (
	"context"
	"strings"

	"github.com/digitalseva/go-portal-backend/internal/domain"
	"github.com/digitalseva/go-portal-backend/internal/store"
)

// CatalogService manages the service catalog.
type CatalogService struct {
	// Store is the live state store.
	Store *store.Store
}

// NewCatalogService constructs a CatalogService.
func NewCatalogService(st *store.Store) *CatalogService {
	return &CatalogService{Store: st}
}

// List returns the full catalog.
func (s *CatalogService) List() []domain.Service {
	return s.Store.Services()
}

// Get returns one catalog entry by ID.
func (s *CatalogService) Get(id string) (*domain.Service, error) {
	svc, ok := s.Store.ServiceByID(id)
	if !ok {
		return nil, ErrServiceNotFound
	}
	return &svc, nil
}

// Add inserts a new catalog entry. IDs are unique within the catalog; a blank
// ID is derived from the title.
func (s *CatalogService) Add(ctx context.Context, svc domain.Service) (*domain.Service, error) {
	if svc.ID == "" {
		svc.ID = slugify(svc.Title)
	}
	if svc.ID == "" {
		return nil, ErrServiceNotFound
	}
	if _, exists := s.Store.ServiceByID(svc.ID); exists {
		return nil, ErrDuplicateService
	}
	s.Store.AddService(ctx, svc)
	return &svc, nil
}

// Update replaces the catalog entry with svc.ID.
func (s *CatalogService) Update(ctx context.Context, svc domain.Service) (*domain.Service, error) {
	if !s.Store.UpdateService(ctx, svc) {
		return nil, ErrServiceNotFound
	}
	return &svc, nil
}

// Delete removes a catalog entry.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if !s.Store.DeleteService(ctx, id) {
		return ErrServiceNotFound
	}
	return nil
}

// PriceFor returns the final price a user with the given role pays for the
// service (price preview endpoint).
func (s *CatalogService) PriceFor(id, role string) (int, error) {
	svc, ok := s.Store.ServiceByID(id)
	if !ok {
		return 0, ErrServiceNotFound
	}
	return FinalPrice(svc.Price, role), nil
}

// slugify lowercases a title into a dash-separated identifier.
func slugify(title string) string {
	var b strings.Builder
	prevDash := true
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
