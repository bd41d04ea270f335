// Package store implements the domain state store: the sole in-memory owner
// of the service catalog, application list, retailer list, active session, and
// current view selection. The local cache and the remote sheet only ever hold
// serialized copies.
//
// Every mutation method performs the in-memory update first and then an
// explicit write-through into the SQLite cache mirror. Cache write failures
// are logged and otherwise ignored: the cache exists for offline convenience
// and must never fail a user action.
//
// The store is safe for concurrent use. The admin poller and user-triggered
// operations may interleave; last write wins, matching the front end's
// single-event-loop behavior where a poll tick and an in-flight save can
// clobber each other.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/digitalseva/go-portal-backend/internal/domain"
	"github.com/digitalseva/go-portal-backend/internal/repo"
)

// syncInflight mirrors the front end's global "syncing" busy indicator: it
// counts outstanding remote operations (user-triggered and poller-triggered
// ones overlap freely).
var syncInflight = prometheus.NewGauge(prometheus.GaugeOpts{
	Name: "portal_sync_inflight",
	Help: "Number of in-flight synchronization operations against the remote sheet.",
})

func init() {
	prometheus.MustRegister(syncInflight)
}

// SessionListener is notified after every session change with the new user
// (nil on logout). Listeners drive side effects such as the admin poller
// lifecycle and must not call back into session mutation.
type SessionListener func(u *domain.User)

// Store owns the live collections. Use New.
type Store struct {
	mu sync.RWMutex
	db *gorm.DB // cache mirror; nil disables persistence (tests)

	services     []domain.Service
	applications []domain.Application
	retailers    []domain.User

	current *domain.User
	view    domain.ViewState

	syncing atomic.Int64

	listenerMu sync.Mutex
	listeners  []SessionListener
}

// New returns an empty store bound to the given cache database. The retailer
// collection starts with the seeded admin so login works before any load
// completes, and the view starts at home.
func New(db *gorm.DB) *Store {
	return &Store{
		db:        db,
		retailers: []domain.User{domain.DefaultAdmin()},
		view:      domain.ViewHome,
	}
}

// LoadFromCache seeds all collections from the local cache mirror. Missing
// snapshots yield empty collections, except services (seeded catalog) and
// retailers (seeded admin guarantee). Used when no remote sheet is configured.
func (s *Store) LoadFromCache(ctx context.Context) error {
	if s.db == nil {
		return nil
	}
	apps, err := repo.LoadApplications(ctx, s.db)
	if err != nil {
		return err
	}
	users, err := repo.LoadRetailers(ctx, s.db)
	if err != nil {
		return err
	}
	svcs, err := repo.LoadServices(ctx, s.db)
	if err != nil {
		return err
	}
	if len(svcs) == 0 {
		svcs = domain.DefaultCatalog()
	}

	s.mu.Lock()
	s.applications = apps
	s.retailers = EnsureAdmin(users)
	s.services = svcs
	s.mu.Unlock()
	return nil
}

// EnsureAdmin guarantees the seeded admin invariant on a retailer set:
// exactly one admin-role entry with the reserved username (any case) exists.
// When absent it is prepended; it is never duplicated.
func EnsureAdmin(users []domain.User) []domain.User {
	for _, u := range users {
		if u.IsSeededAdmin() {
			return users
		}
	}
	return append([]domain.User{domain.DefaultAdmin()}, users...)
}

// ---- syncing flag ----

// BeginSync marks the start of a remote operation; EndSync marks completion.
func (s *Store) BeginSync() {
	s.syncing.Add(1)
	syncInflight.Inc()
}

// EndSync marks the completion of a remote operation started with BeginSync.
func (s *Store) EndSync() {
	s.syncing.Add(-1)
	syncInflight.Dec()
}

// Syncing reports whether any remote operation is outstanding.
func (s *Store) Syncing() bool { return s.syncing.Load() > 0 }

// ---- services ----

// Services returns a copy of the service catalog.
func (s *Store) Services() []domain.Service {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Service, len(s.services))
	copy(out, s.services)
	return out
}

// ServiceByID returns the catalog entry with the given ID.
func (s *Store) ServiceByID(id string) (domain.Service, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, svc := range s.services {
		if svc.ID == id {
			return svc, true
		}
	}
	return domain.Service{}, false
}

// SetServices replaces the catalog and mirrors it to the cache.
func (s *Store) SetServices(ctx context.Context, svcs []domain.Service) {
	s.mu.Lock()
	s.services = svcs
	s.mu.Unlock()
	s.persistServices(ctx)
}

// AddService appends a catalog entry and mirrors the catalog.
func (s *Store) AddService(ctx context.Context, svc domain.Service) {
	s.mu.Lock()
	s.services = append(s.services, svc)
	s.mu.Unlock()
	s.persistServices(ctx)
}

// UpdateService replaces the catalog entry with svc.ID in place. It reports
// whether a matching entry existed.
func (s *Store) UpdateService(ctx context.Context, svc domain.Service) bool {
	s.mu.Lock()
	found := false
	for i := range s.services {
		if s.services[i].ID == svc.ID {
			s.services[i] = svc
			found = true
			break
		}
	}
	s.mu.Unlock()
	if found {
		s.persistServices(ctx)
	}
	return found
}

// DeleteService removes the catalog entry with the given ID. It reports
// whether a matching entry existed.
func (s *Store) DeleteService(ctx context.Context, id string) bool {
	s.mu.Lock()
	found := false
	kept := s.services[:0]
	for _, svc := range s.services {
		if svc.ID == id {
			found = true
			continue
		}
		kept = append(kept, svc)
	}
	s.services = kept
	s.mu.Unlock()
	if found {
		s.persistServices(ctx)
	}
	return found
}

// ---- applications ----

// Applications returns a copy of the application list (most recent first).
func (s *Store) Applications() []domain.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Application, len(s.applications))
	copy(out, s.applications)
	return out
}

// ApplicationByID returns the application with the given ID.
func (s *Store) ApplicationByID(id string) (domain.Application, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.applications {
		if a.ID == id {
			return a, true
		}
	}
	return domain.Application{}, false
}

// SetApplications replaces the application list and mirrors it to the cache.
func (s *Store) SetApplications(ctx context.Context, apps []domain.Application) {
	s.mu.Lock()
	s.applications = apps
	s.mu.Unlock()
	s.persistApplications(ctx)
}

// ReplaceApplicationsIfChanged swaps in the freshly fetched list only when its
// serialized form differs from the current one, so unchanged poll ticks do not
// churn state. It reports whether a replacement happened.
func (s *Store) ReplaceApplicationsIfChanged(ctx context.Context, apps []domain.Application) bool {
	s.mu.Lock()
	if jsonEqual(s.applications, apps) {
		s.mu.Unlock()
		return false
	}
	s.applications = apps
	s.mu.Unlock()
	s.persistApplications(ctx)
	return true
}

// PrependApplication inserts a new application at the front of the list.
func (s *Store) PrependApplication(ctx context.Context, app domain.Application) {
	s.mu.Lock()
	s.applications = append([]domain.Application{app}, s.applications...)
	s.mu.Unlock()
	s.persistApplications(ctx)
}

// ReplaceApplication swaps the application with app.ID in place, leaving the
// collection length unchanged. It reports whether a matching entry existed.
func (s *Store) ReplaceApplication(ctx context.Context, app domain.Application) bool {
	s.mu.Lock()
	found := false
	for i := range s.applications {
		if s.applications[i].ID == app.ID {
			s.applications[i] = app
			found = true
			break
		}
	}
	s.mu.Unlock()
	if found {
		s.persistApplications(ctx)
	}
	return found
}

// MergeApplicationStatus merges a status update into the stored record
// non-destructively: empty remark or processed-document values retain the
// prior ones. It reports whether the application existed.
func (s *Store) MergeApplicationStatus(ctx context.Context, id, status, remark, processedDoc string) bool {
	s.mu.Lock()
	found := false
	for i := range s.applications {
		if s.applications[i].ID != id {
			continue
		}
		s.applications[i].Status = status
		if remark != "" {
			s.applications[i].Remark = remark
		}
		if processedDoc != "" {
			s.applications[i].ProcessedDocumentURL = processedDoc
		}
		found = true
		break
	}
	s.mu.Unlock()
	if found {
		s.persistApplications(ctx)
	}
	return found
}

// ---- retailers ----

// Retailers returns a copy of the retailer collection.
func (s *Store) Retailers() []domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.User, len(s.retailers))
	copy(out, s.retailers)
	return out
}

// RetailerByID returns the user with the given ID.
func (s *Store) RetailerByID(id string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.retailers {
		if u.ID == id {
			return u, true
		}
	}
	return domain.User{}, false
}

// RetailerByUsername returns the user with the given username,
// case-insensitively (login matching rule).
func (s *Store) RetailerByUsername(username string) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.retailers {
		if strings.EqualFold(u.Username, username) {
			return u, true
		}
	}
	return domain.User{}, false
}

// SetRetailers replaces the retailer collection, applying the seeded-admin
// guarantee, and mirrors it to the cache.
func (s *Store) SetRetailers(ctx context.Context, users []domain.User) {
	users = EnsureAdmin(users)
	s.mu.Lock()
	s.retailers = users
	s.mu.Unlock()
	s.persistRetailers(ctx)
}

// ReplaceRetailersIfChanged applies the admin guarantee to the freshly
// fetched set, then swaps it in only when the serialized form differs from
// the current one. It reports whether a replacement happened.
func (s *Store) ReplaceRetailersIfChanged(ctx context.Context, users []domain.User) bool {
	users = EnsureAdmin(users)
	s.mu.Lock()
	if jsonEqual(s.retailers, users) {
		s.mu.Unlock()
		return false
	}
	s.retailers = users
	s.mu.Unlock()
	s.persistRetailers(ctx)
	return true
}

// AppendRetailer adds a newly registered retailer to the collection.
func (s *Store) AppendRetailer(ctx context.Context, u domain.User) {
	s.mu.Lock()
	s.retailers = append(s.retailers, u)
	s.mu.Unlock()
	s.persistRetailers(ctx)
}

// UpsertRetailer replaces the user with u.ID in place (or appends when
// missing) and refreshes the session copy when the active user was updated.
func (s *Store) UpsertRetailer(ctx context.Context, u domain.User) {
	s.mu.Lock()
	found := false
	for i := range s.retailers {
		if s.retailers[i].ID == u.ID {
			s.retailers[i] = u
			found = true
			break
		}
	}
	if !found {
		s.retailers = append(s.retailers, u)
	}
	if s.current != nil && s.current.ID == u.ID {
		cp := u
		s.current = &cp
	}
	s.mu.Unlock()
	s.persistRetailers(ctx)
}

// RemoveRetailer deletes the user with the given ID from the local collection
// and mirrors the change to the cache. No remote deletion is issued; the
// sheet keeps the row until the next full overwrite, a known inconsistency
// kept on purpose (see DESIGN.md). It reports whether the user existed.
func (s *Store) RemoveRetailer(ctx context.Context, id string) bool {
	s.mu.Lock()
	found := false
	kept := s.retailers[:0]
	for _, u := range s.retailers {
		if u.ID == id {
			found = true
			continue
		}
		kept = append(kept, u)
	}
	s.retailers = kept
	s.mu.Unlock()
	if found {
		s.persistRetailers(ctx)
	}
	return found
}

// ---- session & view ----

// CurrentUser returns a copy of the active session user, or nil.
func (s *Store) CurrentUser() *domain.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	cp := *s.current
	return &cp
}

// SetCurrentUser replaces the active session (nil logs out) and notifies
// session listeners. Listeners run outside the store lock.
func (s *Store) SetCurrentUser(u *domain.User) {
	s.mu.Lock()
	if u == nil {
		s.current = nil
	} else {
		cp := *u
		s.current = &cp
	}
	s.mu.Unlock()

	s.listenerMu.Lock()
	ls := make([]SessionListener, len(s.listeners))
	copy(ls, s.listeners)
	s.listenerMu.Unlock()
	for _, fn := range ls {
		fn(u)
	}
}

// OnSessionChange registers a listener invoked on every session change.
func (s *Store) OnSessionChange(fn SessionListener) {
	s.listenerMu.Lock()
	s.listeners = append(s.listeners, fn)
	s.listenerMu.Unlock()
}

// View returns the active view selection.
func (s *Store) View() domain.ViewState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

// SetView records the active view selection.
func (s *Store) SetView(v domain.ViewState) {
	s.mu.Lock()
	s.view = v
	s.mu.Unlock()
}

// ---- persistence ----

func (s *Store) persistApplications(ctx context.Context) {
	if s.db == nil {
		return
	}
	if err := repo.SaveApplications(ctx, s.db, s.Applications()); err != nil {
		log.Warn().Err(err).Msg("cache mirror: applications write failed")
	}
}

func (s *Store) persistRetailers(ctx context.Context) {
	if s.db == nil {
		return
	}
	if err := repo.SaveRetailers(ctx, s.db, s.Retailers()); err != nil {
		log.Warn().Err(err).Msg("cache mirror: retailers write failed")
	}
}

func (s *Store) persistServices(ctx context.Context) {
	if s.db == nil {
		return
	}
	if err := repo.SaveServices(ctx, s.db, s.Services()); err != nil {
		log.Warn().Err(err).Msg("cache mirror: services write failed")
	}
}

// jsonEqual compares two values by their serialized form, the same semantic
// comparison the front end uses to decide whether a poll tick should replace
// state.
func jsonEqual(a, b any) bool {
	ra, errA := json.Marshal(a)
	rb, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(ra, rb)
}
