// Package syncer implements data synchronization between the state store and
// the remote sheet: the initial load at startup and the periodic refresh that
// runs while an administrator is logged in.
//
// The poller's lifecycle is bound to session changes. It starts when a session
// with the admin role begins and stops the moment the session ends or changes
// role, so user switches never leave an orphaned ticker behind. Fetch failures
// are logged and never stop the loop; the next tick simply tries again.
package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/digitalseva/go-portal-backend/internal/domain"
	"github.com/digitalseva/go-portal-backend/internal/store"
)

// Sheet is the remote contract required by the Syncer.
type Sheet interface {
	// IsConfigured reports whether a remote endpoint is available.
	IsConfigured() bool

	// GetAllApplications fetches the full application list.
	GetAllApplications(ctx context.Context) ([]domain.Application, error)

	// GetAllRetailers fetches the full retailer list.
	GetAllRetailers(ctx context.Context) ([]domain.User, error)
}

// Syncer performs the initial load and runs the admin refresh loop.
type Syncer struct {
	// Store is the live state store.
	Store *store.Store
	// Remote is the sheet client.
	Remote Sheet
	// Interval is the poll period while an admin is logged in.
	Interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New constructs a Syncer with the given poll interval.
func New(st *store.Store, remote Sheet, interval time.Duration) *Syncer {
	if interval <= 0 {
		interval = 20 * time.Second
	}
	return &Syncer{Store: st, Remote: remote, Interval: interval}
}

// Bind registers the session listener that drives the poller lifecycle.
func (s *Syncer) Bind() {
	s.Store.OnSessionChange(func(u *domain.User) {
		if u != nil && u.Role == domain.RoleAdmin {
			s.Start()
			return
		}
		s.Stop()
	})
}

// InitialLoad seeds the store. The cache is loaded first so the portal is
// usable offline; when the sheet is configured both collections are then
// fetched concurrently and overlaid. The fetched application list replaces
// local state only when non-empty, so a blank sheet cannot wipe cached
// submissions. The retailer list is applied as fetched; the seeded-admin
// guarantee in SetRetailers keeps the admin present even when the sheet is
// empty. All failures are logged and swallowed.
func (s *Syncer) InitialLoad(ctx context.Context) {
	if err := s.Store.LoadFromCache(ctx); err != nil {
		log.Warn().Err(err).Msg("initial load: cache read failed")
	}
	if s.Remote == nil || !s.Remote.IsConfigured() {
		log.Info().Msg("remote sheet not configured, running on local cache only")
		return
	}
	apps, users, err := s.fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("initial load: sheet fetch failed, using cached data")
		return
	}
	if len(apps) > 0 {
		s.Store.SetApplications(ctx, apps)
	}
	s.Store.SetRetailers(ctx, users)
	log.Info().Int("applications", len(apps)).Int("retailers", len(users)).Msg("initial load complete")
}

// Start launches the refresh loop. Starting an already running loop is a
// no-op.
func (s *Syncer) Start() {
	if s.Remote == nil || !s.Remote.IsConfigured() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	go s.run(ctx, s.done)
	log.Info().Dur("interval", s.Interval).Msg("admin refresh loop started")
}

// Stop cancels the refresh loop and waits for it to exit. Stopping a stopped
// loop is a no-op.
func (s *Syncer) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done
	log.Info().Msg("admin refresh loop stopped")
}

func (s *Syncer) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick fetches both collections and replaces in-memory state only when the
// serialized forms differ, so unchanged data causes no churn.
func (s *Syncer) tick(ctx context.Context) {
	apps, users, err := s.fetch(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("refresh tick failed")
		return
	}
	if len(apps) > 0 && s.Store.ReplaceApplicationsIfChanged(ctx, apps) {
		log.Debug().Int("count", len(apps)).Msg("applications refreshed")
	}
	if len(users) > 0 && s.Store.ReplaceRetailersIfChanged(ctx, users) {
		log.Debug().Int("count", len(users)).Msg("retailers refreshed")
	}
}

// fetch retrieves both collections concurrently.
func (s *Syncer) fetch(ctx context.Context) ([]domain.Application, []domain.User, error) {
	s.Store.BeginSync()
	defer s.Store.EndSync()

	var (
		apps  []domain.Application
		users []domain.User
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		apps, err = s.Remote.GetAllApplications(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		users, err = s.Remote.GetAllRetailers(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return apps, users, nil
}
