package syncer

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/digitalseva/go-portal-backend/internal/domain"
	"github.com/digitalseva/go-portal-backend/internal/store"
)

// fakeSheet serves canned collections and counts fetches.
type fakeSheet struct {
	mu         sync.Mutex
	configured bool
	apps       []domain.Application
	users      []domain.User
	err        error
	fetches    int
}

func (f *fakeSheet) IsConfigured() bool { return f.configured }

func (f *fakeSheet) GetAllApplications(context.Context) ([]domain.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return f.apps, f.err
}

func (f *fakeSheet) GetAllRetailers(context.Context) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.users, f.err
}

func (f *fakeSheet) set(apps []domain.Application, users []domain.User, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.apps, f.users, f.err = apps, users, err
}

func (f *fakeSheet) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func TestInitialLoadOverlaysRemote(t *testing.T) {
	ctx := context.Background()
	st := store.New(nil)
	remote := &fakeSheet{
		configured: true,
		apps:       []domain.Application{{ID: "DOS-CLOUD1"}},
		users:      []domain.User{{ID: "9", Username: "sunita", Role: domain.RoleRetailer}},
	}

	New(st, remote, time.Second).InitialLoad(ctx)

	if got := st.Applications(); len(got) != 1 || got[0].ID != "DOS-CLOUD1" {
		t.Fatalf("applications = %+v", got)
	}
	if _, ok := st.RetailerByUsername("admin"); !ok {
		t.Fatal("admin guarantee missing after remote overlay")
	}
	if _, ok := st.RetailerByID("9"); !ok {
		t.Fatal("fetched retailer missing")
	}
}

func TestInitialLoadEmptyRemoteKeepsLocal(t *testing.T) {
	ctx := context.Background()
	st := store.New(nil)
	st.SetApplications(ctx, []domain.Application{{ID: "DOS-LOCAL1"}})
	remote := &fakeSheet{configured: true} // empty collections

	New(st, remote, time.Second).InitialLoad(ctx)

	if got := st.Applications(); len(got) != 1 || got[0].ID != "DOS-LOCAL1" {
		t.Fatalf("empty fetch must not wipe local data: %+v", got)
	}
}

func TestInitialLoadReplacesRetailersAsFetched(t *testing.T) {
	ctx := context.Background()
	st := store.New(nil)
	st.SetRetailers(ctx, []domain.User{{ID: "9", Username: "sunita", Role: domain.RoleRetailer}})
	remote := &fakeSheet{configured: true} // empty retailer fetch

	New(st, remote, time.Second).InitialLoad(ctx)

	// The retailer list mirrors the sheet after the initial load; only the
	// seeded admin survives an empty fetch.
	if _, ok := st.RetailerByID("9"); ok {
		t.Fatal("initial load must apply the fetched retailer list as-is")
	}
	if _, ok := st.RetailerByUsername("admin"); !ok {
		t.Fatal("admin guarantee missing after empty fetch")
	}
}

func TestInitialLoadFetchFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	st := store.New(nil)
	st.SetApplications(ctx, []domain.Application{{ID: "DOS-LOCAL1"}})
	remote := &fakeSheet{configured: true, err: errors.New("boom")}

	New(st, remote, time.Second).InitialLoad(ctx)

	if got := st.Applications(); len(got) != 1 {
		t.Fatalf("fetch failure must leave local data intact: %+v", got)
	}
}

func TestPollerLifecycleFollowsSession(t *testing.T) {
	st := store.New(nil)
	remote := &fakeSheet{configured: true}
	s := New(st, remote, 10*time.Millisecond)
	s.Bind()

	admin := domain.DefaultAdmin()
	st.SetCurrentUser(&admin)
	waitFor(t, func() bool { return remote.fetchCount() > 0 })

	st.SetCurrentUser(nil)
	settled := remote.fetchCount()
	time.Sleep(50 * time.Millisecond)
	if remote.fetchCount() > settled+1 {
		t.Fatal("poller still fetching after logout")
	}

	// A retailer session must not start the poller.
	retailer := domain.User{ID: "42", Role: domain.RoleRetailer}
	before := remote.fetchCount()
	st.SetCurrentUser(&retailer)
	time.Sleep(50 * time.Millisecond)
	if remote.fetchCount() != before {
		t.Fatal("poller ran for a retailer session")
	}
	st.SetCurrentUser(nil)
}

func TestTickReplacesOnlyOnDiff(t *testing.T) {
	ctx := context.Background()
	st := store.New(nil)
	remote := &fakeSheet{configured: true}
	s := New(st, remote, time.Hour)

	remote.set([]domain.Application{{ID: "DOS-AAAAA1", Status: domain.AppStatusPending}}, nil, nil)
	s.tick(ctx)
	if len(st.Applications()) != 1 {
		t.Fatal("first tick should replace")
	}

	// Same payload: no change expected.
	s.tick(ctx)
	apps := st.Applications()
	if len(apps) != 1 || apps[0].Status != domain.AppStatusPending {
		t.Fatalf("unchanged tick altered state: %+v", apps)
	}

	remote.set([]domain.Application{{ID: "DOS-AAAAA1", Status: domain.AppStatusApproved}}, nil, nil)
	s.tick(ctx)
	if st.Applications()[0].Status != domain.AppStatusApproved {
		t.Fatal("changed payload not applied")
	}

	// Errors leave state untouched.
	remote.set(nil, nil, errors.New("boom"))
	s.tick(ctx)
	if st.Applications()[0].Status != domain.AppStatusApproved {
		t.Fatal("failed tick altered state")
	}
}

func TestStartStopIdempotent(t *testing.T) {
	st := store.New(nil)
	s := New(st, &fakeSheet{configured: true}, time.Hour)
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}
