package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/digitalseva/go-portal-backend/internal/domain"
	"github.com/digitalseva/go-portal-backend/internal/repo"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := repo.OpenSQLite(filepath.Join(t.TempDir(), "cache.db"), false)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return New(db)
}

func TestEnsureAdminPrependsWhenMissing(t *testing.T) {
	users := []domain.User{{ID: "7", Username: "ravi", Role: domain.RoleRetailer}}
	got := EnsureAdmin(users)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if !got[0].IsSeededAdmin() {
		t.Fatalf("first entry is not the seeded admin: %+v", got[0])
	}
}

func TestEnsureAdminDoesNotDuplicate(t *testing.T) {
	users := []domain.User{
		{ID: "7", Username: "ravi", Role: domain.RoleRetailer},
		{ID: "1", Username: "Admin", Role: domain.RoleAdmin},
	}
	got := EnsureAdmin(users)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2 (admin matched case-insensitively)", len(got))
	}
}

func TestReplaceApplicationsIfChanged(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	apps := []domain.Application{{ID: "DOS-AAA111", Status: domain.AppStatusPending}}
	if !s.ReplaceApplicationsIfChanged(ctx, apps) {
		t.Fatal("first replacement should report a change")
	}
	same := []domain.Application{{ID: "DOS-AAA111", Status: domain.AppStatusPending}}
	if s.ReplaceApplicationsIfChanged(ctx, same) {
		t.Fatal("identical list should not report a change")
	}
	same[0].Status = domain.AppStatusApproved
	if !s.ReplaceApplicationsIfChanged(ctx, same) {
		t.Fatal("modified list should report a change")
	}
	if got := s.Applications()[0].Status; got != domain.AppStatusApproved {
		t.Fatalf("status = %q, want %q", got, domain.AppStatusApproved)
	}
}

func TestMergeApplicationStatusRetainsPriorFields(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.SetApplications(ctx, []domain.Application{{
		ID:     "DOS-XYZ123",
		Status: domain.AppStatusPending,
		Remark: "documents received",
	}})

	if !s.MergeApplicationStatus(ctx, "DOS-XYZ123", domain.AppStatusProcessed, "", "") {
		t.Fatal("merge reported application missing")
	}
	app, _ := s.ApplicationByID("DOS-XYZ123")
	if app.Status != domain.AppStatusProcessed {
		t.Fatalf("status = %q, want %q", app.Status, domain.AppStatusProcessed)
	}
	if app.Remark != "documents received" {
		t.Fatalf("empty remark must not clear the stored one, got %q", app.Remark)
	}

	s.MergeApplicationStatus(ctx, "DOS-XYZ123", domain.AppStatusApproved, "done", "data:application/pdf;base64,AAAA")
	app, _ = s.ApplicationByID("DOS-XYZ123")
	if app.Remark != "done" || app.ProcessedDocumentURL == "" {
		t.Fatalf("non-empty values must overwrite: %+v", app)
	}
}

func TestPrependApplicationKeepsMostRecentFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.PrependApplication(ctx, domain.Application{ID: "DOS-OLD001"})
	s.PrependApplication(ctx, domain.Application{ID: "DOS-NEW002"})

	apps := s.Applications()
	if apps[0].ID != "DOS-NEW002" {
		t.Fatalf("newest application must be first, got %q", apps[0].ID)
	}
}

func TestRemoveRetailerIsLocalOnly(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.SetRetailers(ctx, []domain.User{{ID: "42", Username: "ravi", Role: domain.RoleRetailer}})

	if !s.RemoveRetailer(ctx, "42") {
		t.Fatal("remove reported retailer missing")
	}
	if _, ok := s.RetailerByID("42"); ok {
		t.Fatal("retailer still present after removal")
	}
	if s.RemoveRetailer(ctx, "42") {
		t.Fatal("second removal should report missing")
	}
}

func TestSetRetailersAppliesAdminGuarantee(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	s.SetRetailers(ctx, []domain.User{{ID: "9", Username: "sunita", Role: domain.RoleRetailer}})

	if _, ok := s.RetailerByUsername("ADMIN"); !ok {
		t.Fatal("seeded admin missing after SetRetailers (lookup is case-insensitive)")
	}
}

func TestSessionListenerNotified(t *testing.T) {
	s := New(nil)
	var got []*domain.User
	s.OnSessionChange(func(u *domain.User) { got = append(got, u) })

	admin := domain.DefaultAdmin()
	s.SetCurrentUser(&admin)
	s.SetCurrentUser(nil)

	if len(got) != 2 {
		t.Fatalf("listener calls = %d, want 2", len(got))
	}
	if got[0] == nil || got[0].Role != domain.RoleAdmin {
		t.Fatalf("first notification should carry the admin, got %+v", got[0])
	}
	if got[1] != nil {
		t.Fatal("logout notification should carry nil")
	}
}

func TestCacheMirrorSurvivesReload(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	db, err := repo.OpenSQLite(filepath.Join(dir, "cache.db"), false)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	s := New(db)
	s.SetApplications(ctx, []domain.Application{{ID: "DOS-KEEP01"}})
	s.SetServices(ctx, []domain.Service{{ID: "pan-card", Title: "PAN Card", Price: 150}})

	fresh := New(db)
	if err := fresh.LoadFromCache(ctx); err != nil {
		t.Fatalf("load from cache: %v", err)
	}
	if len(fresh.Applications()) != 1 || fresh.Applications()[0].ID != "DOS-KEEP01" {
		t.Fatalf("applications not restored: %+v", fresh.Applications())
	}
	if _, ok := fresh.ServiceByID("pan-card"); !ok {
		t.Fatal("services not restored")
	}
	if _, ok := fresh.RetailerByUsername("admin"); !ok {
		t.Fatal("admin guarantee missing after cache load")
	}
}

func TestLoadFromCacheFallsBackToSeededCatalog(t *testing.T) {
	s := newTestStore(t)
	if err := s.LoadFromCache(context.Background()); err != nil {
		t.Fatalf("load from cache: %v", err)
	}
	if len(s.Services()) == 0 {
		t.Fatal("empty cache should fall back to the seeded catalog")
	}
}

func TestSyncingFlag(t *testing.T) {
	s := New(nil)
	if s.Syncing() {
		t.Fatal("fresh store should not report syncing")
	}
	s.BeginSync()
	s.BeginSync()
	s.EndSync()
	if !s.Syncing() {
		t.Fatal("one operation still outstanding")
	}
	s.EndSync()
	if s.Syncing() {
		t.Fatal("all operations finished")
	}
}
