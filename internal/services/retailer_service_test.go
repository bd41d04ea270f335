package services

import (
	"context"
	"errors"
	"testing"

	"github.com/digitalseva/go-portal-backend/internal/domain"
	"github.com/digitalseva/go-portal-backend/internal/store"
)

// fakeRetailerSheet records retailer writes pushed to the sheet.
type fakeRetailerSheet struct {
	configured bool
	saved      []domain.User
	updated    []domain.User
	saveErr    error
}

func (f *fakeRetailerSheet) IsConfigured() bool { return f.configured }

func (f *fakeRetailerSheet) SaveRetailer(_ context.Context, u domain.User) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, u)
	return nil
}

func (f *fakeRetailerSheet) UpdateRetailer(_ context.Context, u domain.User) error {
	f.updated = append(f.updated, u)
	return nil
}

func retailerFixture(t *testing.T) (*RetailerService, *fakeRetailerSheet) {
	t.Helper()
	st := store.New(nil)
	st.SetRetailers(context.Background(), nil)
	remote := &fakeRetailerSheet{configured: true}
	return NewRetailerService(st, remote), remote
}

func TestRegisterStartsPending(t *testing.T) {
	ctx := context.Background()
	svc, remote := retailerFixture(t)

	u, err := svc.Register(ctx, RegisterInput{
		Username:     "ravi",
		FullName:     "Ravi Shankar",
		ShopName:     "Shankar CSC",
		MobileNumber: "9812345678",
		Password:     "s3cret",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Status != domain.UserStatusPending {
		t.Fatalf("status = %q, want Pending", u.Status)
	}
	if u.Role != domain.RoleRetailer || u.WalletBalance != 0 {
		t.Fatalf("unexpected account defaults: %+v", u)
	}
	if len(remote.saved) != 1 {
		t.Fatalf("remote saves = %d, want 1", len(remote.saved))
	}
	if _, ok := svc.Store.RetailerByUsername("RAVI"); !ok {
		t.Fatal("registered user not found case-insensitively")
	}
}

func TestRegisterRemoteFailureAborts(t *testing.T) {
	ctx := context.Background()
	svc, remote := retailerFixture(t)
	remote.saveErr = errors.New("sheet down")

	if _, err := svc.Register(ctx, RegisterInput{Username: "ravi"}); !errors.Is(err, ErrSyncFailed) {
		t.Fatalf("err = %v, want ErrSyncFailed", err)
	}
	if _, ok := svc.Store.RetailerByUsername("ravi"); ok {
		t.Fatal("failed sheet insert must not append the account locally")
	}
}

func TestRegisterRejectsDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc, _ := retailerFixture(t)

	if _, err := svc.Register(ctx, RegisterInput{Username: "ravi"}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "Ravi"}); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("err = %v, want ErrDuplicateUsername", err)
	}
	if _, err := svc.Register(ctx, RegisterInput{Username: "ADMIN"}); !errors.Is(err, ErrDuplicateUsername) {
		t.Fatalf("seeded admin username must be reserved, err = %v", err)
	}
}

func TestSetStatusApprovesAccount(t *testing.T) {
	ctx := context.Background()
	svc, remote := retailerFixture(t)
	u, _ := svc.Register(ctx, RegisterInput{Username: "ravi"})

	got, err := svc.SetStatus(ctx, u.ID, domain.UserStatusActive)
	if err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	if got.Status != domain.UserStatusActive {
		t.Fatalf("status = %q, want Active", got.Status)
	}
	if len(remote.updated) != 1 {
		t.Fatalf("remote updates = %d, want 1", len(remote.updated))
	}

	if _, err := svc.SetStatus(ctx, u.ID, "Frozen"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	if _, err := svc.SetStatus(ctx, "missing", domain.UserStatusActive); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}

func TestUpdateProfileLeavesIdentityAlone(t *testing.T) {
	ctx := context.Background()
	svc, _ := retailerFixture(t)
	u, _ := svc.Register(ctx, RegisterInput{Username: "ravi", FullName: "Ravi Shankar"})

	got, err := svc.UpdateProfile(ctx, u.ID, RegisterInput{
		FullName: "Ravi S. Shankar",
		Email:    "ravi@example.in",
		Password: "newpass",
	})
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.FullName != "Ravi S. Shankar" || got.Email != "ravi@example.in" || got.CustomPassword != "newpass" {
		t.Fatalf("profile fields not applied: %+v", got)
	}
	if got.Username != "ravi" || got.Status != domain.UserStatusPending {
		t.Fatalf("identity fields must not change: %+v", got)
	}
}

func TestDeleteIsLocalOnly(t *testing.T) {
	ctx := context.Background()
	svc, remote := retailerFixture(t)
	u, _ := svc.Register(ctx, RegisterInput{Username: "ravi"})
	remote.updated = nil
	remote.saved = nil

	if err := svc.Delete(ctx, u.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(remote.saved)+len(remote.updated) != 0 {
		t.Fatal("delete must not issue any remote call")
	}
	if err := svc.Delete(ctx, u.ID); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("err = %v, want ErrUserNotFound", err)
	}
}
