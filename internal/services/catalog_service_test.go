package services

import (
	"context"
	"errors"
	"testing"

	"github.com/digitalseva/go-portal-backend/internal/domain"
	"github.com/digitalseva/go-portal-backend/internal/store"
)

func catalogFixture(t *testing.T) *CatalogService {
	t.Helper()
	st := store.New(nil)
	st.SetServices(context.Background(), domain.DefaultCatalog())
	return NewCatalogService(st)
}

func TestCatalogSeededDefaults(t *testing.T) {
	svc := catalogFixture(t)
	if got := len(svc.List()); got != 7 {
		t.Fatalf("seeded catalog size = %d, want 7", got)
	}
	ration, err := svc.Get("ration-card")
	if err != nil {
		t.Fatalf("Get(ration-card): %v", err)
	}
	if ration.Price != 150 {
		t.Fatalf("ration card price = %d, want 150", ration.Price)
	}
}

func TestCatalogAddRejectsDuplicateID(t *testing.T) {
	ctx := context.Background()
	svc := catalogFixture(t)

	if _, err := svc.Add(ctx, domain.Service{ID: "ration-card", Title: "Duplicate"}); !errors.Is(err, ErrDuplicateService) {
		t.Fatalf("err = %v, want ErrDuplicateService", err)
	}

	added, err := svc.Add(ctx, domain.Service{Title: "Birth Certificate", Price: 60})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if added.ID != "birth-certificate" {
		t.Fatalf("derived ID = %q, want birth-certificate", added.ID)
	}
}

func TestCatalogUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	svc := catalogFixture(t)

	updated, err := svc.Update(ctx, domain.Service{ID: "pan-card", Title: "PAN Card", Price: 200})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.Price != 200 {
		t.Fatalf("price = %d, want 200", updated.Price)
	}
	if _, err := svc.Update(ctx, domain.Service{ID: "ghost"}); !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("err = %v, want ErrServiceNotFound", err)
	}

	if err := svc.Delete(ctx, "pan-card"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := svc.Delete(ctx, "pan-card"); !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("second delete err = %v, want ErrServiceNotFound", err)
	}
}

func TestCatalogPriceFor(t *testing.T) {
	svc := catalogFixture(t)

	price, err := svc.PriceFor("mutation", domain.RoleRetailer)
	if err != nil {
		t.Fatalf("PriceFor: %v", err)
	}
	if price != 315 {
		t.Fatalf("retailer mutation price = %d, want 315", price)
	}
	price, _ = svc.PriceFor("mutation", domain.RoleAdmin)
	if price != 0 {
		t.Fatalf("admin price = %d, want 0", price)
	}
	if _, err := svc.PriceFor("ghost", domain.RoleAdmin); !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("err = %v, want ErrServiceNotFound", err)
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Birth Certificate":   "birth-certificate",
		"  PAN  Card  ":       "pan-card",
		"दाखिल खारिज (Mutation)": "mutation",
	}
	for in, want := range cases {
		if got := slugify(in); got != want {
			t.Errorf("slugify(%q) = %q, want %q", in, got, want)
		}
	}
}
