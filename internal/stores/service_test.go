package stores

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestServiceRegisterStoreValidation(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	svc := NewService(
		NewMemoryStoreRepository(),
		WithNow(func() time.Time { return now }),
		WithIDGenerator(sequentialIDs(
			"00000000-0000-0000-0000-0000000000f1",
		)),
	)

	if _, err := svc.RegisterStore(ctx, RegisterStoreInput{}); !errors.Is(err, ErrStoreNameRequired) {
		t.Fatalf("expected ErrStoreNameRequired, got %v", err)
	}

	if _, err := svc.RegisterStore(ctx, RegisterStoreInput{Name: "Acme"}); !errors.Is(err, ErrStoreSubdomainRequired) {
		t.Fatalf("expected ErrStoreSubdomainRequired, got %v", err)
	}

	if _, err := svc.RegisterStore(ctx, RegisterStoreInput{Name: "Acme", Subdomain: "acme"}); !errors.Is(err, ErrStoreThemeRequired) {
		t.Fatalf("expected ErrStoreThemeRequired, got %v", err)
	}
}

func TestServiceRegisterStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	svc := NewService(
		NewMemoryStoreRepository(),
		WithNow(func() time.Time { return now }),
		WithIDGenerator(sequentialIDs(
			"00000000-0000-0000-0000-0000000000a1",
		)),
	)

	store, err := svc.RegisterStore(ctx, RegisterStoreInput{
		Name:      "Acme Outfitters",
		Subdomain: "Acme Outfitters",
		Theme:     "commerce",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.ID != uuid.MustParse("00000000-0000-0000-0000-0000000000a1") {
		t.Fatalf("unexpected store ID: %s", store.ID)
	}
	if store.Subdomain != "acme-outfitters" {
		t.Fatalf("expected normalized subdomain, got %q", store.Subdomain)
	}
	if !store.IsActive {
		t.Fatal("expected newly registered store to be active")
	}
	if !store.CreatedAt.Equal(now) || !store.UpdatedAt.Equal(now) {
		t.Fatalf("expected timestamps to equal now (%s), got %s / %s", now, store.CreatedAt, store.UpdatedAt)
	}

	if _, err := svc.RegisterStore(ctx, RegisterStoreInput{
		Name:      "Other",
		Subdomain: "acme-outfitters",
		Theme:     "commerce",
	}); !errors.Is(err, ErrStoreExists) {
		t.Fatalf("expected ErrStoreExists, got %v", err)
	}

	found, err := svc.GetStoreBySubdomain(ctx, "acme-outfitters")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if found.ID != store.ID {
		t.Fatalf("expected %s, got %s", store.ID, found.ID)
	}
}

func TestServiceRegisterStoreRejectsUnknownTheme(t *testing.T) {
	ctx := context.Background()

	svc := NewService(
		NewMemoryStoreRepository(),
		WithThemeValidator(func(theme string) bool { return theme == "commerce" }),
	)

	_, err := svc.RegisterStore(ctx, RegisterStoreInput{
		Name:      "Acme",
		Subdomain: "acme",
		Theme:     "quantum",
	})
	if !errors.Is(err, ErrStoreThemeUnknown) {
		t.Fatalf("expected ErrStoreThemeUnknown, got %v", err)
	}
}

func TestServiceAssignTheme(t *testing.T) {
	ctx := context.Background()

	svc := NewService(
		NewMemoryStoreRepository(),
		WithThemeValidator(func(theme string) bool { return theme == "commerce" || theme == "minimal" }),
	)

	store, err := svc.RegisterStore(ctx, RegisterStoreInput{
		Name:      "Acme",
		Subdomain: "acme",
		Theme:     "commerce",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated, err := svc.AssignTheme(ctx, store.ID, "minimal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Theme != "minimal" {
		t.Fatalf("expected theme minimal, got %q", updated.Theme)
	}

	if _, err := svc.AssignTheme(ctx, store.ID, "quantum"); !errors.Is(err, ErrStoreThemeUnknown) {
		t.Fatalf("expected ErrStoreThemeUnknown, got %v", err)
	}

	if _, err := svc.AssignTheme(ctx, uuid.New(), "minimal"); !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("expected ErrStoreNotFound, got %v", err)
	}
}

func TestServiceDeactivateStore(t *testing.T) {
	ctx := context.Background()

	svc := NewService(NewMemoryStoreRepository())

	store, err := svc.RegisterStore(ctx, RegisterStoreInput{
		Name:      "Acme",
		Subdomain: "acme",
		Theme:     "commerce",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deactivated, err := svc.DeactivateStore(ctx, store.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deactivated.IsActive {
		t.Fatal("expected store to be inactive")
	}

	active, err := svc.ListActiveStores(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(active) != 0 {
		t.Fatalf("expected no active stores, got %d", len(active))
	}
}

func sequentialIDs(values ...string) IDGenerator {
	ids := make([]uuid.UUID, len(values))
	for i, value := range values {
		ids[i] = uuid.MustParse(value)
	}

	var idx int
	return func() uuid.UUID {
		if idx >= len(ids) {
			return uuid.New()
		}
		value := ids[idx]
		idx++
		return value
	}
}
