package templates_test

import (
	"context"
	"errors"
	"testing"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/internal/templates"
	"github.com/goliatone/go-storefront/pkg/testsupport"
)

func newBunTemplateEnv(t *testing.T) templates.Service {
	t.Helper()

	db, err := testsupport.NewBunSQLiteDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := testsupport.CreateSchema(context.Background(), db); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	return templates.NewService(
		templates.NewBunTemplateRepository(db),
		templates.NewBunSectionRepository(db),
	)
}

func TestTemplateServiceWithBunStorage(t *testing.T) {
	ctx := context.Background()
	svc := newBunTemplateEnv(t)

	storeID := uuid.New()
	tmpl, err := svc.EnsureTemplate(ctx, templates.EnsureTemplateInput{
		StoreID:      storeID,
		TemplateType: "homepage",
		Name:         "Homepage",
	})
	if err != nil {
		t.Fatalf("EnsureTemplate: %v", err)
	}

	inputs, err := testsupport.LoadSectionFixture("testdata/homepage_overrides.json")
	if err != nil {
		t.Fatalf("LoadSectionFixture: %v", err)
	}
	saved, err := svc.ReplaceSections(ctx, tmpl.ID, inputs)
	if err != nil {
		t.Fatalf("ReplaceSections: %v", err)
	}
	if len(saved) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(saved))
	}
	if saved[0].Settings["heading"] != "Summer Sale" {
		t.Fatalf("fixture settings lost: %v", saved[0].Settings)
	}
	if saved[1].Enabled {
		t.Fatal("expected disabled banner from fixture")
	}
	if len(saved[1].Blocks) != 1 || saved[1].Blocks[0].BlockType != "link" {
		t.Fatalf("fixture blocks lost: %+v", saved[1].Blocks)
	}

	// Upserting the same slot with a zero ID must update the stored row
	// rather than insert a duplicate.
	updated, err := svc.UpsertSection(ctx, tmpl.ID, templates.SectionInput{
		SectionType: "hero",
		Slot:        "hero",
		Settings:    map[string]any{"heading": "Flash Sale"},
		Position:    1,
	})
	if err != nil {
		t.Fatalf("UpsertSection: %v", err)
	}
	if updated.ID != saved[0].ID {
		t.Fatalf("slot identity drifted: %s vs %s", updated.ID, saved[0].ID)
	}

	listed, err := svc.ListSections(ctx, tmpl.ID)
	if err != nil {
		t.Fatalf("ListSections: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 sections after upsert, got %d", len(listed))
	}
	if listed[0].Settings["heading"] != "Flash Sale" {
		t.Fatalf("upsert not persisted: %v", listed[0].Settings)
	}

	fetched, err := svc.GetTemplate(ctx, storeID, "homepage")
	if err != nil {
		t.Fatalf("GetTemplate: %v", err)
	}
	if fetched.ID != tmpl.ID {
		t.Fatalf("template identity drifted: %s vs %s", fetched.ID, tmpl.ID)
	}
	if _, err := svc.GetTemplate(ctx, storeID, "product"); !errors.Is(err, templates.ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestTemplateServiceWithBunStorageAndCache(t *testing.T) {
	ctx := context.Background()

	db, err := testsupport.NewBunSQLiteDB()
	if err != nil {
		t.Fatalf("new sqlite db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = db.Close()
	})
	if err := testsupport.CreateSchema(ctx, db); err != nil {
		t.Fatalf("create schema: %v", err)
	}

	cacheCfg := repocache.DefaultConfig()
	cacheCfg.TTL = time.Minute
	cacheService, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		t.Fatalf("new cache service: %v", err)
	}
	keySerializer := repocache.NewDefaultKeySerializer()

	svc := templates.NewService(
		templates.NewBunTemplateRepositoryWithCache(db, cacheService, keySerializer),
		templates.NewBunSectionRepositoryWithCache(db, cacheService, keySerializer),
	)

	tmpl, err := svc.EnsureTemplate(ctx, templates.EnsureTemplateInput{
		StoreID:      uuid.New(),
		TemplateType: "product",
		Name:         "Product",
	})
	if err != nil {
		t.Fatalf("EnsureTemplate: %v", err)
	}

	if _, err := svc.ReplaceSections(ctx, tmpl.ID, []templates.SectionInput{
		{SectionType: "banner", Slot: "banner", Settings: map[string]any{"text": "Sale"}, Position: 0},
	}); err != nil {
		t.Fatalf("ReplaceSections: %v", err)
	}

	for i := 0; i < 2; i++ {
		listed, err := svc.ListSections(ctx, tmpl.ID)
		if err != nil {
			t.Fatalf("ListSections pass %d: %v", i, err)
		}
		if len(listed) != 1 || listed[0].Settings["text"] != "Sale" {
			t.Fatalf("ListSections pass %d: %+v", i, listed)
		}
	}
}
