package themes

import (
	"errors"
	"strings"
	"testing"
)

const testManifestJSON = `{
  "name": "commerce",
  "version": "1.0.0",
  "settings": {
    "colors": {"primary": "#111827"},
    "layout": {"borderRadius": "4px"}
  },
  "templates": {
    "homepage": [
      {"type": "hero", "settings": {"heading": "Welcome"}},
      {"type": "featured-products", "settings": {"limit": 4}}
    ],
    "product": [
      {"type": "product-detail"}
    ]
  },
  "settings_schemas": {
    "hero": {
      "type": "object",
      "properties": {
        "heading": {"type": "string"}
      }
    }
  }
}`

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	manifest, err := ParseManifest(strings.NewReader(testManifestJSON))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	catalog := NewCatalog()
	if err := catalog.Register(manifest); err != nil {
		t.Fatalf("Register: %v", err)
	}
	return catalog
}

func TestCatalogDefaultSections(t *testing.T) {
	catalog := loadTestCatalog(t)

	defaults, err := catalog.DefaultSections("commerce", "homepage")
	if err != nil {
		t.Fatalf("DefaultSections: %v", err)
	}
	if len(defaults) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(defaults))
	}
	if defaults[0].SectionType != "hero" || defaults[1].SectionType != "featured-products" {
		t.Fatalf("unexpected section order: %s, %s", defaults[0].SectionType, defaults[1].SectionType)
	}
	if defaults[0].Slot != "hero" {
		t.Fatalf("expected slot to default to section type, got %q", defaults[0].Slot)
	}
	if !defaults[0].Enabled {
		t.Fatal("expected default sections enabled")
	}
	if defaults[0].ID == "" {
		t.Fatal("expected stable section id")
	}
}

func TestCatalogDefaultSectionPositions(t *testing.T) {
	manifest, err := ParseManifest(strings.NewReader(`{
	  "name": "commerce",
	  "version": "1.0.0",
	  "templates": {
	    "homepage": [
	      {"type": "hero"},
	      {"type": "banner", "position": 8},
	      {"type": "announcement-bar", "position": 0}
	    ]
	  }
	}`))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	catalog := NewCatalog()
	if err := catalog.Register(manifest); err != nil {
		t.Fatalf("Register: %v", err)
	}

	defaults, err := catalog.DefaultSections("commerce", "homepage")
	if err != nil {
		t.Fatalf("DefaultSections: %v", err)
	}
	// Absent positions fall back to file order; explicit values stick, an
	// explicit 0 included, even when the preset is not first in the file.
	if defaults[0].Position != 0 {
		t.Fatalf("expected file-order position 0, got %d", defaults[0].Position)
	}
	if defaults[1].Position != 8 {
		t.Fatalf("expected pinned position 8, got %d", defaults[1].Position)
	}
	if defaults[2].Position != 0 {
		t.Fatalf("expected explicit position 0 preserved, got %d", defaults[2].Position)
	}
}

func TestCatalogDefaultSectionsStableIdentity(t *testing.T) {
	catalog := loadTestCatalog(t)

	first, err := catalog.DefaultSections("commerce", "homepage")
	if err != nil {
		t.Fatalf("DefaultSections: %v", err)
	}
	second, err := catalog.DefaultSections("commerce", "homepage")
	if err != nil {
		t.Fatalf("DefaultSections: %v", err)
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("section %d id changed between calls: %s vs %s", i, first[i].ID, second[i].ID)
		}
	}

	// Mutating one result must not leak into later calls.
	first[0].Settings["heading"] = "mutated"
	third, err := catalog.DefaultSections("commerce", "homepage")
	if err != nil {
		t.Fatalf("DefaultSections: %v", err)
	}
	if third[0].Settings["heading"] != "Welcome" {
		t.Fatalf("manifest settings mutated: %v", third[0].Settings["heading"])
	}
}

func TestCatalogUnknownThemeFails(t *testing.T) {
	catalog := loadTestCatalog(t)

	if _, err := catalog.DefaultSections("missing", "homepage"); !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
	if _, err := catalog.DefaultSections("commerce", "collection"); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestCatalogSettingsValidator(t *testing.T) {
	catalog := loadTestCatalog(t)
	validate := catalog.SettingsValidator("commerce")

	if err := validate("hero", map[string]any{"heading": "Hi"}); err != nil {
		t.Fatalf("valid settings rejected: %v", err)
	}
	if err := validate("hero", map[string]any{"heading": 42}); err == nil {
		t.Fatal("expected schema violation")
	}
	// No schema declared means settings pass through.
	if err := validate("featured-products", map[string]any{"anything": true}); err != nil {
		t.Fatalf("unschema'd type rejected: %v", err)
	}
}

func TestParseManifestRequiresNameAndVersion(t *testing.T) {
	if _, err := ParseManifest(strings.NewReader(`{"version": "1.0.0"}`)); err == nil {
		t.Fatal("expected missing name error")
	}
	if _, err := ParseManifest(strings.NewReader(`{"name": "x"}`)); err == nil {
		t.Fatal("expected missing version error")
	}
}
