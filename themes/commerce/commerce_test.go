package commerce_test

import (
	"context"
	"strings"
	"testing"

	"github.com/goliatone/go-storefront/internal/themes"
	"github.com/goliatone/go-storefront/pkg/interfaces"
	"github.com/goliatone/go-storefront/sections"
	"github.com/goliatone/go-storefront/stores"
	"github.com/goliatone/go-storefront/themes/commerce"
)

func TestManifestParses(t *testing.T) {
	manifest, err := commerce.Manifest()
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	if manifest.Name != "commerce" {
		t.Fatalf("expected theme name commerce, got %q", manifest.Name)
	}

	for _, templateType := range []string{"homepage", "product", "collection", "cart"} {
		if len(manifest.Templates[templateType]) == 0 {
			t.Fatalf("expected default sections for %q", templateType)
		}
	}
	if _, ok := manifest.SettingsSchemas["hero"]; !ok {
		t.Fatal("expected a settings schema for hero")
	}
}

func TestRegisterPopulatesCatalogAndRegistry(t *testing.T) {
	catalog := themes.NewCatalog()
	registry := themes.NewRegistry()

	if err := commerce.Register(catalog, registry); err != nil {
		t.Fatalf("register theme: %v", err)
	}
	if !catalog.HasTheme("commerce") {
		t.Fatal("expected catalog to know the commerce theme")
	}

	defaults, err := catalog.DefaultSections("commerce", "homepage")
	if err != nil {
		t.Fatalf("default sections: %v", err)
	}
	if len(defaults) != 6 {
		t.Fatalf("expected 6 homepage defaults, got %d", len(defaults))
	}
	if defaults[2].SectionType != "hero" {
		t.Fatalf("expected hero at position 2, got %q", defaults[2].SectionType)
	}

	for _, sectionType := range commerce.SectionTypes {
		if _, err := registry.Resolve(context.Background(), "commerce", sectionType); err != nil {
			t.Fatalf("resolve %q: %v", sectionType, err)
		}
	}
}

func renderSection(t *testing.T, registry *themes.Registry, section *sections.Section, rc interfaces.RenderContext) string {
	t.Helper()

	renderable, err := registry.Resolve(context.Background(), "commerce", section.SectionType)
	if err != nil {
		t.Fatalf("resolve %q: %v", section.SectionType, err)
	}
	markup, err := renderable.Render(context.Background(), section, rc)
	if err != nil {
		t.Fatalf("render %q: %v", section.SectionType, err)
	}
	return string(markup)
}

func TestHeroRendersSettings(t *testing.T) {
	registry := themes.NewRegistry()
	commerce.RegisterRenderables(registry)

	markup := renderSection(t, registry, &sections.Section{
		ID:          "s1",
		SectionType: "hero",
		Settings: map[string]any{
			"heading":  "Summer drop",
			"ctaLabel": "Shop now",
			"ctaUrl":   "/collections/summer",
		},
	}, interfaces.RenderContext{})

	if !strings.Contains(markup, "Summer drop") {
		t.Fatalf("expected heading in markup: %s", markup)
	}
	if !strings.Contains(markup, `href="/collections/summer"`) {
		t.Fatalf("expected cta link in markup: %s", markup)
	}
}

func TestHeaderRendersNavigationBlocks(t *testing.T) {
	registry := themes.NewRegistry()
	commerce.RegisterRenderables(registry)

	markup := renderSection(t, registry, &sections.Section{
		ID:          "s1",
		SectionType: "header",
		Blocks: []sections.Block{
			{ID: "b1", BlockType: "link", Settings: map[string]any{"label": "Catalog", "url": "/collections/all"}},
			{ID: "b2", BlockType: "image", Settings: map[string]any{"src": "/logo.png"}},
		},
	}, interfaces.RenderContext{
		Store: &stores.Store{Name: "Acme Outfitters"},
	})

	if !strings.Contains(markup, "Acme Outfitters") {
		t.Fatalf("expected store name in markup: %s", markup)
	}
	if !strings.Contains(markup, `href="/collections/all"`) {
		t.Fatalf("expected nav link in markup: %s", markup)
	}
	if strings.Contains(markup, "logo.png") {
		t.Fatalf("expected non-link blocks to be skipped: %s", markup)
	}
}

func TestSelectorModeStampsBlockIdentity(t *testing.T) {
	registry := themes.NewRegistry()
	commerce.RegisterRenderables(registry)

	section := &sections.Section{
		ID:          "s1",
		SectionType: "header",
		Blocks: []sections.Block{
			{ID: "b1", BlockType: "link", Settings: map[string]any{"label": "Catalog", "url": "/collections/all"}},
		},
	}

	plain := renderSection(t, registry, section, interfaces.RenderContext{Preview: true})
	if strings.Contains(plain, "data-block-id") {
		t.Fatalf("expected no block identity outside selector mode: %s", plain)
	}

	selectable := renderSection(t, registry, section, interfaces.RenderContext{Preview: true, SelectorMode: true})
	if !strings.Contains(selectable, `data-block-id="b1"`) {
		t.Fatalf("expected block identity in selector mode: %s", selectable)
	}
	if !strings.Contains(selectable, `data-block-type="link"`) {
		t.Fatalf("expected block type in selector mode: %s", selectable)
	}
}

func TestRichTextRendersMarkdownSafely(t *testing.T) {
	registry := themes.NewRegistry()
	commerce.RegisterRenderables(registry)

	markup := renderSection(t, registry, &sections.Section{
		ID:          "s1",
		SectionType: "rich-text",
		Settings: map[string]any{
			"content": "## Our story\n\n<script>alert(1)</script>",
		},
	}, interfaces.RenderContext{})

	if !strings.Contains(markup, "<h2") {
		t.Fatalf("expected heading markup: %s", markup)
	}
	if strings.Contains(markup, "<script>") {
		t.Fatalf("expected raw HTML to be escaped: %s", markup)
	}
}
