package renderer

import (
	"context"
	"fmt"
	"html/template"
	"strings"
	"testing"

	"github.com/goliatone/go-storefront/internal/themes"
	"github.com/goliatone/go-storefront/pkg/interfaces"
	"github.com/goliatone/go-storefront/sections"
)

func staticRenderable(body string) interfaces.SectionRenderable {
	return interfaces.SectionRenderableFunc(func(ctx context.Context, section *sections.Section, rc interfaces.RenderContext) (template.HTML, error) {
		return template.HTML(body), nil
	})
}

func newTestRenderer(t *testing.T) (*Renderer, *themes.Registry) {
	t.Helper()
	registry := themes.NewRegistry()
	r, err := New(registry)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return r, registry
}

func heroSection(enabled bool) *sections.Section {
	return &sections.Section{
		ID:          "sec-hero",
		SectionType: "hero",
		Slot:        "hero",
		Enabled:     enabled,
	}
}

func TestRenderSectionWrapsWithIdentity(t *testing.T) {
	r, registry := newTestRenderer(t)
	registry.RegisterRenderable("commerce", "hero", staticRenderable("<h1>Hi</h1>"))

	html, err := r.RenderSection(context.Background(), heroSection(true), interfaces.RenderContext{Theme: "commerce"})
	if err != nil {
		t.Fatalf("RenderSection: %v", err)
	}

	out := string(html)
	if !strings.Contains(out, `data-section-id="sec-hero"`) {
		t.Fatalf("missing section id attr: %s", out)
	}
	if !strings.Contains(out, `data-section-type="hero"`) {
		t.Fatalf("missing section type attr: %s", out)
	}
	if !strings.Contains(out, "<h1>Hi</h1>") {
		t.Fatalf("missing body: %s", out)
	}
}

func TestRenderSectionDisabledLiveIsAbsent(t *testing.T) {
	r, registry := newTestRenderer(t)
	registry.RegisterRenderable("commerce", "hero", staticRenderable("<h1>Hi</h1>"))

	html, err := r.RenderSection(context.Background(), heroSection(false), interfaces.RenderContext{Theme: "commerce"})
	if err != nil {
		t.Fatalf("RenderSection: %v", err)
	}
	if html != "" {
		t.Fatalf("disabled section rendered on live page: %s", html)
	}
}

func TestRenderSectionDisabledPreviewIsDimmed(t *testing.T) {
	r, registry := newTestRenderer(t)
	registry.RegisterRenderable("commerce", "hero", staticRenderable("<h1>Hi</h1>"))

	html, err := r.RenderSection(context.Background(), heroSection(false), interfaces.RenderContext{Theme: "commerce", Preview: true})
	if err != nil {
		t.Fatalf("RenderSection: %v", err)
	}

	out := string(html)
	if !strings.Contains(out, "storefront-section--disabled") {
		t.Fatalf("expected disabled class: %s", out)
	}
	if !strings.Contains(out, "<h1>Hi</h1>") {
		t.Fatalf("disabled preview should still show content: %s", out)
	}
}

func TestRenderSectionMissingRendererPlaceholder(t *testing.T) {
	r, _ := newTestRenderer(t)

	html, err := r.RenderSection(context.Background(), heroSection(true), interfaces.RenderContext{Theme: "commerce"})
	if err != nil {
		t.Fatalf("RenderSection: %v", err)
	}
	if !strings.Contains(string(html), "storefront-section--missing") {
		t.Fatalf("expected missing placeholder: %s", html)
	}
}

func TestRenderSectionLoadFailurePlaceholder(t *testing.T) {
	r, registry := newTestRenderer(t)
	registry.Register("commerce", "hero", func(ctx context.Context) (interfaces.SectionRenderable, error) {
		return nil, fmt.Errorf("template parse failed")
	})

	html, err := r.RenderSection(context.Background(), heroSection(true), interfaces.RenderContext{Theme: "commerce"})
	if err != nil {
		t.Fatalf("RenderSection: %v", err)
	}
	if !strings.Contains(string(html), "storefront-section--error") {
		t.Fatalf("expected error placeholder: %s", html)
	}
}

func TestRenderSectionRenderErrorPlaceholder(t *testing.T) {
	r, registry := newTestRenderer(t)
	registry.RegisterRenderable("commerce", "hero", interfaces.SectionRenderableFunc(
		func(ctx context.Context, section *sections.Section, rc interfaces.RenderContext) (template.HTML, error) {
			return "", fmt.Errorf("boom")
		},
	))

	html, err := r.RenderSection(context.Background(), heroSection(true), interfaces.RenderContext{Theme: "commerce"})
	if err != nil {
		t.Fatalf("RenderSection: %v", err)
	}
	if !strings.Contains(string(html), "storefront-section--error") {
		t.Fatalf("expected error placeholder: %s", html)
	}
}

func TestRenderSectionSelectorMode(t *testing.T) {
	r, registry := newTestRenderer(t)
	registry.RegisterRenderable("commerce", "hero", staticRenderable("<h1>Hi</h1>"))

	rc := interfaces.RenderContext{Theme: "commerce", Preview: true, SelectorMode: true}
	html, err := r.RenderSection(context.Background(), heroSection(true), rc)
	if err != nil {
		t.Fatalf("RenderSection: %v", err)
	}
	if !strings.Contains(string(html), `data-selectable="true"`) {
		t.Fatalf("expected selectable attr: %s", html)
	}

	rc.SelectorMode = false
	html, err = r.RenderSection(context.Background(), heroSection(true), rc)
	if err != nil {
		t.Fatalf("RenderSection: %v", err)
	}
	if strings.Contains(string(html), "data-selectable") {
		t.Fatalf("selectable attr leaked outside selector mode: %s", html)
	}
}

func TestRenderSectionsConcatenatesInOrder(t *testing.T) {
	r, registry := newTestRenderer(t)
	registry.RegisterRenderable("commerce", "hero", staticRenderable("<h1>Hero</h1>"))
	registry.RegisterRenderable("commerce", "banner", staticRenderable("<p>Banner</p>"))

	list := []*sections.Section{
		{ID: "s1", SectionType: "hero", Enabled: true},
		{ID: "s2", SectionType: "banner", Enabled: true},
	}
	html, err := r.RenderSections(context.Background(), list, interfaces.RenderContext{Theme: "commerce"})
	if err != nil {
		t.Fatalf("RenderSections: %v", err)
	}
	out := string(html)
	if strings.Index(out, "Hero") > strings.Index(out, "Banner") {
		t.Fatalf("sections out of order: %s", out)
	}
}
