package interfaces

import (
	"context"
	"html/template"

	"github.com/goliatone/go-storefront/sections"
	"github.com/goliatone/go-storefront/stores"
)

// RenderContext bundles the per-request data handed to section renderables.
type RenderContext struct {
	Store         *stores.Store
	Theme         string
	TemplateType  string
	ThemeSettings map[string]any
	PageData      map[string]any
	Preview       bool
	SelectorMode  bool
}

// SectionRenderable produces markup for one resolved section. Implementations
// receive the section's settings and ordered block list and must not mutate
// either.
type SectionRenderable interface {
	Render(ctx context.Context, section *sections.Section, rc RenderContext) (template.HTML, error)
}

// SectionRenderableFunc adapts a plain function to the SectionRenderable contract.
type SectionRenderableFunc func(ctx context.Context, section *sections.Section, rc RenderContext) (template.HTML, error)

// Render implements SectionRenderable.
func (f SectionRenderableFunc) Render(ctx context.Context, section *sections.Section, rc RenderContext) (template.HTML, error) {
	return f(ctx, section, rc)
}

// RenderableLoader lazily materialises a renderable implementation. Loaders
// run at most once per successful resolution; a failed load may be retried.
type RenderableLoader func(ctx context.Context) (SectionRenderable, error)
