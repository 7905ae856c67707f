// Package commerce is the built-in reference theme. It bundles a manifest
// with default sections for the core template types and html/template backed
// renderables for each section type the manifest uses.
package commerce

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"

	"github.com/goliatone/go-storefront/internal/themes"
	"github.com/goliatone/go-storefront/pkg/interfaces"
	"github.com/goliatone/go-storefront/sections"
)

//go:embed theme.json
var manifestJSON []byte

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Name is the theme identifier stores reference.
const Name = "commerce"

// SectionTypes lists every section type the theme ships a renderable for.
var SectionTypes = []string{
	"announcement-bar",
	"header",
	"hero",
	"featured-products",
	"banner",
	"rich-text",
	"footer",
}

// Manifest parses the embedded theme manifest.
func Manifest() (*themes.Manifest, error) {
	return themes.ParseManifest(bytes.NewReader(manifestJSON))
}

// Register adds the theme manifest to the catalog and its renderable loaders
// to the registry.
func Register(catalog *themes.Catalog, registry *themes.Registry) error {
	manifest, err := Manifest()
	if err != nil {
		return err
	}
	if err := catalog.Register(manifest); err != nil {
		return err
	}
	RegisterRenderables(registry)
	return nil
}

// RegisterRenderables installs a lazy loader per section type. Templates are
// parsed on first resolution, and the registry caches the result.
func RegisterRenderables(registry *themes.Registry) {
	for _, sectionType := range SectionTypes {
		registry.Register(Name, sectionType, renderableLoader(sectionType))
	}
}

func renderableLoader(sectionType string) interfaces.RenderableLoader {
	return func(ctx context.Context) (interfaces.SectionRenderable, error) {
		name := sectionType + ".tmpl"
		tmpl, err := template.New(name).Funcs(templateFuncs()).ParseFS(templatesFS, "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("commerce: parse %s template: %w", sectionType, err)
		}
		return &templateRenderable{sectionType: sectionType, tmpl: tmpl}, nil
	}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": renderMarkdown,
	}
}

// renderData is the root object each section template executes against.
type renderData struct {
	Section  *sections.Section
	Settings map[string]any
	Blocks   []sections.Block
	Context  interfaces.RenderContext
}

type templateRenderable struct {
	sectionType string
	tmpl        *template.Template
}

func (r *templateRenderable) Render(ctx context.Context, section *sections.Section, rc interfaces.RenderContext) (template.HTML, error) {
	data := renderData{
		Section:  section,
		Settings: section.Settings,
		Blocks:   section.Blocks,
		Context:  rc,
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("commerce: render %s: %w", r.sectionType, err)
	}
	return template.HTML(buf.String()), nil
}
