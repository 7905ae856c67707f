package storefront

import (
	"net/http"

	"github.com/goliatone/go-storefront/internal/compiler"
	"github.com/goliatone/go-storefront/internal/di"
	"github.com/goliatone/go-storefront/internal/renderer"
	"github.com/goliatone/go-storefront/internal/stores"
	"github.com/goliatone/go-storefront/internal/templates"
	"github.com/goliatone/go-storefront/internal/themes"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

// StoreService exports the store service contract for consumers of the module.
type StoreService = stores.Service

// TemplateService exports the template service contract.
type TemplateService = templates.Service

// CompilerService exports the template compiler contract.
type CompilerService = compiler.Service

// Renderer exports the section renderer.
type Renderer = renderer.Renderer

// Catalog exports the theme manifest catalog.
type Catalog = themes.Catalog

// Registry exports the section renderable registry.
type Registry = themes.Registry

// SectionRenderable exports the contract section renderers implement.
type SectionRenderable = interfaces.SectionRenderable

// RenderableLoader exports the lazy renderable loader signature.
type RenderableLoader = interfaces.RenderableLoader

// Module is the top level storefront runtime façade.
type Module struct {
	container *di.Container
}

// New constructs a storefront module using the provided configuration and
// optional DI overrides.
func New(cfg Config, opts ...di.Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Stores returns the configured store service.
func (m *Module) Stores() StoreService {
	return m.container.StoreService()
}

// Templates returns the configured template service.
func (m *Module) Templates() TemplateService {
	return m.container.TemplateService()
}

// Compiler returns the configured template compiler.
func (m *Module) Compiler() CompilerService {
	return m.container.CompilerService()
}

// Renderer returns the configured section renderer.
func (m *Module) Renderer() *Renderer {
	return m.container.Renderer()
}

// Catalog returns the theme manifest catalog.
func (m *Module) Catalog() *Catalog {
	return m.container.Catalog()
}

// Registry returns the renderable registry. Hosts register theme renderers
// here before serving pages.
func (m *Module) Registry() *Registry {
	return m.container.Registry()
}

// Handler mounts the storefront HTTP API under base on a fresh mux.
func (m *Module) Handler(base string) http.Handler {
	return m.container.Handler(base)
}
