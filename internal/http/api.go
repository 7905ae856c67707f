package http

import (
	"net/http"

	"github.com/goliatone/go-storefront/internal/compiler"
	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/internal/renderer"
	"github.com/goliatone/go-storefront/internal/runtimeconfig"
	"github.com/goliatone/go-storefront/internal/stores"
	"github.com/goliatone/go-storefront/internal/templates"
	"github.com/goliatone/go-storefront/internal/themes"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

// StorefrontAPI bundles the storefront services behind HTTP handlers.
type StorefrontAPI struct {
	stores    stores.Service
	templates templates.Service
	compiler  compiler.Service
	renderer  *renderer.Renderer
	catalog   *themes.Catalog
	selector  *themes.Selector
	preview   runtimeconfig.PreviewConfig
	cssPrefix string
	logger    interfaces.Logger
}

// Config carries the dependencies for a StorefrontAPI.
type Config struct {
	Stores    stores.Service
	Templates templates.Service
	Compiler  compiler.Service
	Renderer  *renderer.Renderer
	Catalog   *themes.Catalog
	Selector  *themes.Selector
	Preview   runtimeconfig.PreviewConfig
	CSSPrefix string
	Logger    interfaces.Logger
}

// NewStorefrontAPI builds the HTTP adapter.
func NewStorefrontAPI(cfg Config) *StorefrontAPI {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	prefix := cfg.CSSPrefix
	if prefix == "" {
		prefix = "--theme-"
	}
	return &StorefrontAPI{
		stores:    cfg.Stores,
		templates: cfg.Templates,
		compiler:  cfg.Compiler,
		renderer:  cfg.Renderer,
		catalog:   cfg.Catalog,
		selector:  cfg.Selector,
		preview:   cfg.Preview,
		cssPrefix: prefix,
		logger:    logger,
	}
}

// pageStyles builds the page stylesheet from the theme's design tokens
// overlaid with settings-derived custom properties.
func (api *StorefrontAPI) pageStyles(store *stores.Store, settings map[string]any) string {
	var tokenVars map[string]string
	if api.selector != nil {
		vars, err := api.selector.TokenVariables(store.Theme, "", api.cssPrefix)
		if err != nil {
			api.logger.Warn("token variables unavailable", "theme", store.Theme, "error", err)
		} else {
			tokenVars = vars
		}
	}
	merged := themes.MergeVariables(tokenVars, themes.SettingsToCSSVariables(settings, api.cssPrefix))
	return themes.StyleSheet(merged)
}

// Register mounts every route on the mux under base.
func (api *StorefrontAPI) Register(mux *http.ServeMux, base string) {
	if api == nil || mux == nil {
		return
	}
	api.registerStoreRoutes(mux, base)
	api.registerTemplateRoutes(mux, base)
	api.registerPreviewRoutes(mux, base)
}
