package di

import (
	"database/sql"
	"net/http"
	"strings"
	"time"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-storefront/internal/compiler"
	storefronthttp "github.com/goliatone/go-storefront/internal/http"
	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/internal/logging/console"
	"github.com/goliatone/go-storefront/internal/logging/gologger"
	"github.com/goliatone/go-storefront/internal/renderer"
	"github.com/goliatone/go-storefront/internal/runtimeconfig"
	"github.com/goliatone/go-storefront/internal/stores"
	"github.com/goliatone/go-storefront/internal/templates"
	"github.com/goliatone/go-storefront/internal/themes"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

// Container wires module dependencies. Without a database it falls back to
// in-memory repositories, which keeps tests and demos self-contained.
type Container struct {
	Config runtimeconfig.Config

	bunDB         *bun.DB
	cacheTTL      time.Duration
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer

	loggerProvider interfaces.LoggerProvider

	storeRepo    stores.StoreRepository
	templateRepo templates.TemplateRepository
	sectionRepo  templates.SectionRepository

	catalog  *themes.Catalog
	registry *themes.Registry
	selector *themes.Selector

	storeSvc    stores.Service
	templateSvc templates.Service
	compilerSvc compiler.Service
	renderSvc   *renderer.Renderer
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB binds a database; repositories switch from memory to bun.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithSQLDB wraps a raw connection in a bun.DB using the dialect matching
// the driver name. Recognised drivers are "postgres" and "sqlite3".
func WithSQLDB(sqldb *sql.DB, driver string) Option {
	return func(c *Container) {
		switch strings.ToLower(strings.TrimSpace(driver)) {
		case "postgres", "pg", "pgx":
			c.bunDB = bun.NewDB(sqldb, pgdialect.New())
		default:
			c.bunDB = bun.NewDB(sqldb, sqlitedialect.New())
		}
	}
}

// WithCache overrides the default repository cache service.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithLoggerProvider overrides the logging provider selection.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithCatalog overrides the default theme catalog binding.
func WithCatalog(catalog *themes.Catalog) Option {
	return func(c *Container) {
		c.catalog = catalog
	}
}

// WithRegistry overrides the default renderable registry binding.
func WithRegistry(registry *themes.Registry) Option {
	return func(c *Container) {
		c.registry = registry
	}
}

// WithStoreService overrides the default store service binding.
func WithStoreService(svc stores.Service) Option {
	return func(c *Container) {
		c.storeSvc = svc
	}
}

// WithTemplateService overrides the default template service binding.
func WithTemplateService(svc templates.Service) Option {
	return func(c *Container) {
		c.templateSvc = svc
	}
}

// WithCompilerService overrides the default compiler binding.
func WithCompilerService(svc compiler.Service) Option {
	return func(c *Container) {
		c.compilerSvc = svc
	}
}

// WithRenderer overrides the default renderer binding.
func WithRenderer(r *renderer.Renderer) Option {
	return func(c *Container) {
		c.renderSvc = r
	}
}

// WithSelector overrides the default design-token selector binding.
func WithSelector(selector *themes.Selector) Option {
	return func(c *Container) {
		c.selector = selector
	}
}

// NewContainer creates a container with the provided configuration. It fails
// when the configuration is invalid or the theme catalog cannot be loaded,
// since the module cannot operate without either.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cacheTTL := cfg.Cache.DefaultTTL
	if cacheTTL <= 0 {
		cacheTTL = time.Minute
	}

	c := &Container{
		Config:       cfg,
		cacheTTL:     cacheTTL,
		storeRepo:    stores.NewMemoryStoreRepository(),
		templateRepo: templates.NewMemoryTemplateRepository(),
		sectionRepo:  templates.NewMemorySectionRepository(),
	}

	for _, opt := range opts {
		opt(c)
	}

	c.configureLogging()
	c.configureCacheDefaults()
	c.configureRepositories()
	if err := c.configureThemes(); err != nil {
		return nil, err
	}
	if err := c.configureServices(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Container) configureLogging() {
	if c.loggerProvider != nil || !c.Config.Features.Logger {
		return
	}

	switch strings.ToLower(strings.TrimSpace(c.Config.Logging.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err == nil {
			c.loggerProvider = provider
			return
		}
		// Fall back to console output rather than losing diagnostics.
		c.loggerProvider = console.NewProvider(console.Options{})
	default:
		min := console.ParseLevel(c.Config.Logging.Level)
		c.loggerProvider = console.NewProvider(console.Options{MinLevel: &min})
	}
}

func (c *Container) configureCacheDefaults() {
	if !c.Config.Cache.Enabled {
		return
	}

	if c.cacheService == nil {
		cacheCfg := repocache.DefaultConfig()
		if c.cacheTTL > 0 {
			cacheCfg.TTL = c.cacheTTL
		}
		service, err := repocache.NewCacheService(cacheCfg)
		if err == nil {
			c.cacheService = service
		}
	}

	if c.cacheService != nil && c.keySerializer == nil {
		c.keySerializer = repocache.NewDefaultKeySerializer()
	}
}

func (c *Container) configureRepositories() {
	if c.bunDB == nil {
		return
	}

	if c.Config.Features.AdvancedCache && c.cacheService != nil {
		c.storeRepo = stores.NewBunStoreRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.templateRepo = templates.NewBunTemplateRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		c.sectionRepo = templates.NewBunSectionRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		return
	}
	c.storeRepo = stores.NewBunStoreRepository(c.bunDB)
	c.templateRepo = templates.NewBunTemplateRepository(c.bunDB)
	c.sectionRepo = templates.NewBunSectionRepository(c.bunDB)
}

func (c *Container) configureThemes() error {
	if !c.Config.Features.Themes {
		if c.catalog == nil {
			c.catalog = themes.NewCatalog()
		}
		if c.registry == nil {
			c.registry = themes.NewRegistry()
		}
		return nil
	}

	if c.catalog == nil {
		catalog, err := themes.LoadCatalog(c.Config.Themes.BasePath)
		if err != nil {
			return err
		}
		c.catalog = catalog
	}
	if c.registry == nil {
		c.registry = themes.NewRegistry(
			themes.WithRegistryLogger(logging.ThemesLogger(c.loggerProvider)),
		)
	}
	if c.selector == nil {
		c.selector = themes.NewSelector(themes.SelectorConfig{
			BasePath: c.Config.Themes.BasePath,
		})
	}
	return nil
}

func (c *Container) configureServices() error {
	if c.storeSvc == nil {
		storeOpts := []stores.ServiceOption{}
		if c.Config.Features.Themes {
			storeOpts = append(storeOpts, stores.WithThemeValidator(c.catalog.HasTheme))
		}
		c.storeSvc = stores.NewService(c.storeRepo, storeOpts...)
	}

	if c.templateSvc == nil {
		templateOpts := []templates.ServiceOption{}
		if c.Config.Features.Themes {
			defaultTheme := c.Config.Themes.DefaultTheme
			templateOpts = append(templateOpts,
				templates.WithSettingsValidator(c.catalog.SettingsValidator(defaultTheme)))
		}
		c.templateSvc = templates.NewService(c.templateRepo, c.sectionRepo, templateOpts...)
	}

	if c.compilerSvc == nil {
		svc, err := compiler.NewService(c.catalog, c.templateSvc,
			compiler.WithLogger(logging.CompilerLogger(c.loggerProvider)))
		if err != nil {
			return err
		}
		c.compilerSvc = svc
	}

	if c.renderSvc == nil {
		r, err := renderer.New(c.registry,
			renderer.WithLogger(logging.RendererLogger(c.loggerProvider)))
		if err != nil {
			return err
		}
		c.renderSvc = r
	}
	return nil
}

// StoreService returns the configured store service.
func (c *Container) StoreService() stores.Service {
	return c.storeSvc
}

// TemplateService returns the configured template service.
func (c *Container) TemplateService() templates.Service {
	return c.templateSvc
}

// CompilerService returns the configured compiler.
func (c *Container) CompilerService() compiler.Service {
	return c.compilerSvc
}

// Renderer returns the configured section renderer.
func (c *Container) Renderer() *renderer.Renderer {
	return c.renderSvc
}

// Catalog returns the theme catalog.
func (c *Container) Catalog() *themes.Catalog {
	return c.catalog
}

// Registry returns the renderable registry.
func (c *Container) Registry() *themes.Registry {
	return c.registry
}

// Selector returns the design-token selector, nil when themes are disabled.
func (c *Container) Selector() *themes.Selector {
	return c.selector
}

// LoggerProvider returns the configured logger provider, possibly nil.
func (c *Container) LoggerProvider() interfaces.LoggerProvider {
	return c.loggerProvider
}

// API builds the HTTP adapter over the container's services.
func (c *Container) API() *storefronthttp.StorefrontAPI {
	return storefronthttp.NewStorefrontAPI(storefronthttp.Config{
		Stores:    c.storeSvc,
		Templates: c.templateSvc,
		Compiler:  c.compilerSvc,
		Renderer:  c.renderSvc,
		Catalog:   c.catalog,
		Selector:  c.selector,
		Preview:   c.Config.Preview,
		CSSPrefix: c.Config.Themes.CSSVariablePrefix,
		Logger:    logging.ModuleLogger(c.loggerProvider, "storefront.http"),
	})
}

// Handler mounts the API on a fresh mux under base.
func (c *Container) Handler(base string) http.Handler {
	mux := http.NewServeMux()
	c.API().Register(mux, base)
	return mux
}
