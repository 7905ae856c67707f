package compiler

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/internal/templates"
	"github.com/goliatone/go-storefront/pkg/interfaces"
	"github.com/goliatone/go-storefront/sections"
	"github.com/goliatone/go-storefront/stores"
)

var (
	ErrStoreRequired        = errors.New("compiler: store required")
	ErrTemplateTypeRequired = errors.New("compiler: template type required")
	ErrDefaultsRequired     = errors.New("compiler: theme defaults source required")
	ErrOverridesRequired    = errors.New("compiler: section override source required")
)

// ThemeDefaults supplies the theme-declared base layer for a template type.
type ThemeDefaults interface {
	DefaultSections(theme, templateType string) ([]*sections.Section, error)
	ThemeSettings(theme string) (map[string]any, error)
}

// OverrideSource supplies the store's persisted section overrides.
type OverrideSource interface {
	GetTemplate(ctx context.Context, storeID uuid.UUID, templateType string) (*templates.Template, error)
	ListSections(ctx context.Context, templateID uuid.UUID) ([]*sections.Section, error)
}

// Options tunes a compile pass. Preview surfaces turn on IncludeDisabled so
// merchants can see and re-enable hidden sections, and IncludeGlobals so the
// global chrome stays addressable in the compiled list; live rendering leaves
// both off and receives the chrome through Result.Globals instead.
type Options struct {
	IncludeDisabled bool
	IncludeGlobals  bool
}

// Result is a fully compiled page: the ordered page sections plus the global
// chrome sections and the theme's settings tree.
type Result struct {
	Sections      []*sections.Section
	Globals       *sections.GlobalSections
	ThemeSettings map[string]any
}

// Service compiles the effective section list for a store template by merging
// theme defaults with the store's persisted overrides.
type Service interface {
	CompileTemplate(ctx context.Context, store *stores.Store, templateType string, opts Options) ([]*sections.Section, error)
	CompileGlobalSections(ctx context.Context, store *stores.Store, opts Options) (*sections.GlobalSections, error)
	CompilePage(ctx context.Context, store *stores.Store, templateType string, opts Options) (*Result, error)
}

// ServiceOption configures the compiler service.
type ServiceOption func(*service)

// WithLogger sets the compiler logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	defaults  ThemeDefaults
	overrides OverrideSource
	logger    interfaces.Logger
}

// NewService builds the compiler over a theme defaults source and a store
// override source.
func NewService(defaults ThemeDefaults, overrides OverrideSource, opts ...ServiceOption) (Service, error) {
	if defaults == nil {
		return nil, ErrDefaultsRequired
	}
	if overrides == nil {
		return nil, ErrOverridesRequired
	}
	svc := &service{
		defaults:  defaults,
		overrides: overrides,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc, nil
}

func (s *service) CompileTemplate(ctx context.Context, store *stores.Store, templateType string, opts Options) ([]*sections.Section, error) {
	merged, err := s.merge(ctx, store, templateType)
	if err != nil {
		return nil, err
	}
	if !opts.IncludeGlobals {
		merged = excludeGlobals(merged)
	}
	return finalize(merged, opts), nil
}

// CompileGlobalSections extracts the global chrome from the homepage
// template, which is the single source of truth for those sections across
// every page of the store.
func (s *service) CompileGlobalSections(ctx context.Context, store *stores.Store, opts Options) (*sections.GlobalSections, error) {
	merged, err := s.merge(ctx, store, stores.TemplateHomepage)
	if err != nil {
		return nil, err
	}
	return extractGlobals(merged, opts), nil
}

func (s *service) CompilePage(ctx context.Context, store *stores.Store, templateType string, opts Options) (*Result, error) {
	merged, err := s.merge(ctx, store, templateType)
	if err != nil {
		return nil, err
	}

	globals := extractGlobals(merged, opts)
	if templateType != stores.TemplateHomepage {
		homepage, err := s.merge(ctx, store, stores.TemplateHomepage)
		if err != nil {
			return nil, err
		}
		globals = extractGlobals(homepage, opts)
	}

	settings, err := s.defaults.ThemeSettings(store.Theme)
	if err != nil {
		return nil, err
	}

	pageSections := merged
	if !opts.IncludeGlobals {
		pageSections = excludeGlobals(pageSections)
	}
	return &Result{
		Sections:      finalize(pageSections, opts),
		Globals:       globals,
		ThemeSettings: settings,
	}, nil
}

// merge layers the store's overrides onto the theme defaults. An override
// sharing a slot with a default replaces that default wholesale; overrides
// with no matching slot append after the defaults.
func (s *service) merge(ctx context.Context, store *stores.Store, templateType string) ([]*sections.Section, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if templateType == "" {
		return nil, ErrTemplateTypeRequired
	}

	defaults, err := s.defaults.DefaultSections(store.Theme, templateType)
	if err != nil {
		return nil, fmt.Errorf("compiler: theme defaults: %w", err)
	}

	overrides, err := s.loadOverrides(ctx, store.ID, templateType)
	if err != nil {
		return nil, err
	}

	merged := make([]*sections.Section, 0, len(defaults)+len(overrides))
	bySlot := make(map[string]int, len(defaults))
	for i, def := range defaults {
		merged = append(merged, def.Clone())
		bySlot[def.Slot] = i
	}
	for _, override := range overrides {
		if idx, ok := bySlot[override.Slot]; ok {
			merged[idx] = override.Clone()
			continue
		}
		merged = append(merged, override.Clone())
	}
	return merged, nil
}

func (s *service) loadOverrides(ctx context.Context, storeID uuid.UUID, templateType string) ([]*sections.Section, error) {
	tmpl, err := s.overrides.GetTemplate(ctx, storeID, templateType)
	if err != nil {
		// A store with no saved template renders pure theme defaults.
		if errors.Is(err, templates.ErrTemplateNotFound) {
			s.logger.Debug("no stored template, using theme defaults",
				"store_id", storeID,
				"template_type", templateType,
			)
			return nil, nil
		}
		return nil, fmt.Errorf("compiler: load template: %w", err)
	}

	overrides, err := s.overrides.ListSections(ctx, tmpl.ID)
	if err != nil {
		return nil, fmt.Errorf("compiler: load sections: %w", err)
	}
	return overrides, nil
}

// finalize applies the visibility filter and the position sort. The sort is
// stable so sections sharing a position keep their merge order.
func finalize(list []*sections.Section, opts Options) []*sections.Section {
	out := make([]*sections.Section, 0, len(list))
	for _, section := range list {
		if !section.Enabled && !opts.IncludeDisabled {
			continue
		}
		out = append(out, section)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}

func excludeGlobals(list []*sections.Section) []*sections.Section {
	out := make([]*sections.Section, 0, len(list))
	for _, section := range list {
		if sections.IsGlobalType(section.SectionType) {
			continue
		}
		out = append(out, section)
	}
	return out
}

// extractGlobals picks the first section of each global type out of a merged
// homepage list. Disabled globals are dropped unless IncludeDisabled is set.
func extractGlobals(list []*sections.Section, opts Options) *sections.GlobalSections {
	globals := &sections.GlobalSections{}
	for _, section := range list {
		if !section.Enabled && !opts.IncludeDisabled {
			continue
		}
		switch section.SectionType {
		case sections.TypeAnnouncementBar:
			if globals.AnnouncementBar == nil {
				globals.AnnouncementBar = section.Clone()
			}
		case sections.TypeHeader:
			if globals.Header == nil {
				globals.Header = section.Clone()
			}
		case sections.TypeFooter:
			if globals.Footer == nil {
				globals.Footer = section.Clone()
			}
		}
	}
	return globals
}
