package themes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-storefront/internal/identity"
	"github.com/goliatone/go-storefront/internal/templates"
	"github.com/goliatone/go-storefront/sections"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

var (
	// ErrThemeNotFound indicates the named theme has no registered manifest.
	// This is a hard failure, never silently substituted with another theme.
	ErrThemeNotFound = errors.New("themes: theme not found")

	// ErrTemplateNotFound indicates the theme exists but does not declare the
	// requested template type.
	ErrTemplateNotFound = errors.New("themes: template type not found")
)

// Catalog holds the registered theme manifests and answers the questions the
// compiler and validators ask of them.
type Catalog struct {
	mu        sync.RWMutex
	manifests map[string]*Manifest
	schemas   map[string]*jsonschema.Schema
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		manifests: make(map[string]*Manifest),
		schemas:   make(map[string]*jsonschema.Schema),
	}
}

// LoadCatalog builds a catalog from every theme directory under basePath.
func LoadCatalog(basePath string) (*Catalog, error) {
	manifests, err := DiscoverManifests(os.DirFS(basePath))
	if err != nil {
		return nil, err
	}
	catalog := NewCatalog()
	for _, manifest := range manifests {
		if err := catalog.Register(manifest); err != nil {
			return nil, err
		}
	}
	return catalog, nil
}

// Register adds a manifest to the catalog, compiling any declared settings
// schemas up front so invalid schemas surface at startup.
func (c *Catalog) Register(manifest *Manifest) error {
	if manifest == nil {
		return fmt.Errorf("themes: nil manifest")
	}
	name := strings.TrimSpace(manifest.Name)
	if name == "" {
		return fmt.Errorf("themes: manifest missing name")
	}

	compiled := make(map[string]*jsonschema.Schema, len(manifest.SettingsSchemas))
	for sectionType, raw := range manifest.SettingsSchemas {
		schema, err := compileSchema(name, sectionType, raw)
		if err != nil {
			return err
		}
		compiled[sectionType] = schema
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.manifests[name] = manifest
	for sectionType, schema := range compiled {
		c.schemas[schemaKey(name, sectionType)] = schema
	}
	return nil
}

// HasTheme reports whether a theme is registered.
func (c *Catalog) HasTheme(name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.manifests[name]
	return ok
}

// Themes returns the registered theme names in sorted order.
func (c *Catalog) Themes() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.manifests))
	for name := range c.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Theme returns the manifest for a theme.
func (c *Catalog) Theme(name string) (*Manifest, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	manifest, ok := c.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrThemeNotFound, name)
	}
	return manifest, nil
}

// ThemeSettings returns the theme's default settings tree.
func (c *Catalog) ThemeSettings(name string) (map[string]any, error) {
	manifest, err := c.Theme(name)
	if err != nil {
		return nil, err
	}
	return sections.CloneSettings(manifest.Settings), nil
}

// DefaultSections materializes the theme's default sections for a template
// type. Section identities are derived from (theme, templateType, slot) so
// repeated calls yield the same ids and store overrides can line up by slot.
func (c *Catalog) DefaultSections(theme, templateType string) ([]*sections.Section, error) {
	manifest, err := c.Theme(theme)
	if err != nil {
		return nil, err
	}

	presets, ok := manifest.Templates[templateType]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrTemplateNotFound, theme, templateType)
	}

	out := make([]*sections.Section, 0, len(presets))
	for i, preset := range presets {
		sectionType := strings.TrimSpace(preset.SectionType)
		if sectionType == "" {
			return nil, fmt.Errorf("themes: %s/%s: preset %d missing type", theme, templateType, i)
		}
		slot := preset.SlotKey()
		position := i
		if preset.Position != nil {
			position = *preset.Position
		}
		section := &sections.Section{
			ID:          identity.SectionSlotUUID(theme, templateType, slot).String(),
			SectionType: sectionType,
			Slot:        slot,
			Settings:    sections.CloneSettings(preset.Settings),
			Enabled:     !preset.Disabled,
			Position:    position,
			Blocks:      sections.CloneBlocks(preset.Blocks),
		}
		out = append(out, section)
	}
	return out, nil
}

// SettingsValidator returns a validator for the theme's per-section settings
// schemas, suitable for wiring into the template service. Section types with
// no declared schema accept any settings.
func (c *Catalog) SettingsValidator(theme string) templates.SettingsValidator {
	return func(sectionType string, settings map[string]any) error {
		c.mu.RLock()
		schema, ok := c.schemas[schemaKey(theme, sectionType)]
		c.mu.RUnlock()
		if !ok {
			return nil
		}
		if err := schema.Validate(normalizeForSchema(settings)); err != nil {
			return fmt.Errorf("themes: %s settings: %w", sectionType, err)
		}
		return nil
	}
}

func schemaKey(theme, sectionType string) string {
	return theme + "\x00" + sectionType
}

func compileSchema(theme, sectionType string, raw map[string]any) (*jsonschema.Schema, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("themes: %s/%s schema: %w", theme, sectionType, err)
	}
	compiler := jsonschema.NewCompiler()
	url := fmt.Sprintf("storefront://%s/%s/settings.schema.json", theme, sectionType)
	if err := compiler.AddResource(url, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("themes: %s/%s schema: %w", theme, sectionType, err)
	}
	schema, err := compiler.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("themes: %s/%s schema: %w", theme, sectionType, err)
	}
	return schema, nil
}

// normalizeForSchema round-trips settings through JSON so numeric kinds match
// what the schema validator expects.
func normalizeForSchema(settings map[string]any) any {
	if settings == nil {
		return map[string]any{}
	}
	data, err := json.Marshal(settings)
	if err != nil {
		return settings
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return settings
	}
	return out
}
