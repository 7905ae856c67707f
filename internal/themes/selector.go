package themes

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	gotheme "github.com/goliatone/go-theme"
)

// ManifestLoader loads a design-token manifest from a theme directory.
type ManifestLoader interface {
	Load(themePath string) (*gotheme.Manifest, error)
}

type fsManifestLoader struct{}

func (fsManifestLoader) Load(themePath string) (*gotheme.Manifest, error) {
	cleaned := filepath.Clean(strings.TrimSpace(themePath))
	if cleaned == "" {
		return nil, fmt.Errorf("theme path required")
	}
	return gotheme.LoadDir(os.DirFS(cleaned), ".")
}

// Selector resolves design-token selections for themes under a base path.
// Token manifests are optional; a theme without one yields a nil selection
// and the stylesheet falls back to settings-derived variables alone.
type Selector struct {
	registry       *gotheme.MemoryRegistry
	loader         ManifestLoader
	basePath       string
	defaultVariant string

	mu        sync.Mutex
	manifests map[string]*gotheme.Manifest
	missing   map[string]bool
}

// SelectorConfig configures a Selector.
type SelectorConfig struct {
	BasePath       string
	DefaultVariant string
	Loader         ManifestLoader
}

// NewSelector builds a token selector over a theme base directory.
func NewSelector(cfg SelectorConfig) *Selector {
	loader := cfg.Loader
	if loader == nil {
		loader = fsManifestLoader{}
	}
	return &Selector{
		registry:       gotheme.NewRegistry(),
		loader:         loader,
		basePath:       strings.TrimSpace(cfg.BasePath),
		defaultVariant: strings.TrimSpace(cfg.DefaultVariant),
		manifests:      map[string]*gotheme.Manifest{},
		missing:        map[string]bool{},
	}
}

// Selection returns the token selection for a theme and variant, or nil when
// the theme ships no token manifest.
func (s *Selector) Selection(theme, variant string) (*gotheme.Selection, error) {
	name := strings.TrimSpace(theme)
	if name == "" {
		return nil, nil
	}

	manifest, err := s.ensureManifest(name)
	if err != nil {
		return nil, err
	}
	if manifest == nil {
		return nil, nil
	}

	selector := gotheme.Selector{
		Registry:       s.registry,
		DefaultTheme:   name,
		DefaultVariant: s.defaultVariant,
	}

	resolvedVariant := strings.TrimSpace(variant)
	if resolvedVariant == "" {
		resolvedVariant = s.defaultVariant
	}

	selection, err := selector.Select(name, resolvedVariant)
	if err != nil {
		return nil, fmt.Errorf("select theme %s: %w", name, err)
	}
	return selection, nil
}

// TokenVariables returns the theme's token CSS variables, empty when no
// token manifest exists.
func (s *Selector) TokenVariables(theme, variant, prefix string) (map[string]string, error) {
	selection, err := s.Selection(theme, variant)
	if err != nil {
		return nil, err
	}
	if selection == nil {
		return nil, nil
	}
	return selection.CSSVariables(prefix), nil
}

func (s *Selector) ensureManifest(name string) (*gotheme.Manifest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if manifest, ok := s.manifests[name]; ok {
		return manifest, nil
	}
	if s.missing[name] {
		return nil, nil
	}

	themePath := filepath.Join(s.basePath, name)
	manifest, err := s.loader.Load(themePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.missing[name] = true
			return nil, nil
		}
		return nil, fmt.Errorf("load theme manifest from %s: %w", themePath, err)
	}

	normalized := *manifest
	if strings.TrimSpace(normalized.Name) == "" {
		normalized.Name = name
	}
	if err := s.registry.Register(&normalized); err != nil {
		return nil, fmt.Errorf("register theme manifest: %w", err)
	}
	s.manifests[name] = &normalized
	return &normalized, nil
}
