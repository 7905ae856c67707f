package themes

import (
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-storefront/sections"
)

// Manifest mirrors the expected theme.json structure. Templates maps a
// template type to the ordered default sections the theme ships for it; these
// form the base layer the compiler merges store overrides onto.
type Manifest struct {
	Name            string                      `json:"name"`
	Description     *string                     `json:"description,omitempty"`
	Version         string                      `json:"version"`
	Author          *string                     `json:"author,omitempty"`
	Settings        map[string]any              `json:"settings,omitempty"`
	Templates       map[string][]SectionPreset  `json:"templates"`
	SettingsSchemas map[string]map[string]any   `json:"settings_schemas,omitempty"`
	Metadata        map[string]any              `json:"metadata,omitempty"`
}

// SectionPreset is the static, theme-defined shape of a default section.
// Position is a pointer so an explicit 0 is distinguishable from an absent
// value, which falls back to the preset's file order.
type SectionPreset struct {
	Slot        string           `json:"slot,omitempty"`
	SectionType string           `json:"type"`
	Settings    map[string]any   `json:"settings,omitempty"`
	Disabled    bool             `json:"disabled,omitempty"`
	Position    *int             `json:"position,omitempty"`
	Blocks      []sections.Block `json:"blocks,omitempty"`
}

// SlotKey returns the preset's stable slot key, defaulting to the section type.
func (p SectionPreset) SlotKey() string {
	if slot := strings.TrimSpace(p.Slot); slot != "" {
		return slot
	}
	return strings.TrimSpace(p.SectionType)
}

// LoadManifest reads and parses a manifest from disk.
func LoadManifest(path string) (*Manifest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("themes: open manifest: %w", err)
	}
	defer file.Close()
	return ParseManifest(file)
}

// ParseManifest decodes manifest JSON from a reader.
func ParseManifest(r io.Reader) (*Manifest, error) {
	var manifest Manifest
	if err := json.NewDecoder(r).Decode(&manifest); err != nil {
		return nil, fmt.Errorf("themes: parse manifest: %w", err)
	}
	if strings.TrimSpace(manifest.Name) == "" {
		return nil, fmt.Errorf("themes: manifest missing name")
	}
	if strings.TrimSpace(manifest.Version) == "" {
		return nil, fmt.Errorf("themes: manifest missing version")
	}
	return &manifest, nil
}

// DiscoverManifests walks a theme base directory and loads every
// <theme>/theme.json it finds.
func DiscoverManifests(fsys fs.FS) ([]*Manifest, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("themes: read base dir: %w", err)
	}

	var manifests []*Manifest
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(entry.Name(), "theme.json")
		file, err := fsys.Open(path)
		if err != nil {
			continue
		}
		manifest, parseErr := ParseManifest(file)
		file.Close()
		if parseErr != nil {
			return nil, fmt.Errorf("themes: %s: %w", path, parseErr)
		}
		manifests = append(manifests, manifest)
	}
	return manifests, nil
}
