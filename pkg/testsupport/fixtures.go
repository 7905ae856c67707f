package testsupport

import (
	"encoding/json"
	"os"

	"github.com/goliatone/go-storefront/internal/templates"
	"github.com/goliatone/go-storefront/sections"
)

// LoadFixture reads a raw testdata file.
func LoadFixture(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// LoadGolden decodes a JSON testdata file into v.
func LoadGolden(path string, v any) error {
	data, err := LoadFixture(path)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// sectionFixture mirrors the wire shape of a section override fixture.
type sectionFixture struct {
	SectionType string           `json:"sectionType"`
	Slot        string           `json:"slot,omitempty"`
	Settings    map[string]any   `json:"settings,omitempty"`
	Enabled     *bool            `json:"enabled,omitempty"`
	Position    int              `json:"position"`
	Blocks      []sections.Block `json:"blocks,omitempty"`
}

// LoadSectionFixture reads a JSON fixture of section overrides into the
// template service's input shape. IDs are left zero so the service derives
// stable identities from the owning template and slot.
func LoadSectionFixture(path string) ([]templates.SectionInput, error) {
	var raw []sectionFixture
	if err := LoadGolden(path, &raw); err != nil {
		return nil, err
	}
	inputs := make([]templates.SectionInput, 0, len(raw))
	for _, fixture := range raw {
		inputs = append(inputs, templates.SectionInput{
			SectionType: fixture.SectionType,
			Slot:        fixture.Slot,
			Settings:    fixture.Settings,
			Enabled:     fixture.Enabled,
			Position:    fixture.Position,
			Blocks:      fixture.Blocks,
		})
	}
	return inputs, nil
}
