package templates

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/sections"
	storefrontstores "github.com/goliatone/go-storefront/stores"
)

// Template re-exports the store template model.
type Template = storefrontstores.Template

// SectionRecord is the persisted shape of a store's section override. The
// compiler and the preview channel work on sections.Section snapshots produced
// by ToSection; the record itself never leaves this package's repositories.
type SectionRecord struct {
	bun.BaseModel `bun:"table:store_sections,alias:ss"`

	ID          uuid.UUID        `bun:",pk,type:uuid" json:"id"`
	TemplateID  uuid.UUID        `bun:"template_id,notnull,type:uuid" json:"template_id"`
	SectionType string           `bun:"section_type,notnull" json:"section_type"`
	Slot        string           `bun:"slot,notnull" json:"slot"`
	Settings    map[string]any   `bun:"settings,type:jsonb" json:"settings,omitempty"`
	Enabled     bool             `bun:"enabled,notnull,default:true" json:"enabled"`
	Position    int              `bun:"position,notnull,default:0" json:"position"`
	Blocks      []sections.Block `bun:"blocks,type:jsonb" json:"blocks,omitempty"`
	CreatedAt   time.Time        `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time        `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Template *Template `bun:"rel:belongs-to,join:template_id=id" json:"template,omitempty"`
}

// ToSection converts the record into the composition model consumed by the
// compiler and renderer.
func (r *SectionRecord) ToSection() *sections.Section {
	if r == nil {
		return nil
	}
	return &sections.Section{
		ID:          r.ID.String(),
		SectionType: r.SectionType,
		Slot:        r.Slot,
		Settings:    sections.CloneSettings(r.Settings),
		Enabled:     r.Enabled,
		Position:    r.Position,
		Blocks:      sections.CloneBlocks(r.Blocks),
	}
}

func cloneSectionRecord(src *SectionRecord) *SectionRecord {
	if src == nil {
		return nil
	}
	out := *src
	out.Settings = sections.CloneSettings(src.Settings)
	out.Blocks = sections.CloneBlocks(src.Blocks)
	out.Template = nil
	return &out
}

func cloneTemplate(src *Template) *Template {
	if src == nil {
		return nil
	}
	out := *src
	out.Store = nil
	return &out
}
