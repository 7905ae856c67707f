package templates

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewTemplateBunRepository creates a repository for store templates.
func NewTemplateBunRepository(db *bun.DB) repository.Repository[*Template] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Template]{
		NewRecord:          func() *Template { return &Template{} },
		GetID:              func(tpl *Template) uuid.UUID { return tpl.ID },
		SetID:              func(tpl *Template, id uuid.UUID) { tpl.ID = id },
		GetIdentifier:      func() string { return "slug" },
		GetIdentifierValue: func(tpl *Template) string { return tpl.Slug },
	})
}

// NewSectionBunRepository creates a repository for section override records.
func NewSectionBunRepository(db *bun.DB) repository.Repository[*SectionRecord] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*SectionRecord]{
		NewRecord:          func() *SectionRecord { return &SectionRecord{} },
		GetID:              func(record *SectionRecord) uuid.UUID { return record.ID },
		SetID:              func(record *SectionRecord, id uuid.UUID) { record.ID = id },
		GetIdentifier:      func() string { return "slot" },
		GetIdentifierValue: func(record *SectionRecord) string { return record.Slot },
	})
}
