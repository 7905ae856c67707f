package templates

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// TemplateRepository exposes persistence operations for store templates.
type TemplateRepository interface {
	Create(ctx context.Context, template *Template) (*Template, error)
	Update(ctx context.Context, template *Template) (*Template, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Template, error)
	GetByStoreAndType(ctx context.Context, storeID uuid.UUID, templateType string) (*Template, error)
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]*Template, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// SectionRepository exposes persistence operations for section overrides.
type SectionRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SectionRecord, error)
	ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]*SectionRecord, error)
	ReplaceForTemplate(ctx context.Context, templateID uuid.UUID, records []*SectionRecord) ([]*SectionRecord, error)
	Upsert(ctx context.Context, record *SectionRecord) (*SectionRecord, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotFoundError is returned when a template resource cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
