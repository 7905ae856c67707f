package templates

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/internal/identity"
	"github.com/goliatone/go-storefront/sections"
)

// Service exposes store template and section override management.
type Service interface {
	EnsureTemplate(ctx context.Context, input EnsureTemplateInput) (*Template, error)
	GetTemplate(ctx context.Context, storeID uuid.UUID, templateType string) (*Template, error)
	ListTemplates(ctx context.Context, storeID uuid.UUID) ([]*Template, error)
	DeleteTemplate(ctx context.Context, id uuid.UUID) error

	ReplaceSections(ctx context.Context, templateID uuid.UUID, inputs []SectionInput) ([]*sections.Section, error)
	UpsertSection(ctx context.Context, templateID uuid.UUID, input SectionInput) (*sections.Section, error)
	ListSections(ctx context.Context, templateID uuid.UUID) ([]*sections.Section, error)
	SectionBlocks(ctx context.Context, sectionID string) ([]sections.Block, error)
}

// EnsureTemplateInput carries the fields accepted when upserting a template.
type EnsureTemplateInput struct {
	StoreID      uuid.UUID
	TemplateType string
	Name         string
}

// SectionInput carries one section override. A zero ID derives a deterministic
// identity from the template and slot so repeated writes stay stable.
type SectionInput struct {
	ID          uuid.UUID
	SectionType string
	Slot        string
	Settings    map[string]any
	Enabled     *bool
	Position    int
	Blocks      []sections.Block
}

var (
	ErrTemplateRepositoryRequired = errors.New("templates: template repository required")
	ErrSectionRepositoryRequired  = errors.New("templates: section repository required")

	ErrStoreIDRequired        = errors.New("templates: store id required")
	ErrTemplateTypeRequired   = errors.New("templates: template type required")
	ErrTemplateNotFound       = errors.New("templates: template not found")
	ErrSectionTypeRequired    = errors.New("templates: section type required")
	ErrSectionNotFound        = errors.New("templates: section not found")
	ErrSectionSettingsInvalid = errors.New("templates: section settings invalid")
)

// IDGenerator produces unique identifiers.
type IDGenerator func() uuid.UUID

// SettingsValidator checks a section's settings against the active theme's
// declared schema. A nil validator accepts everything.
type SettingsValidator func(sectionType string, settings map[string]any) error

// ServiceOption configures service behaviour.
type ServiceOption func(*service)

// WithIDGenerator overrides the default ID generator.
func WithIDGenerator(generator IDGenerator) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithNow overrides the time source (primarily for tests).
func WithNow(now func() time.Time) ServiceOption {
	return func(s *service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithSettingsValidator wires schema validation into section writes.
func WithSettingsValidator(validator SettingsValidator) ServiceOption {
	return func(s *service) {
		s.validate = validator
	}
}

type service struct {
	templates TemplateRepository
	sections  SectionRepository
	id        IDGenerator
	now       func() time.Time
	validate  SettingsValidator
}

// NewService constructs a template service instance.
func NewService(templateRepo TemplateRepository, sectionRepo SectionRepository, opts ...ServiceOption) Service {
	if templateRepo == nil {
		panic(ErrTemplateRepositoryRequired)
	}
	if sectionRepo == nil {
		panic(ErrSectionRepositoryRequired)
	}

	s := &service{
		templates: templateRepo,
		sections:  sectionRepo,
		id:        uuid.New,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) EnsureTemplate(ctx context.Context, input EnsureTemplateInput) (*Template, error) {
	if input.StoreID == uuid.Nil {
		return nil, ErrStoreIDRequired
	}
	templateType := strings.ToLower(strings.TrimSpace(input.TemplateType))
	if templateType == "" {
		return nil, ErrTemplateTypeRequired
	}

	if existing, err := s.templates.GetByStoreAndType(ctx, input.StoreID, templateType); err == nil && existing != nil {
		return cloneTemplate(existing), nil
	} else if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = templateType
	}
	templateSlug, err := slug.Normalize(name)
	if err != nil {
		templateSlug = templateType
	}

	record := &Template{
		ID:           identity.TemplateUUID(input.StoreID, templateType),
		StoreID:      input.StoreID,
		TemplateType: templateType,
		Name:         name,
		Slug:         templateSlug,
		Enabled:      true,
		CreatedAt:    s.now().UTC(),
		UpdatedAt:    s.now().UTC(),
	}

	created, err := s.templates.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return cloneTemplate(created), nil
}

func (s *service) GetTemplate(ctx context.Context, storeID uuid.UUID, templateType string) (*Template, error) {
	if storeID == uuid.Nil {
		return nil, ErrStoreIDRequired
	}
	templateType = strings.ToLower(strings.TrimSpace(templateType))
	if templateType == "" {
		return nil, ErrTemplateTypeRequired
	}
	record, err := s.templates.GetByStoreAndType(ctx, storeID, templateType)
	if err != nil {
		return nil, translateRepoError(err, ErrTemplateNotFound)
	}
	return cloneTemplate(record), nil
}

func (s *service) ListTemplates(ctx context.Context, storeID uuid.UUID) ([]*Template, error) {
	if storeID == uuid.Nil {
		return nil, ErrStoreIDRequired
	}
	records, err := s.templates.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	out := make([]*Template, len(records))
	for i, record := range records {
		out[i] = cloneTemplate(record)
	}
	return out, nil
}

func (s *service) DeleteTemplate(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return ErrTemplateNotFound
	}
	if err := s.templates.Delete(ctx, id); err != nil {
		return translateRepoError(err, ErrTemplateNotFound)
	}
	return nil
}

func (s *service) ReplaceSections(ctx context.Context, templateID uuid.UUID, inputs []SectionInput) ([]*sections.Section, error) {
	if _, err := s.templates.GetByID(ctx, templateID); err != nil {
		return nil, translateRepoError(err, ErrTemplateNotFound)
	}

	records := make([]*SectionRecord, 0, len(inputs))
	for _, input := range inputs {
		record, err := s.prepareRecord(templateID, input)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	stored, err := s.sections.ReplaceForTemplate(ctx, templateID, records)
	if err != nil {
		return nil, err
	}
	return recordsToSections(stored), nil
}

func (s *service) UpsertSection(ctx context.Context, templateID uuid.UUID, input SectionInput) (*sections.Section, error) {
	if _, err := s.templates.GetByID(ctx, templateID); err != nil {
		return nil, translateRepoError(err, ErrTemplateNotFound)
	}
	record, err := s.prepareRecord(templateID, input)
	if err != nil {
		return nil, err
	}
	stored, err := s.sections.Upsert(ctx, record)
	if err != nil {
		return nil, err
	}
	return stored.ToSection(), nil
}

func (s *service) ListSections(ctx context.Context, templateID uuid.UUID) ([]*sections.Section, error) {
	records, err := s.sections.ListByTemplate(ctx, templateID)
	if err != nil {
		return nil, err
	}
	return recordsToSections(records), nil
}

func (s *service) SectionBlocks(ctx context.Context, sectionID string) ([]sections.Block, error) {
	id, err := uuid.Parse(strings.TrimSpace(sectionID))
	if err != nil {
		return nil, ErrSectionNotFound
	}
	record, err := s.sections.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrSectionNotFound)
	}
	return sections.CloneBlocks(record.Blocks), nil
}

func (s *service) prepareRecord(templateID uuid.UUID, input SectionInput) (*SectionRecord, error) {
	sectionType := strings.TrimSpace(input.SectionType)
	if sectionType == "" {
		return nil, ErrSectionTypeRequired
	}
	if s.validate != nil {
		if err := s.validate(sectionType, input.Settings); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrSectionSettingsInvalid, err)
		}
	}

	slot := strings.TrimSpace(input.Slot)
	if slot == "" {
		slot = sectionType
	}

	id := input.ID
	if id == uuid.Nil {
		id = identity.SectionUUID(templateID, slot)
	}

	enabled := true
	if input.Enabled != nil {
		enabled = *input.Enabled
	}

	return &SectionRecord{
		ID:          id,
		TemplateID:  templateID,
		SectionType: sectionType,
		Slot:        slot,
		Settings:    sections.CloneSettings(input.Settings),
		Enabled:     enabled,
		Position:    input.Position,
		Blocks:      sections.CloneBlocks(input.Blocks),
		CreatedAt:   s.now().UTC(),
		UpdatedAt:   s.now().UTC(),
	}, nil
}

func recordsToSections(records []*SectionRecord) []*sections.Section {
	out := make([]*sections.Section, len(records))
	for i, record := range records {
		out[i] = record.ToSection()
	}
	return out
}

func translateRepoError(err error, fallback error) error {
	if err == nil {
		return nil
	}
	var nf *NotFoundError
	if errors.As(err, &nf) {
		return fallback
	}
	return err
}
