package templates

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// MemoryTemplateRepository provides an in-memory implementation of TemplateRepository.
type MemoryTemplateRepository struct {
	mu   sync.RWMutex
	byID map[uuid.UUID]*Template
}

// NewMemoryTemplateRepository constructs an empty memory-backed template repository.
func NewMemoryTemplateRepository() *MemoryTemplateRepository {
	return &MemoryTemplateRepository{
		byID: make(map[uuid.UUID]*Template),
	}
}

func (r *MemoryTemplateRepository) Create(_ context.Context, template *Template) (*Template, error) {
	if template == nil {
		return nil, nil
	}
	cloned := cloneTemplate(template)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[cloned.ID] = cloned
	return cloneTemplate(cloned), nil
}

func (r *MemoryTemplateRepository) Update(_ context.Context, template *Template) (*Template, error) {
	if template == nil {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[template.ID]; !ok {
		return nil, &NotFoundError{Resource: "template", Key: template.ID.String()}
	}

	cloned := cloneTemplate(template)
	r.byID[cloned.ID] = cloned
	return cloneTemplate(cloned), nil
}

func (r *MemoryTemplateRepository) GetByID(_ context.Context, id uuid.UUID) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "template", Key: id.String()}
	}
	return cloneTemplate(record), nil
}

func (r *MemoryTemplateRepository) GetByStoreAndType(_ context.Context, storeID uuid.UUID, templateType string) (*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, record := range r.byID {
		if record.StoreID == storeID && record.TemplateType == templateType && record.Enabled {
			return cloneTemplate(record), nil
		}
	}
	return nil, &NotFoundError{Resource: "template", Key: storeID.String() + ":" + templateType}
}

func (r *MemoryTemplateRepository) ListByStore(_ context.Context, storeID uuid.UUID) ([]*Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Template
	for _, record := range r.byID {
		if record.StoreID == storeID {
			out = append(out, cloneTemplate(record))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TemplateType < out[j].TemplateType })
	return out, nil
}

func (r *MemoryTemplateRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[id]; !ok {
		return &NotFoundError{Resource: "template", Key: id.String()}
	}
	delete(r.byID, id)
	return nil
}

// MemorySectionRepository provides an in-memory implementation of SectionRepository.
type MemorySectionRepository struct {
	mu         sync.RWMutex
	byID       map[uuid.UUID]*SectionRecord
	byTemplate map[uuid.UUID][]uuid.UUID
}

// NewMemorySectionRepository constructs an empty memory-backed section repository.
func NewMemorySectionRepository() *MemorySectionRepository {
	return &MemorySectionRepository{
		byID:       make(map[uuid.UUID]*SectionRecord),
		byTemplate: make(map[uuid.UUID][]uuid.UUID),
	}
}

func (r *MemorySectionRepository) GetByID(_ context.Context, id uuid.UUID) (*SectionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "section", Key: id.String()}
	}
	return cloneSectionRecord(record), nil
}

func (r *MemorySectionRepository) ListByTemplate(_ context.Context, templateID uuid.UUID) ([]*SectionRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := r.byTemplate[templateID]
	out := make([]*SectionRecord, 0, len(ids))
	for _, id := range ids {
		if record, ok := r.byID[id]; ok {
			out = append(out, cloneSectionRecord(record))
		}
	}
	return out, nil
}

func (r *MemorySectionRepository) ReplaceForTemplate(_ context.Context, templateID uuid.UUID, records []*SectionRecord) ([]*SectionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.byTemplate[templateID] {
		delete(r.byID, id)
	}
	ids := make([]uuid.UUID, 0, len(records))
	out := make([]*SectionRecord, 0, len(records))
	for _, record := range records {
		cloned := cloneSectionRecord(record)
		cloned.TemplateID = templateID
		r.byID[cloned.ID] = cloned
		ids = append(ids, cloned.ID)
		out = append(out, cloneSectionRecord(cloned))
	}
	r.byTemplate[templateID] = ids
	return out, nil
}

func (r *MemorySectionRepository) Upsert(_ context.Context, record *SectionRecord) (*SectionRecord, error) {
	if record == nil {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	cloned := cloneSectionRecord(record)
	if _, ok := r.byID[cloned.ID]; !ok {
		r.byTemplate[cloned.TemplateID] = append(r.byTemplate[cloned.TemplateID], cloned.ID)
	}
	r.byID[cloned.ID] = cloned
	return cloneSectionRecord(cloned), nil
}

func (r *MemorySectionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.byID[id]
	if !ok {
		return &NotFoundError{Resource: "section", Key: id.String()}
	}
	delete(r.byID, id)

	ids := r.byTemplate[record.TemplateID]
	next := make([]uuid.UUID, 0, len(ids))
	for _, existing := range ids {
		if existing != id {
			next = append(next, existing)
		}
	}
	r.byTemplate[record.TemplateID] = next
	return nil
}
