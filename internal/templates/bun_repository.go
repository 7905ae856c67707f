package templates

import (
	"context"
	"fmt"

	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	"github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// BunTemplateRepository implements TemplateRepository with optional caching.
type BunTemplateRepository struct {
	repo repository.Repository[*Template]
}

// NewBunTemplateRepository creates a template repository without caching.
func NewBunTemplateRepository(db *bun.DB) *BunTemplateRepository {
	return NewBunTemplateRepositoryWithCache(db, nil, nil)
}

// NewBunTemplateRepositoryWithCache creates a template repository with caching.
func NewBunTemplateRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunTemplateRepository {
	base := NewTemplateBunRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunTemplateRepository{repo: base}
}

func (r *BunTemplateRepository) Create(ctx context.Context, template *Template) (*Template, error) {
	record, err := r.repo.Create(ctx, template)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunTemplateRepository) Update(ctx context.Context, template *Template) (*Template, error) {
	record, err := r.repo.Update(ctx, template)
	if err != nil {
		return nil, mapRepositoryError(err, "template", template.ID.String())
	}
	return record, nil
}

func (r *BunTemplateRepository) GetByID(ctx context.Context, id uuid.UUID) (*Template, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "template", id.String())
	}
	return record, nil
}

func (r *BunTemplateRepository) GetByStoreAndType(ctx context.Context, storeID uuid.UUID, templateType string) (*Template, error) {
	record, err := r.repo.Get(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.store_id = ?", storeID).
			Where("?TableAlias.template_type = ?", templateType).
			Where("?TableAlias.enabled = TRUE")
	}))
	if err != nil {
		return nil, mapRepositoryError(err, "template", storeID.String()+":"+templateType)
	}
	return record, nil
}

func (r *BunTemplateRepository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*Template, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.store_id = ?", storeID).Order("template_type ASC")
	}))
	return records, err
}

func (r *BunTemplateRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &Template{ID: id}); err != nil {
		return mapRepositoryError(err, "template", id.String())
	}
	return nil
}

// BunSectionRepository implements SectionRepository with optional caching.
type BunSectionRepository struct {
	db   *bun.DB
	repo repository.Repository[*SectionRecord]
}

// NewBunSectionRepository creates a section repository without caching.
func NewBunSectionRepository(db *bun.DB) *BunSectionRepository {
	return NewBunSectionRepositoryWithCache(db, nil, nil)
}

// NewBunSectionRepositoryWithCache creates a section repository with caching.
func NewBunSectionRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunSectionRepository {
	base := NewSectionBunRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunSectionRepository{db: db, repo: base}
}

func (r *BunSectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*SectionRecord, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "section", id.String())
	}
	return record, nil
}

func (r *BunSectionRepository) ListByTemplate(ctx context.Context, templateID uuid.UUID) ([]*SectionRecord, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.template_id = ?", templateID).Order("position ASC")
	}))
	return records, err
}

func (r *BunSectionRepository) ReplaceForTemplate(ctx context.Context, templateID uuid.UUID, records []*SectionRecord) ([]*SectionRecord, error) {
	out := make([]*SectionRecord, 0, len(records))
	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().
			Model((*SectionRecord)(nil)).
			Where("template_id = ?", templateID).
			Exec(ctx); err != nil {
			return err
		}
		for _, record := range records {
			record.TemplateID = templateID
			if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
				return err
			}
			out = append(out, record)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("section repository error: %w", err)
	}
	return out, nil
}

func (r *BunSectionRepository) Upsert(ctx context.Context, record *SectionRecord) (*SectionRecord, error) {
	created, err := r.repo.Upsert(ctx, record)
	if err != nil {
		return nil, mapRepositoryError(err, "section", record.ID.String())
	}
	return created, nil
}

func (r *BunSectionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.repo.Delete(ctx, &SectionRecord{ID: id}); err != nil {
		return mapRepositoryError(err, "section", id.String())
	}
	return nil
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}
	if errors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}
	return fmt.Errorf("%s repository error: %w", resource, err)
}
