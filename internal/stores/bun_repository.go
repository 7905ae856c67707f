package stores

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

// BunStoreRepository implements StoreRepository with optional caching.
type BunStoreRepository struct {
	repo repository.Repository[*Store]
}

// NewBunStoreRepository creates a store repository without caching.
func NewBunStoreRepository(db *bun.DB) *BunStoreRepository {
	return NewBunStoreRepositoryWithCache(db, nil, nil)
}

// NewBunStoreRepositoryWithCache creates a store repository with caching support.
func NewBunStoreRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunStoreRepository {
	base := NewStoreRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	return &BunStoreRepository{repo: base}
}

func (r *BunStoreRepository) Create(ctx context.Context, store *Store) (*Store, error) {
	record, err := r.repo.Create(ctx, store)
	if err != nil {
		return nil, err
	}
	return record, nil
}

func (r *BunStoreRepository) Update(ctx context.Context, store *Store) (*Store, error) {
	record, err := r.repo.Update(ctx, store)
	if err != nil {
		return nil, mapRepositoryError(err, "store", store.ID.String())
	}
	return record, nil
}

func (r *BunStoreRepository) GetByID(ctx context.Context, id uuid.UUID) (*Store, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "store", id.String())
	}
	return record, nil
}

func (r *BunStoreRepository) GetBySubdomain(ctx context.Context, subdomain string) (*Store, error) {
	record, err := r.repo.GetByIdentifier(ctx, subdomain)
	if err != nil {
		return nil, mapRepositoryError(err, "store", subdomain)
	}
	return record, nil
}

func (r *BunStoreRepository) List(ctx context.Context) ([]*Store, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunStoreRepository) ListActive(ctx context.Context) ([]*Store, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("?TableAlias.is_active = TRUE")
	}))
	return records, err
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
