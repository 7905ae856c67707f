package stores

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStoreRepository provides an in-memory implementation of StoreRepository.
type MemoryStoreRepository struct {
	mu          sync.RWMutex
	byID        map[uuid.UUID]*Store
	bySubdomain map[string]uuid.UUID
}

// NewMemoryStoreRepository constructs an empty memory-backed store repository.
func NewMemoryStoreRepository() *MemoryStoreRepository {
	return &MemoryStoreRepository{
		byID:        make(map[uuid.UUID]*Store),
		bySubdomain: make(map[string]uuid.UUID),
	}
}

func (r *MemoryStoreRepository) Create(_ context.Context, store *Store) (*Store, error) {
	if store == nil {
		return nil, nil
	}
	cloned := cloneStore(store)

	r.mu.Lock()
	defer r.mu.Unlock()

	r.byID[cloned.ID] = cloned
	r.bySubdomain[cloned.Subdomain] = cloned.ID

	return cloneStore(cloned), nil
}

func (r *MemoryStoreRepository) Update(_ context.Context, store *Store) (*Store, error) {
	if store == nil {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[store.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "store", Key: store.ID.String()}
	}
	delete(r.bySubdomain, existing.Subdomain)

	cloned := cloneStore(store)
	r.byID[cloned.ID] = cloned
	r.bySubdomain[cloned.Subdomain] = cloned.ID

	return cloneStore(cloned), nil
}

func (r *MemoryStoreRepository) GetByID(_ context.Context, id uuid.UUID) (*Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "store", Key: id.String()}
	}
	return cloneStore(record), nil
}

func (r *MemoryStoreRepository) GetBySubdomain(_ context.Context, subdomain string) (*Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySubdomain[subdomain]
	if !ok {
		return nil, &NotFoundError{Resource: "store", Key: subdomain}
	}
	return cloneStore(r.byID[id]), nil
}

func (r *MemoryStoreRepository) List(_ context.Context) ([]*Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Store, 0, len(r.byID))
	for _, store := range r.byID {
		out = append(out, cloneStore(store))
	}
	return out, nil
}

func (r *MemoryStoreRepository) ListActive(_ context.Context) ([]*Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Store
	for _, store := range r.byID {
		if store.IsActive {
			out = append(out, cloneStore(store))
		}
	}
	return out, nil
}
