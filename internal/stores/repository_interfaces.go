package stores

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// StoreRepository exposes persistence operations for stores.
type StoreRepository interface {
	Create(ctx context.Context, store *Store) (*Store, error)
	Update(ctx context.Context, store *Store) (*Store, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Store, error)
	GetBySubdomain(ctx context.Context, subdomain string) (*Store, error)
	List(ctx context.Context) ([]*Store, error)
	ListActive(ctx context.Context) ([]*Store, error)
}

// NotFoundError is returned when a store resource cannot be located.
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
