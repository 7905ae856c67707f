package stores

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewStoreRepository creates a repository for store records.
func NewStoreRepository(db *bun.DB) repository.Repository[*Store] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Store]{
		NewRecord:          func() *Store { return &Store{} },
		GetID:              func(store *Store) uuid.UUID { return store.ID },
		SetID:              func(store *Store, id uuid.UUID) { store.ID = id },
		GetIdentifier:      func() string { return "subdomain" },
		GetIdentifierValue: func(store *Store) string { return store.Subdomain },
	})
}
