package stores

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-slug"
	"github.com/google/uuid"
)

// Service exposes store tenant management capabilities.
type Service interface {
	RegisterStore(ctx context.Context, input RegisterStoreInput) (*Store, error)
	GetStore(ctx context.Context, id uuid.UUID) (*Store, error)
	GetStoreBySubdomain(ctx context.Context, subdomain string) (*Store, error)
	ListStores(ctx context.Context) ([]*Store, error)
	ListActiveStores(ctx context.Context) ([]*Store, error)

	AssignTheme(ctx context.Context, id uuid.UUID, theme string) (*Store, error)
	ActivateStore(ctx context.Context, id uuid.UUID) (*Store, error)
	DeactivateStore(ctx context.Context, id uuid.UUID) (*Store, error)
}

// RegisterStoreInput carries the fields accepted when registering a store.
type RegisterStoreInput struct {
	Name         string
	Subdomain    string
	Theme        string
	ContactEmail *string
	Description  *string
}

var (
	ErrStoreRepositoryRequired = errors.New("stores: store repository required")

	ErrStoreNameRequired      = errors.New("stores: name required")
	ErrStoreSubdomainRequired = errors.New("stores: subdomain required")
	ErrStoreSubdomainInvalid  = errors.New("stores: subdomain invalid")
	ErrStoreThemeRequired     = errors.New("stores: theme required")
	ErrStoreThemeUnknown      = errors.New("stores: theme unknown")
	ErrStoreExists            = errors.New("stores: store already exists")
	ErrStoreNotFound          = errors.New("stores: store not found")
)

// IDGenerator produces unique identifiers.
type IDGenerator func() uuid.UUID

// ThemeValidator reports whether a theme name is known to the catalog. A nil
// validator accepts every non-empty theme.
type ThemeValidator func(theme string) bool

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

// WithThemeValidator wires catalog-backed theme validation into registration
// and theme assignment.
func WithThemeValidator(validator ThemeValidator) ServiceOption {
	return func(s *service) {
		s.themeValid = validator
	}
}

type service struct {
	stores     StoreRepository
	id         IDGenerator
	now        func() time.Time
	themeValid ThemeValidator
}

// NewService constructs a store service instance.
func NewService(repo StoreRepository, opts ...ServiceOption) Service {
	if repo == nil {
		panic(ErrStoreRepositoryRequired)
	}

	s := &service{
		stores: repo,
		id:     uuid.New,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) RegisterStore(ctx context.Context, input RegisterStoreInput) (*Store, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrStoreNameRequired
	}
	subdomain, err := normalizeSubdomain(input.Subdomain)
	if err != nil {
		return nil, err
	}
	theme := strings.TrimSpace(input.Theme)
	if theme == "" {
		return nil, ErrStoreThemeRequired
	}
	if s.themeValid != nil && !s.themeValid(theme) {
		return nil, ErrStoreThemeUnknown
	}

	if existing, err := s.stores.GetBySubdomain(ctx, subdomain); err == nil && existing != nil {
		return nil, ErrStoreExists
	} else if err != nil {
		var nf *NotFoundError
		if !errors.As(err, &nf) {
			return nil, err
		}
	}

	record := &Store{
		ID:           s.id(),
		Name:         name,
		Subdomain:    subdomain,
		Theme:        theme,
		ContactEmail: cloneString(input.ContactEmail),
		Description:  cloneString(input.Description),
		IsActive:     true,
		CreatedAt:    s.now().UTC(),
		UpdatedAt:    s.now().UTC(),
	}

	created, err := s.stores.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return cloneStore(created), nil
}

func (s *service) GetStore(ctx context.Context, id uuid.UUID) (*Store, error) {
	if id == uuid.Nil {
		return nil, ErrStoreNotFound
	}
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrStoreNotFound)
	}
	return cloneStore(store), nil
}

func (s *service) GetStoreBySubdomain(ctx context.Context, subdomain string) (*Store, error) {
	normalized, err := normalizeSubdomain(subdomain)
	if err != nil {
		return nil, ErrStoreNotFound
	}
	store, err := s.stores.GetBySubdomain(ctx, normalized)
	if err != nil {
		return nil, translateRepoError(err, ErrStoreNotFound)
	}
	return cloneStore(store), nil
}

func (s *service) ListStores(ctx context.Context) ([]*Store, error) {
	records, err := s.stores.List(ctx)
	if err != nil {
		return nil, err
	}
	return cloneStoreSlice(records), nil
}

func (s *service) ListActiveStores(ctx context.Context) ([]*Store, error) {
	records, err := s.stores.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	return cloneStoreSlice(records), nil
}

func (s *service) AssignTheme(ctx context.Context, id uuid.UUID, theme string) (*Store, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		return nil, ErrStoreThemeRequired
	}
	if s.themeValid != nil && !s.themeValid(theme) {
		return nil, ErrStoreThemeUnknown
	}

	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrStoreNotFound)
	}
	store.Theme = theme
	store.UpdatedAt = s.now().UTC()

	updated, err := s.stores.Update(ctx, store)
	if err != nil {
		return nil, err
	}
	return cloneStore(updated), nil
}

func (s *service) ActivateStore(ctx context.Context, id uuid.UUID) (*Store, error) {
	return s.setActive(ctx, id, true)
}

func (s *service) DeactivateStore(ctx context.Context, id uuid.UUID) (*Store, error) {
	return s.setActive(ctx, id, false)
}

func (s *service) setActive(ctx context.Context, id uuid.UUID, active bool) (*Store, error) {
	store, err := s.stores.GetByID(ctx, id)
	if err != nil {
		return nil, translateRepoError(err, ErrStoreNotFound)
	}
	store.IsActive = active
	store.UpdatedAt = s.now().UTC()

	updated, err := s.stores.Update(ctx, store)
	if err != nil {
		return nil, err
	}
	return cloneStore(updated), nil
}

func normalizeSubdomain(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", ErrStoreSubdomainRequired
	}
	normalized, err := slug.Normalize(trimmed)
	if err != nil || normalized == "" {
		return "", ErrStoreSubdomainInvalid
	}
	return normalized, nil
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

func cloneStoreSlice(src []*Store) []*Store {
	if len(src) == 0 {
		return nil
	}
	out := make([]*Store, len(src))
	for i, store := range src {
		out[i] = cloneStore(store)
	}
	return out
}
