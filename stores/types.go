package stores

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Store captures one merchant tenant: identity, subdomain, and the theme the
// storefront renders with. The record is immutable for the duration of a render.
type Store struct {
	bun.BaseModel `bun:"table:stores,alias:s"`

	ID           uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	Name         string     `bun:"name,notnull" json:"name"`
	Subdomain    string     `bun:"subdomain,notnull,unique" json:"subdomain"`
	Theme        string     `bun:"theme,notnull" json:"theme"`
	ContactEmail *string    `bun:"contact_email" json:"contact_email,omitempty"`
	Description  *string    `bun:"description" json:"description,omitempty"`
	IsActive     bool       `bun:"is_active,notnull,default:true" json:"is_active"`
	DeletedAt    *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Templates []*Template `bun:"rel:has-many,join:id=store_id" json:"templates,omitempty"`
}

// Template is the ordered set of sections belonging to one page type for one
// store. At most one template per (store, type) is enabled at a time.
type Template struct {
	bun.BaseModel `bun:"table:store_templates,alias:st"`

	ID           uuid.UUID `bun:",pk,type:uuid" json:"id"`
	StoreID      uuid.UUID `bun:"store_id,notnull,type:uuid" json:"store_id"`
	TemplateType string    `bun:"template_type,notnull" json:"template_type"`
	Name         string    `bun:"name,notnull" json:"name"`
	Slug         string    `bun:"slug,notnull" json:"slug"`
	Enabled      bool      `bun:"enabled,notnull,default:true" json:"enabled"`
	CreatedAt    time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Store *Store `bun:"rel:belongs-to,join:store_id=id" json:"store,omitempty"`
}

// Well-known template types. Hosts may introduce additional ones; the compiler
// treats the type as an opaque key into the theme manifest.
const (
	TemplateHomepage   = "homepage"
	TemplateProduct    = "product"
	TemplateCollection = "collection"
	TemplateSearch     = "search"
	TemplateCart       = "cart"
	TemplatePage       = "page"
)
