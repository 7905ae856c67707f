package testsupport

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-storefront/internal/templates"
	"github.com/goliatone/go-storefront/stores"
)

func NewSQLiteMemoryDB() (*sql.DB, error) {
	return sql.Open("sqlite3", "file::memory:?cache=shared")
}

// NewBunSQLiteDB opens an in-memory sqlite database wrapped for bun.
func NewBunSQLiteDB() (*bun.DB, error) {
	sqldb, err := NewSQLiteMemoryDB()
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// CreateSchema creates the storefront tables. Intended for tests and demos;
// production deployments manage schema through migrations.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*stores.Store)(nil),
		(*stores.Template)(nil),
		(*templates.SectionRecord)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}
