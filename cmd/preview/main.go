// Command preview runs a self-contained storefront demo: an in-memory sqlite
// database, the bundled commerce theme, and the HTTP API with the realtime
// preview websocket.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"

	storefront "github.com/goliatone/go-storefront"
	"github.com/goliatone/go-storefront/internal/di"
	"github.com/goliatone/go-storefront/internal/stores"
	"github.com/goliatone/go-storefront/internal/themes"
	"github.com/goliatone/go-storefront/pkg/testsupport"
	"github.com/goliatone/go-storefront/themes/commerce"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	subdomain := flag.String("store", "acme", "demo store subdomain")
	flag.Parse()

	ctx := context.Background()

	db, err := testsupport.NewBunSQLiteDB()
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := testsupport.CreateSchema(ctx, db); err != nil {
		log.Fatalf("create schema: %v", err)
	}

	catalog := themes.NewCatalog()
	registry := themes.NewRegistry()
	if err := commerce.Register(catalog, registry); err != nil {
		log.Fatalf("register commerce theme: %v", err)
	}

	cfg := storefront.DefaultConfig()
	cfg.Features.Preview = true
	cfg.Features.Logger = true

	module, err := storefront.New(cfg,
		di.WithBunDB(db),
		di.WithCatalog(catalog),
		di.WithRegistry(registry),
	)
	if err != nil {
		log.Fatalf("start storefront: %v", err)
	}

	store, err := module.Stores().RegisterStore(ctx, stores.RegisterStoreInput{
		Name:      "Acme Outfitters",
		Subdomain: *subdomain,
		Theme:     commerce.Name,
	})
	if err != nil {
		log.Fatalf("seed demo store: %v", err)
	}

	log.Printf("demo store ready: http://localhost%s/storefront/stores/%s/pages/homepage", *addr, store.Subdomain)
	log.Printf("preview socket:   ws://localhost%s/storefront/stores/%s/preview/homepage/ws", *addr, store.Subdomain)
	log.Fatal(http.ListenAndServe(*addr, module.Handler("/storefront")))
}
