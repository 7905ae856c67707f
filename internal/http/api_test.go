package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/goliatone/go-storefront/internal/compiler"
	"github.com/goliatone/go-storefront/internal/renderer"
	"github.com/goliatone/go-storefront/internal/runtimeconfig"
	"github.com/goliatone/go-storefront/internal/stores"
	"github.com/goliatone/go-storefront/internal/templates"
	"github.com/goliatone/go-storefront/internal/themes"
	storefrontsections "github.com/goliatone/go-storefront/sections"
)

const apiTestManifest = `{
  "name": "commerce",
  "version": "1.0.0",
  "settings": {"layout": {"borderRadius": "4px"}},
  "templates": {
    "homepage": [
      {"type": "header", "position": 0},
      {"type": "hero", "position": 1},
      {"type": "footer", "position": 2}
    ]
  }
}`

func newTestAPI(t *testing.T) (*StorefrontAPI, *http.ServeMux) {
	t.Helper()

	manifest, err := themes.ParseManifest(strings.NewReader(apiTestManifest))
	if err != nil {
		t.Fatalf("ParseManifest: %v", err)
	}
	catalog := themes.NewCatalog()
	if err := catalog.Register(manifest); err != nil {
		t.Fatalf("Register: %v", err)
	}

	storeSvc := stores.NewService(stores.NewMemoryStoreRepository(),
		stores.WithThemeValidator(catalog.HasTheme))
	templateSvc := templates.NewService(
		templates.NewMemoryTemplateRepository(),
		templates.NewMemorySectionRepository(),
	)
	compileSvc, err := compiler.NewService(catalog, templateSvc)
	if err != nil {
		t.Fatalf("compiler.NewService: %v", err)
	}

	registry := themes.NewRegistry()
	render, err := renderer.New(registry)
	if err != nil {
		t.Fatalf("renderer.New: %v", err)
	}

	api := NewStorefrontAPI(Config{
		Stores:    storeSvc,
		Templates: templateSvc,
		Compiler:  compileSvc,
		Renderer:  render,
		Catalog:   catalog,
		Preview:   runtimeconfig.DefaultConfig().Preview,
	})
	mux := http.NewServeMux()
	api.Register(mux, "/api")
	return api, mux
}

func createStore(t *testing.T, mux *http.ServeMux) {
	t.Helper()
	body := `{"name":"Acme","subdomain":"acme","theme":"commerce"}`
	req := httptest.NewRequest(http.MethodPost, "/api/stores", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("store create: %d %s", rec.Code, rec.Body.String())
	}
}

func TestStoreCreateAndGet(t *testing.T) {
	_, mux := newTestAPI(t)
	createStore(t, mux)

	req := httptest.NewRequest(http.MethodGet, "/api/stores/acme", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("store get: %d %s", rec.Code, rec.Body.String())
	}

	var store stores.Store
	if err := json.Unmarshal(rec.Body.Bytes(), &store); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if store.Subdomain != "acme" || store.Theme != "commerce" {
		t.Fatalf("unexpected store: %+v", store)
	}
}

func TestStoreCreateDuplicateConflict(t *testing.T) {
	_, mux := newTestAPI(t)
	createStore(t, mux)

	body := `{"name":"Other","subdomain":"acme","theme":"commerce"}`
	req := httptest.NewRequest(http.MethodPost, "/api/stores", strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestStoreGetUnknownNotFound(t *testing.T) {
	_, mux := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/api/stores/ghost", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestSectionsReplaceAndCompile(t *testing.T) {
	_, mux := newTestAPI(t)
	createStore(t, mux)

	payload := `[{"sectionType":"hero","slot":"hero","settings":{"heading":"Big Sale"},"position":1},
	             {"sectionType":"banner","slot":"banner","position":3}]`
	req := httptest.NewRequest(http.MethodPut, "/api/stores/acme/templates/homepage/sections", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("sections replace: %d %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/api/stores/acme/templates/homepage/sections", nil)
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("sections compile: %d %s", rec.Code, rec.Body.String())
	}

	var compiled compiledResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &compiled); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(compiled.Sections) != 2 {
		t.Fatalf("expected hero and banner, got %+v", compiled.Sections)
	}
	if compiled.Sections[0].Settings["heading"] != "Big Sale" {
		t.Fatalf("override settings missing: %+v", compiled.Sections[0])
	}
	if compiled.Globals == nil || compiled.Globals.Header == nil || compiled.Globals.Footer == nil {
		t.Fatalf("globals missing: %+v", compiled.Globals)
	}
}

func TestPageRenderIncludesStylesAndPlaceholders(t *testing.T) {
	_, mux := newTestAPI(t)
	createStore(t, mux)

	req := httptest.NewRequest(http.MethodGet, "/api/stores/acme/pages/homepage", nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("page render: %d %s", rec.Code, rec.Body.String())
	}

	body := rec.Body.String()
	if !strings.Contains(body, "--theme-layout-border-radius: 4px;") {
		t.Fatalf("theme variables missing: %s", body)
	}
	// No renderables registered, so sections fall back to placeholders.
	if !strings.Contains(body, "storefront-section--missing") {
		t.Fatalf("expected placeholder markup: %s", body)
	}
}

func TestPreviewSocketSession(t *testing.T) {
	_, mux := newTestAPI(t)
	createStore(t, mux)

	server := httptest.NewServer(mux)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/api/stores/acme/preview/homepage/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	var ready struct {
		Type     string                        `json:"type"`
		Sections []*storefrontsections.Section `json:"sections"`
	}
	if err := conn.ReadJSON(&ready); err != nil {
		t.Fatalf("read ready: %v", err)
	}
	// The stylesheet frame may arrive before the ready announcement.
	for ready.Type == frameStyleSheet {
		if err := conn.ReadJSON(&ready); err != nil {
			t.Fatalf("read ready: %v", err)
		}
	}
	if ready.Type != "PREVIEW_READY" {
		t.Fatalf("expected PREVIEW_READY, got %q", ready.Type)
	}
	// The snapshot keeps the global chrome so preview edits can target it.
	if len(ready.Sections) != 3 {
		t.Fatalf("unexpected snapshot: %+v", ready.Sections)
	}
	types := []string{
		ready.Sections[0].SectionType,
		ready.Sections[1].SectionType,
		ready.Sections[2].SectionType,
	}
	if types[0] != "header" || types[1] != "hero" || types[2] != "footer" {
		t.Fatalf("unexpected section order: %v", types)
	}

	update := `{"type":"THEME_SETTINGS_UPDATE","settings":{"layout":{"borderRadius":"8px"}}}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(update)); err != nil {
		t.Fatalf("write: %v", err)
	}

	var style struct {
		Type string `json:"type"`
		CSS  string `json:"css"`
	}
	if err := conn.ReadJSON(&style); err != nil {
		t.Fatalf("read style: %v", err)
	}
	if style.Type != frameStyleSheet || !strings.Contains(style.CSS, "--theme-layout-border-radius: 8px;") {
		t.Fatalf("unexpected style frame: %+v", style)
	}
}
