package http

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/internal/compiler"
	"github.com/goliatone/go-storefront/internal/stores"
	"github.com/goliatone/go-storefront/internal/templates"
	"github.com/goliatone/go-storefront/pkg/interfaces"
	"github.com/goliatone/go-storefront/sections"
)

type sectionPayload struct {
	ID          string           `json:"id,omitempty"`
	SectionType string           `json:"sectionType"`
	Slot        string           `json:"slot,omitempty"`
	Settings    map[string]any   `json:"settings,omitempty"`
	Enabled     *bool            `json:"enabled,omitempty"`
	Position    int              `json:"position"`
	Blocks      []sections.Block `json:"blocks,omitempty"`
}

type compiledResponse struct {
	Sections []*sections.Section      `json:"sections"`
	Globals  *sections.GlobalSections `json:"globals,omitempty"`
}

func (api *StorefrontAPI) registerTemplateRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "stores")
	mux.HandleFunc("GET "+root+"/{subdomain}/templates/{type}/sections", api.handleSectionsCompile)
	mux.HandleFunc("PUT "+root+"/{subdomain}/templates/{type}/sections", api.handleSectionsReplace)
	mux.HandleFunc("GET "+root+"/{subdomain}/pages/{type}", api.handlePageRender)
}

func (api *StorefrontAPI) handleSectionsCompile(w http.ResponseWriter, r *http.Request) {
	if api.stores == nil || api.compiler == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	store, err := api.stores.GetStoreBySubdomain(r.Context(), r.PathValue("subdomain"))
	if err != nil {
		writeError(w, err)
		return
	}

	opts := compiler.Options{
		IncludeDisabled: r.URL.Query().Get("includeDisabled") == "true",
	}
	result, err := api.compiler.CompilePage(r.Context(), store, r.PathValue("type"), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, compiledResponse{Sections: result.Sections, Globals: result.Globals})
}

func (api *StorefrontAPI) handleSectionsReplace(w http.ResponseWriter, r *http.Request) {
	if api.stores == nil || api.templates == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	store, err := api.stores.GetStoreBySubdomain(r.Context(), r.PathValue("subdomain"))
	if err != nil {
		writeError(w, err)
		return
	}

	var payload []sectionPayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_payload", Message: err.Error()})
		return
	}

	inputs := make([]templates.SectionInput, 0, len(payload))
	for i, item := range payload {
		input, err := payloadToInput(item)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:   "invalid_payload",
				Message: fmt.Sprintf("section %d: %v", i, err),
			})
			return
		}
		inputs = append(inputs, input)
	}

	templateType := r.PathValue("type")
	tmpl, err := api.templates.EnsureTemplate(r.Context(), templates.EnsureTemplateInput{
		StoreID:      store.ID,
		TemplateType: templateType,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	saved, err := api.templates.ReplaceSections(r.Context(), tmpl.ID, inputs)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, compiledResponse{Sections: saved})
}

func (api *StorefrontAPI) handlePageRender(w http.ResponseWriter, r *http.Request) {
	if api.stores == nil || api.compiler == nil || api.renderer == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	store, err := api.stores.GetStoreBySubdomain(r.Context(), r.PathValue("subdomain"))
	if err != nil {
		writeError(w, err)
		return
	}

	templateType := r.PathValue("type")
	result, err := api.compiler.CompilePage(r.Context(), store, templateType, compiler.Options{})
	if err != nil {
		writeError(w, err)
		return
	}

	rc := interfaces.RenderContext{
		Store:         store,
		Theme:         store.Theme,
		TemplateType:  templateType,
		ThemeSettings: result.ThemeSettings,
	}

	body, err := api.renderPage(r, store, result, rc)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func (api *StorefrontAPI) renderPage(r *http.Request, store *stores.Store, result *compiler.Result, rc interfaces.RenderContext) (string, error) {
	var b strings.Builder
	b.WriteString("<!doctype html>\n<html>\n<head>\n")
	fmt.Fprintf(&b, "<title>%s</title>\n", htmlEscape(store.Name))
	if css := api.pageStyles(store, rc.ThemeSettings); css != "" {
		b.WriteString("<style>\n")
		b.WriteString(css)
		b.WriteString("</style>\n")
	}
	b.WriteString("</head>\n<body>\n")

	ctx := r.Context()
	for _, global := range []*sections.Section{result.Globals.AnnouncementBar, result.Globals.Header} {
		if global == nil {
			continue
		}
		html, err := api.renderer.RenderSection(ctx, global, rc)
		if err != nil {
			return "", err
		}
		b.WriteString(string(html))
	}

	html, err := api.renderer.RenderSections(ctx, result.Sections, rc)
	if err != nil {
		return "", err
	}
	b.WriteString(string(html))

	if result.Globals.Footer != nil {
		footer, err := api.renderer.RenderSection(ctx, result.Globals.Footer, rc)
		if err != nil {
			return "", err
		}
		b.WriteString(string(footer))
	}

	b.WriteString("\n</body>\n</html>\n")
	return b.String(), nil
}

func payloadToInput(item sectionPayload) (templates.SectionInput, error) {
	input := templates.SectionInput{
		SectionType: item.SectionType,
		Slot:        item.Slot,
		Settings:    item.Settings,
		Enabled:     item.Enabled,
		Position:    item.Position,
		Blocks:      item.Blocks,
	}
	id := strings.TrimSpace(item.ID)
	if id == "" || sections.IsTemporaryID(id) {
		return input, nil
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return input, fmt.Errorf("invalid section id %q", id)
	}
	input.ID = parsed
	return input, nil
}

func htmlEscape(s string) string {
	return template.HTMLEscapeString(s)
}
