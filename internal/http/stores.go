package http

import (
	"net/http"

	"github.com/goliatone/go-storefront/internal/stores"
)

type storeCreatePayload struct {
	Name         string  `json:"name"`
	Subdomain    string  `json:"subdomain"`
	Theme        string  `json:"theme,omitempty"`
	ContactEmail *string `json:"contact_email,omitempty"`
	Description  *string `json:"description,omitempty"`
}

type storeThemePayload struct {
	Theme string `json:"theme"`
}

func (api *StorefrontAPI) registerStoreRoutes(mux *http.ServeMux, base string) {
	root := joinPath(base, "stores")
	mux.HandleFunc("GET "+root, api.handleStoreList)
	mux.HandleFunc("POST "+root, api.handleStoreCreate)
	mux.HandleFunc("GET "+root+"/{subdomain}", api.handleStoreGet)
	mux.HandleFunc("PUT "+root+"/{subdomain}/theme", api.handleStoreTheme)
}

func (api *StorefrontAPI) handleStoreList(w http.ResponseWriter, r *http.Request) {
	if api.stores == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	var (
		list []*stores.Store
		err  error
	)
	if r.URL.Query().Get("active") == "true" {
		list, err = api.stores.ListActiveStores(r.Context())
	} else {
		list, err = api.stores.ListStores(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (api *StorefrontAPI) handleStoreCreate(w http.ResponseWriter, r *http.Request) {
	if api.stores == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	var payload storeCreatePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_payload", Message: err.Error()})
		return
	}

	store, err := api.stores.RegisterStore(r.Context(), stores.RegisterStoreInput{
		Name:         payload.Name,
		Subdomain:    payload.Subdomain,
		Theme:        payload.Theme,
		ContactEmail: payload.ContactEmail,
		Description:  payload.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, store)
}

func (api *StorefrontAPI) handleStoreGet(w http.ResponseWriter, r *http.Request) {
	if api.stores == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	store, err := api.stores.GetStoreBySubdomain(r.Context(), r.PathValue("subdomain"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, store)
}

func (api *StorefrontAPI) handleStoreTheme(w http.ResponseWriter, r *http.Request) {
	if api.stores == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "service_unavailable"})
		return
	}

	var payload storeThemePayload
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid_payload", Message: err.Error()})
		return
	}

	store, err := api.stores.GetStoreBySubdomain(r.Context(), r.PathValue("subdomain"))
	if err != nil {
		writeError(w, err)
		return
	}

	updated, err := api.stores.AssignTheme(r.Context(), store.ID, payload.Theme)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
