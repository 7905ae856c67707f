package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/goliatone/go-storefront/internal/stores"
	"github.com/goliatone/go-storefront/internal/templates"
	"github.com/goliatone/go-storefront/internal/themes"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func joinPath(base, suffix string) string {
	trimmedBase := strings.TrimSpace(base)
	trimmedSuffix := strings.TrimSpace(suffix)
	if trimmedBase == "" {
		if trimmedSuffix == "" {
			return "/"
		}
		return "/" + strings.Trim(trimmedSuffix, "/")
	}
	baseClean := "/" + strings.Trim(trimmedBase, "/")
	if trimmedSuffix == "" {
		return baseClean
	}
	return baseClean + "/" + strings.Trim(trimmedSuffix, "/")
}

func decodeJSON(r *http.Request, target any) error {
	if r == nil || r.Body == nil {
		return io.EOF
	}
	defer r.Body.Close()
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()
	return decoder.Decode(target)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, payload := mapError(err)
	writeJSON(w, status, payload)
}

func mapError(err error) (int, errorResponse) {
	if err == nil {
		return http.StatusInternalServerError, errorResponse{Error: "unknown_error"}
	}

	var storeNotFound *stores.NotFoundError
	if errors.As(err, &storeNotFound) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: storeNotFound.Error()}
	}
	var templateNotFound *templates.NotFoundError
	if errors.As(err, &templateNotFound) {
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: templateNotFound.Error()}
	}

	switch {
	case errors.Is(err, stores.ErrStoreNotFound),
		errors.Is(err, templates.ErrTemplateNotFound),
		errors.Is(err, templates.ErrSectionNotFound),
		errors.Is(err, themes.ErrThemeNotFound),
		errors.Is(err, themes.ErrTemplateNotFound):
		return http.StatusNotFound, errorResponse{Error: "not_found", Message: err.Error()}
	case errors.Is(err, stores.ErrStoreExists):
		return http.StatusConflict, errorResponse{Error: "conflict", Message: err.Error()}
	case errors.Is(err, stores.ErrStoreNameRequired),
		errors.Is(err, stores.ErrStoreSubdomainRequired),
		errors.Is(err, stores.ErrStoreSubdomainInvalid),
		errors.Is(err, stores.ErrStoreThemeRequired),
		errors.Is(err, stores.ErrStoreThemeUnknown),
		errors.Is(err, templates.ErrTemplateTypeRequired),
		errors.Is(err, templates.ErrSectionTypeRequired),
		errors.Is(err, templates.ErrSectionSettingsInvalid):
		return http.StatusUnprocessableEntity, errorResponse{Error: "validation_failed", Message: err.Error()}
	}

	return http.StatusInternalServerError, errorResponse{Error: "internal_error", Message: err.Error()}
}
