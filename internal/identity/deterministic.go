package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// StoreUUID derives the identity for a store keyed by subdomain.
func StoreUUID(subdomain string) uuid.UUID {
	return UUID("go-storefront:store:" + strings.ToLower(strings.TrimSpace(subdomain)))
}

// TemplateUUID derives the identity for a store template.
func TemplateUUID(storeID uuid.UUID, templateType string) uuid.UUID {
	return UUID("go-storefront:template:" + storeID.String() + ":" + strings.ToLower(strings.TrimSpace(templateType)))
}

// SectionSlotUUID derives the identity for a theme-default section slot. The
// compiler uses it so a default that was never overridden still renders with a
// stable id across requests.
func SectionSlotUUID(theme, templateType, slot string) uuid.UUID {
	return UUID("go-storefront:section_slot:" +
		strings.ToLower(strings.TrimSpace(theme)) + ":" +
		strings.ToLower(strings.TrimSpace(templateType)) + ":" +
		strings.ToLower(strings.TrimSpace(slot)))
}

// SectionUUID derives the identity for a persisted section override.
func SectionUUID(templateID uuid.UUID, slot string) uuid.UUID {
	return UUID("go-storefront:section:" + templateID.String() + ":" + strings.ToLower(strings.TrimSpace(slot)))
}
