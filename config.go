package storefront

import "github.com/goliatone/go-storefront/internal/runtimeconfig"

var (
	ErrThemesBasePathRequired            = runtimeconfig.ErrThemesBasePathRequired
	ErrDefaultThemeRequired              = runtimeconfig.ErrDefaultThemeRequired
	ErrPreviewRequiresThemes             = runtimeconfig.ErrPreviewRequiresThemes
	ErrAdvancedCacheRequiresEnabledCache = runtimeconfig.ErrAdvancedCacheRequiresEnabledCache
	ErrPreviewScrollDebounceInvalid      = runtimeconfig.ErrPreviewScrollDebounceInvalid
	ErrPreviewHighlightInvalid           = runtimeconfig.ErrPreviewHighlightInvalid
	ErrLoggingProviderRequired           = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown            = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid               = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid              = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config        = runtimeconfig.Config
	StorageConfig = runtimeconfig.StorageConfig
	CacheConfig   = runtimeconfig.CacheConfig
	ThemeConfig   = runtimeconfig.ThemeConfig
	PreviewConfig = runtimeconfig.PreviewConfig
	Features      = runtimeconfig.Features
	LoggingConfig = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
