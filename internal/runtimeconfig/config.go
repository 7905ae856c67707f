package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrThemesBasePathRequired indicates the theme catalog has nowhere to load from.
var ErrThemesBasePathRequired = errors.New("storefront config: themes base path is required when themes are enabled")

// ErrDefaultThemeRequired ensures rendering always has a theme to fall back to.
var ErrDefaultThemeRequired = errors.New("storefront config: default theme is required when themes are enabled")

// ErrPreviewRequiresThemes keeps the preview channel behind the themes feature.
var ErrPreviewRequiresThemes = errors.New("storefront config: preview feature requires themes to be enabled")

// ErrAdvancedCacheRequiresEnabledCache ensures cached repositories build only when cache is enabled.
var ErrAdvancedCacheRequiresEnabledCache = errors.New("storefront config: advanced cache feature requires cache to be enabled")

var ErrPreviewScrollDebounceInvalid = errors.New("storefront config: preview scroll debounce must be zero or positive")
var ErrPreviewHighlightInvalid = errors.New("storefront config: preview highlight duration must be zero or positive")
var ErrLoggingProviderRequired = errors.New("storefront config: logging provider is required when logging feature is enabled")
var ErrLoggingProviderUnknown = errors.New("storefront config: logging provider is invalid")
var ErrLoggingLevelInvalid = errors.New("storefront config: logging level is invalid")
var ErrLoggingFormatInvalid = errors.New("storefront config: logging format is invalid")

// Config aggregates feature flags and adapter bindings for the storefront module.
// Fields intentionally use simple types so host applications can extend them later.
type Config struct {
	Enabled  bool
	Storage  StorageConfig
	Cache    CacheConfig
	Themes   ThemeConfig
	Preview  PreviewConfig
	Features Features
	Logging  LoggingConfig
}

// StorageConfig lists identifiers for storage-related dependencies.
type StorageConfig struct {
	Provider string
}

// CacheConfig captures cache behaviour toggles.
type CacheConfig struct {
	Enabled    bool
	DefaultTTL time.Duration
}

// ThemeConfig captures configuration for the theme catalog and registry.
type ThemeConfig struct {
	BasePath          string
	DefaultTheme      string
	CSSVariablePrefix string
}

// PreviewConfig tunes the preview synchronization channel.
type PreviewConfig struct {
	ScrollDebounce    time.Duration
	HighlightDuration time.Duration
	BlockFetchTimeout time.Duration
}

// Features toggles module functionality.
type Features struct {
	Themes        bool
	Preview       bool
	AdvancedCache bool
	Logger        bool
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

// DefaultConfig returns opinionated defaults for embedding hosts.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Storage: StorageConfig{
			Provider: "bun",
		},
		Cache: CacheConfig{
			Enabled:    true,
			DefaultTTL: time.Minute,
		},
		Themes: ThemeConfig{
			BasePath:          "themes",
			DefaultTheme:      "commerce",
			CSSVariablePrefix: "--theme-",
		},
		Preview: PreviewConfig{
			ScrollDebounce:    150 * time.Millisecond,
			HighlightDuration: 2 * time.Second,
			BlockFetchTimeout: 10 * time.Second,
		},
		Features: Features{
			Themes: true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if cfg.Features.Themes {
		if strings.TrimSpace(cfg.Themes.BasePath) == "" {
			return ErrThemesBasePathRequired
		}
		if strings.TrimSpace(cfg.Themes.DefaultTheme) == "" {
			return ErrDefaultThemeRequired
		}
	}
	if cfg.Features.Preview && !cfg.Features.Themes {
		return ErrPreviewRequiresThemes
	}
	if cfg.Features.AdvancedCache && !cfg.Cache.Enabled {
		return ErrAdvancedCacheRequiresEnabledCache
	}
	if cfg.Preview.ScrollDebounce < 0 {
		return ErrPreviewScrollDebounceInvalid
	}
	if cfg.Preview.HighlightDuration < 0 {
		return ErrPreviewHighlightInvalid
	}
	if cfg.Features.Logger {
		provider := normalizeProvider(cfg.Logging.Provider)
		if provider == "" {
			return ErrLoggingProviderRequired
		}
		if !isSupportedProvider(provider) {
			return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
		}
		if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
			return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
		}
		if provider == "gologger" {
			if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
				return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
			}
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
