package console

import (
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-storefront/pkg/interfaces"
)

func fixedClock() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestConsoleLoggerWritesEntry(t *testing.T) {
	var out strings.Builder
	provider := NewProvider(Options{Writer: &out, TimeFunc: fixedClock})

	logger := provider.GetLogger("storefront.test")
	logger.Info("store registered", "subdomain", "acme")

	entry := out.String()
	if !strings.Contains(entry, "INFO store registered") {
		t.Fatalf("unexpected entry: %q", entry)
	}
	if !strings.Contains(entry, "logger=storefront.test") || !strings.Contains(entry, "subdomain=acme") {
		t.Fatalf("fields missing: %q", entry)
	}
}

func TestConsoleLoggerMinLevel(t *testing.T) {
	var out strings.Builder
	min := LevelWarn
	provider := NewProvider(Options{Writer: &out, TimeFunc: fixedClock, MinLevel: &min})

	logger := provider.GetLogger("storefront.test")
	logger.Debug("hidden")
	logger.Warn("shown")

	entry := out.String()
	if strings.Contains(entry, "hidden") {
		t.Fatalf("debug entry leaked: %q", entry)
	}
	if !strings.Contains(entry, "shown") {
		t.Fatalf("warn entry missing: %q", entry)
	}
}

func TestConsoleLoggerWithFields(t *testing.T) {
	var out strings.Builder
	provider := NewProvider(Options{Writer: &out, TimeFunc: fixedClock})

	logger, ok := provider.GetLogger("storefront.test").(interfaces.FieldsLogger)
	if !ok {
		t.Fatal("expected FieldsLogger")
	}
	logger.WithFields(map[string]any{"store_id": "s1"}).Info("compiled")

	if !strings.Contains(out.String(), "store_id=s1") {
		t.Fatalf("bound field missing: %q", out.String())
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("warning") != LevelWarn {
		t.Fatal("warning alias")
	}
	if ParseLevel("") != LevelInfo {
		t.Fatal("default level")
	}
}
