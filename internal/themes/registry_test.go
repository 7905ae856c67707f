package themes

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"testing"
	"time"

	"github.com/goliatone/go-storefront/pkg/interfaces"
	"github.com/goliatone/go-storefront/sections"
)

func staticRenderable(body string) interfaces.SectionRenderable {
	return interfaces.SectionRenderableFunc(func(ctx context.Context, section *sections.Section, rc interfaces.RenderContext) (template.HTML, error) {
		return template.HTML(body), nil
	})
}

func TestRegistryResolveRunsLoaderOnce(t *testing.T) {
	registry := NewRegistry()
	calls := 0
	registry.Register("commerce", "hero", func(ctx context.Context) (interfaces.SectionRenderable, error) {
		calls++
		return staticRenderable("<div>hero</div>"), nil
	})

	for i := 0; i < 3; i++ {
		renderable, err := registry.Resolve(context.Background(), "commerce", "hero")
		if err != nil {
			t.Fatalf("Resolve: %v", err)
		}
		if renderable == nil {
			t.Fatal("expected renderable")
		}
	}
	if calls != 1 {
		t.Fatalf("expected single load, got %d", calls)
	}
}

func TestRegistryResolveUnknownPair(t *testing.T) {
	registry := NewRegistry()
	_, err := registry.Resolve(context.Background(), "commerce", "nope")
	if !errors.Is(err, ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
}

func TestRegistryLoadFailureIsRetryable(t *testing.T) {
	registry := NewRegistry()
	calls := 0
	registry.Register("commerce", "hero", func(ctx context.Context) (interfaces.SectionRenderable, error) {
		calls++
		if calls == 1 {
			return nil, fmt.Errorf("template parse failed")
		}
		return staticRenderable("<div>hero</div>"), nil
	})

	_, err := registry.Resolve(context.Background(), "commerce", "hero")
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected LoadError, got %v", err)
	}
	if errors.Is(err, ErrRendererNotFound) {
		t.Fatal("load failure must not look like a missing renderer")
	}

	if _, err := registry.Resolve(context.Background(), "commerce", "hero"); err != nil {
		t.Fatalf("retry should succeed: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected retry to rerun loader, got %d calls", calls)
	}
}

func TestRegistryTryResolveStates(t *testing.T) {
	registry := NewRegistry()

	if _, state := registry.TryResolve(context.Background(), "commerce", "hero"); state != StateNotFound {
		t.Fatalf("expected StateNotFound, got %v", state)
	}

	release := make(chan struct{})
	registry.Register("commerce", "hero", func(ctx context.Context) (interfaces.SectionRenderable, error) {
		<-release
		return staticRenderable("<div>hero</div>"), nil
	})

	if _, state := registry.TryResolve(context.Background(), "commerce", "hero"); state != StateLoading {
		t.Fatalf("expected StateLoading, got %v", state)
	}
	close(release)

	deadline := time.After(2 * time.Second)
	for {
		renderable, state := registry.TryResolve(context.Background(), "commerce", "hero")
		if state == StateResolved {
			if renderable == nil {
				t.Fatal("resolved state without renderable")
			}
			return
		}
		select {
		case <-deadline:
			t.Fatalf("renderable never resolved, state %v", state)
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRegistryRegisterRenderableDirect(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterRenderable("commerce", "banner", staticRenderable("<div>banner</div>"))

	renderable, state := registry.TryResolve(context.Background(), "commerce", "banner")
	if state != StateResolved || renderable == nil {
		t.Fatalf("expected immediate resolution, got state %v", state)
	}
}
