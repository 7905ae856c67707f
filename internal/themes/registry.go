package themes

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/pkg/interfaces"
)

// ErrRendererNotFound indicates no loader or renderable is registered for the
// (theme, sectionType) pair. Callers render a permanent placeholder for this.
var ErrRendererNotFound = errors.New("themes: renderer not found")

// LoadError wraps a loader failure. Unlike ErrRendererNotFound it is
// retryable: the failed attempt is not cached and a later resolve runs the
// loader again.
type LoadError struct {
	Theme       string
	SectionType string
	Err         error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("themes: load renderer %s/%s: %v", e.Theme, e.SectionType, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// ResolutionState describes the outcome of a non-blocking resolve.
type ResolutionState int

const (
	// StateResolved means a renderable is available.
	StateResolved ResolutionState = iota
	// StateLoading means a loader is running; retry shortly.
	StateLoading
	// StateFailed means the last load attempt errored; a later call retries.
	StateFailed
	// StateNotFound means nothing is registered for the pair.
	StateNotFound
)

type registryKey struct {
	theme       string
	sectionType string
}

type registryEntry struct {
	loader     interfaces.RenderableLoader
	renderable interfaces.SectionRenderable
	loading    chan struct{}
	lastErr    error
}

// Registry resolves section renderables per (theme, sectionType) pair.
// Loaders run lazily on first resolve; only successful loads are cached so a
// transient failure does not poison the pair.
type Registry struct {
	mu      sync.Mutex
	entries map[registryKey]*registryEntry
	logger  interfaces.Logger
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryLogger sets the registry logger.
func WithRegistryLogger(logger interfaces.Logger) RegistryOption {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry returns an empty renderer registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		entries: make(map[registryKey]*registryEntry),
		logger:  logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register installs a lazy loader for a (theme, sectionType) pair. A later
// registration for the same pair replaces the previous one and drops any
// cached renderable.
func (r *Registry) Register(theme, sectionType string, loader interfaces.RenderableLoader) {
	if loader == nil {
		return
	}
	key := registryKey{theme: theme, sectionType: sectionType}
	r.mu.Lock()
	r.entries[key] = &registryEntry{loader: loader}
	r.mu.Unlock()
}

// RegisterRenderable installs an already-built renderable for a pair.
func (r *Registry) RegisterRenderable(theme, sectionType string, renderable interfaces.SectionRenderable) {
	if renderable == nil {
		return
	}
	key := registryKey{theme: theme, sectionType: sectionType}
	r.mu.Lock()
	r.entries[key] = &registryEntry{renderable: renderable}
	r.mu.Unlock()
}

// Resolve returns the renderable for a pair, running its loader if it has not
// loaded yet. Concurrent resolves of the same pair share a single load.
func (r *Registry) Resolve(ctx context.Context, theme, sectionType string) (interfaces.SectionRenderable, error) {
	key := registryKey{theme: theme, sectionType: sectionType}

	for {
		r.mu.Lock()
		entry, ok := r.entries[key]
		if !ok {
			r.mu.Unlock()
			return nil, fmt.Errorf("%w: %s/%s", ErrRendererNotFound, theme, sectionType)
		}
		if entry.renderable != nil {
			renderable := entry.renderable
			r.mu.Unlock()
			return renderable, nil
		}
		if entry.loading != nil {
			wait := entry.loading
			r.mu.Unlock()
			select {
			case <-wait:
			case <-ctx.Done():
				return nil, &LoadError{Theme: theme, SectionType: sectionType, Err: ctx.Err()}
			}
			continue
		}
		done := make(chan struct{})
		entry.loading = done
		loader := entry.loader
		r.mu.Unlock()

		renderable, err := loader(ctx)

		r.mu.Lock()
		entry.loading = nil
		close(done)
		if err != nil {
			entry.lastErr = err
			r.mu.Unlock()
			r.logger.Warn("renderer load failed",
				"theme", theme,
				"section_type", sectionType,
				"error", err,
			)
			return nil, &LoadError{Theme: theme, SectionType: sectionType, Err: err}
		}
		if renderable == nil {
			entry.lastErr = fmt.Errorf("loader returned nil renderable")
			r.mu.Unlock()
			return nil, &LoadError{Theme: theme, SectionType: sectionType, Err: entry.lastErr}
		}
		entry.renderable = renderable
		entry.lastErr = nil
		r.mu.Unlock()
		return renderable, nil
	}
}

// TryResolve is the non-blocking variant. When a loader has not run yet it is
// kicked off in the background and StateLoading is returned so the caller can
// render a loading placeholder and retry.
func (r *Registry) TryResolve(ctx context.Context, theme, sectionType string) (interfaces.SectionRenderable, ResolutionState) {
	key := registryKey{theme: theme, sectionType: sectionType}

	r.mu.Lock()
	entry, ok := r.entries[key]
	if !ok {
		r.mu.Unlock()
		return nil, StateNotFound
	}
	if entry.renderable != nil {
		renderable := entry.renderable
		r.mu.Unlock()
		return renderable, StateResolved
	}
	if entry.loading != nil {
		r.mu.Unlock()
		return nil, StateLoading
	}
	if entry.lastErr != nil {
		// Report the failure once, then retry on the next call.
		entry.lastErr = nil
		r.mu.Unlock()
		return nil, StateFailed
	}
	done := make(chan struct{})
	entry.loading = done
	r.mu.Unlock()

	go func() {
		renderable, err := entry.loader(ctx)
		r.mu.Lock()
		entry.loading = nil
		close(done)
		if err != nil {
			entry.lastErr = err
			r.mu.Unlock()
			r.logger.Warn("renderer load failed",
				"theme", theme,
				"section_type", sectionType,
				"error", err,
			)
			return
		}
		if renderable == nil {
			entry.lastErr = fmt.Errorf("loader returned nil renderable")
			r.mu.Unlock()
			return
		}
		entry.renderable = renderable
		r.mu.Unlock()
	}()

	return nil, StateLoading
}

// Registered reports whether any loader or renderable exists for the pair.
func (r *Registry) Registered(theme, sectionType string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[registryKey{theme: theme, sectionType: sectionType}]
	return ok
}
