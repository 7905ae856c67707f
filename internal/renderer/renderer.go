package renderer

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"strings"

	"github.com/goliatone/go-storefront/internal/logging"
	"github.com/goliatone/go-storefront/internal/themes"
	"github.com/goliatone/go-storefront/pkg/interfaces"
	"github.com/goliatone/go-storefront/sections"
)

// ErrRegistryRequired indicates the renderer was built without a registry.
var ErrRegistryRequired = errors.New("renderer: registry required")

// Renderer turns compiled sections into HTML. Every section is wrapped in a
// marker element carrying its id and type so the preview channel can patch
// individual sections in place.
type Renderer struct {
	registry *themes.Registry
	logger   interfaces.Logger
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLogger sets the renderer logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New builds a renderer over a renderable registry.
func New(registry *themes.Registry, opts ...Option) (*Renderer, error) {
	if registry == nil {
		return nil, ErrRegistryRequired
	}
	r := &Renderer{
		registry: registry,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// RenderSection renders one section. Disabled sections produce no output on
// live pages and a dimmed wrapper in preview so merchants can still see and
// re-enable them.
func (r *Renderer) RenderSection(ctx context.Context, section *sections.Section, rc interfaces.RenderContext) (template.HTML, error) {
	if section == nil {
		return "", nil
	}
	if !section.Enabled && !rc.Preview {
		return "", nil
	}

	renderable, state := r.resolve(ctx, rc, section.SectionType)
	switch state {
	case themes.StateNotFound:
		return r.placeholder(section, rc, "missing", fmt.Sprintf("Section %q is not available in this theme.", section.SectionType)), nil
	case themes.StateLoading:
		return r.placeholder(section, rc, "loading", "Loading section…"), nil
	case themes.StateFailed:
		return r.placeholder(section, rc, "error", fmt.Sprintf("Section %q failed to load.", section.SectionType)), nil
	}

	body, err := renderable.Render(ctx, section, rc)
	if err != nil {
		r.logger.Error("section render failed",
			"section_id", section.ID,
			"section_type", section.SectionType,
			"error", err,
		)
		return r.placeholder(section, rc, "error", fmt.Sprintf("Section %q failed to render.", section.SectionType)), nil
	}

	return r.wrap(section, rc, body), nil
}

// RenderSections renders an ordered section list into one fragment.
func (r *Renderer) RenderSections(ctx context.Context, list []*sections.Section, rc interfaces.RenderContext) (template.HTML, error) {
	var b strings.Builder
	for _, section := range list {
		html, err := r.RenderSection(ctx, section, rc)
		if err != nil {
			return "", err
		}
		b.WriteString(string(html))
	}
	return template.HTML(b.String()), nil
}

// resolve picks the blocking or non-blocking resolution path. Preview never
// blocks a render pass on a loader; live rendering waits for the renderable
// and maps failures onto the placeholder states.
func (r *Renderer) resolve(ctx context.Context, rc interfaces.RenderContext, sectionType string) (interfaces.SectionRenderable, themes.ResolutionState) {
	if rc.Preview {
		return r.registry.TryResolve(ctx, rc.Theme, sectionType)
	}

	renderable, err := r.registry.Resolve(ctx, rc.Theme, sectionType)
	if err != nil {
		if errors.Is(err, themes.ErrRendererNotFound) {
			return nil, themes.StateNotFound
		}
		r.logger.Warn("renderer resolve failed",
			"theme", rc.Theme,
			"section_type", sectionType,
			"error", err,
		)
		return nil, themes.StateFailed
	}
	return renderable, themes.StateResolved
}

func (r *Renderer) wrap(section *sections.Section, rc interfaces.RenderContext, body template.HTML) template.HTML {
	var b strings.Builder
	b.WriteString(`<div class="`)
	b.WriteString(wrapperClasses(section, rc, ""))
	b.WriteString(`"`)
	writeSectionAttrs(&b, section, rc)
	b.WriteString(">")
	b.WriteString(string(body))
	b.WriteString("</div>")
	return template.HTML(b.String())
}

func (r *Renderer) placeholder(section *sections.Section, rc interfaces.RenderContext, kind, message string) template.HTML {
	var b strings.Builder
	b.WriteString(`<div class="`)
	b.WriteString(wrapperClasses(section, rc, kind))
	b.WriteString(`"`)
	writeSectionAttrs(&b, section, rc)
	b.WriteString(">")
	b.WriteString(template.HTMLEscapeString(message))
	b.WriteString("</div>")
	return template.HTML(b.String())
}

func wrapperClasses(section *sections.Section, rc interfaces.RenderContext, kind string) string {
	classes := []string{"storefront-section"}
	if kind != "" {
		classes = append(classes, "storefront-section--"+kind)
	}
	if !section.Enabled && rc.Preview {
		classes = append(classes, "storefront-section--disabled")
	}
	return strings.Join(classes, " ")
}

func writeSectionAttrs(b *strings.Builder, section *sections.Section, rc interfaces.RenderContext) {
	b.WriteString(` data-section-id="`)
	b.WriteString(template.HTMLEscapeString(section.ID))
	b.WriteString(`" data-section-type="`)
	b.WriteString(template.HTMLEscapeString(section.SectionType))
	b.WriteString(`"`)
	if rc.Preview && rc.SelectorMode {
		b.WriteString(` data-selectable="true"`)
	}
}
