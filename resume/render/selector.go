package render

import "resume-builder/resume/model"

// NewModern returns the sidebar template.
func NewModern() Renderer { return newHTMLRenderer("modern", nil) }

// NewProfessional returns the centered two-column template.
func NewProfessional() Renderer { return newHTMLRenderer("professional", nil) }

// NewCreative returns the gradient banner template.
func NewCreative() Renderer { return newHTMLRenderer("creative", nil) }

// NewMinimal returns the single-column template. Its footer prints the
// date from now; a nil clock means time.Now.
func NewMinimal(now Clock) Renderer { return newHTMLRenderer("minimal", now) }

// Registry resolves template ids to renderers.
type Registry struct {
	byID map[string]Renderer
}

// NewRegistry parses the four known templates once.
func NewRegistry(now Clock) *Registry {
	r := &Registry{byID: make(map[string]Renderer, len(model.TemplateIDs))}
	for _, id := range model.TemplateIDs {
		r.byID[id] = newHTMLRenderer(id, now)
	}
	return r
}

// Select returns the renderer for templateID. Unknown ids fall back to modern.
func (r *Registry) Select(templateID string) Renderer {
	return r.byID[model.NormalizeTemplateID(templateID)]
}

// Render selects the resume's template and renders it.
func (r *Registry) Render(resume model.Resume) (FixedLayout, error) {
	return r.Select(resume.TemplateID).Render(resume)
}

var defaultRegistry = NewRegistry(nil)

// Select resolves templateID against the default registry.
func Select(templateID string) Renderer {
	return defaultRegistry.Select(templateID)
}
