package render

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"time"

	"resume-builder/resume/model"
)

// Page geometry: 8.5in x 11in at a 96 DPI reference.
const (
	ReferenceDPI = 96
	PageWidthPx  = 816
	PageHeightPx = 1056
)

// ErrRender marks template execution faults. These indicate a bug in a
// template or a structurally broken document, not a runtime condition.
var ErrRender = errors.New("render fault")

// FixedLayout is a rendered page bound to a constant canvas size.
type FixedLayout struct {
	TemplateID string
	Width      int
	Height     int
	HTML       template.HTML
}

// Renderer maps a resume to a fixed-page layout. Implementations are pure.
type Renderer interface {
	ID() string
	Render(resume model.Resume) (FixedLayout, error)
}

//go:embed templates/*.html.tmpl
var templateFiles embed.FS

// Clock supplies the current time to renderers that print a date.
type Clock func() time.Time

type htmlRenderer struct {
	id   string
	tmpl *template.Template
	now  Clock
}

func newHTMLRenderer(id string, now Clock) *htmlRenderer {
	name := id + ".html.tmpl"
	tmpl := template.Must(template.New(name).Funcs(funcMap).ParseFS(templateFiles, "templates/"+name))
	if now == nil {
		now = time.Now
	}
	return &htmlRenderer{id: id, tmpl: tmpl, now: now}
}

func (r *htmlRenderer) ID() string { return r.id }

func (r *htmlRenderer) Render(resume model.Resume) (FixedLayout, error) {
	data := view{
		Resume:   resume,
		Name:     resume.DisplayName(),
		Initials: resume.Initials(),
		Width:    PageWidthPx,
		Height:   PageHeightPx,
		Today:    r.now().Format("1/2/2006"),
		Palette:  Palettes[r.id],
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, data); err != nil {
		return FixedLayout{}, fmt.Errorf("%w: template %s: %v", ErrRender, r.id, err)
	}

	return FixedLayout{
		TemplateID: r.id,
		Width:      PageWidthPx,
		Height:     PageHeightPx,
		HTML:       template.HTML(buf.String()),
	}, nil
}

// view is the data handed to every template.
type view struct {
	model.Resume
	Name     string
	Initials string
	Width    int
	Height   int
	Today    string
	Palette  Palette
}

// HasContact reports whether any contact channel is set.
func (v view) HasContact() bool {
	c := v.PersonalInfo.Contact
	return c.Email != "" || c.Phone != "" || c.Address != "" || c.LinkedIn != "" || c.GitHub != "" || c.Website != ""
}
