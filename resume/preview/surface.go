// Package preview displays a rendered layout at an adjustable scale.
// Scaling is a display transform only; the canvas keeps its fixed size.
package preview

import (
	"bytes"
	"html/template"
	"io"
	"strconv"
	"sync"

	"resume-builder/resume/render"
)

const (
	ThumbnailScale = 0.6
	FullScale      = 1.0
)

// Surface is a layout on screen with a display scale.
type Surface struct {
	mu     sync.RWMutex
	layout render.FixedLayout
	scale  float64
}

// Present wraps layout in a surface at the given scale.
func Present(layout render.FixedLayout, scale float64) *Surface {
	return &Surface{layout: layout, scale: clamp(scale)}
}

func clamp(scale float64) float64 {
	if scale <= 0 {
		return FullScale
	}
	return scale
}

func (s *Surface) Scale() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scale
}

// SetScale changes the display scale and returns the previous one.
func (s *Surface) SetScale(scale float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev := s.scale
	s.scale = clamp(scale)
	return prev
}

// Dimensions returns the canvas size, which never depends on scale.
func (s *Surface) Dimensions() (width, height int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.layout.Width, s.layout.Height
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Resume preview</title>
<style>
html, body { margin: 0; padding: 0; background: #FFFFFF; }
#resume-preview { margin: 0 auto; box-shadow: 0 1px 3px rgba(0, 0, 0, 0.12); }
</style>
</head>
<body>
<div id="resume-preview" data-template="{{.TemplateID}}" style="{{.Style}}">{{.Body}}</div>
</body>
</html>
`))

type pageData struct {
	TemplateID string
	Style      template.CSS
	Body       template.HTML
}

// HTML returns a standalone page showing the layout at the current scale.
func (s *Surface) HTML() template.HTML {
	var buf bytes.Buffer
	// The page template has no failure modes beyond the writer.
	_, _ = s.WriteTo(&buf)
	return template.HTML(buf.String())
}

// WriteTo writes the standalone preview page to w.
func (s *Surface) WriteTo(w io.Writer) (int64, error) {
	s.mu.RLock()
	data := pageData{
		TemplateID: s.layout.TemplateID,
		Style:      surfaceStyle(s.layout.Width, s.layout.Height, s.scale),
		Body:       s.layout.HTML,
	}
	s.mu.RUnlock()

	cw := &countingWriter{w: w}
	err := page.Execute(cw, data)
	return cw.n, err
}

func surfaceStyle(width, height int, scale float64) template.CSS {
	return template.CSS("width: " + strconv.Itoa(width) + "px; height: " + strconv.Itoa(height) +
		"px; transform: scale(" + strconv.FormatFloat(scale, 'f', -1, 64) + "); transform-origin: top center")
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
