package render

import "resume-builder/resume/model"

// CatalogEntry describes a template for the chooser.
type CatalogEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Thumbnail   string   `json:"thumbnail"`
	Colors      []string `json:"colors"`
}

var descriptions = map[string][2]string{
	"modern":       {"Modern", "A clean, modern template with a sidebar for your information"},
	"professional": {"Professional", "A traditional, professional layout ideal for corporate positions"},
	"creative":     {"Creative", "A bold, colorful template that stands out for creative roles"},
	"minimal":      {"Minimal", "A minimalist design with a focus on content and readability"},
}

// Catalog lists the templates in display order.
func Catalog() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(model.TemplateIDs))
	for _, id := range model.TemplateIDs {
		p := Palettes[id]
		d := descriptions[id]
		out = append(out, CatalogEntry{
			ID:          id,
			Name:        d[0],
			Description: d[1],
			Thumbnail:   "/templates/" + id + ".png",
			Colors:      []string{p.Primary, p.Secondary, p.Background},
		})
	}
	return out
}
