package preview

import (
	"strings"
	"testing"
	"time"

	"resume-builder/resume/model"
	"resume-builder/resume/render"
)

func layoutFor(t *testing.T, templateID string) render.FixedLayout {
	t.Helper()
	r := model.NewEmpty("resume_1", "guest:1", templateID, time.Unix(0, 0))
	r.PersonalInfo.FirstName = "Ada"
	layout, err := render.Select(templateID).Render(r)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return layout
}

func TestDimensionsIgnoreScale(t *testing.T) {
	s := Present(layoutFor(t, "modern"), ThumbnailScale)
	for _, scale := range []float64{0.25, ThumbnailScale, FullScale, 2} {
		s.SetScale(scale)
		w, h := s.Dimensions()
		if w != render.PageWidthPx || h != render.PageHeightPx {
			t.Fatalf("scale %v: dimensions %dx%d", scale, w, h)
		}
	}
}

func TestNonPositiveScaleFallsBack(t *testing.T) {
	if got := Present(layoutFor(t, "minimal"), 0).Scale(); got != FullScale {
		t.Fatalf("expected full scale, got %v", got)
	}
	s := Present(layoutFor(t, "minimal"), ThumbnailScale)
	if prev := s.SetScale(-1); prev != ThumbnailScale {
		t.Fatalf("expected previous thumbnail scale, got %v", prev)
	}
	if s.Scale() != FullScale {
		t.Fatalf("expected full scale after negative input")
	}
}

func TestHTMLAppliesTransform(t *testing.T) {
	s := Present(layoutFor(t, "creative"), ThumbnailScale)
	out := string(s.HTML())
	if !strings.Contains(out, "transform: scale(0.6); transform-origin: top center") {
		t.Fatalf("missing transform: %s", out)
	}
	if !strings.Contains(out, `data-template="creative"`) || !strings.Contains(out, "Ada") {
		t.Fatalf("missing layout body")
	}

	var sb strings.Builder
	n, err := s.WriteTo(&sb)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if n != int64(sb.Len()) {
		t.Fatalf("expected %d bytes counted, got %d", sb.Len(), n)
	}
}
