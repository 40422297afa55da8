package export

import (
	"context"
	"os"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/model"
	"resume-builder/resume/preview"
	"resume-builder/resume/render"
)

// findBrowser returns a local Chrome binary or skips the test.
func findBrowser(t *testing.T) string {
	t.Helper()
	if p := os.Getenv("CHROME_PATH"); p != "" {
		return p
	}
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if p, err := exec.LookPath(name); err == nil {
			return p
		}
	}
	t.Skip("no Chrome or Chromium binary found")
	return ""
}

func TestChromeCapturerDoublesCanvas(t *testing.T) {
	if testing.Short() {
		t.Skip("launches a browser")
	}
	execPath := findBrowser(t)

	doc := model.NewEmpty("resume_1", "guest:g1", "modern", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	doc.PersonalInfo.FirstName = "Ada"
	doc.PersonalInfo.LastName = "Lovelace"
	layout, err := render.Select("modern").Render(doc)
	require.NoError(t, err)

	surface := preview.Present(layout, preview.FullScale)
	width, height := surface.Dimensions()

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()
	img, err := NewChromeCapturer(execPath, time.Minute).Capture(ctx, surface, CaptureOptions{Scale: CaptureScale})
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, 2*width, b.Dx())
	assert.Equal(t, 2*height, b.Dy())
	assert.Equal(t, 1632, b.Dx())
	assert.Equal(t, 2112, b.Dy())
}
