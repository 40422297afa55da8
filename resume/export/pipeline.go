// Package export turns a previewed resume into a downloadable PDF.
//
// The surface is captured as a bitmap at twice the canvas resolution and the
// bitmap is placed full bleed on a single PDF page of the same pixel size.
package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"io"
	"strings"

	"resume-builder/resume/model"
	"resume-builder/resume/preview"
)

const (
	// CaptureScale is the bitmap density relative to the canvas.
	CaptureScale = 2
	ContentType  = "application/pdf"
)

// CaptureOptions tune a capture.
type CaptureOptions struct {
	Scale float64
	// AllowCrossOrigin lets remote images load into the capture.
	AllowCrossOrigin bool
}

// Capturer produces a bitmap of a surface.
type Capturer interface {
	Capture(ctx context.Context, surface *preview.Surface, opts CaptureOptions) (image.Image, error)
}

// Encoder writes a bitmap as a single page document.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
}

// Artifact is a finished export.
type Artifact struct {
	FileName    string
	ContentType string
	Data        []byte
	PageWidth   int
	PageHeight  int
}

// Pipeline runs capture then encode.
type Pipeline struct {
	Capturer Capturer
	Encoder  Encoder
}

func NewPipeline(c Capturer, e Encoder) *Pipeline {
	return &Pipeline{Capturer: c, Encoder: e}
}

// Export captures surface at full scale and encodes it. The surface scale is
// restored on every exit path. On failure the returned error is a *Fault and
// the artifact is empty.
func (p *Pipeline) Export(ctx context.Context, doc model.Resume, surface *preview.Surface) (Artifact, error) {
	if surface == nil {
		return Artifact{}, &Fault{Step: StepPrepare, Err: errors.New("no surface to export")}
	}
	if err := ctx.Err(); err != nil {
		return Artifact{}, &Fault{Step: StepPrepare, Err: err}
	}

	prev := surface.SetScale(preview.FullScale)
	defer surface.SetScale(prev)

	img, err := p.Capturer.Capture(ctx, surface, CaptureOptions{Scale: CaptureScale, AllowCrossOrigin: true})
	if err != nil {
		return Artifact{}, &Fault{Step: StepCapture, Err: err}
	}
	if img == nil || img.Bounds().Empty() {
		return Artifact{}, &Fault{Step: StepCapture, Err: errors.New("empty capture")}
	}

	var buf bytes.Buffer
	if err := p.Encoder.Encode(&buf, img); err != nil {
		return Artifact{}, &Fault{Step: StepEncode, Err: err}
	}

	b := img.Bounds()
	return Artifact{
		FileName:    FileName(doc),
		ContentType: ContentType,
		Data:        buf.Bytes(),
		PageWidth:   b.Dx(),
		PageHeight:  b.Dy(),
	}, nil
}

// FileName is {firstName}_{lastName}_Resume.pdf. Path separators are
// replaced so the name is always a single segment.
func FileName(doc model.Resume) string {
	name := doc.PersonalInfo.FirstName + "_" + doc.PersonalInfo.LastName + "_Resume.pdf"
	return strings.NewReplacer("/", "-", "\\", "-").Replace(name)
}
