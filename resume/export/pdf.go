package export

import (
	"image"
	"io"

	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics/color"
	pdfimage "seehuhn.de/go/pdf/graphics/image"
)

// PDFEncoder writes a bitmap as a one page PDF. One PDF unit maps to one
// bitmap pixel, so the page is exactly the bitmap size.
type PDFEncoder struct{}

func NewPDFEncoder() *PDFEncoder { return &PDFEncoder{} }

func (PDFEncoder) Encode(w io.Writer, img image.Image) error {
	b := img.Bounds()
	width, height := float64(b.Dx()), float64(b.Dy())

	// 1.4 keeps a classic cross-reference table.
	pg, err := document.WriteSinglePage(w, &pdf.Rectangle{URx: width, URy: height}, pdf.V1_4, nil)
	if err != nil {
		return err
	}

	pg.PushGraphicsState()
	pg.Transform(matrix.Matrix{width, 0, 0, height, 0, 0})
	pg.DrawXObject(pdfimage.FromImage(img, color.SpaceDeviceRGB, 8))
	pg.PopGraphicsState()

	return pg.Close()
}
