package export

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPDFEncoderPageMatchesBitmap(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 60))
	for y := 0; y < 60; y++ {
		for x := 0; x < 40; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 6), G: uint8(y * 4), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, NewPDFEncoder().Encode(&buf, img))
	require.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))

	info, err := Inspect(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, 1, info.Pages)
	assert.Equal(t, 40.0, info.Width)
	assert.Equal(t, 60.0, info.Height)

	assert.NoError(t, Verify(Artifact{Data: buf.Bytes(), PageWidth: 40, PageHeight: 60}))
	assert.Error(t, Verify(Artifact{Data: buf.Bytes(), PageWidth: 80, PageHeight: 120}))
}

func TestInspectRejectsGarbage(t *testing.T) {
	_, err := Inspect([]byte("not a pdf"))
	assert.Error(t, err)
}
