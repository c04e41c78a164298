package ximg

import (
	"bytes"
	"image"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/digitd/internal/digit"
)

func encodePNG(t *testing.T, img image.Image) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return &buf
}

func TestDecode(t *testing.T) {
	buf := encodePNG(t, image.NewRGBA(image.Rect(0, 0, 28, 28)))

	img, err := Decode(buf)

	require.NoError(t, err)
	assert.Equal(t, 28, img.Bounds().Dx())
}

func TestDecode_Garbage(t *testing.T) {
	_, err := Decode(strings.NewReader("definitely not an image"))
	assert.Error(t, err)
}

func TestFit_PassThrough(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, digit.ImageSize, digit.ImageSize))
	assert.Same(t, image.Image(img), Fit(img))
}

func TestFit_Downscales(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 280, 280))

	fitted := Fit(img)

	assert.Equal(t, digit.ImageSize, fitted.Bounds().Dx())
	assert.Equal(t, digit.ImageSize, fitted.Bounds().Dy())
}
