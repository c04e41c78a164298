package ximg

import (
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"

	"github.com/nfnt/resize"

	"github.com/ekisa-team/digitd/internal/digit"
)

// Decode reads a PNG or JPEG bitmap.
func Decode(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("invalid image format (supported: JPEG, PNG): %w", err)
	}

	return img, nil
}

// Fit scales img down to the classifier's 28x28 input size. Images already
// at the right size pass through untouched; the classifier itself never
// resizes.
func Fit(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() == digit.ImageSize && b.Dy() == digit.ImageSize {
		return img
	}

	return resize.Resize(digit.ImageSize, digit.ImageSize, img, resize.Lanczos3)
}
