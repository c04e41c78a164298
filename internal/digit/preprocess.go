package digit

import (
	"fmt"
	"image"
)

// ValidateBounds rejects bitmaps that are not exactly 28x28. The caller is
// responsible for scaling; this package never resizes.
func ValidateBounds(img image.Image) error {
	if img == nil {
		return fmt.Errorf("bitmap is nil")
	}

	b := img.Bounds()
	if b.Dx() != ImageSize || b.Dy() != ImageSize {
		return fmt.Errorf("bitmap is %dx%d, want %dx%d", b.Dx(), b.Dy(), ImageSize, ImageSize)
	}

	return nil
}

// Preprocess fills dst with the model's input layout: pixels in row-major
// order, blue channel only, complemented so that a black stroke (channel 0)
// becomes the highest activation (255) and white background becomes 0. The
// values stay in the 0-255 range, the model was trained on unscaled
// intensities.
//
// Writing always starts at index 0, so dst is fully rewritten on every call.
// A nil image or an undersized dst is a silent no-op.
func Preprocess(img image.Image, dst []float32) {
	if img == nil || len(dst) < InputLen {
		return
	}

	b := img.Bounds()
	i := 0
	for y := 0; y < ImageSize; y++ {
		for x := 0; x < ImageSize; x++ {
			_, _, blue, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			// RGBA returns 16-bit channels; the model wants the 8-bit value.
			dst[i] = float32(0xff - uint8(blue>>8))
			i++
		}
	}
}
