package digit

import "github.com/ekisa-team/digitd/internal/backend"

// Model geometry. The MNIST-style graph takes a single 28x28 grayscale
// plane and produces one score per digit class.
const (
	// ImageSize is the width and height, in pixels, of a classifiable bitmap.
	ImageSize = 28

	// InputLen is the number of float32 entries in the input tensor.
	InputLen = ImageSize * ImageSize

	// NumClasses is the number of digit classes (0-9).
	NumClasses = 10

	// NoMatch is the sentinel returned when no class meets the selection
	// criterion.
	NoMatch = -1
)

// Spec returns the tensor spec every digit model must declare.
func Spec() backend.TensorSpec {
	return backend.TensorSpec{
		InputShape:  []int64{1, ImageSize, ImageSize, 1},
		OutputShape: []int64{1, NumClasses},
	}
}
