package backend

import (
	"context"
)

// Provider is a string identifier for an inference engine provider.
type Provider string

const (
	ProviderTFLite      Provider = "tflite"
	ProviderONNXRuntime Provider = "onnxruntime"
)

// TensorSpec describes the fixed input and output tensor shapes a session
// must satisfy. Shapes are declared by the model graph; a mismatch is a
// session construction error, not a per-call condition.
type TensorSpec struct {
	InputShape  []int64
	OutputShape []int64
}

// InputLen returns the number of elements in the input tensor.
func (s TensorSpec) InputLen() int {
	return numElements(s.InputShape)
}

// OutputLen returns the number of elements in the output tensor.
func (s TensorSpec) OutputLen() int {
	return numElements(s.OutputShape)
}

func numElements(shape []int64) int {
	n := 1
	for _, d := range shape {
		n *= int(d)
	}
	return n
}

// Backend constructs inference sessions for a specific engine.
type Backend interface {
	// Provider returns the backend identifier.
	Provider() Provider

	// Open loads the model artifact at path and returns a ready session.
	// Parameters contains backend-specific options.
	Open(ctx context.Context, path string, spec TensorSpec, parameters map[string]any) (Session, error)

	// Close cleans up process-wide engine resources.
	Close() error
}

// Session is a single loaded model bound to fixed tensor shapes.
// Sessions are not safe for concurrent use.
type Session interface {
	// Run executes one forward pass. The input buffer is read in full and
	// the output buffer is overwritten in place.
	Run(input []float32, output []float32) error

	// Close releases the session and any memory backing the model.
	Close() error
}
