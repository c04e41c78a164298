package tflite

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mattn/go-tflite"
	"golang.org/x/sys/unix"

	"github.com/ekisa-team/digitd/internal/backend"
	"github.com/ekisa-team/digitd/internal/mapsafe"
)

// Backend implements backend.Backend for TensorFlow Lite models.
//
// The model artifact is mapped read-only into memory and the interpreter is
// constructed directly on the mapped region, so the weights are never copied
// onto the Go heap. The mapping stays alive for the lifetime of the session.
type Backend struct{}

// NewBackend creates a new TensorFlow Lite backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Provider returns the backend identifier.
func (b *Backend) Provider() backend.Provider {
	return backend.ProviderTFLite
}

// ResolveModelPath resolves the .tflite artifact inside the base path.
func (b *Backend) ResolveModelPath(basePath string) (string, error) {
	return backend.LocateByExt(basePath, ".tflite")
}

// Open maps the model file and constructs an interpreter bound to it.
func (b *Backend) Open(ctx context.Context, path string, spec backend.TensorSpec, parameters map[string]any) (backend.Session, error) {
	data, err := mmapFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to map model file %s: %w", path, err)
	}

	s := &Session{mapped: data}

	// The model is constructed from the mapped region. The mapping is held
	// until the session closes.
	s.model = tflite.NewModel(data)
	if s.model == nil {
		s.Close()
		return nil, fmt.Errorf("failed to parse model file %s", path)
	}

	s.options = tflite.NewInterpreterOptions()
	s.options.SetNumThread(mapsafe.Get(parameters, "num_threads", 1))
	s.options.SetErrorReporter(func(msg string, userData any) {
		slog.Error("TFLite interpreter error", "message", msg)
	}, nil)

	s.interpreter = tflite.NewInterpreter(s.model, s.options)
	if s.interpreter == nil {
		s.Close()
		return nil, fmt.Errorf("failed to create interpreter for %s", path)
	}

	if status := s.interpreter.AllocateTensors(); status != tflite.OK {
		s.Close()
		return nil, fmt.Errorf("failed to allocate tensors for %s", path)
	}

	if err := s.checkShapes(spec); err != nil {
		s.Close()
		return nil, err
	}

	slog.Info("TFLite session opened", "path", path, "bytes", len(data))
	return s, nil
}

// Close cleans up resources. The TFLite C API has no process-wide state.
func (b *Backend) Close() error {
	return nil
}

// Session is a loaded TFLite interpreter over a memory-mapped model.
type Session struct {
	mapped      []byte
	model       *tflite.Model
	options     *tflite.InterpreterOptions
	interpreter *tflite.Interpreter
}

// Run executes one forward pass, copying input into the interpreter's input
// tensor and the result back out of its output tensor.
func (s *Session) Run(input []float32, output []float32) error {
	in := s.interpreter.GetInputTensor(0)
	copy(in.Float32s(), input)

	if status := s.interpreter.Invoke(); status != tflite.OK {
		return fmt.Errorf("interpreter invoke failed with status %d", status)
	}

	out := s.interpreter.GetOutputTensor(0)
	copy(output, out.Float32s())
	return nil
}

// Close releases the interpreter and unmaps the model.
func (s *Session) Close() error {
	if s.interpreter != nil {
		s.interpreter.Delete()
		s.interpreter = nil
	}
	if s.options != nil {
		s.options.Delete()
		s.options = nil
	}
	if s.model != nil {
		s.model.Delete()
		s.model = nil
	}
	if s.mapped != nil {
		if err := unix.Munmap(s.mapped); err != nil {
			return fmt.Errorf("failed to unmap model: %w", err)
		}
		s.mapped = nil
	}
	return nil
}

// checkShapes verifies the graph's declared tensor shapes against the spec.
func (s *Session) checkShapes(spec backend.TensorSpec) error {
	in := s.interpreter.GetInputTensor(0)
	if n := numElements(in); n != spec.InputLen() {
		return fmt.Errorf("%w: input has %d elements, want %d", backend.ErrShapeMismatch, n, spec.InputLen())
	}
	if in.Type() != tflite.Float32 {
		return fmt.Errorf("%w: input tensor type is %v, want float32", backend.ErrShapeMismatch, in.Type())
	}

	out := s.interpreter.GetOutputTensor(0)
	if n := numElements(out); n != spec.OutputLen() {
		return fmt.Errorf("%w: output has %d elements, want %d", backend.ErrShapeMismatch, n, spec.OutputLen())
	}
	return nil
}

func numElements(t *tflite.Tensor) int {
	n := 1
	for i := 0; i < t.NumDims(); i++ {
		n *= t.Dim(i)
	}
	return n
}

// mmapFile maps the file read-only. An empty file is rejected, mapping zero
// bytes is invalid.
func mmapFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, fmt.Errorf("model file %s is empty", path)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(info.Size()), unix.PROT_READ, unix.MAP_PRIVATE)
	if err != nil {
		return nil, err
	}

	return data, nil
}
