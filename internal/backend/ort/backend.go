package ort

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	ort "github.com/yalue/onnxruntime_go"

	"github.com/ekisa-team/digitd/internal/backend"
	"github.com/ekisa-team/digitd/internal/mapsafe"
)

// Backend implements backend.Backend for ONNX models via ONNX Runtime.
//
// Each session keeps a persistent input/output tensor pair and reuses it for
// every run, following the onnxruntime_go advanced session model.
type Backend struct {
	initOnce sync.Once
	initErr  error
	active   bool
}

// NewBackend creates a new ONNX Runtime backend.
func NewBackend() *Backend {
	return &Backend{}
}

// Provider returns the backend identifier.
func (b *Backend) Provider() backend.Provider {
	return backend.ProviderONNXRuntime
}

// ResolveModelPath resolves the .onnx artifact inside the base path.
func (b *Backend) ResolveModelPath(basePath string) (string, error) {
	return backend.LocateByExt(basePath, ".onnx")
}

// Open creates an advanced session with persistent input/output tensors.
// Parameters: "input_name" and "output_name" override the graph's tensor
// names (defaults "input" and "output").
func (b *Backend) Open(ctx context.Context, path string, spec backend.TensorSpec, parameters map[string]any) (backend.Session, error) {
	b.initOnce.Do(func() {
		b.initErr = ort.InitializeEnvironment()
		b.active = b.initErr == nil
	})
	if b.initErr != nil {
		return nil, fmt.Errorf("failed to initialize ONNX environment: %w", b.initErr)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(spec.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("failed to create input tensor: %w", err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(spec.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("failed to create output tensor: %w", err)
	}

	inputName := mapsafe.Get(parameters, "input_name", "input")
	outputName := mapsafe.Get(parameters, "output_name", "output")

	session, err := ort.NewAdvancedSession(path,
		[]string{inputName}, []string{outputName},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		nil)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("failed to create ONNX session: %w", err)
	}

	slog.Info("ONNX session opened", "path", path, "input", inputName, "output", outputName)

	return &Session{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// Close tears down the process-wide ONNX Runtime environment.
func (b *Backend) Close() error {
	if !b.active {
		return nil
	}
	b.active = false
	return ort.DestroyEnvironment()
}

// Session is a loaded ONNX model with persistent tensors.
type Session struct {
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

// Run executes one forward pass.
func (s *Session) Run(input []float32, output []float32) error {
	copy(s.inputTensor.GetData(), input)

	if err := s.session.Run(); err != nil {
		return fmt.Errorf("inference failed: %w", err)
	}

	copy(output, s.outputTensor.GetData())
	return nil
}

// Close destroys the session and its tensors.
func (s *Session) Close() error {
	if s.inputTensor != nil {
		s.inputTensor.Destroy()
		s.inputTensor = nil
	}
	if s.outputTensor != nil {
		s.outputTensor.Destroy()
		s.outputTensor = nil
	}
	if s.session != nil {
		s.session.Destroy()
		s.session = nil
	}
	return nil
}
