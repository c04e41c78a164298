package backend

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mock types ---

type MockBackend struct {
	mock.Mock
}

func (m *MockBackend) Provider() Provider {
	args := m.Called()
	return Provider(args.String(0))
}

func (m *MockBackend) Open(ctx context.Context, path string, spec TensorSpec, parameters map[string]any) (Session, error) {
	args := m.Called(ctx, path, spec, parameters)
	if s, ok := args.Get(0).(Session); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockBackend) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockSession struct {
	mock.Mock
}

func (m *MockSession) Run(input []float32, output []float32) error {
	args := m.Called(input, output)
	return args.Error(0)
}

func (m *MockSession) Close() error {
	args := m.Called()
	return args.Error(0)
}

// --- Tests ---

func TestRegistry_RegisterAndGet(t *testing.T) {
	reg := NewRegistry()
	mockBackend := new(MockBackend)
	mockBackend.On("Provider").Return("tflite")

	reg.Register(mockBackend)

	got, ok := reg.Get(ProviderTFLite)
	assert.True(t, ok)
	assert.Equal(t, mockBackend, got)

	// Ensure a missing backend returns false
	_, ok = reg.Get(ProviderONNXRuntime)
	assert.False(t, ok)

	mockBackend.AssertExpectations(t)
}

func TestRegistry_Close(t *testing.T) {
	reg := NewRegistry()

	b1 := new(MockBackend)
	b2 := new(MockBackend)
	b1.On("Provider").Return("tflite")
	b2.On("Provider").Return("onnxruntime")

	// Normal close
	b1.On("Close").Return(nil).Once()
	b2.On("Close").Return(nil).Once()

	reg.Register(b1)
	reg.Register(b2)

	err := reg.Close()
	assert.NoError(t, err)

	b1.AssertExpectations(t)
	b2.AssertExpectations(t)
}

func TestRegistry_CloseErrorPropagation(t *testing.T) {
	reg := NewRegistry()

	b1 := new(MockBackend)
	b2 := new(MockBackend)

	b1.On("Provider").Return("tflite")
	b2.On("Provider").Return("onnxruntime")

	b1.On("Close").Return(errors.New("close failed")).Maybe()
	b2.On("Close").Return(errors.New("close failed")).Maybe()

	reg.Register(b1)
	reg.Register(b2)

	err := reg.Close()
	assert.EqualError(t, err, "close failed")
}

func TestTensorSpec_Lengths(t *testing.T) {
	spec := TensorSpec{
		InputShape:  []int64{1, 28, 28, 1},
		OutputShape: []int64{1, 10},
	}

	assert.Equal(t, 784, spec.InputLen())
	assert.Equal(t, 10, spec.OutputLen())
}
