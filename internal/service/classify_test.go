package service

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/digitd/internal/backend"
	"github.com/ekisa-team/digitd/internal/config"
	"github.com/ekisa-team/digitd/internal/digit"
	"github.com/ekisa-team/digitd/internal/model"
)

// cannedBackend returns sessions that always produce the same output vector.
type cannedBackend struct {
	output []float32
}

func (b *cannedBackend) Provider() backend.Provider {
	return backend.ProviderTFLite
}

func (b *cannedBackend) Open(ctx context.Context, path string, spec backend.TensorSpec, parameters map[string]any) (backend.Session, error) {
	return &cannedSession{output: b.output}, nil
}

func (b *cannedBackend) Close() error { return nil }

type cannedSession struct {
	output []float32
}

func (s *cannedSession) Run(input []float32, output []float32) error {
	copy(output, s.output)
	return nil
}

func (s *cannedSession) Close() error { return nil }

func newTestService(t *testing.T, output []float32) *Classify {
	t.Helper()

	artifact := filepath.Join(t.TempDir(), "mnist.tflite")
	require.NoError(t, os.WriteFile(artifact, []byte("stub"), 0o644))

	mc := config.ModelConfig{Backend: "tflite"}
	mc.SetLocalSource(config.LocalSource{Path: artifact})

	cfg := &config.Config{
		Version: "1",
		Storage: config.StorageConfig{ModelsDir: t.TempDir()},
		Models:  map[string]config.ModelConfig{"mnist": mc},
		Services: config.ServicesConfig{
			Classify: config.ServicesConfigAssignment{Models: []string{"mnist"}},
		},
	}

	backends := backend.NewRegistry()
	backends.Register(&cannedBackend{output: output})

	manager := model.NewManager(backends)
	require.NoError(t, manager.LoadModelsFromConfig(context.Background(), cfg))

	return NewClassify(manager)
}

func blankBitmap() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, digit.ImageSize, digit.ImageSize))
	for y := 0; y < digit.ImageSize; y++ {
		for x := 0; x < digit.ImageSize; x++ {
			img.Set(x, y, color.White)
		}
	}
	return img
}

func TestClassify_PredictsDigit(t *testing.T) {
	output := make([]float32, digit.NumClasses)
	output[5] = 1.0
	svc := newTestService(t, output)

	result, err := svc.Classify(context.Background(), "mnist", blankBitmap())

	require.NoError(t, err)
	assert.Equal(t, 5, result.Digit)
}

func TestClassify_NoConfidentClass(t *testing.T) {
	output := make([]float32, digit.NumClasses)
	for i := range output {
		output[i] = 0.1
	}
	svc := newTestService(t, output)

	result, err := svc.Classify(context.Background(), "mnist", blankBitmap())

	require.NoError(t, err)
	assert.Equal(t, digit.NoMatch, result.Digit)
}

func TestClassify_UnknownModel(t *testing.T) {
	svc := newTestService(t, make([]float32, digit.NumClasses))

	_, err := svc.Classify(context.Background(), "nope", blankBitmap())

	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestClassify_NotReadyModel(t *testing.T) {
	svc := newTestService(t, make([]float32, digit.NumClasses))

	instance, ok := svc.models.Registry().Get("mnist")
	require.True(t, ok)
	instance.Fail(assert.AnError)

	_, err := svc.Classify(context.Background(), "mnist", blankBitmap())

	assert.ErrorIs(t, err, model.ErrNotReady)
}

func TestClassify_Models(t *testing.T) {
	svc := newTestService(t, make([]float32, digit.NumClasses))

	instances := svc.Models(context.Background())

	require.Len(t, instances, 1)
	assert.Equal(t, "mnist", instances[0].ID)
}
