package service

import (
	"context"
	"fmt"
	"image"
	"log/slog"

	"github.com/ekisa-team/digitd/internal/digit"
	"github.com/ekisa-team/digitd/internal/model"
)

// Classify is a service abstraction for digit classification.
type Classify struct {
	models *model.Manager
}

// NewClassify creates a new Classify service.
func NewClassify(models *model.Manager) *Classify {
	return &Classify{
		models: models,
	}
}

// Classify identifies the digit drawn on a 28x28 bitmap using the given model.
func (s *Classify) Classify(ctx context.Context, modelID string, img image.Image) (*digit.Result, error) {
	registry := s.models.Registry()
	if registry == nil {
		return nil, model.ErrNotReady
	}

	m, ok := registry.Get(modelID)
	if !ok {
		return nil, model.ErrNotFound
	}

	if !m.Ready() {
		if m.Error != "" {
			return nil, fmt.Errorf("%w: %s", model.ErrNotReady, m.Error)
		}
		return nil, model.ErrNotReady
	}

	result, err := m.Classifier().Classify(img)
	if err != nil {
		slog.Error("Failed to classify bitmap", "model_id", modelID, "error", err)
		return nil, err
	}

	return result, nil
}

// Models returns all registered model instances.
func (s *Classify) Models(ctx context.Context) []*model.ModelInstance {
	registry := s.models.Registry()
	if registry == nil {
		return nil
	}
	return registry.List()
}
