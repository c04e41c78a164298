package model

import (
	"time"

	"github.com/ekisa-team/digitd/internal/config"
	"github.com/ekisa-team/digitd/internal/digit"
)

// ModelStatus is the current loading status of a model.
type ModelStatus string

const (
	// ModelStatusUnloaded indicates that the model is not loaded.
	ModelStatusUnloaded ModelStatus = "unloaded"

	// ModelStatusLoading indicates that the model is being loaded.
	ModelStatusLoading ModelStatus = "loading"

	// ModelStatusLoaded indicates that the model is loaded.
	ModelStatusLoaded ModelStatus = "loaded"

	// ModelStatusFailed indicates that the model failed to load.
	ModelStatusFailed ModelStatus = "failed"
)

// ModelInstance represents a configured model profile.
type ModelInstance struct {
	Config   *config.ModelConfig `json:"config"`
	LoadedAt *time.Time          `json:"loaded_at,omitempty"`
	ID       string              `json:"id"`
	Path     string              `json:"-"`
	Status   ModelStatus         `json:"status"`
	Error    string              `json:"error,omitempty"`

	classifier *digit.Classifier
}

// NewModelInstance creates a model instance in the unloaded state.
func NewModelInstance(cfg *config.ModelConfig, id, path string) *ModelInstance {
	return &ModelInstance{
		Config: cfg,
		ID:     id,
		Path:   path,
		Status: ModelStatusUnloaded,
	}
}

// SetStatus updates the instance status.
func (m *ModelInstance) SetStatus(status ModelStatus) {
	m.Status = status
	if status == ModelStatusLoaded {
		now := time.Now()
		m.LoadedAt = &now
	}
}

// Fail marks the instance failed and records the cause. The instance stays
// in the registry so callers get an explicit error instead of a lookup miss.
func (m *ModelInstance) Fail(err error) {
	m.Status = ModelStatusFailed
	m.Error = err.Error()
	m.classifier = nil
}

// SetClassifier attaches a ready classifier and marks the instance loaded.
func (m *ModelInstance) SetClassifier(c *digit.Classifier) {
	m.classifier = c
	m.SetStatus(ModelStatusLoaded)
}

// Classifier returns the attached classifier, or nil when the engine never
// came up.
func (m *ModelInstance) Classifier() *digit.Classifier {
	return m.classifier
}

// Ready reports whether the instance can serve classifications.
func (m *ModelInstance) Ready() bool {
	return m.Status == ModelStatusLoaded && m.classifier != nil
}
