package model

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/ekisa-team/digitd/internal/backend"
	"github.com/ekisa-team/digitd/internal/config"
	"github.com/ekisa-team/digitd/internal/config/source"
	"github.com/ekisa-team/digitd/internal/digit"
	"github.com/ekisa-team/digitd/internal/envvar"
	"github.com/ekisa-team/digitd/internal/xfs"
)

// Manager orchestrates model lifecycle: download, engine construction and
// registry bookkeeping.
type Manager struct {
	registry *Registry
	backends *backend.Registry
	mu       sync.RWMutex // Use RWMutex for better read concurrency
}

// NewManager creates a new Manager over a backend registry.
func NewManager(backends *backend.Registry) *Manager {
	return &Manager{
		backends: backends,
	}
}

// Registry returns the model registry.
func (m *Manager) Registry() *Registry {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.registry
}

// LoadModelsFromConfig loads models from the config and updates the registry.
// Models assigned to the classify service are downloaded and their inference
// engines constructed. An engine that fails to come up leaves its instance
// registered in the failed state, so classification attempts get an explicit
// error instead of a silent null engine.
func (m *Manager) LoadModelsFromConfig(ctx context.Context, cfg *config.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	previous := m.registry
	m.registry = NewRegistry(cfg)

	// The previous generation is replaced no matter how this load ends;
	// release its engines even on an early error return.
	defer func() {
		if previous == nil {
			return
		}
		for _, instance := range previous.List() {
			if c := instance.Classifier(); c != nil {
				if err := c.Close(); err != nil {
					slog.Warn("Failed to close replaced model engine", "model_id", instance.ID, "error", err)
				}
			}
			slog.Info("Model unloaded successfully", "model_entry", instance.ID)
		}
	}()

	assignedModels := make(map[string]bool)
	for _, model := range cfg.Services.Classify.Models {
		assignedModels[model] = true
	}

	modelsPath := resolveModelsPath(cfg)
	if err := source.EnsureModelsDirectory(modelsPath); err != nil {
		return fmt.Errorf("failed to prepare models directory %s: %w", modelsPath, err)
	}

	for modelID := range assignedModels {
		modelConfig, ok := cfg.Models[modelID]
		if !ok {
			slog.Warn("Model not found in config", "model_id", modelID)
			continue
		}

		modelSource, err := modelConfig.GetSource()
		if err != nil {
			return fmt.Errorf("failed to get model source for %s: %w", modelID, err)
		}

		downloader, err := source.GetDownloader(ctx, modelSource.Type())
		if err != nil {
			return fmt.Errorf("failed to get downloader for %s: %w", modelID, err)
		}

		downloadPath, _, err := downloader.Download(ctx, &modelConfig, modelsPath)
		if err != nil {
			return fmt.Errorf("failed to download model %s into %s: %w", modelID, modelsPath, err)
		}

		instance := NewModelInstance(&modelConfig, modelID, downloadPath)
		m.registry.Set(instance)
		instance.SetStatus(ModelStatusLoading)

		if err := m.loadEngine(ctx, instance); err != nil {
			instance.Fail(err)
			slog.Error("Failed to initialize model engine", "model_id", modelID, "error", err)
			continue
		}

		slog.Info("Model loaded into registry", "model_id", modelID, "download_path", downloadPath)
	}

	return nil
}

// loadEngine resolves the backend and artifact for an instance and attaches
// a ready classifier.
func (m *Manager) loadEngine(ctx context.Context, instance *ModelInstance) error {
	provider := backend.Provider(instance.Config.Backend)
	b, ok := m.backends.Get(provider)
	if !ok {
		return fmt.Errorf("%w: %s", backend.ErrNotFound, provider)
	}

	path := instance.Path
	if locator, ok := b.(backend.ModelLocator); ok {
		resolved, err := locator.ResolveModelPath(instance.Path)
		if err != nil {
			return fmt.Errorf("failed to resolve model artifact: %w", err)
		}
		path = resolved
	}

	session, err := b.Open(ctx, path, digit.Spec(), instance.Config.Parameters)
	if err != nil {
		return fmt.Errorf("failed to open %s session: %w", provider, err)
	}

	mode := digit.SelectionMode(instance.Config.Selection)
	if mode == "" {
		mode = digit.SelectionExact
	}

	instance.SetClassifier(digit.NewClassifier(session, mode, instance.Config.Threshold))
	return nil
}

// Close releases every loaded engine.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.registry == nil {
		return nil
	}

	var firstErr error
	for _, instance := range m.registry.List() {
		if c := instance.Classifier(); c != nil {
			if err := c.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}

	return firstErr
}

// resolveModelsPath returns the path to the models directory.
// Precedence:
// 1. DIGITD_MODELS_PATH environment variable.
// 2. ModelsDir field in the config.
// 3. Default models path.
func resolveModelsPath(cfg *config.Config) string {
	if p := os.Getenv(envvar.DigitdModelsPath); p != "" {
		return xfs.ExpandTilde(p)
	}
	if cfg.Storage.ModelsDir != "" {
		return xfs.ExpandTilde(cfg.Storage.ModelsDir)
	}
	return xfs.ExpandTilde(config.DefaultModelsPath())
}
