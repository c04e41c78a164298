package model

import "errors"

// Error definitions for the model package.
var (
	// ErrNotFound is returned when a model ID is absent from the registry.
	ErrNotFound = errors.New("model not found in registry")

	// ErrNotReady is returned when a model is registered but its inference
	// engine never loaded, or is still loading.
	ErrNotReady = errors.New("model engine is not initialized")
)
