package digit

import (
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"
	"time"

	"github.com/ekisa-team/digitd/internal/backend"
)

// Error definitions for the digit package.
var (
	// ErrNotInitialized is returned when classification is attempted before
	// an engine session has been loaded.
	ErrNotInitialized = errors.New("classifier has no engine session loaded")
)

// Result is the outcome of a single classification.
type Result struct {
	// Digit is the predicted class 0-9, or NoMatch.
	Digit int `json:"digit"`

	// Scores holds the per-class score vector as produced by the engine.
	Scores [NumClasses]float32 `json:"scores"`

	// Elapsed is the wall time of the preprocess+inference+postprocess run.
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Classifier runs the preprocess / infer / postprocess pipeline against one
// engine session. The input and output buffers are allocated once and
// rewritten on every call; a mutex serializes calls so the shared buffers
// are never raced on.
type Classifier struct {
	session   backend.Session
	mode      SelectionMode
	threshold float32

	mu     sync.Mutex
	input  []float32
	output []float32
}

// NewClassifier creates a classifier over a loaded session.
func NewClassifier(session backend.Session, mode SelectionMode, threshold float32) *Classifier {
	return &Classifier{
		session:   session,
		mode:      mode,
		threshold: threshold,
		input:     make([]float32, InputLen),
		output:    make([]float32, NumClasses),
	}
}

// Classify identifies the digit drawn on a 28x28 bitmap.
func (c *Classifier) Classify(img image.Image) (*Result, error) {
	if c == nil {
		return nil, ErrNotInitialized
	}

	if err := ValidateBounds(img); err != nil {
		return nil, fmt.Errorf("invalid bitmap: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Checked under the lock: Close may release the session concurrently.
	if c.session == nil {
		return nil, ErrNotInitialized
	}

	start := time.Now()

	Preprocess(img, c.input)

	if err := c.session.Run(c.input, c.output); err != nil {
		return nil, fmt.Errorf("inference failed: %w", err)
	}

	result := &Result{
		Digit:   Postprocess(c.output, c.mode, c.threshold),
		Elapsed: time.Since(start),
	}
	copy(result.Scores[:], c.output)

	slog.Debug("Classification complete", "digit", result.Digit, "scores", result.Scores, "elapsed", result.Elapsed)

	return result, nil
}

// Close releases the underlying session. It serializes with Classify, so a
// call in flight finishes before the session is torn down.
func (c *Classifier) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}
	err := c.session.Close()
	c.session = nil
	return err
}
