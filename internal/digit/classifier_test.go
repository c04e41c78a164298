package digit

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSession records the input of every run and writes a canned output
// vector, standing in for a real inference engine.
type fakeSession struct {
	inputs [][]float32
	output []float32
	runErr error
	closed bool
}

func (f *fakeSession) Run(input []float32, output []float32) error {
	if f.runErr != nil {
		return f.runErr
	}
	snapshot := make([]float32, len(input))
	copy(snapshot, input)
	f.inputs = append(f.inputs, snapshot)
	copy(output, f.output)
	return nil
}

func (f *fakeSession) Close() error {
	f.closed = true
	return nil
}

func oneHot(class int) []float32 {
	out := make([]float32, NumClasses)
	out[class] = 1.0
	return out
}

func TestClassifier_Classify(t *testing.T) {
	session := &fakeSession{output: oneHot(7)}
	c := NewClassifier(session, SelectionExact, 0)

	result, err := c.Classify(fillImage(color.RGBA{A: 255}))
	require.NoError(t, err)

	assert.Equal(t, 7, result.Digit)
	assert.Equal(t, float32(1.0), result.Scores[7])
	assert.GreaterOrEqual(t, result.Elapsed.Nanoseconds(), int64(0))
}

func TestClassifier_NotInitialized(t *testing.T) {
	c := NewClassifier(nil, SelectionExact, 0)

	_, err := c.Classify(fillImage(color.RGBA{A: 255}))

	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestClassifier_RejectsWrongDimensions(t *testing.T) {
	c := NewClassifier(&fakeSession{output: oneHot(0)}, SelectionExact, 0)

	_, err := c.Classify(image.NewRGBA(image.Rect(0, 0, 32, 32)))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "32x32")
}

func TestClassifier_NoStateLeaksBetweenCalls(t *testing.T) {
	session := &fakeSession{output: oneHot(0)}
	c := NewClassifier(session, SelectionExact, 0)

	// First call: all-black bitmap, every input entry 255.
	_, err := c.Classify(fillImage(color.RGBA{R: 0, G: 0, B: 0, A: 255}))
	require.NoError(t, err)

	// Second call: all-white bitmap, every input entry must be 0 with no
	// residue from the first call.
	_, err = c.Classify(fillImage(color.RGBA{R: 255, G: 255, B: 255, A: 255}))
	require.NoError(t, err)

	require.Len(t, session.inputs, 2)
	for i, v := range session.inputs[0] {
		require.Equal(t, float32(255), v, "first call entry %d", i)
	}
	for i, v := range session.inputs[1] {
		require.Equal(t, float32(0), v, "second call entry %d", i)
	}
}

func TestClassifier_InferenceErrorPropagates(t *testing.T) {
	session := &fakeSession{runErr: errors.New("engine exploded")}
	c := NewClassifier(session, SelectionExact, 0)

	_, err := c.Classify(fillImage(color.RGBA{A: 255}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "engine exploded")
}

func TestClassifier_CloseDuringClassify(t *testing.T) {
	// Config reloads close the previous generation's classifiers while the
	// HTTP surface may still be mid-call on them. Closing must serialize
	// with classification: in-flight calls complete, later calls get
	// ErrNotInitialized, and nothing panics or runs on a released session.
	session := &fakeSession{output: oneHot(4)}
	c := NewClassifier(session, SelectionExact, 0)
	img := fillImage(color.RGBA{A: 255})

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			result, err := c.Classify(img)
			if err != nil {
				assert.ErrorIs(t, err, ErrNotInitialized)
				return
			}
			assert.Equal(t, 4, result.Digit)
		}
	}()

	require.NoError(t, c.Close())
	<-done

	_, err := c.Classify(img)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestClassifier_Close(t *testing.T) {
	session := &fakeSession{output: oneHot(0)}
	c := NewClassifier(session, SelectionExact, 0)

	require.NoError(t, c.Close())
	assert.True(t, session.closed)

	// Closing twice is fine, classifying afterwards is not.
	require.NoError(t, c.Close())
	_, err := c.Classify(fillImage(color.RGBA{A: 255}))
	assert.ErrorIs(t, err, ErrNotInitialized)
}
