package digit

import (
	"gonum.org/v1/gonum/floats"
)

// SelectionMode determines how the predicted class is chosen from the
// output scores.
type SelectionMode string

const (
	// SelectionExact returns the first class whose score is exactly 1.0.
	// This mirrors the behavior the bundled model was validated against: it
	// emits hard one-hot outputs, anything else yields NoMatch.
	SelectionExact SelectionMode = "exact"

	// SelectionArgmax returns the class with the maximal score, subject to a
	// confidence threshold.
	SelectionArgmax SelectionMode = "argmax"
)

// ExactMatch scans scores in class order and returns the first index whose
// score equals 1.0 exactly, or NoMatch if none does.
func ExactMatch(scores []float32) int {
	for i, v := range scores {
		if v == 1.0 {
			return i
		}
	}
	return NoMatch
}

// Argmax returns the index of the maximal score, or NoMatch when the best
// score is below threshold.
func Argmax(scores []float32, threshold float32) int {
	if len(scores) == 0 {
		return NoMatch
	}

	wide := make([]float64, len(scores))
	for i, v := range scores {
		wide[i] = float64(v)
	}

	best := floats.MaxIdx(wide)
	if scores[best] < threshold {
		return NoMatch
	}
	return best
}

// Postprocess selects the predicted class from scores per the given mode.
func Postprocess(scores []float32, mode SelectionMode, threshold float32) int {
	switch mode {
	case SelectionArgmax:
		return Argmax(scores, threshold)
	default:
		return ExactMatch(scores)
	}
}
