package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/ekisa-team/digitd/internal/backend"
	"github.com/ekisa-team/digitd/internal/backend/ort"
	"github.com/ekisa-team/digitd/internal/backend/tflite"
	"github.com/ekisa-team/digitd/internal/digit"
	"github.com/ekisa-team/digitd/internal/env"
	"github.com/ekisa-team/digitd/internal/logger"
	"github.com/ekisa-team/digitd/internal/ximg"
)

func main() {
	var (
		flagModel     = flag.String("model", "mnist.tflite", "Path to the model artifact")
		flagBackend   = flag.String("backend", "tflite", "Inference backend (tflite or onnxruntime)")
		flagSelection = flag.String("selection", "exact", "Class selection mode (exact or argmax)")
		flagThreshold = flag.Float64("threshold", 0, "Minimum confidence for argmax selection")
	)
	flag.Parse()

	slog.SetDefault(logger.New(env.FromEnv()))

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: digit [flags] image.png [image.png ...]")
		os.Exit(2)
	}

	var b backend.Backend
	switch backend.Provider(*flagBackend) {
	case backend.ProviderTFLite:
		b = tflite.NewBackend()
	case backend.ProviderONNXRuntime:
		b = ort.NewBackend()
	default:
		fmt.Fprintf(os.Stderr, "unknown backend %q\n", *flagBackend)
		os.Exit(2)
	}
	defer b.Close()

	session, err := b.Open(context.Background(), *flagModel, digit.Spec(), nil)
	if err != nil {
		slog.Error("Failed to load model", "path", *flagModel, "error", err)
		os.Exit(1)
	}

	classifier := digit.NewClassifier(session, digit.SelectionMode(*flagSelection), float32(*flagThreshold))
	defer classifier.Close()

	exitCode := 0
	for _, name := range flag.Args() {
		result, err := classifyFile(classifier, name)
		if err != nil {
			slog.Error("Failed to classify image", "path", name, "error", err)
			exitCode = 1
			continue
		}

		if result.Digit == digit.NoMatch {
			fmt.Printf("%s: no confident prediction\n", name)
		} else {
			fmt.Printf("%s: %d (%s)\n", name, result.Digit, result.Elapsed)
		}
	}

	os.Exit(exitCode)
}

// classifyFile decodes one bitmap, scales it to the model input size and
// runs it through the classifier.
func classifyFile(c *digit.Classifier, path string) (*digit.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := ximg.Decode(f)
	if err != nil {
		return nil, err
	}

	return c.Classify(ximg.Fit(img))
}
