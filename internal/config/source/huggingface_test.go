package source

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/digitd/internal/config"
)

// fakeRunner records invocations instead of shelling out to the hf CLI.
type fakeRunner struct {
	calls [][]string
	err   error
}

func (f *fakeRunner) Run(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, []byte, error) {
	f.calls = append(f.calls, append([]string{name}, args...))
	return nil, nil, f.err
}

func hfModelConfig(repo, revision string) *config.ModelConfig {
	mc := &config.ModelConfig{}
	mc.SetHuggingFaceSource(config.HuggingFaceSource{Repo: repo, Revision: revision})
	return mc
}

func TestHuggingFaceDownloader_InvokesCLI(t *testing.T) {
	runner := &fakeRunner{}
	d := &HuggingFaceDownloader{runner: runner}
	target := t.TempDir()

	path, cached, err := d.Download(context.Background(), hfModelConfig("acme/mnist", "main"), target)

	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, filepath.Join(target, "acme/mnist"), path)

	require.Len(t, runner.calls, 1)
	call := runner.calls[0]
	assert.Equal(t, "hf", call[0])
	assert.Contains(t, call, "download")
	assert.Contains(t, call, "acme/mnist")
	assert.Contains(t, call, "--revision")

	// Marker file written on success.
	assert.FileExists(t, filepath.Join(path, markerFilename))
}

func TestHuggingFaceDownloader_MarkerSkipsRedownload(t *testing.T) {
	runner := &fakeRunner{}
	d := &HuggingFaceDownloader{runner: runner}
	target := t.TempDir()
	mc := hfModelConfig("acme/mnist", "main")

	_, _, err := d.Download(context.Background(), mc, target)
	require.NoError(t, err)

	path, cached, err := d.Download(context.Background(), mc, target)
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, filepath.Join(target, "acme/mnist"), path)

	// Only the first call reached the CLI.
	assert.Len(t, runner.calls, 1)
}

func TestHuggingFaceDownloader_RevisionChangeForcesRedownload(t *testing.T) {
	runner := &fakeRunner{}
	d := &HuggingFaceDownloader{runner: runner}
	target := t.TempDir()

	_, _, err := d.Download(context.Background(), hfModelConfig("acme/mnist", "v1"), target)
	require.NoError(t, err)

	_, cached, err := d.Download(context.Background(), hfModelConfig("acme/mnist", "v2"), target)
	require.NoError(t, err)
	assert.False(t, cached)

	assert.Len(t, runner.calls, 2)
}

func TestHuggingFaceDownloader_RetriesThenFails(t *testing.T) {
	runner := &fakeRunner{err: errors.New("network down")}
	d := &HuggingFaceDownloader{runner: runner}

	_, _, err := d.Download(context.Background(), hfModelConfig("acme/mnist", ""), t.TempDir())

	require.Error(t, err)
	assert.Len(t, runner.calls, defaultMaxRetries)
}

func TestHuggingFaceDownloader_EmptyRepo(t *testing.T) {
	d := &HuggingFaceDownloader{runner: &fakeRunner{}}

	_, _, err := d.Download(context.Background(), hfModelConfig("  ", ""), t.TempDir())

	assert.Error(t, err)
}

func TestHuggingFaceDownloader_BuildArgs(t *testing.T) {
	d := &HuggingFaceDownloader{}
	args := d.buildArgs(config.HuggingFaceSource{
		Repo:          "acme/mnist",
		Revision:      "main",
		Include:       []string{"*.tflite"},
		ForceDownload: true,
		MaxWorkers:    4,
	}, "acme/mnist", "/tmp/models/acme/mnist")

	assert.Equal(t, []string{
		"download", "acme/mnist",
		"--local-dir", "/tmp/models/acme/mnist",
		"--revision", "main",
		"--include", "*.tflite",
		"--force-download",
		"--max-workers", "4",
	}, args)
}

func TestEnsureModelsDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "models")
	require.NoError(t, EnsureModelsDirectory(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
