package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ekisa-team/digitd/internal/config"
)

func TestLocalDownloader_ExistingArtifact(t *testing.T) {
	dir := t.TempDir()
	artifact := filepath.Join(dir, "mnist.tflite")
	require.NoError(t, os.WriteFile(artifact, []byte("not a real model"), 0o644))

	mc := &config.ModelConfig{}
	mc.SetLocalSource(config.LocalSource{Path: artifact})

	d := &LocalDownloader{}
	path, cached, err := d.Download(context.Background(), mc, dir)

	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, artifact, path)
}

func TestLocalDownloader_MissingArtifact(t *testing.T) {
	mc := &config.ModelConfig{}
	mc.SetLocalSource(config.LocalSource{Path: filepath.Join(t.TempDir(), "nope.tflite")})

	d := &LocalDownloader{}
	_, _, err := d.Download(context.Background(), mc, t.TempDir())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestLocalDownloader_NoSource(t *testing.T) {
	d := &LocalDownloader{}
	_, _, err := d.Download(context.Background(), &config.ModelConfig{}, t.TempDir())

	assert.Error(t, err)
}

func TestGetDownloader(t *testing.T) {
	ctx := context.Background()

	d, err := GetDownloader(ctx, config.SourceTypeLocal)
	require.NoError(t, err)
	assert.IsType(t, &LocalDownloader{}, d)

	d, err = GetDownloader(ctx, config.SourceTypeHuggingFace)
	require.NoError(t, err)
	assert.IsType(t, &HuggingFaceDownloader{}, d)

	_, err = GetDownloader(ctx, config.SourceType("s3"))
	assert.Error(t, err)
}
