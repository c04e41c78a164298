package source

import (
	"context"
	"fmt"

	"github.com/ekisa-team/digitd/internal/config"
	"github.com/ekisa-team/digitd/internal/xfs"
)

// LocalDownloader resolves a model artifact that is already on disk, the
// bundled-asset case. Nothing is copied; the configured path is used as-is.
type LocalDownloader struct{}

// Download verifies the configured artifact exists and returns its path.
func (d *LocalDownloader) Download(ctx context.Context, modelConfig *config.ModelConfig, targetDir string) (string, bool, error) {
	source, err := modelConfig.GetSource()
	if err != nil {
		return "", false, fmt.Errorf("failed to get model source: %w", err)
	}

	localSource, ok := source.(config.LocalSource)
	if !ok {
		return "", false, fmt.Errorf("invalid source type: %T", source)
	}

	path := xfs.ExpandTilde(localSource.Path)
	if !xfs.FileExists(path) {
		return "", false, fmt.Errorf("local model artifact not found at %s", path)
	}

	return path, true, nil
}
