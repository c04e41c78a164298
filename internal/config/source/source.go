package source

import (
	"context"
	"fmt"

	"github.com/ekisa-team/digitd/internal/config"
	"github.com/ekisa-team/digitd/internal/xfs"
)

// Downloader materializes a model artifact locally.
type Downloader interface {
	// Download ensures the model described by modelConfig exists under
	// targetDir and returns its local path. The second result reports
	// whether a cached copy was reused.
	Download(ctx context.Context, modelConfig *config.ModelConfig, targetDir string) (string, bool, error)
}

// GetDownloader returns the downloader for a source type.
func GetDownloader(ctx context.Context, t config.SourceType) (Downloader, error) {
	switch t {
	case config.SourceTypeHuggingFace:
		return &HuggingFaceDownloader{runner: ExecCommandRunner{}}, nil
	case config.SourceTypeLocal:
		return &LocalDownloader{}, nil
	default:
		return nil, fmt.Errorf("no downloader registered for source type %q", t)
	}
}

// EnsureModelsDirectory creates the models directory if needed.
func EnsureModelsDirectory(path string) error {
	if err := xfs.EnsureDir(path); err != nil {
		return fmt.Errorf("failed to create models directory %s: %w", path, err)
	}
	return nil
}
