package backend

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ModelLocator is an optional interface for backends that can locate
// the actual model file to load inside the base downloaded directory.
type ModelLocator interface {
	// ResolveModelPath resolves the real model path inside the base path.
	ResolveModelPath(basePath string) (string, error)
}

// LocateByExt resolves a model artifact. When basePath is a regular file it
// is returned as-is; when it is a directory, the first file carrying the
// given extension (e.g. ".tflite") is returned.
func LocateByExt(basePath, ext string) (string, error) {
	info, err := os.Stat(basePath)
	if err != nil {
		return "", fmt.Errorf("failed to stat model path %s: %w", basePath, err)
	}

	if info.Mode().IsRegular() {
		return basePath, nil
	}

	var found string
	err = filepath.WalkDir(basePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ext) {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan model directory %s: %w", basePath, err)
	}

	if found == "" {
		return "", fmt.Errorf("no %s artifact found under %s", ext, basePath)
	}

	return found, nil
}
