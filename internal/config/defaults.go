package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/ekisa-team/digitd/internal/envvar"
)

// DefaultHTTPPort returns the default HTTP port, honoring the environment
// variable override.
func DefaultHTTPPort() int {
	if p, err := strconv.Atoi(os.Getenv(envvar.DigitdServerHTTPPort)); err == nil && p > 0 {
		return p
	}
	return 8080
}

// DefaultGRPCPort returns the default gRPC port, honoring the environment
// variable override.
func DefaultGRPCPort() int {
	if p, err := strconv.Atoi(os.Getenv(envvar.DigitdServerGRPCPort)); err == nil && p > 0 {
		return p
	}
	return 9090
}

// DefaultConfigPath returns the default path for the digitd config directory.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "digitd", "config")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "digitd")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "digitd")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "digitd")
		}
		return filepath.Join(home, ".config", "digitd")
	}
}

// DefaultModelsPath returns the default path for the digitd models directory.
func DefaultModelsPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "digitd", "models")
	}

	switch runtime.GOOS {
	case "windows":
		return filepath.Join(home, "AppData", "Local", "digitd", "models")
	case "darwin":
		return filepath.Join(home, "Library", "Caches", "digitd", "models")
	default: // Linux, BSD, etc.
		if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
			return filepath.Join(xdg, "digitd", "models")
		}
		return filepath.Join(home, ".cache", "digitd", "models")
	}
}
