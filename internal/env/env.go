package env

import (
	"os"
	"strings"

	"github.com/ekisa-team/digitd/internal/envvar"
)

// Environment identifies the runtime environment.
type Environment string

const (
	// Development is the default environment.
	Development Environment = "development"

	// Production is the environment for deployed instances.
	Production Environment = "production"
)

// FromEnv resolves the environment from DIGITD_ENV.
func FromEnv() Environment {
	switch strings.ToLower(os.Getenv(envvar.DigitdEnv)) {
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

// IsProduction reports whether e is the production environment.
func (e Environment) IsProduction() bool {
	return e == Production
}
