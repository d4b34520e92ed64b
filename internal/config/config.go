// Package config loads client configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the CLI needs to construct the client stack.
type Config struct {
	// APIURL is the telephony backend base URL.
	APIURL string `env:"DIALTONE_API_URL" envDefault:"http://localhost:4000"`
	// StatePath is where the cached auth state lives. Defaults to
	// ~/.dialtone/state.db when unset.
	StatePath string `env:"DIALTONE_STATE_PATH"`
	// AuthCheckTimeout bounds the session-check request.
	AuthCheckTimeout time.Duration `env:"DIALTONE_AUTH_TIMEOUT" envDefault:"5s"`
	// RecheckInterval is the periodic revalidation cadence.
	RecheckInterval time.Duration `env:"DIALTONE_RECHECK_INTERVAL" envDefault:"5m"`
	// SimAddr is the listen address for the local backend simulator.
	SimAddr string `env:"DIALTONE_SIM_ADDR" envDefault:":4000"`
	// SimSeedPath optionally points at a YAML seed file for the simulator.
	SimSeedPath string `env:"DIALTONE_SIM_SEED"`
}

// Load parses the environment and fills in path defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.StatePath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolving home directory: %w", err)
		}
		cfg.StatePath = filepath.Join(home, ".dialtone", "state.db")
	}
	return cfg, nil
}
