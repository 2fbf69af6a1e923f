package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes every environment variable read into Settings.
const EnvPrefix = "SPREADSCAN_"

// Settings are the CLI defaults taken from the environment. Command-line
// flags override them.
type Settings struct {
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"auto"`
	ConfigFile  string `env:"CONFIG"`
	MetricsFile string `env:"METRICS_FILE"`
}

// LoadSettings loads the given dotenv files (".env" when none are named),
// skipping missing ones, then parses Settings from the environment. Variables
// already set in the environment win over dotenv values.
func LoadSettings(dotenv ...string) (*Settings, error) {
	if len(dotenv) == 0 {
		dotenv = []string{".env"}
	}
	for _, file := range dotenv {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}

	s := &Settings{}
	if err := env.ParseWithOptions(s, env.Options{Prefix: EnvPrefix}); err != nil {
		return nil, fmt.Errorf("failed to parse environment variables: %w", err)
	}
	return s, nil
}
