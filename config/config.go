package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the client configuration: where the time-tracking service
// lives, who signs in, and where the local cache is kept.
type Config struct {
	Service  ServiceConfig  `yaml:"service"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
}

// ServiceConfig points at the legacy PHP service.
type ServiceConfig struct {
	BaseURL  string        `yaml:"base_url" env:"WORKTRACK_BASE_URL" env-required:"true"`
	Username string        `yaml:"username" env:"WORKTRACK_USERNAME"`
	Password string        `yaml:"password" env:"WORKTRACK_PASSWORD"`
	Timeout  time.Duration `yaml:"timeout"  env:"WORKTRACK_TIMEOUT" env-default:"30s"`
}

// DatabaseConfig locates the local cache.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"WORKTRACK_DB" env-default:"worktrack.db"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"WORKTRACK_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"WORKTRACK_LOG_FORMAT" env-default:"text"`
}

// Load reads configuration from a YAML file and environment variables,
// environment taking precedence. The file path comes from
// WORKTRACK_CONFIG (fallback "./worktrack.yaml"); a missing fallback
// file is fine, a missing explicit one is not.
func Load() (*Config, error) {
	var cfg Config

	path := os.Getenv("WORKTRACK_CONFIG")
	explicit := path != ""
	if !explicit {
		path = "./worktrack.yaml"
	}

	if _, err := os.Stat(path); err == nil {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if explicit {
		return nil, fmt.Errorf("config: file %s: %w", path, err)
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("config: read env: %w", err)
		}
	}

	return &cfg, nil
}
