// Package config loads server settings from a YAML file or the environment.
package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Environments.
const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config holds the server settings. Environment variables override values
// read from the file.
type Config struct {
	Env     string `yaml:"env" env:"PONOVNO_ENV" env-default:"local" env-description:"local, dev or prod"`
	Addr    string `yaml:"addr" env:"PONOVNO_ADDR" env-default:":8080" env-description:"listen address"`
	DBPath  string `yaml:"db_path" env:"PONOVNO_DB" env-default:"ponovno.sqlite3" env-description:"SQLite database path"`
	LogPath string `yaml:"log_path" env:"PONOVNO_LOG" env-description:"optional log file"`

	JWTSecret string        `yaml:"jwt_secret" env:"PONOVNO_JWT_SECRET" env-description:"token signing secret, generated and stored in the database if empty"`
	TokenTTL  time.Duration `yaml:"token_ttl" env:"PONOVNO_TOKEN_TTL" env-default:"168h" env-description:"session lifetime"`

	StrictTransitions bool `yaml:"strict_transitions" env:"PONOVNO_STRICT_TRANSITIONS" env-default:"false" env-description:"only allow forward status changes"`

	ImpactWeights       map[string]float64 `yaml:"impact_weights" env:"PONOVNO_IMPACT_WEIGHTS" env-description:"kg saved per item by category, e.g. books:1,furniture:5"`
	DefaultImpactWeight float64            `yaml:"default_impact_weight" env:"PONOVNO_DEFAULT_IMPACT_WEIGHT" env-default:"1" env-description:"kg saved for unlisted categories"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"PONOVNO_SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Load reads the config file at path, or only the environment if path is
// empty.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("reading config from environment: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values cleanenv cannot.
func (c *Config) Validate() error {
	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		return fmt.Errorf("env must be one of local, dev, prod, got %q", c.Env)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("token_ttl must be positive")
	}
	for category, w := range c.ImpactWeights {
		if w < 0 {
			return fmt.Errorf("impact weight for %s cannot be negative", category)
		}
	}
	return nil
}

// Usage describes the supported environment variables.
func Usage() string {
	text, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return text
}
