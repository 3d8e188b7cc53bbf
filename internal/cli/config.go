package cli

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds process settings. Values come from the environment, optionally
// seeded from a .env file; command-line flags override them.
type Config struct {
	LogLevel    string `env:"VALTREE_LOG_LEVEL" envDefault:"warn"`
	LogFormat   string `env:"VALTREE_LOG_FORMAT" envDefault:"text"`
	Lang        string `env:"VALTREE_LANG" envDefault:"en"`
	Concurrency int    `env:"VALTREE_CONCURRENCY" envDefault:"4"`
	Title       string `env:"VALTREE_TITLE"`
}

// LoadConfig reads Config from the environment. Without arguments a .env file
// in the working directory is loaded when it exists; explicitly named files
// must exist. Variables already set in the environment win over file values.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		// The default .env file is optional.
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}
