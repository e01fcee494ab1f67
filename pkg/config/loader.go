// Package config loads typed configuration structs from environment
// variables. Fields are declared with `env` struct tags; required values
// missing at startup fail loading rather than surfacing on first use.
package config

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Load populates the configuration struct from environment variables.
// The default .env file is loaded once per process before the first parse;
// a missing .env file is not an error.
//
// Example:
//
//	type Config struct {
//		DatabaseURL string `env:"DATABASE_URL,required"`
//		Debug       bool   `env:"DEBUG" envDefault:"false"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		// Handle error
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})

	if v == nil {
		return ErrNilPointer
	}

	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	return nil
}

// MustLoad works like Load but panics on failure. Use for configuration the
// process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic("failed to load required configuration: " + err.Error())
	}
}
