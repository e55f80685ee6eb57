// Package config manages environment variables.
//
// It reads variables (optionally from a `.env` file), loads them into
// structured Go types, fills defaults and validates that required values are
// present so they can be reused across the application runtime.
//
// Env vars are read with the prefix FNGUARD_. A double underscore separates
// nesting levels:
//
//	FNGUARD_SERVER__PORT            -> server.port
//	FNGUARD_FUNCTIONS__UID_HEADER   -> functions.uid_header
//	FNGUARD_OBSERVABILITY__LOGGING__LEVEL -> observability.logging.level
package config

import (
	"strings"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	// Side-effect import: loads `.env` into the process env before we read it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const envPrefix = "FNGUARD_"

// Config is the root configuration object for the application.
//
// Redis is a pointer because it is optional: without it the uniqueness rule
// is disabled and the health check skips Redis.
type Config struct {
	Primary       Primary             `koanf:"primary" validate:"required"`
	Server        ServerConfig        `koanf:"server" validate:"required"`
	Functions     FunctionsConfig     `koanf:"functions" validate:"required"`
	Redis         *RedisConfig        `koanf:"redis"`
	Observability ObservabilityConfig `koanf:"observability" validate:"required"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" default:"development" validate:"required,oneof=development staging production"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" default:"8080" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" default:"30" validate:"required,gt=0"`
	WriteTimeout       int      `koanf:"write_timeout" default:"30" validate:"required,gt=0"`
	IdleTimeout        int      `koanf:"idle_timeout" default:"60" validate:"required,gt=0"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" default:"[\"*\"]" validate:"required,min=1"`
}

// FunctionsConfig controls how functions are invoked.
type FunctionsConfig struct {
	// UIDHeader is the header carrying the caller id established by the
	// gateway in front of this service. It must only be trusted when the
	// gateway strips it from client requests.
	UIDHeader string `koanf:"uid_header" default:"X-User-Id" validate:"required"`
}

// RedisConfig contains Redis connection details.
// Address is typically "host:port".
type RedisConfig struct {
	Address string `koanf:"address" validate:"required"`
}

// LoadConfig loads configuration from environment variables, applies
// defaults and validates the result.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, errors.Wrap(err, "could not load env variables")
	}

	return newConfig(k)
}

func newConfig(k *koanf.Koanf) (*Config, error) {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.Wrap(err, "could not apply config defaults")
	}

	// Unmarshal over the defaults: only keys present in env are overwritten.
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "could not unmarshal config")
	}

	// Observability is derived from primary, never configured directly.
	cfg.Observability.ServiceName = "fnguard"
	cfg.Observability.Environment = cfg.Primary.Env

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	if err := cfg.Observability.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid observability config")
	}

	return cfg, nil
}
