// Package config loads the service configuration.
//
// Values are layered, lowest precedence first:
//   - built-in defaults (Default)
//   - an optional YAML file named by REQFLOW_CONFIG
//   - environment variables with the REQFLOW_ prefix, optionally read
//     from a `.env` file
//
// Nested keys use a double underscore in env names:
// REQFLOW_SERVER__PORT -> server.port -> Config.Server.Port.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Nivhaham/FastApiBasics/internal/validation"
	// Loads a `.env` file, if present, into the process environment
	// before anything reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix of every environment variable read.
	EnvPrefix = "REQFLOW_"
	// FileEnv names the environment variable holding an optional YAML
	// config file path.
	FileEnv = EnvPrefix + "CONFIG"
)

// Config is the root configuration object.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	RateLimit     RateLimitConfig      `koanf:"rate_limit"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required,oneof=local development staging production"`
}

// ServerConfig groups settings for the HTTP server runtime. Timeouts are
// in seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,gt=0"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,gt=0"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,gt=0"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
	// Debug exposes internal error detail in 500 responses.
	Debug bool `koanf:"debug"`
}

// RateLimitConfig configures the per-client request limiter.
type RateLimitConfig struct {
	Enabled           bool    `koanf:"enabled"`
	RequestsPerSecond float64 `koanf:"requests_per_second" validate:"gte=0"`
	Burst             int     `koanf:"burst" validate:"gte=0"`
}

// AuthConfig holds the shared secrets the header-token dependencies check.
type AuthConfig struct {
	Token string `koanf:"token" validate:"required"`
	Key   string `koanf:"key" validate:"required"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Primary: Primary{Env: "development"},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        30,
			WriteTimeout:       30,
			IdleTimeout:        60,
			CORSAllowedOrigins: []string{"*"},
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 20,
			Burst:             40,
		},
		Auth: AuthConfig{
			Token: "fake-super-secret-token",
			Key:   "fake-super-secret-key",
		},
		Observability: DefaultObservabilityConfig(),
	}
}

// envKey maps REQFLOW_SERVER__READ_TIMEOUT to server.read_timeout.
func envKey(s string) string {
	s = strings.TrimPrefix(s, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(s), "__", ".")
}

// LoadConfig builds, validates and returns the configuration.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("could not load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := Default()
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	if fieldErrors := validation.Struct(mainConfig); len(fieldErrors) > 0 {
		msgs := make([]string, 0, len(fieldErrors))
		for _, fe := range fieldErrors {
			msgs = append(msgs, fe.Field+" "+fe.Error)
		}
		return nil, fmt.Errorf("config validation failed: %s", strings.Join(msgs, "; "))
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment always come from the primary block so
	// logs and traces agree.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}
