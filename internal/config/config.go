// Package config manages environment variables.
//
// It reads variables from the process environment (and a `.env` file when
// one exists), loads them into structured Go types, and validates that
// required values are present so the app fails fast on bad config.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values and enums.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before anything below reads it.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/maps"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read with the JSONGATE_ prefix. The prefix is removed, the
	rest is lowercased and "__" marks nesting, so single underscores can stay
	inside key names:

		JSONGATE_SERVER__READ_TIMEOUT -> server.read_timeout -> Config.Server.ReadTimeout

	Values listed in listKeys are split on commas.

	Sources, later ones winning: YAML file (WithConfigFile), env, overrides
	(WithOverrides, used for CLI flags).
*/

// EnvPrefix is the prefix every config env var must carry.
const EnvPrefix = "JSONGATE_"

// listKeys are koanf keys whose env value is a comma-separated list.
var listKeys = map[string]bool{
	"server.cors_allowed_origins": true,
}

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Admission     AdmissionConfig      `koanf:"admission" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are whole seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required,min=1"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required,min=1"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required,min=1"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// AdmissionConfig selects how JSON admission is enforced.
type AdmissionConfig struct {
	// Strategy is "gateway" (one global filter + marker registry) or
	// "guard" (per-route wrappers).
	Strategy string `koanf:"strategy" validate:"required,oneof=gateway guard"`

	// BodyLimit caps request bodies, in Echo's size notation ("1M", "512K").
	// Empty disables the limit.
	BodyLimit string `koanf:"body_limit"`
}

// Option customizes LoadConfig.
type Option func(*loadOptions)

type loadOptions struct {
	file      string
	overrides map[string]any
}

// WithConfigFile loads a YAML file before the environment. Keys use the
// koanf tags (e.g. admission.strategy). An empty path is ignored.
func WithConfigFile(path string) Option {
	return func(o *loadOptions) {
		o.file = path
	}
}

// WithOverrides applies flat dotted keys (e.g. "server.port") on top of
// every other source. Empty string values are skipped.
func WithOverrides(values map[string]any) Option {
	return func(o *loadOptions) {
		if o.overrides == nil {
			o.overrides = map[string]any{}
		}
		for key, value := range values {
			if s, ok := value.(string); ok && s == "" {
				continue
			}
			o.overrides[key] = value
		}
	}
}

// overrideProvider feeds already-unflattened values to koanf.
type overrideProvider map[string]any

func (p overrideProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("override provider does not support ReadBytes")
}

func (p overrideProvider) Read() (map[string]any, error) {
	return maps.Unflatten(p, "."), nil
}

// LoadConfig loads configuration, unmarshals it into Config, validates it,
// applies defaults and returns the result.
//
// Behavior summary:
//   - Loads the optional YAML file, then env vars with prefix JSONGATE_,
//     then overrides
//   - Unmarshals into Config
//   - Sets default observability if missing and forces its service
//     name + environment
//   - Validates required config blocks/fields, then observability
func LoadConfig(opts ...Option) (*Config, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	k := koanf.New(".")

	if o.file != "" {
		if err := k.Load(file.Provider(o.file), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("could not load config file %s: %w", o.file, err)
		}
	}

	err := k.Load(env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		name = strings.ReplaceAll(name, "__", ".")

		if listKeys[name] {
			return name, splitList(value)
		}
		return name, value
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	if len(o.overrides) > 0 {
		if err := k.Load(overrideProvider(o.overrides), nil); err != nil {
			return nil, fmt.Errorf("could not apply overrides: %w", err)
		}
	}

	mainConfig := &Config{}

	// "" unmarshals everything from the root.
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	if mainConfig.Observability == nil {
		mainConfig.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are forced so telemetry naming stays consistent.
	mainConfig.Observability.ServiceName = ServiceName
	mainConfig.Observability.Environment = mainConfig.Primary.Env

	validate := validator.New()

	if err := validate.Struct(mainConfig); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := mainConfig.Observability.Validate(); err != nil {
		return nil, fmt.Errorf("invalid observability config: %w", err)
	}

	return mainConfig, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
