package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	pkgerrors "git.home.luguber.info/inful/pkgbuilder/internal/foundation/errors"
)

// DefaultFileName is the configuration file looked up in the repository root.
const DefaultFileName = "pkgbuilder.yaml"

// Config represents the build driver configuration. One value is threaded
// explicitly through every component of a build; nothing reads process-wide state.
type Config struct {
	PackagesDir     string         `yaml:"packages_dir"`
	FingerprintFile string         `yaml:"fingerprint_file"`
	Ignore          []string       `yaml:"ignore"`
	OutputDir       string         `yaml:"output_dir"`
	TargetField     string         `yaml:"target_field"`
	Mode            string         `yaml:"mode"`
	Compiler        CompilerConfig `yaml:"compiler"`
	Markers         MarkerConfig   `yaml:"markers"`
	Events          EventsConfig   `yaml:"events"`
	Metrics         MetricsConfig  `yaml:"metrics"`
}

// CompilerConfig describes the external type-checking compiler invocation.
type CompilerConfig struct {
	Command string   `yaml:"command"`
	Args    []string `yaml:"args"`
}

// MarkerConfig holds the literal tokens recognized in file text.
type MarkerConfig struct {
	Autogenerated string `yaml:"autogenerated"`
	Public        string `yaml:"public"`
}

// EventsConfig configures build outcome publishing. An empty NATSURL disables it.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// MetricsConfig configures metrics export. An empty Textfile disables it.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	if err := applyDefaults(cfg); err != nil {
		// defaults on an empty config cannot fail
		panic(err)
	}
	return cfg
}

// Load loads configuration from the specified file. The file must exist.
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pkgerrors.ConfigError(fmt.Sprintf("configuration file not found: %s", configPath)).Build()
		}
		return nil, pkgerrors.WrapError(err, pkgerrors.CategoryConfig, "failed to read config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}
	return Parse(data)
}

// LoadOptional loads configuration from configPath when the file exists and
// falls back to defaults otherwise.
func LoadOptional(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return Load(configPath)
}

// Parse decodes YAML configuration, expanding ${VAR} references from the
// environment, then applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, pkgerrors.WrapError(err, pkgerrors.CategoryConfig, "failed to unmarshal config").Fatal().Build()
	}
	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// FingerprintTempSuffix names the staging file the fingerprint is written to
// before being renamed into place.
const FingerprintTempSuffix = ".tmp"

// IgnoredNames returns the basename denylist for tree listing. The persisted
// fingerprint file and its staging file are always part of it.
func (c *Config) IgnoredNames() map[string]struct{} {
	names := make(map[string]struct{}, len(c.Ignore)+2)
	for _, n := range c.Ignore {
		names[n] = struct{}{}
	}
	names[c.FingerprintFile] = struct{}{}
	names[c.FingerprintFile+FingerprintTempSuffix] = struct{}{}
	return names
}
