package config

import (
	"fmt"
	"path/filepath"
	"strings"

	pkgerrors "git.home.luguber.info/inful/pkgbuilder/internal/foundation/errors"
)

// ValidateConfig validates a configuration after defaults are applied.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateLayout(); err != nil {
		return err
	}
	if err := cv.validateToolchain(); err != nil {
		return err
	}
	return cv.validateMarkers()
}

func (cv *configurationValidator) validateLayout() error {
	name := strings.TrimSpace(cv.config.FingerprintFile)
	if name == "" {
		return pkgerrors.ValidationError("fingerprint_file cannot be empty").Build()
	}
	if filepath.Base(name) != name {
		return pkgerrors.ValidationError(fmt.Sprintf("fingerprint_file must be a plain file name, got %q", name)).Build()
	}
	if filepath.IsAbs(cv.config.OutputDir) {
		return pkgerrors.ValidationError("output_dir must be relative to the package root").Build()
	}
	return nil
}

func (cv *configurationValidator) validateToolchain() error {
	if strings.TrimSpace(cv.config.Compiler.Command) == "" {
		return pkgerrors.ValidationError("compiler.command cannot be empty").Build()
	}
	if NormalizeMode(cv.config.Mode) == "" {
		return pkgerrors.ValidationError(fmt.Sprintf("unsupported mode %q (want production or development)", cv.config.Mode)).Build()
	}
	cv.config.Mode = NormalizeMode(cv.config.Mode)
	return nil
}

func (cv *configurationValidator) validateMarkers() error {
	if strings.TrimSpace(cv.config.Markers.Autogenerated) == "" {
		return pkgerrors.ValidationError("markers.autogenerated cannot be empty").Build()
	}
	if strings.TrimSpace(cv.config.Markers.Public) == "" {
		return pkgerrors.ValidationError("markers.public cannot be empty").Build()
	}
	if cv.config.Markers.Autogenerated == cv.config.Markers.Public {
		return pkgerrors.ValidationError("markers.autogenerated and markers.public must differ").Build()
	}
	return nil
}
