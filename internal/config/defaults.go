package config

import "slices"

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// LayoutDefaultApplier handles repository layout defaults.
type LayoutDefaultApplier struct{}

func (LayoutDefaultApplier) Domain() string { return "layout" }

func (LayoutDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.PackagesDir == "" {
		cfg.PackagesDir = "packages"
	}
	if cfg.FingerprintFile == "" {
		cfg.FingerprintFile = ".last_build"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "lib"
	}
	if cfg.Ignore == nil {
		cfg.Ignore = []string{".cache", cfg.OutputDir, "node_modules", cfg.FingerprintFile}
	}
	if !slices.Contains(cfg.Ignore, cfg.FingerprintFile) {
		cfg.Ignore = append(cfg.Ignore, cfg.FingerprintFile)
	}
	return nil
}

// ToolchainDefaultApplier handles compiler, transform and marker defaults.
type ToolchainDefaultApplier struct{}

func (ToolchainDefaultApplier) Domain() string { return "toolchain" }

func (ToolchainDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Compiler.Command == "" {
		cfg.Compiler.Command = "tsc"
		if cfg.Compiler.Args == nil {
			cfg.Compiler.Args = []string{"-p", "tsconfig.build.json"}
		}
	}
	if cfg.TargetField == "" {
		cfg.TargetField = "@databases/target"
	}
	if cfg.Mode == "" {
		cfg.Mode = ModeProduction
	}
	if cfg.Markers.Autogenerated == "" {
		cfg.Markers.Autogenerated = "@autogenerated"
	}
	if cfg.Markers.Public == "" {
		cfg.Markers.Public = "@public"
	}
	return nil
}

// ReportingDefaultApplier handles events and metrics defaults.
type ReportingDefaultApplier struct{}

func (ReportingDefaultApplier) Domain() string { return "reporting" }

func (ReportingDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Events.Subject == "" {
		cfg.Events.Subject = "pkgbuilder.builds"
	}
	return nil
}

var defaultAppliers = []DefaultApplier{
	LayoutDefaultApplier{},
	ToolchainDefaultApplier{},
	ReportingDefaultApplier{},
}

func applyDefaults(cfg *Config) error {
	for _, applier := range defaultAppliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
