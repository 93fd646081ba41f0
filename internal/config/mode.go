package config

import "strings"

// Build modes. The mode is passed to the compiler as NODE_ENV and defined as
// process.env.NODE_ENV in transformed code.
const (
	ModeProduction  = "production"
	ModeDevelopment = "development"
)

// NormalizeMode canonicalizes user input returning empty string if unknown.
func NormalizeMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case ModeProduction:
		return ModeProduction
	case ModeDevelopment:
		return ModeDevelopment
	default:
		return ""
	}
}
