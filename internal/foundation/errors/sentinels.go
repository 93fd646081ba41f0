package errors

import "errors"

// Sentinel errors for the fatal build conditions. Classified errors wrap one of
// these as their cause so callers can match with errors.Is.
var (
	// ErrDependencyFingerprintMissing indicates a sibling package referenced as an
	// external dependency has no persisted fingerprint (it was never built).
	ErrDependencyFingerprintMissing = errors.New("dependency fingerprint missing")
	// ErrMissingDeclaration indicates a public module has no declaration file.
	ErrMissingDeclaration = errors.New("missing declaration")
	// ErrExternalToolFailure indicates the compiler or transform stage failed.
	ErrExternalToolFailure = errors.New("external tool failure")
)
