// Package errors provides foundational, type-safe error primitives used across pkgbuilder.
//
// This package contains classified error types and helpers for robust error handling,
// including a fluent builder API for constructing ClassifiedError values with context.
//
// Key features:
//   - ErrorCategory: Broad error classification (config, manifest, compiler, etc.)
//   - ErrorSeverity: Impact level (fatal, error, warning, info)
//   - ClassifiedError: Structured error with category, severity, context and cause
//   - ErrorBuilder: Fluent API for creating classified errors
//   - CLIErrorAdapter for error presentation and exit codes
//
// Example usage:
//
//	err := errors.CompilerError("compiler exited with status 2").
//		WithContext("package", pkgName).
//		WithCause(ErrExternalToolFailure).
//		Build()
package errors
