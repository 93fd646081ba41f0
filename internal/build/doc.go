// Package build provides the package build pipeline.
//
// One build runs these stages in order, stopping at the first failure:
//
//	fingerprint → gate → sweep → compile → transform → persist
//
// The gate ends a build early (status skipped) when the package's fingerprint
// matches the one persisted by its last successful build. The new fingerprint
// is persisted only after every other stage succeeded, so a failed build
// leaves the previous fingerprint untouched and the package is rebuilt on the
// next run.
//
// All execution paths (CLI one-shot, watch loop, tests) route through
// BuildService.
package build
