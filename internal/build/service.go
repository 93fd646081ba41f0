package build

import (
	"context"
	"time"

	"git.home.luguber.info/inful/pkgbuilder/internal/fingerprint"
	"git.home.luguber.info/inful/pkgbuilder/internal/surface"
)

// BuildService is the canonical interface for executing package builds.
type BuildService interface {
	// Run executes the pipeline for one package. A skipped build is a
	// successful outcome. The result is non-nil even when an error is returned.
	Run(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BuildRequest contains all inputs required to execute a package build.
type BuildRequest struct {
	// PackageRoot is the directory holding the package's package.json.
	PackageRoot string

	// RepoRoot overrides repository root detection when non-empty.
	RepoRoot string

	// Force bypasses the staleness gate.
	Force bool
}

// BuildResult contains the outcome of a build execution.
type BuildResult struct {
	BuildID string

	// Package is the manifest name, or the package directory name when the
	// manifest could not be read.
	Package string

	Status BuildStatus

	// Fingerprint is the package fingerprint. After a successful build it is
	// the digest persisted for the tree as the build left it.
	Fingerprint fingerprint.Fingerprint

	// Swept lists the autogenerated files removed before compiling.
	Swept []string

	// Artifacts lists the forwarding artifacts generated.
	Artifacts []surface.Artifact

	Duration  time.Duration
	StartTime time.Time
	EndTime   time.Time
}

// BuildStatus represents the outcome of a build execution.
type BuildStatus string

const (
	// BuildStatusSuccess indicates the build completed successfully.
	BuildStatusSuccess BuildStatus = "success"

	// BuildStatusFailed indicates the build encountered an error.
	BuildStatusFailed BuildStatus = "failed"

	// BuildStatusSkipped indicates the package was up to date.
	BuildStatusSkipped BuildStatus = "skipped"
)

// IsSuccess returns true for success and skip.
func (s BuildStatus) IsSuccess() bool {
	return s == BuildStatusSuccess || s == BuildStatusSkipped
}
