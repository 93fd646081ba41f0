package workspace

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"

	pkgerrors "git.home.luguber.info/inful/pkgbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pkgbuilder/internal/logfields"
	"git.home.luguber.info/inful/pkgbuilder/internal/manifest"
)

// Layout describes where one package build reads and writes.
type Layout struct {
	PackageRoot  string
	RepoRoot     string
	PackagesRoot string
}

// Resolve computes the Layout for the package at packageRoot. rootOverride,
// when non-empty, is used as the repository root verbatim.
func Resolve(packageRoot, rootOverride, packagesDir string) (Layout, error) {
	pkgRoot, err := filepath.Abs(packageRoot)
	if err != nil {
		return Layout{}, pkgerrors.FileSystemError("failed to resolve package root").WithCause(err).Build()
	}

	repoRoot := rootOverride
	switch {
	case repoRoot != "":
		if repoRoot, err = filepath.Abs(repoRoot); err != nil {
			return Layout{}, pkgerrors.FileSystemError("failed to resolve repository root").WithCause(err).Build()
		}
	default:
		repoRoot = gitWorktreeRoot(pkgRoot)
		if repoRoot == "" || repoRoot == pkgRoot || !hasManifest(repoRoot) {
			repoRoot = nearestManifestAncestor(pkgRoot)
		}
	}
	if repoRoot == "" {
		return Layout{}, pkgerrors.ConfigError("cannot locate repository root: no ancestor directory holds a package.json (use --root)").
			WithContext("path", pkgRoot).
			Build()
	}

	l := Layout{
		PackageRoot:  pkgRoot,
		RepoRoot:     repoRoot,
		PackagesRoot: filepath.Join(repoRoot, packagesDir),
	}
	slog.Debug("Resolved layout", logfields.Path(pkgRoot), slog.String("repo_root", repoRoot), slog.String("packages_root", l.PackagesRoot))
	return l, nil
}

// PackageManifestPath returns the package's own manifest path.
func (l Layout) PackageManifestPath() string {
	return filepath.Join(l.PackageRoot, manifest.FileName)
}

// RootManifestPath returns the repository root manifest path.
func (l Layout) RootManifestPath() string {
	return filepath.Join(l.RepoRoot, manifest.FileName)
}

// SiblingDir resolves a dependency name to its package directory by the last
// '/'-separated segment, so "@scope/core" maps to <packages>/core.
func (l Layout) SiblingDir(dependency string) string {
	base := dependency
	if i := strings.LastIndex(dependency, "/"); i >= 0 {
		base = dependency[i+1:]
	}
	return filepath.Join(l.PackagesRoot, base)
}

func gitWorktreeRoot(path string) string {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if !errors.Is(err, git.ErrRepositoryNotExists) {
			slog.Debug("Git repository detection failed", logfields.Path(path), logfields.Error(err))
		}
		return ""
	}
	wt, err := repo.Worktree()
	if err != nil {
		return ""
	}
	return wt.Filesystem.Root()
}

func nearestManifestAncestor(path string) string {
	for dir := filepath.Dir(path); ; dir = filepath.Dir(dir) {
		if hasManifest(dir) {
			return dir
		}
		if parent := filepath.Dir(dir); parent == dir {
			return ""
		}
	}
}

func hasManifest(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, manifest.FileName))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Debug("Manifest probe failed", logfields.Path(dir), logfields.Error(err))
		}
		return false
	}
	return !info.IsDir()
}
