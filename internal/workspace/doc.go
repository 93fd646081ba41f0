// Package workspace resolves the directory layout a package build operates in:
// the package root (the working directory), the repository root holding the
// root manifest, and the shared packages root where sibling packages live.
//
// The repository root comes from an explicit override, the enclosing git
// worktree, or the nearest ancestor with a package.json, in that order.
package workspace
