// Package fingerprint computes the digest summarizing a package's buildable
// state: its tracked source bytes plus the persisted fingerprints of sibling
// packages it depends on that the repository root does not declare.
package fingerprint

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	pkgerrors "git.home.luguber.info/inful/pkgbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pkgbuilder/internal/manifest"
	"git.home.luguber.info/inful/pkgbuilder/internal/sourcetree"
)

// Fingerprint is a hex-encoded SHA-512 digest.
type Fingerprint string

// SiblingResolver maps a dependency name to its package directory.
type SiblingResolver interface {
	SiblingDir(dependency string) string
}

// Result is a computed fingerprint together with what went into it.
type Result struct {
	Digest Fingerprint
	// Files are the package-relative paths hashed, in hashing order.
	Files []string
	// Dependencies are the sibling names whose fingerprints were hashed, in order.
	Dependencies []string
}

// Engine computes fingerprints.
type Engine struct {
	scanner         *sourcetree.Scanner
	siblings        SiblingResolver
	fingerprintFile string
}

// NewEngine creates an Engine. fingerprintFile is the persisted fingerprint
// file name looked up inside each sibling directory.
func NewEngine(scanner *sourcetree.Scanner, siblings SiblingResolver, fingerprintFile string) *Engine {
	return &Engine{scanner: scanner, siblings: siblings, fingerprintFile: fingerprintFile}
}

// Compute hashes every tracked file under packageRoot in listing order, then
// the persisted fingerprints of pkg's external dependencies in sorted name
// order. Autogenerated files are hashed like any other file, so a removed or
// edited forwarding artifact invalidates the package.
func (e *Engine) Compute(packageRoot string, pkg, root *manifest.PackageManifest) (*Result, error) {
	tree, err := e.scanner.Scan(packageRoot)
	if err != nil {
		return nil, err
	}

	h := sha512.New()
	res := &Result{}
	for _, entry := range tree.Tracked() {
		if err := hashFile(h, entry.Path); err != nil {
			return nil, pkgerrors.FileSystemError("failed to hash package file").
				WithCause(err).
				WithContext("path", entry.Path).
				Build()
		}
		res.Files = append(res.Files, entry.RelPath)
	}

	for _, dep := range pkg.ExternalDependencies(root) {
		path := filepath.Join(e.siblings.SiblingDir(dep), e.fingerprintFile)
		// #nosec G304 - sibling fingerprint inside the packages root
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, pkgerrors.FingerprintError(fmt.Sprintf("dependency %s has not been built", dep)).
					WithCause(pkgerrors.ErrDependencyFingerprintMissing).
					WithContext("dependency", dep).
					WithContext("path", path).
					Build()
			}
			return nil, pkgerrors.FileSystemError("failed to read dependency fingerprint").
				WithCause(err).
				WithContext("dependency", dep).
				Build()
		}
		h.Write(data)
		res.Dependencies = append(res.Dependencies, dep)
	}

	res.Digest = Fingerprint(hex.EncodeToString(h.Sum(nil)))
	return res, nil
}

func hashFile(h hash.Hash, path string) error {
	// #nosec G304 - path comes from the classified package tree
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	_, err = io.Copy(h, f)
	return err
}
