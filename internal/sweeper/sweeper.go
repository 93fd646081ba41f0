// Package sweeper removes files a previous build generated so every build
// starts from sources only.
package sweeper

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"

	pkgerrors "git.home.luguber.info/inful/pkgbuilder/internal/foundation/errors"
	"git.home.luguber.info/inful/pkgbuilder/internal/logfields"
	"git.home.luguber.info/inful/pkgbuilder/internal/sourcetree"
)

// Sweeper deletes autogenerated files from a package tree.
type Sweeper struct {
	scanner *sourcetree.Scanner
}

// New returns a Sweeper classifying trees with scanner.
func New(scanner *sourcetree.Scanner) *Sweeper {
	return &Sweeper{scanner: scanner}
}

// Sweep deletes every file under root carrying the autogenerated marker and
// returns their root-relative paths. Ignored names (output dir, dependency
// stores, the fingerprint file) are never visited. Sweeping a swept tree
// removes nothing.
func (s *Sweeper) Sweep(root string) ([]string, error) {
	tree, err := s.scanner.Scan(root)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, entry := range tree.Files(sourcetree.RoleAutogenerated) {
		if err := os.Remove(entry.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return removed, pkgerrors.FileSystemError("failed to delete autogenerated file").
				WithCause(err).
				WithContext("path", entry.Path).
				Build()
		}
		slog.Debug("Removed autogenerated file", logfields.File(entry.RelPath))
		removed = append(removed, entry.RelPath)
	}
	return removed, nil
}
