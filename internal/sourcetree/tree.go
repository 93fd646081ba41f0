package sourcetree

import (
	"io/fs"
	"os"
	"path/filepath"

	pkgerrors "git.home.luguber.info/inful/pkgbuilder/internal/foundation/errors"
)

// Role tags a tree entry.
type Role int

const (
	// RoleSource is an ordinary tracked file.
	RoleSource Role = iota
	// RoleAutogenerated is a file carrying the autogenerated marker.
	RoleAutogenerated
	// RoleIgnored is a non-file entry (directory, symlink, device).
	RoleIgnored
)

func (r Role) String() string {
	switch r {
	case RoleSource:
		return "source"
	case RoleAutogenerated:
		return "autogenerated"
	default:
		return "ignored"
	}
}

// Entry is one listed filesystem entry.
type Entry struct {
	Path    string // absolute path
	RelPath string // slash-separated, relative to the tree root
	IsFile  bool
	Role    Role
}

// Tree is the classified listing of a directory.
type Tree struct {
	Root    string
	Entries []Entry
}

// Files returns the file entries with the given role, in listing order.
func (t *Tree) Files(role Role) []Entry {
	var out []Entry
	for _, e := range t.Entries {
		if e.IsFile && e.Role == role {
			out = append(out, e)
		}
	}
	return out
}

// Tracked returns every file entry regardless of role, in listing order.
func (t *Tree) Tracked() []Entry {
	var out []Entry
	for _, e := range t.Entries {
		if e.IsFile {
			out = append(out, e)
		}
	}
	return out
}

// Scanner lists and classifies directory trees.
type Scanner struct {
	ignore    map[string]struct{}
	generated Marker
}

// NewScanner returns a Scanner dropping basenames in ignore and tagging files
// that contain the generated marker.
func NewScanner(ignore map[string]struct{}, generated Marker) *Scanner {
	return &Scanner{ignore: ignore, generated: generated}
}

// Scan lists root. The root directory itself is never filtered.
func (s *Scanner) Scan(root string) (*Tree, error) {
	tree := &Tree{Root: root}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		if _, skip := s.ignore[d.Name()]; skip {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		entry := Entry{Path: path, RelPath: filepath.ToSlash(rel), Role: RoleIgnored}
		if d.Type().IsRegular() {
			entry.IsFile = true
			// #nosec G304 - path comes from walking the package tree
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			entry.Role = RoleSource
			if s.generated.In(data) {
				entry.Role = RoleAutogenerated
			}
		}
		tree.Entries = append(tree.Entries, entry)
		return nil
	})
	if err != nil {
		return nil, pkgerrors.FileSystemError("failed to list package tree").
			WithCause(err).
			WithContext("path", root).
			Build()
	}
	return tree, nil
}
