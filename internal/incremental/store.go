// Package incremental decides whether a package build can be skipped by
// comparing a freshly computed fingerprint with the one persisted by the last
// successful build.
package incremental

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/pkgbuilder/internal/config"
	"git.home.luguber.info/inful/pkgbuilder/internal/fingerprint"
	pkgerrors "git.home.luguber.info/inful/pkgbuilder/internal/foundation/errors"
)

// Store reads and writes a package's persisted fingerprint file.
type Store struct {
	path string
}

// NewStore returns the store for the fingerprint file fileName in packageRoot.
func NewStore(packageRoot, fileName string) *Store {
	return &Store{path: filepath.Join(packageRoot, fileName)}
}

// Path returns the fingerprint file path.
func (s *Store) Path() string { return s.path }

// Read returns the trimmed persisted fingerprint. A missing file reports
// found=false with no error; any other read failure is returned unchanged.
func (s *Store) Read() (fp fingerprint.Fingerprint, found bool, err error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", false, nil
		}
		return "", false, err
	}
	return fingerprint.Fingerprint(strings.TrimSpace(string(data))), true, nil
}

// Write replaces the persisted fingerprint atomically (temp file + rename).
func (s *Store) Write(fp fingerprint.Fingerprint) error {
	tmp := s.path + config.FingerprintTempSuffix
	if err := os.WriteFile(tmp, []byte(fp), 0o644); err != nil {
		return pkgerrors.FileSystemError("failed to write fingerprint").
			WithCause(err).
			WithContext("path", s.path).
			Build()
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return pkgerrors.FileSystemError(fmt.Sprintf("atomic rename of %s", filepath.Base(s.path))).
			WithCause(err).
			WithContext("path", s.path).
			Build()
	}
	return nil
}
