// Package manifest reads the subset of a package's package.json needed by a build.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sort"

	pkgerrors "git.home.luguber.info/inful/pkgbuilder/internal/foundation/errors"
)

// FileName is the manifest file name in every package and in the repository root.
const FileName = "package.json"

// PackageManifest is the read-only view of a package's declared metadata.
type PackageManifest struct {
	Name            string
	Dependencies    map[string]string
	DevDependencies map[string]string
	// Target is the value of the configured target-platform field, if any.
	Target string
}

type rawManifest struct {
	Name            string            `json:"name"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Load reads and parses the manifest at path.
func Load(path, targetField string) (*PackageManifest, error) {
	// #nosec G304 - path is a package.json inside the repository being built
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, pkgerrors.ManifestError(fmt.Sprintf("manifest not found: %s", path)).Build()
		}
		return nil, pkgerrors.WrapError(err, pkgerrors.CategoryManifest, "failed to read manifest").
			Fatal().
			WithContext("path", path).
			Build()
	}

	m, err := Parse(data, targetField)
	if err != nil {
		return nil, pkgerrors.WrapError(err, pkgerrors.CategoryManifest, "failed to parse manifest").
			Fatal().
			WithContext("path", path).
			Build()
	}
	return m, nil
}

// Parse decodes manifest JSON. targetField names the key holding the
// target-platform marker; a missing or non-string value leaves Target empty.
func Parse(data []byte, targetField string) (*PackageManifest, error) {
	var raw rawManifest
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	m := &PackageManifest{
		Name:            raw.Name,
		Dependencies:    raw.Dependencies,
		DevDependencies: raw.DevDependencies,
	}

	if targetField != "" {
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(data, &fields); err != nil {
			return nil, err
		}
		if v, ok := fields[targetField]; ok {
			var target string
			if json.Unmarshal(v, &target) == nil {
				m.Target = target
			}
		}
	}
	return m, nil
}

// DependencyNames returns the sorted, de-duplicated union of runtime and
// development dependency names.
func (m *PackageManifest) DependencyNames() []string {
	names := make([]string, 0, len(m.Dependencies)+len(m.DevDependencies))
	for name := range m.Dependencies {
		names = append(names, name)
	}
	for name := range m.DevDependencies {
		names = append(names, name)
	}
	sort.Strings(names)
	return slices.Compact(names)
}

// Declares reports whether name appears in either dependency set.
func (m *PackageManifest) Declares(name string) bool {
	if m == nil {
		return false
	}
	if _, ok := m.Dependencies[name]; ok {
		return true
	}
	_, ok := m.DevDependencies[name]
	return ok
}

// ExternalDependencies returns the sorted dependency names of m that root does
// not declare. These are the sibling packages whose fingerprints feed into m's.
func (m *PackageManifest) ExternalDependencies(root *PackageManifest) []string {
	var out []string
	for _, name := range m.DependencyNames() {
		if !root.Declares(name) {
			out = append(out, name)
		}
	}
	return out
}
