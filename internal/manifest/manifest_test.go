package manifest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "git.home.luguber.info/inful/pkgbuilder/internal/foundation/errors"
)

const target = "@databases/target"

func TestParse(t *testing.T) {
	m, err := Parse([]byte(`{
		"name": "@databases/web",
		"dependencies": {"react": "^18", "@databases/core": "0.0.0"},
		"devDependencies": {"typescript": "^5", "react": "^18"},
		"@databases/target": "browser"
	}`), target)
	require.NoError(t, err)

	assert.Equal(t, "@databases/web", m.Name)
	assert.Equal(t, "browser", m.Target)
	assert.Equal(t, []string{"@databases/core", "react", "typescript"}, m.DependencyNames())
	assert.True(t, m.Declares("typescript"))
	assert.False(t, m.Declares("lodash"))
}

func TestParseTargetMissingOrNotString(t *testing.T) {
	m, err := Parse([]byte(`{"name": "a"}`), target)
	require.NoError(t, err)
	assert.Empty(t, m.Target)
	assert.Empty(t, m.DependencyNames())

	m, err = Parse([]byte(`{"name": "a", "@databases/target": 3}`), target)
	require.NoError(t, err)
	assert.Empty(t, m.Target)
}

func TestExternalDependencies(t *testing.T) {
	pkg := &PackageManifest{
		Dependencies:    map[string]string{"@databases/core": "0.0.0", "react": "^18"},
		DevDependencies: map[string]string{"typescript": "^5", "@databases/escape": "0.0.0"},
	}
	root := &PackageManifest{
		Dependencies:    map[string]string{"react": "^18"},
		DevDependencies: map[string]string{"typescript": "^5"},
	}

	assert.Equal(t, []string{"@databases/core", "@databases/escape"}, pkg.ExternalDependencies(root))
	assert.Equal(t, []string{"@databases/core", "@databases/escape", "react", "typescript"}, pkg.ExternalDependencies(nil))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)

	_, err := Load(path, target)
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCategory(err, pkgerrors.CategoryManifest))

	require.NoError(t, os.WriteFile(path, []byte(`{"name": "pg"}`), 0o600))
	m, err := Load(path, target)
	require.NoError(t, err)
	assert.Equal(t, "pg", m.Name)

	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))
	_, err = Load(path, target)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse manifest")
}
