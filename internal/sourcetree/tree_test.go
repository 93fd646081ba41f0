package sourcetree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func relPaths(entries []Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.RelPath)
	}
	return out
}

func newTestScanner() *Scanner {
	ignore := map[string]struct{}{".cache": {}, "lib": {}, "node_modules": {}, ".last_build": {}}
	return NewScanner(ignore, NewMarker("@autogenerated"))
}

func TestScanClassifiesAndFilters(t *testing.T) {
	root := t.TempDir()
	write(t, root, "package.json", `{}`)
	write(t, root, "src/index.ts", "export const a = 1;")
	write(t, root, "src/lib/inner.ts", "ignored by basename at depth")
	write(t, root, "index.js", "// @autogenerated\n\nmodule.exports = require('./lib/index');")
	write(t, root, "lib/index.js", "compiled")
	write(t, root, "node_modules/x/index.js", "dep")
	write(t, root, ".last_build", "abc")
	write(t, root, "notes.md", "mentions @autogeneratedish only")

	tree, err := newTestScanner().Scan(root)
	require.NoError(t, err)

	assert.Equal(t, []string{"notes.md", "package.json", "src/index.ts"}, relPaths(tree.Files(RoleSource)))
	assert.Equal(t, []string{"index.js"}, relPaths(tree.Files(RoleAutogenerated)))
	assert.Equal(t, []string{"index.js", "notes.md", "package.json", "src/index.ts"}, relPaths(tree.Tracked()))

	var dirs []string
	for _, e := range tree.Entries {
		if !e.IsFile {
			assert.Equal(t, RoleIgnored, e.Role)
			dirs = append(dirs, e.RelPath)
		}
	}
	assert.Equal(t, []string{"src"}, dirs)
}

func TestScanIsDeterministic(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"b.ts", "a.ts", "c/d.ts", "c/a.ts"} {
		write(t, root, name, name)
	}

	first, err := newTestScanner().Scan(root)
	require.NoError(t, err)
	second, err := newTestScanner().Scan(root)
	require.NoError(t, err)

	assert.Equal(t, first.Entries, second.Entries)
	assert.Equal(t, []string{"a.ts", "b.ts", "c/a.ts", "c/d.ts"}, relPaths(first.Files(RoleSource)))
}

func TestScanMissingRoot(t *testing.T) {
	_, err := newTestScanner().Scan(filepath.Join(t.TempDir(), "missing"))
	require.Error(t, err)
}

func TestMarker(t *testing.T) {
	m := NewMarker("@public")
	assert.True(t, m.In([]byte("/** @public */")))
	assert.True(t, m.In([]byte("@public")))
	assert.False(t, m.In([]byte("@publicity")))
	assert.False(t, m.In([]byte("public")))

	var zero Marker
	assert.False(t, zero.In([]byte("@public")))

	punct := NewMarker("<generated>")
	assert.True(t, punct.In([]byte("x<generated>y")))
}
