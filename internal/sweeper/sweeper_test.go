package sweeper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pkgbuilder/internal/sourcetree"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newSweeper() *Sweeper {
	ignore := map[string]struct{}{"lib": {}, "node_modules": {}, ".last_build": {}, ".cache": {}}
	return New(sourcetree.NewScanner(ignore, sourcetree.NewMarker("@autogenerated")))
}

func TestSweepRemovesOnlyAutogenerated(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "package.json", `{"name":"a"}`)
	writeFile(t, root, "src/index.ts", "export const a = 1;\n")
	writeFile(t, root, "index.js", "// @autogenerated\n\nmodule.exports = require('./lib/index');")
	writeFile(t, root, "sub/index.d.ts", "// @autogenerated\n\nexport * from '../lib/sub/index';\n")
	writeFile(t, root, "notes.md", "@autogeneratedness is not the marker")
	writeFile(t, root, "lib/index.js", "// @autogenerated but inside the output dir")
	writeFile(t, root, "node_modules/x/index.js", "// @autogenerated")

	removed, err := newSweeper().Sweep(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"index.js", "sub/index.d.ts"}, removed)

	assert.NoFileExists(t, filepath.Join(root, "index.js"))
	assert.NoFileExists(t, filepath.Join(root, "sub", "index.d.ts"))
	assert.FileExists(t, filepath.Join(root, "src", "index.ts"))
	assert.FileExists(t, filepath.Join(root, "notes.md"))
	assert.FileExists(t, filepath.Join(root, "lib", "index.js"))
	assert.FileExists(t, filepath.Join(root, "node_modules", "x", "index.js"))
}

func TestSweepIsIdempotent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "index.js", "// @autogenerated\n")

	s := newSweeper()
	first, err := s.Sweep(root)
	require.NoError(t, err)
	assert.Len(t, first, 1)

	second, err := s.Sweep(root)
	require.NoError(t, err)
	assert.Empty(t, second)
}
