package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "git.home.luguber.info/inful/pkgbuilder/internal/foundation/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "packages", cfg.PackagesDir)
	assert.Equal(t, ".last_build", cfg.FingerprintFile)
	assert.Equal(t, "lib", cfg.OutputDir)
	assert.Equal(t, []string{".cache", "lib", "node_modules", ".last_build"}, cfg.Ignore)
	assert.Equal(t, "@databases/target", cfg.TargetField)
	assert.Equal(t, ModeProduction, cfg.Mode)
	assert.Equal(t, "tsc", cfg.Compiler.Command)
	assert.Equal(t, []string{"-p", "tsconfig.build.json"}, cfg.Compiler.Args)
	assert.Equal(t, "@autogenerated", cfg.Markers.Autogenerated)
	assert.Equal(t, "@public", cfg.Markers.Public)
	assert.Equal(t, "pkgbuilder.builds", cfg.Events.Subject)
	assert.Empty(t, cfg.Events.NATSURL)
	assert.Empty(t, cfg.Metrics.Textfile)
}

func TestParseOverridesAndExpandsEnv(t *testing.T) {
	t.Setenv("PKGBUILDER_TEST_NATS", "nats://localhost:4222")

	cfg, err := Parse([]byte(`
fingerprint_file: .fingerprint
ignore: [dist]
compiler:
  command: ./node_modules/.bin/tsc
  args: [-b]
mode: Development
events:
  nats_url: ${PKGBUILDER_TEST_NATS}
`))
	require.NoError(t, err)

	assert.Equal(t, ".fingerprint", cfg.FingerprintFile)
	assert.Equal(t, []string{"dist", ".fingerprint"}, cfg.Ignore)
	assert.Equal(t, []string{"-b"}, cfg.Compiler.Args)
	assert.Equal(t, ModeDevelopment, cfg.Mode)
	assert.Equal(t, "nats://localhost:4222", cfg.Events.NATSURL)

	_, ok := cfg.IgnoredNames()[".fingerprint"]
	assert.True(t, ok)
	_, ok = cfg.IgnoredNames()[".fingerprint.tmp"]
	assert.True(t, ok, "staging file of the atomic write")
}

func TestParseRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"nested fingerprint file": "fingerprint_file: a/b",
		"unknown mode":            "mode: staging",
		"same markers":            "markers: {autogenerated: '@x', public: '@x'}",
		"absolute output":         "output_dir: /abs/lib",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			assert.True(t, pkgerrors.HasCategory(err, pkgerrors.CategoryValidation))
		})
	}
}

func TestParseMalformedYAML(t *testing.T) {
	_, err := Parse([]byte("ignore: [unterminated"))
	require.Error(t, err)
	assert.True(t, pkgerrors.HasCategory(err, pkgerrors.CategoryConfig))
}

func TestLoadOptional(t *testing.T) {
	dir := t.TempDir()

	cfg, err := LoadOptional(filepath.Join(dir, DefaultFileName))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	path := filepath.Join(dir, DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("output_dir: build\n"), 0o600))
	cfg, err = LoadOptional(path)
	require.NoError(t, err)
	assert.Equal(t, "build", cfg.OutputDir)
	assert.Contains(t, cfg.Ignore, "build")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file not found")
}

func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("PKGBUILDER_A=from-file\nPKGBUILDER_B=file-b\n"), 0o600))
	t.Setenv("PKGBUILDER_A", "from-env")
	t.Setenv("PKGBUILDER_B", "")
	require.NoError(t, os.Unsetenv("PKGBUILDER_B"))

	require.NoError(t, LoadEnvFiles(dir))
	assert.Equal(t, "from-env", os.Getenv("PKGBUILDER_A"))
	assert.Equal(t, "file-b", os.Getenv("PKGBUILDER_B"))
}

func TestParseLogLevel(t *testing.T) {
	lvl, ok := ParseLogLevel("WARN")
	assert.True(t, ok)
	assert.Equal(t, "WARN", lvl.String())

	_, ok = ParseLogLevel("loud")
	assert.False(t, ok)

	assert.Equal(t, LogFormatJSON, NormalizeLogFormat("json"))
	assert.Equal(t, LogFormatText, NormalizeLogFormat("anything"))
}
