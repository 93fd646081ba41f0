package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func newRepo(t *testing.T) (repo, pkg string) {
	t.Helper()
	repo = t.TempDir()
	writeFile(t, filepath.Join(repo, "package.json"), `{"name":"root"}`)
	pkg = filepath.Join(repo, "packages", "a")
	writeFile(t, filepath.Join(pkg, "package.json"), `{"name":"@scope/a"}`)
	writeFile(t, filepath.Join(pkg, "src", "index.ts"), "export const a = 1;\n")
	return repo, pkg
}

func parse(t *testing.T, args ...string) (*CLI, *kong.Context) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Bind(&Global{}, cli), kong.Vars{"version": "test"})
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return cli, ctx
}

func TestParseDefaultsToBuild(t *testing.T) {
	_, pkg := newRepo(t)

	cli, ctx := parse(t, "-C", pkg, "--force")
	assert.Equal(t, "build", ctx.Command())
	assert.True(t, cli.Build.Force)
	assert.Equal(t, "text", cli.LogFormat)
}

func TestParseWatchDebounce(t *testing.T) {
	_, pkg := newRepo(t)

	cli, ctx := parse(t, "-C", pkg, "watch", "--debounce", "1s")
	assert.Equal(t, "watch", ctx.Command())
	assert.Equal(t, time.Second, cli.Watch.Debounce)
}

func TestLoadConfigFromRepositoryRoot(t *testing.T) {
	repo, pkg := newRepo(t)
	writeFile(t, filepath.Join(repo, "pkgbuilder.yaml"), "output_dir: dist\nmode: development\n")

	cli := &CLI{Dir: pkg, Root: repo}
	cfg, err := cli.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "dist", cfg.OutputDir)
	assert.Equal(t, "development", cfg.Mode)
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	_, pkg := newRepo(t)

	cli := &CLI{Dir: pkg, Config: filepath.Join(pkg, "missing.yaml")}
	_, err := cli.LoadConfig()
	require.Error(t, err)
}

func TestBuildOverrides(t *testing.T) {
	repo, pkg := newRepo(t)
	cfg, err := (&CLI{Dir: pkg, Root: repo}).LoadConfig()
	require.NoError(t, err)

	(&BuildCmd{Mode: "Development", MetricsFile: "/tmp/m.prom", NATSURL: "nats://x:4222"}).applyOverrides(cfg)
	assert.Equal(t, "development", cfg.Mode)
	assert.Equal(t, "/tmp/m.prom", cfg.Metrics.Textfile)
	assert.Equal(t, "nats://x:4222", cfg.Events.NATSURL)

	(&BuildCmd{Mode: "staging"}).applyOverrides(cfg)
	assert.Equal(t, "development", cfg.Mode)
}

func TestFingerprintCmd(t *testing.T) {
	repo, pkg := newRepo(t)
	var out bytes.Buffer

	cmd := &FingerprintCmd{Files: true, out: &out}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Dir: pkg, Root: repo}))
	assert.Contains(t, out.String(), "@scope/a (stale)")
	assert.Contains(t, out.String(), "  file src/index.ts")
	assert.NoFileExists(t, filepath.Join(pkg, ".last_build"))
}

func TestSweepCmd(t *testing.T) {
	repo, pkg := newRepo(t)
	writeFile(t, filepath.Join(pkg, "index.js"), "// @autogenerated\n\nmodule.exports = require('./lib/index');")
	var out bytes.Buffer

	cmd := &SweepCmd{out: &out}
	require.NoError(t, cmd.Run(&Global{}, &CLI{Dir: pkg, Root: repo}))
	assert.Equal(t, "removed index.js\n", out.String())
	assert.NoFileExists(t, filepath.Join(pkg, "index.js"))
}
