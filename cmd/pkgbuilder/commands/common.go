package commands

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/pkgbuilder/internal/build"
	"git.home.luguber.info/inful/pkgbuilder/internal/config"
	"git.home.luguber.info/inful/pkgbuilder/internal/events"
	"git.home.luguber.info/inful/pkgbuilder/internal/logfields"
	"git.home.luguber.info/inful/pkgbuilder/internal/metrics"
	"git.home.luguber.info/inful/pkgbuilder/internal/workspace"
)

// Global context passed to subcommands.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config    string           `short:"c" help:"Configuration file path (default: pkgbuilder.yaml in the repository root)" type:"path"`
	Dir       string           `short:"C" help:"Package directory to operate on" default:"." type:"existingdir"`
	Root      string           `help:"Repository root (default: detected from git or the nearest ancestor package.json)" type:"path"`
	Verbose   bool             `short:"v" help:"Enable verbose logging"`
	LogFormat string           `name:"log-format" help:"Log output format (text|json)" enum:"text,json" default:"text"`
	Version   kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build       BuildCmd       `cmd:"" default:"withargs" help:"Build the package if its fingerprint changed"`
	Fingerprint FingerprintCmd `cmd:"" help:"Print the package fingerprint and whether it is stale"`
	Sweep       SweepCmd       `cmd:"" help:"Delete autogenerated files from the package"`
	Watch       WatchCmd       `cmd:"" help:"Rebuild the package whenever its sources change"`
	VersionCmd  VersionCmd     `cmd:"" name:"version" help:"Print version information"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply(g *Global) error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	if lvl, ok := config.ParseLogLevel(os.Getenv(config.LogLevelEnv)); ok {
		level = lvl
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if config.NormalizeLogFormat(c.LogFormat) == config.LogFormatJSON {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	g.Logger = logger
	return nil
}

// LoadConfig loads .env files and the configuration for the selected package.
// An explicit --config must exist; the default file is optional.
func (c *CLI) LoadConfig() (*config.Config, error) {
	repoRoot := c.Root
	if repoRoot == "" {
		if layout, err := workspace.Resolve(c.Dir, "", "."); err == nil {
			repoRoot = layout.RepoRoot
		}
	}
	if repoRoot != "" {
		if err := config.LoadEnvFiles(repoRoot); err != nil {
			slog.Warn("Failed to load .env files", logfields.Path(repoRoot), logfields.Error(err))
		}
	}

	if c.Config != "" {
		return config.Load(c.Config)
	}
	if repoRoot == "" {
		return config.Default(), nil
	}
	return config.LoadOptional(filepath.Join(repoRoot, config.DefaultFileName))
}

// Request returns the build request for the selected package.
func (c *CLI) Request(force bool) build.BuildRequest {
	return build.BuildRequest{PackageRoot: c.Dir, RepoRoot: c.Root, Force: force}
}

// reporting holds the optional metrics and event sinks of a command.
type reporting struct {
	prom      *metrics.PrometheusRecorder
	publisher events.Publisher
}

// newReporting wires metrics when withMetrics is set and events when the
// configuration names a NATS server. Event delivery is best-effort, so an
// unreachable server only logs a warning.
func newReporting(cfg *config.Config, withMetrics bool) *reporting {
	r := &reporting{publisher: events.NoopPublisher{}}
	if withMetrics {
		r.prom = metrics.NewPrometheusRecorder(nil)
	}
	if cfg.Events.NATSURL != "" {
		pub, err := events.NewNATSPublisher(cfg.Events.NATSURL, cfg.Events.Subject)
		if err != nil {
			slog.Warn("Build events disabled", slog.String("url", cfg.Events.NATSURL), logfields.Error(err))
		} else {
			r.publisher = pub
		}
	}
	return r
}

func (r *reporting) apply(svc *build.DefaultBuildService) *build.DefaultBuildService {
	if r.prom != nil {
		svc = svc.WithRecorder(r.prom)
	}
	return svc.WithPublisher(r.publisher)
}

func (r *reporting) Close() {
	if err := r.publisher.Close(); err != nil {
		slog.Warn("Failed to close event publisher", logfields.Error(err))
	}
}

// signalContext returns a context canceled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
