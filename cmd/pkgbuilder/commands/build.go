package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/pkgbuilder/internal/build"
	"git.home.luguber.info/inful/pkgbuilder/internal/config"
	"git.home.luguber.info/inful/pkgbuilder/internal/logfields"
	"git.home.luguber.info/inful/pkgbuilder/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Force       bool   `short:"f" help:"Rebuild even if the fingerprint is unchanged"`
	Mode        string `help:"Override the build mode (production|development)"`
	MetricsFile string `name:"metrics-file" help:"Write Prometheus metrics to this textfile after the build" type:"path"`
	NATSURL     string `name:"nats-url" help:"Publish the build outcome to this NATS server"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	b.applyOverrides(cfg)

	ctx, stop := signalContext()
	defer stop()

	rep := newReporting(cfg, cfg.Metrics.Textfile != "")
	defer rep.Close()
	var svc build.BuildService = rep.apply(build.NewBuildService(cfg))

	result, err := svc.Run(ctx, root.Request(b.Force))

	if rep.prom != nil {
		if werr := metrics.WriteTextfile(rep.prom.Registry(), cfg.Metrics.Textfile); werr != nil {
			slog.Warn("Failed to export metrics", logfields.Error(werr))
		}
	}
	if err != nil {
		return err
	}

	if result.Status == build.BuildStatusSuccess {
		slog.Info("Build complete",
			logfields.Package(result.Package),
			logfields.Duration(result.Duration),
			slog.Int("artifacts", len(result.Artifacts)),
			slog.Int("swept", len(result.Swept)))
	}
	return nil
}

func (b *BuildCmd) applyOverrides(cfg *config.Config) {
	if b.MetricsFile != "" {
		cfg.Metrics.Textfile = b.MetricsFile
	}
	if b.NATSURL != "" {
		cfg.Events.NATSURL = b.NATSURL
	}
	if b.Mode != "" {
		if mode := config.NormalizeMode(b.Mode); mode != "" {
			cfg.Mode = mode
			slog.Info("Build mode overridden via CLI flag", "mode", mode)
		} else {
			slog.Warn("Ignoring invalid --mode value", "value", b.Mode)
		}
	}
}
