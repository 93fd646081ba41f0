package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/pkgbuilder/internal/build"
	"git.home.luguber.info/inful/pkgbuilder/internal/logfields"
	"git.home.luguber.info/inful/pkgbuilder/internal/metrics"
	"git.home.luguber.info/inful/pkgbuilder/internal/watch"
)

// WatchCmd implements the 'watch' command.
type WatchCmd struct {
	Debounce    time.Duration `help:"Quiet period after the last change before rebuilding" default:"300ms"`
	MetricsAddr string        `name:"metrics-addr" help:"Serve Prometheus metrics on this address (e.g. :9102)"`
	NATSURL     string        `name:"nats-url" help:"Publish build outcomes to this NATS server"`
}

func (w *WatchCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if w.NATSURL != "" {
		cfg.Events.NATSURL = w.NATSURL
	}

	ctx, stop := signalContext()
	defer stop()

	rep := newReporting(cfg, w.MetricsAddr != "")
	defer rep.Close()
	var svc build.BuildService = rep.apply(build.NewBuildService(cfg))

	if rep.prom != nil {
		srv := &http.Server{
			Addr:              w.MetricsAddr,
			Handler:           metrics.HTTPHandler(rep.prom.Registry()),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("Metrics server failed", logfields.Error(err))
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		slog.Info("Serving metrics", slog.String("addr", w.MetricsAddr))
	}

	pkgRoot, err := filepath.Abs(root.Dir)
	if err != nil {
		return err
	}
	req := root.Request(false)
	rebuild := func(ctx context.Context) error {
		result, err := svc.Run(ctx, req)
		if err == nil && result.Status.IsSuccess() {
			slog.Info("Package ready",
				logfields.Package(result.Package),
				slog.String("status", string(result.Status)),
				logfields.Duration(result.Duration))
		}
		return err
	}
	return watch.New(pkgRoot, cfg.IgnoredNames(), rebuild).WithDebounce(w.Debounce).Run(ctx)
}
