package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/pkgbuilder/internal/build"
)

// FingerprintCmd implements the 'fingerprint' command.
type FingerprintCmd struct {
	Files bool `help:"List the hashed files and sibling dependencies"`

	out io.Writer `kong:"-"`
}

func (f *FingerprintCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	insp, err := build.NewBuildService(cfg).Inspect(context.Background(), root.Request(false))
	if err != nil {
		return err
	}

	out := f.out
	if out == nil {
		out = os.Stdout
	}
	state := "up to date"
	if insp.Stale {
		state = "stale"
	}
	_, _ = fmt.Fprintf(out, "%s  %s (%s)\n", insp.Fingerprint.Digest, insp.Package, state)
	if f.Files {
		for _, file := range insp.Fingerprint.Files {
			_, _ = fmt.Fprintf(out, "  file %s\n", file)
		}
		for _, dep := range insp.Fingerprint.Dependencies {
			_, _ = fmt.Fprintf(out, "  dependency %s\n", dep)
		}
	}
	return nil
}
