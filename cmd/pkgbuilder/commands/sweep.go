package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"git.home.luguber.info/inful/pkgbuilder/internal/build"
)

// SweepCmd implements the 'sweep' command.
type SweepCmd struct {
	out io.Writer `kong:"-"`
}

func (s *SweepCmd) Run(_ *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	removed, err := build.NewBuildService(cfg).Sweep(context.Background(), root.Request(false))
	if err != nil {
		return err
	}

	out := s.out
	if out == nil {
		out = os.Stdout
	}
	for _, path := range removed {
		_, _ = fmt.Fprintf(out, "removed %s\n", path)
	}
	return nil
}
