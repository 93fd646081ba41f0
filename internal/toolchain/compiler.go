package toolchain

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	pkgerrors "git.home.luguber.info/inful/pkgbuilder/internal/foundation/errors"
)

// Compiler runs the type-checking compile of a package. A nil error means the
// compiler exited zero.
type Compiler interface {
	Compile(ctx context.Context, packageRoot string) error
}

// BinaryCompiler invokes an external compiler binary (tsc by default).
type BinaryCompiler struct {
	Command string
	Args    []string
	// Mode is exported to the child as NODE_ENV.
	Mode string
	// Output receives the compiler's stdout and stderr. Defaults to os.Stderr.
	Output io.Writer
}

// NewBinaryCompiler creates a BinaryCompiler.
func NewBinaryCompiler(command string, args []string, mode string) *BinaryCompiler {
	return &BinaryCompiler{Command: command, Args: args, Mode: mode, Output: os.Stderr}
}

// Compile runs the compiler with packageRoot as working directory.
func (b *BinaryCompiler) Compile(ctx context.Context, packageRoot string) error {
	bin, err := ResolveBinary(b.Command, packageRoot)
	if err != nil {
		return pkgerrors.CompilerError(fmt.Sprintf("compiler %q not found", b.Command)).
			WithCause(pkgerrors.ErrExternalToolFailure).
			WithContext("command", b.Command).
			WithContext("lookup_error", err.Error()).
			Build()
	}

	// #nosec G204 - command and args come from trusted driver configuration
	cmd := exec.CommandContext(ctx, bin, b.Args...)
	cmd.Dir = packageRoot
	cmd.Env = append(os.Environ(), "NODE_ENV="+b.Mode)

	out := b.Output
	if out == nil {
		out = os.Stderr
	}
	// keep a copy of the output so the failure carries the diagnostics
	var captured bytes.Buffer
	cmd.Stdout = io.MultiWriter(out, &captured)
	cmd.Stderr = io.MultiWriter(out, &captured)

	slog.Debug("Invoking compiler", "command", bin, "args", strings.Join(b.Args, " "), "dir", packageRoot)
	if err := cmd.Run(); err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return pkgerrors.CompilerError("compiler failed").
			WithCause(pkgerrors.ErrExternalToolFailure).
			WithContext("command", b.Command).
			WithContext("exit_code", exitCode).
			WithContext("run_error", err.Error()).
			WithContext("output", tail(captured.String(), 4096)).
			Build()
	}
	return nil
}

// ResolveBinary finds command in node_modules/.bin of dir or any ancestor,
// falling back to PATH. Commands containing a path separator are returned as
// given.
func ResolveBinary(command, dir string) (string, error) {
	if strings.ContainsRune(command, filepath.Separator) || strings.ContainsRune(command, '/') {
		return command, nil
	}
	for cur := dir; ; {
		candidate := filepath.Join(cur, "node_modules", ".bin", command)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			break
		}
		cur = parent
	}
	return exec.LookPath(command)
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
