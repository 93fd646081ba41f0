package toolchain

import (
	"fmt"

	"github.com/evanw/esbuild/pkg/api"

	pkgerrors "git.home.luguber.info/inful/pkgbuilder/internal/foundation/errors"
)

// Transformer converts compiled module text for a profile.
type Transformer interface {
	Transform(source []byte, filename string, profile Profile) ([]byte, error)
}

// TransformFunc adapts a function to Transformer.
type TransformFunc func(source []byte, filename string, profile Profile) ([]byte, error)

// Transform calls f.
func (f TransformFunc) Transform(source []byte, filename string, profile Profile) ([]byte, error) {
	return f(source, filename, profile)
}

// EsbuildTransformer lowers JSX and ES module syntax to CommonJS with esbuild.
type EsbuildTransformer struct {
	mode string
}

// NewEsbuildTransformer returns a transformer that inlines mode as
// process.env.NODE_ENV.
func NewEsbuildTransformer(mode string) *EsbuildTransformer {
	return &EsbuildTransformer{mode: mode}
}

// Options returns the esbuild options used for profile.
func (e *EsbuildTransformer) Options(filename string, profile Profile) api.TransformOptions {
	opts := api.TransformOptions{
		Loader:     api.LoaderJSX,
		Format:     api.FormatCommonJS,
		Sourcefile: filename,
		Define: map[string]string{
			"process.env.NODE_ENV": fmt.Sprintf("%q", e.mode),
		},
	}
	switch profile {
	case ProfileBrowser:
		opts.Platform = api.PlatformBrowser
		opts.Target = api.ES2017
	default:
		opts.Platform = api.PlatformNode
		opts.Target = api.ES2019
	}
	return opts
}

// Transform runs esbuild on source.
func (e *EsbuildTransformer) Transform(source []byte, filename string, profile Profile) ([]byte, error) {
	result := api.Transform(string(source), e.Options(filename, profile))
	if len(result.Errors) > 0 {
		first := result.Errors[0]
		b := pkgerrors.TransformError(fmt.Sprintf("transform failed: %s", first.Text)).
			WithCause(pkgerrors.ErrExternalToolFailure).
			WithContext("file", filename).
			WithContext("profile", profile.String()).
			WithContext("error_count", len(result.Errors))
		if loc := first.Location; loc != nil {
			b = b.WithContext("line", loc.Line).WithContext("column", loc.Column)
		}
		return nil, b.Build()
	}
	return result.Code, nil
}
