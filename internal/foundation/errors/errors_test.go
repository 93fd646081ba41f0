package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "pkgbuilder.yaml").
			Build()

		assert.Equal(t, CategoryConfig, err.Category())
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.Equal(t, "invalid configuration", err.Message())

		file, exists := err.Context().GetString("file")
		require.True(t, exists)
		assert.Equal(t, "pkgbuilder.yaml", file)
	})

	t.Run("Error detection", func(t *testing.T) {
		err := ConfigError("test error").Build()

		_, ok := AsClassified(err)
		assert.True(t, ok)
		assert.True(t, HasCategory(err, CategoryConfig))
		assert.Equal(t, SeverityFatal, err.Severity())
		assert.False(t, HasCategory(errors.New("plain"), CategoryInternal))
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", CompilerError("tsc failed").Build())

		assert.True(t, HasCategory(err, CategoryCompiler))
		classified, ok := AsClassified(err)
		require.True(t, ok)
		assert.Equal(t, "tsc failed", classified.Message())
	})
}

func TestErrorBuilder(t *testing.T) {
	t.Run("Wraps sentinel", func(t *testing.T) {
		err := WrapError(ErrDependencyFingerprintMissing, CategoryFingerprint, "sibling never built").
			Fatal().
			WithContext("dependency", "core").
			Build()

		assert.ErrorIs(t, err, ErrDependencyFingerprintMissing)
		assert.Contains(t, err.Error(), "[fingerprint:fatal] sibling never built")
		dep, _ := err.Context().GetString("dependency")
		assert.Equal(t, "core", dep)
	})

	t.Run("WithContext copies", func(t *testing.T) {
		base := TransformError("bad syntax").Build()
		extended := base.WithContext("file", "lib/a.jsx")

		_, onBase := base.Context().Get("file")
		assert.False(t, onBase)
		file, _ := extended.Context().GetString("file")
		assert.Equal(t, "lib/a.jsx", file)
		assert.ErrorIs(t, extended, base)
	})
}

func TestErrorContextMerge(t *testing.T) {
	var empty ErrorContext
	other := ErrorContext{"a": 1}
	assert.Equal(t, other, empty.Merge(other))

	merged := ErrorContext{"a": 1, "b": 2}.Merge(ErrorContext{"b": 3})
	assert.Equal(t, ErrorContext{"a": 1, "b": 3}, merged)
}
