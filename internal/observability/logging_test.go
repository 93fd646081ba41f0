package observability

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContextAccumulatesFields(t *testing.T) {
	ctx := context.Background()
	ctx = WithBuildID(ctx, "build-123")
	ctx = WithPackage(ctx, "core")
	ctx = WithStage(ctx, "compile")

	lc := extractLogContext(ctx)
	assert.Equal(t, LogContext{BuildID: "build-123", Package: "core", Stage: "compile"}, lc)
}

func TestEmptyContext(t *testing.T) {
	assert.Equal(t, LogContext{}, extractLogContext(context.Background()))
	assert.Empty(t, getLogAttrs(context.Background()))
}

func TestInfoContextWritesAttributes(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctx := WithStage(WithPackage(WithBuildID(context.Background(), "b-1"), "core"), "sweep")
	InfoContext(ctx, "Sweeping autogenerated files", slog.Int("count", 2))
	DebugContext(ctx, "debug line")

	out := buf.String()
	assert.Contains(t, out, "build_id=b-1")
	assert.Contains(t, out, "package=core")
	assert.Contains(t, out, "stage=sweep")
	assert.Contains(t, out, "count=2")
	assert.Contains(t, out, "debug line")
}
