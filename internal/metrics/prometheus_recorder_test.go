package metrics

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("compile", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("compile", ResultSuccess)
	pr.IncBuildOutcome(OutcomeSkipped)
	pr.IncBuildOutcome(OutcomeSkipped)
	pr.SetArtifacts("@scope/a", 3)
	pr.AddSwept(2)

	assert.InDelta(t, 2, testutil.ToFloat64(pr.buildOutcome.WithLabelValues("skipped")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(pr.stageResults.WithLabelValues("compile", "success")), 0)
	assert.InDelta(t, 3, testutil.ToFloat64(pr.artifacts.WithLabelValues("@scope/a")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(pr.swept), 0)
	assert.Equal(t, 1, testutil.CollectAndCount(pr.stageDuration))
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	assert.NotPanics(t, func() {
		pr.ObserveStageDuration("compile", time.Second)
		pr.IncBuildOutcome(OutcomeFailed)
		pr.AddSwept(1)
	})
}

func TestWriteTextfile(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.IncBuildOutcome(OutcomeSuccess)

	path := filepath.Join(t.TempDir(), "pkgbuilder.prom")
	require.NoError(t, WriteTextfile(pr.Registry(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `pkgbuilder_build_outcomes_total{outcome="success"} 1`)
}

func TestHTTPHandler(t *testing.T) {
	pr := NewPrometheusRecorder(nil)
	pr.AddSwept(4)

	rec := httptest.NewRecorder()
	HTTPHandler(pr.Registry()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "pkgbuilder_swept_files_total 4"))
}
