package metrics

import (
	"net/http"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"

	pkgerrors "git.home.luguber.info/inful/pkgbuilder/internal/foundation/errors"
)

// WriteTextfile writes the registry in the text exposition format, replacing
// path atomically (the node_exporter textfile collector convention).
func WriteTextfile(reg prom.Gatherer, path string) error {
	if err := prom.WriteToTextfile(path, reg); err != nil {
		return pkgerrors.WrapError(err, pkgerrors.CategoryFileSystem, "failed to write metrics textfile").
			WithContext("path", path).
			Build()
	}
	return nil
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for the provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
