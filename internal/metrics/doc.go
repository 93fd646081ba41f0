// Package metrics records package build metrics.
//
// Components receive a Recorder and default to NoopRecorder, so metrics are
// wired in without nil checks:
//
//	driver := build.NewDriver(cfg).WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// One-shot builds export the registry to a node-exporter textfile with
// WriteTextfile. The watch loop may serve it over HTTP with HTTPHandler.
package metrics
