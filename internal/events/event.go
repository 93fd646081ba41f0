// Package events publishes one outcome event per completed package build.
package events

import (
	"context"
	"time"
)

// BuildEvent describes a finished build (success, skip or failure).
type BuildEvent struct {
	BuildID     string    `json:"build_id"`
	Package     string    `json:"package"`
	Status      string    `json:"status"`
	Fingerprint string    `json:"fingerprint,omitempty"`
	Artifacts   []string  `json:"artifacts,omitempty"`
	DurationMS  int64     `json:"duration_ms"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Publisher delivers build events.
type Publisher interface {
	Publish(ctx context.Context, event *BuildEvent) error
	Close() error
}

// NoopPublisher discards events.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *BuildEvent) error { return nil }
func (NoopPublisher) Close() error                               { return nil }
