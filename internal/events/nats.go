package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	defaultFlushTimeout = 2 * time.Second
	// nats rejects non-positive flush timeouts with ErrBadTimeout.
	minFlushTimeout = 50 * time.Millisecond
)

// conn is the subset of *nats.Conn the publisher uses.
type conn interface {
	Publish(subject string, data []byte) error
	FlushTimeout(timeout time.Duration) error
	Close()
}

// NATSPublisher publishes build events as JSON on a NATS subject.
type NATSPublisher struct {
	conn    conn
	subject string
}

// NewNATSPublisher connects to url.
func NewNATSPublisher(url, subject string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("pkgbuilder"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(0))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	slog.Debug("NATS publisher connected", "url", url, "subject", subject)
	return &NATSPublisher{conn: nc, subject: subject}, nil
}

// Publish sends event and waits for the server to acknowledge the flush.
func (p *NATSPublisher) Publish(ctx context.Context, event *BuildEvent) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	if err := p.conn.FlushTimeout(flushTimeout(ctx)); err != nil {
		return fmt.Errorf("failed to flush event: %w", err)
	}

	slog.Debug("Published build event", "subject", p.subject, "package", event.Package, "status", event.Status)
	return nil
}

func flushTimeout(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return defaultFlushTimeout
	}
	return max(time.Until(deadline), minFlushTimeout)
}

// Close drains nothing and closes the connection.
func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}
