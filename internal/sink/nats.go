package sink

import (
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
)

// DefaultSubject is the publish subject when none is configured.
const DefaultSubject = "swarmscope.events"

// NATS publishes each classified record as JSON so other tooling can attach
// to the live stream. Publish failures are advisory; the watch never stops
// because a downstream subscriber is gone.
type NATS struct {
	conn    *nats.Conn
	subject string
	onError func(error)
}

// NATSOption configures the sink.
type NATSOption func(*NATS)

// WithSubject overrides the publish subject.
func WithSubject(subject string) NATSOption {
	return func(n *NATS) { n.subject = subject }
}

// WithErrorHandler receives publish errors.
func WithErrorHandler(fn func(error)) NATSOption {
	return func(n *NATS) { n.onError = fn }
}

// NewNATS connects to the given NATS URL.
func NewNATS(url string, opts ...NATSOption) (*NATS, error) {
	conn, err := nats.Connect(url, nats.Name("swarmscope"))
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", url, err)
	}

	n := &NATS{conn: conn, subject: DefaultSubject}
	for _, opt := range opts {
		opt(n)
	}
	return n, nil
}

// PushLive publishes the newest record of the frame.
func (n *NATS) PushLive(f LiveFrame) {
	rec, ok := f.Newest()
	if !ok {
		return
	}
	data, err := json.Marshal(rec)
	if err == nil {
		err = n.conn.Publish(n.subject, data)
	}
	if err != nil && n.onError != nil {
		n.onError(err)
	}
}

// Close flushes and drops the connection.
func (n *NATS) Close() {
	if n.conn != nil {
		n.conn.Flush()
		n.conn.Close()
	}
}
