package queue

import (
	"context"
	"fmt"

	"github.com/nats-io/nats.go"
)

const natsStreamName = "sensorcast"

// NATSPublisher publishes events through NATS JetStream so consumers
// that come online later can still replay recent forecasts.
type NATSPublisher struct {
	conn *nats.Conn
	js   nats.JetStreamContext
}

// newNATSPublisher connects to NATS and ensures the event stream
// exists.
func newNATSPublisher(url, subjectPrefix string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := conn.JetStream()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	// One stream covers every event subject the service publishes.
	if _, err := js.StreamInfo(natsStreamName); err != nil {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     natsStreamName,
			Subjects: []string{subjectPrefix + ".>"},
			Storage:  nats.FileStorage,
		})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to create stream: %w", err)
		}
	}

	return &NATSPublisher{conn: conn, js: js}, nil
}

// Publish publishes an event to a subject using JetStream.
func (p *NATSPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	_, err := p.js.Publish(subject, data, nats.Context(ctx))
	if err != nil {
		return fmt.Errorf("failed to publish to subject %s: %w", subject, err)
	}
	return nil
}

// Close closes the NATS connection.
func (p *NATSPublisher) Close() error {
	p.conn.Close()
	return nil
}
