package queue

import "context"

// Publisher publishes forecast events to a message bus. The adapter
// only ever publishes; downstream consumers (dashboards, automations)
// subscribe with their own tooling.
type Publisher interface {
	// Publish publishes an event to a subject/topic.
	Publish(ctx context.Context, subject string, data []byte) error

	// Close closes the connection.
	Close() error
}
