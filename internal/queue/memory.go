package queue

import (
	"context"
	"fmt"
	"sync"
)

// MemoryPublisher is an in-memory publisher that records events per
// subject. Useful for development and tests without an external broker.
type MemoryPublisher struct {
	mu       sync.RWMutex
	messages map[string][][]byte
	closed   bool
}

// newMemoryPublisher creates an empty in-memory publisher.
func newMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{messages: make(map[string][][]byte)}
}

// Publish records an event for a subject.
func (p *MemoryPublisher) Publish(_ context.Context, subject string, data []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return fmt.Errorf("publisher closed")
	}

	dataCopy := make([]byte, len(data))
	copy(dataCopy, data)
	p.messages[subject] = append(p.messages[subject], dataCopy)
	return nil
}

// Messages returns the events recorded for a subject.
func (p *MemoryPublisher) Messages(subject string) [][]byte {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([][]byte, len(p.messages[subject]))
	copy(out, p.messages[subject])
	return out
}

// Close marks the publisher closed; later publishes fail.
func (p *MemoryPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}
