package utils

import "time"

// HTTP handler timeouts
const (
	// DefaultRequestTimeout is the default timeout for HTTP requests
	DefaultRequestTimeout = 30 * time.Second

	// StatsFetchTimeout is the timeout for a single statistics fetch
	StatsFetchTimeout = 30 * time.Second

	// RefreshTimeout is the timeout for a manually triggered update cycle
	RefreshTimeout = 2 * time.Minute
)

// Queue types
type QueueType string

const (
	QueueTypeNATS   QueueType = "nats"
	QueueTypeRedis  QueueType = "redis"
	QueueTypeKafka  QueueType = "kafka"
	QueueTypeMemory QueueType = "memory"
)
