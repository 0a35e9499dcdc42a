package queue

import (
	"fmt"
	"strings"

	"github.com/sensorcast/sensorcast/internal/config"
	"github.com/sensorcast/sensorcast/internal/utils"
)

// SubjectPrefix is the root of every event subject the service
// publishes.
const SubjectPrefix = "sensorcast"

// ForecastSubject returns the event subject for one forecaster
// instance.
func ForecastSubject(forecasterID string) string {
	return fmt.Sprintf("%s.forecast.%s", SubjectPrefix, forecasterID)
}

// NewPublisher creates a Publisher based on configuration. Default is
// NATS if type is not specified.
func NewPublisher(cfg config.QueueConfig) (Publisher, error) {
	queueType := utils.QueueType(strings.ToLower(cfg.Type))

	if queueType == "" {
		queueType = utils.QueueTypeNATS
	}

	switch queueType {
	case utils.QueueTypeNATS:
		return newNATSPublisher(cfg.URL, SubjectPrefix)

	case utils.QueueTypeRedis:
		return newRedisPublisher(RedisConfig{
			URL:      cfg.URL,
			Password: cfg.Password,
			DB:       cfg.RedisDB,
			Stream:   cfg.RedisStream,
		})

	case utils.QueueTypeKafka:
		return newKafkaPublisher(KafkaConfig{
			Brokers: cfg.KafkaBrokers,
		})

	case utils.QueueTypeMemory:
		return newMemoryPublisher(), nil

	default:
		return nil, fmt.Errorf("unsupported queue type: %s (supported: nats, redis, kafka, memory)", queueType)
	}
}

// NewMemoryPublisher creates an in-memory publisher directly, bypassing
// configuration. Intended for tests.
func NewMemoryPublisher() *MemoryPublisher {
	return newMemoryPublisher()
}
