package queue

import (
	"context"
	"testing"

	"github.com/sensorcast/sensorcast/internal/config"
)

func TestForecastSubject(t *testing.T) {
	got := ForecastSubject("fc-1")
	if got != "sensorcast.forecast.fc-1" {
		t.Errorf("Unexpected subject: %s", got)
	}
}

func TestMemoryPublisher(t *testing.T) {
	pub := NewMemoryPublisher()

	if err := pub.Publish(context.Background(), "sensorcast.forecast.a", []byte("one")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := pub.Publish(context.Background(), "sensorcast.forecast.a", []byte("two")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}
	if err := pub.Publish(context.Background(), "sensorcast.forecast.b", []byte("three")); err != nil {
		t.Fatalf("Publish failed: %v", err)
	}

	msgs := pub.Messages("sensorcast.forecast.a")
	if len(msgs) != 2 {
		t.Fatalf("Expected 2 messages, got %d", len(msgs))
	}
	if string(msgs[0]) != "one" || string(msgs[1]) != "two" {
		t.Errorf("Unexpected messages: %q %q", msgs[0], msgs[1])
	}

	if err := pub.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := pub.Publish(context.Background(), "sensorcast.forecast.a", []byte("late")); err == nil {
		t.Error("Expected error publishing after close")
	}
}

func TestNewPublisherMemory(t *testing.T) {
	pub, err := NewPublisher(config.QueueConfig{Type: "memory"})
	if err != nil {
		t.Fatalf("NewPublisher failed: %v", err)
	}
	defer pub.Close()

	if _, ok := pub.(*MemoryPublisher); !ok {
		t.Errorf("Expected MemoryPublisher, got %T", pub)
	}
}

func TestNewPublisherUnsupported(t *testing.T) {
	if _, err := NewPublisher(config.QueueConfig{Type: "rabbitmq"}); err == nil {
		t.Error("Expected error for unsupported queue type")
	}
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	if _, err := NewPublisher(config.QueueConfig{Type: "kafka"}); err == nil {
		t.Error("Expected error when no kafka brokers configured")
	}
}
