package config

import (
	"strings"

	"github.com/SAP-F-2025/survey-service/internal/events"
	"go.uber.org/zap"
)

// EventConfig holds configuration for event publishing
type EventConfig struct {
	Enabled      bool   // EVENTS_ENABLED
	Publisher    string // EVENTS_PUBLISHER: kafka or mock
	KafkaBrokers string // KAFKA_BROKERS, comma separated
	Topic        string // SURVEY_EVENTS_TOPIC
}

// GetKafkaBrokers returns Kafka brokers as a slice
func (c *EventConfig) GetKafkaBrokers() []string {
	var brokers []string
	for _, broker := range strings.Split(c.KafkaBrokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

// CreateEventPublisher creates an event publisher based on configuration
func (c *EventConfig) CreateEventPublisher(logger *zap.Logger) (events.EventPublisher, error) {
	if !c.Enabled {
		logger.Info("Event publishing disabled, using mock publisher")
		return events.NewMockEventPublisher(logger), nil
	}

	switch c.Publisher {
	case "kafka":
		logger.Info("Creating Kafka event publisher",
			zap.String("brokers", c.KafkaBrokers),
			zap.String("topic", c.Topic))

		return events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: c.GetKafkaBrokers(),
			TopicName:    c.Topic,
			Logger:       logger,
		})
	case "mock":
		logger.Info("Using mock event publisher")
		return events.NewMockEventPublisher(logger), nil
	default:
		logger.Warn("Unknown event publisher type, falling back to mock", zap.String("publisher", c.Publisher))
		return events.NewMockEventPublisher(logger), nil
	}
}
