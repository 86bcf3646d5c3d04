package events

import (
	"fmt"
	"log/slog"

	"github.com/samuelcg20/Apt/internal/config"
)

// NewPublisher builds the publisher selected by events.driver
func NewPublisher(cfg config.EventsConfig, logger *slog.Logger) (Publisher, error) {
	switch cfg.Driver {
	case config.EventsNATS:
		return NewNATSPublisher(cfg.NATS.URL, cfg.NATS.Subject, logger)
	case config.EventsKafka:
		return NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
	case config.EventsNoop, "":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown events driver %q", cfg.Driver)
	}
}
