// Package cmd provides common initialization functions for the n8nsync commands.
package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/n8nsync/pkg/channels/kafka"
	"github.com/dukex/n8nsync/pkg/eventbus"
)

const (
	EventBusNone  = "none"
	EventBusKafka = "kafka"
)

var ErrUnsupportedEventBus = errors.New("unsupported event bus provider")

// NewEventBus returns a publish-only bus for the sync commands.
func NewEventBus(provider, brokers string, logger *slog.Logger) (eventbus.EventBus, error) {
	switch provider {
	case "", EventBusNone:
		return eventbus.NoopEventBus{}, nil
	case EventBusKafka:
		pub, err := kafka.CreatePublisher(watermill.NewSlogLogger(logger), kafka.ParseBrokers(brokers))
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka publisher: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, nil), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedEventBus, provider)
	}
}

// NewSubscribingEventBus returns a bus that can also consume sync events.
func NewSubscribingEventBus(provider, brokers string, logger *slog.Logger, serviceName string) (eventbus.EventBus, error) {
	switch provider {
	case EventBusKafka:
		pub, sub, err := kafka.CreateChannel(watermill.NewSlogLogger(logger), kafka.ParseBrokers(brokers), serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	default:
		return nil, fmt.Errorf("%w for subscribing: %q", ErrUnsupportedEventBus, provider)
	}
}
