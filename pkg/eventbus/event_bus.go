// Package eventbus publishes sync events over a watermill transport.
package eventbus

import (
	"context"

	"github.com/dukex/n8nsync/pkg/events"
)

type Event interface {
	GetType() events.EventType
}

type EventPublisher interface {
	Publish(ctx context.Context, key string, event Event) error
}

type EventSubscriber interface {
	Handle(eventType events.EventType, handler EventHandler) error
	Subscribe(ctx context.Context) error
}

type EventHandler func(ctx context.Context, event interface{}) error

type EventBus interface {
	EventPublisher
	EventSubscriber
	Close() error
	GenerateID() string
}

// NoopEventBus drops every event.
type NoopEventBus struct{}

func (NoopEventBus) Publish(context.Context, string, Event) error { return nil }
func (NoopEventBus) Handle(events.EventType, EventHandler) error  { return nil }
func (NoopEventBus) Subscribe(context.Context) error              { return nil }
func (NoopEventBus) Close() error                                 { return nil }
func (NoopEventBus) GenerateID() string                           { return "" }
