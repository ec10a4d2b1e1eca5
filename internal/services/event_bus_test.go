// internal/services/event_bus_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBusFanOut(t *testing.T) {
	bus := NewEventBus()
	first, cancelFirst := bus.Subscribe(4)
	second, cancelSecond := bus.Subscribe(4)
	defer cancelFirst()
	defer cancelSecond()

	bus.Publish(MutationEvent{Type: EventProductSold, ProductID: "product-1"})

	got := <-first
	assert.Equal(t, EventProductSold, got.Type)
	assert.False(t, got.At.IsZero())

	got = <-second
	assert.Equal(t, "product-1", got.ProductID)
}

func TestEventBusCancelClosesChannel(t *testing.T) {
	bus := NewEventBus()
	events, cancel := bus.Subscribe(1)

	cancel()
	_, open := <-events
	assert.False(t, open)

	// Publishing after cancel must not panic.
	bus.Publish(MutationEvent{Type: EventProductSold})
}

func TestEventBusDoesNotBlockOnSlowSubscriber(t *testing.T) {
	bus := NewEventBus()
	events, cancel := bus.Subscribe(1)
	defer cancel()

	// A full buffer drops events instead of blocking the publisher.
	bus.Publish(MutationEvent{Type: EventProductCreated, ProductID: "a"})
	bus.Publish(MutationEvent{Type: EventProductCreated, ProductID: "b"})

	got := <-events
	require.Equal(t, "a", got.ProductID)
	select {
	case unexpected := <-events:
		t.Fatalf("expected dropped event, got %v", unexpected)
	default:
	}
}
