// Package events carries order and reservation lifecycle notifications
// out of the state machines, to Kafka and to the live admin board.
package events

import (
	"context"
	"time"
)

// Event types emitted by the order and reservation services.
const (
	TypeOrderCreated             = "order_created"
	TypeOrderStatusChanged       = "order_status_changed"
	TypeReservationCreated       = "reservation_created"
	TypeReservationUpdated       = "reservation_updated"
	TypeReservationStatusChanged = "reservation_status_changed"
)

// Event is one lifecycle notification.
type Event struct {
	Type        string    `json:"type"`
	Entity      string    `json:"entity"`
	EntityID    uint      `json:"entity_id"`
	OrderNumber string    `json:"order_number,omitempty"`
	Status      string    `json:"status"`
	At          time.Time `json:"at"`
}

// Publisher delivers events to one sink. Publish failures must never
// fail the state transition that produced the event.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Noop discards every event. Used in tests and when no sink is wired.
type Noop struct{}

// Publish discards the event.
func (Noop) Publish(ctx context.Context, event Event) error {
	return nil
}

// Multi fans one event out to several publishers, returning the first
// error after attempting all of them.
type Multi []Publisher

// Publish sends the event to every publisher in order.
func (m Multi) Publish(ctx context.Context, event Event) error {
	var firstErr error
	for _, p := range m {
		if err := p.Publish(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
