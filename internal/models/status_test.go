package models

import "testing"

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		from    OrderStatus
		to      OrderStatus
		allowed bool
	}{
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusDelivered, true}, // forward jump
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusPreparing, true},
		{OrderStatusPreparing, OrderStatusDelivered, true},
		{OrderStatusPreparing, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusPending, false}, // no going back
		{OrderStatusDelivered, OrderStatusCancelled, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusDelivered, OrderStatusPreparing, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: CanTransitionTo = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestReservationStatusTransitions(t *testing.T) {
	tests := []struct {
		from    ReservationStatus
		to      ReservationStatus
		allowed bool
	}{
		{ReservationStatusPending, ReservationStatusConfirmed, true},
		{ReservationStatusPending, ReservationStatusSeated, true}, // walk-in style seating
		{ReservationStatusConfirmed, ReservationStatusSeated, true},
		{ReservationStatusSeated, ReservationStatusCompleted, true},
		{ReservationStatusSeated, ReservationStatusCancelled, true},
		{ReservationStatusSeated, ReservationStatusPending, false},
		{ReservationStatusCompleted, ReservationStatusCancelled, false},
		{ReservationStatusCancelled, ReservationStatusPending, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("%s -> %s: CanTransitionTo = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestTerminalStatuses(t *testing.T) {
	if !OrderStatusDelivered.Terminal() || !OrderStatusCancelled.Terminal() {
		t.Error("delivered and cancelled orders must be terminal")
	}
	if OrderStatusPending.Terminal() || OrderStatusPreparing.Terminal() {
		t.Error("pending and preparing orders must not be terminal")
	}
	if !ReservationStatusCompleted.Terminal() || !ReservationStatusCancelled.Terminal() {
		t.Error("completed and cancelled reservations must be terminal")
	}
	if ReservationStatusSeated.Terminal() {
		t.Error("seated reservations must not be terminal")
	}
}

func TestStatusVocabulariesAreClosed(t *testing.T) {
	if OrderStatus("shipped").Valid() {
		t.Error("unknown order status accepted")
	}
	if ReservationStatus("waitlisted").Valid() {
		t.Error("unknown reservation status accepted")
	}
	if FulfillmentType("delivery").Valid() {
		t.Error("unknown fulfillment type accepted")
	}
}
