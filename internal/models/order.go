package models

import (
	"github.com/jinzhu/gorm"
)

// Order represents a placed customer order. Items are a snapshot of the
// cart at creation time; later menu price changes never touch them.
type Order struct {
	gorm.Model
	OrderNumber     string `gorm:"unique_index"`
	Status          OrderStatus
	FulfillmentType FulfillmentType
	PickupTime      string
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	SpecialRequests string
	SubtotalCents   int64
	TaxCents        int64
	TotalCents      int64
	ReservationID   *uint
	Items           []OrderItem `gorm:"foreignkey:OrderID"`
}

// OrderItem is one snapshotted cart line inside an order.
type OrderItem struct {
	gorm.Model
	OrderID        uint
	MenuItemID     uint
	Name           string
	UnitPriceCents int64
	Quantity       int
	Instructions   string
}

// OrderStatus represents the possible states of an order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// FulfillmentType determines whether an order is collected or eaten in.
// Dine-in orders carry a paired reservation.
type FulfillmentType string

const (
	FulfillmentPickup FulfillmentType = "pickup"
	FulfillmentDineIn FulfillmentType = "dine_in"
)

// orderTransitions is the closed transition table for order statuses.
// Forward jumps are allowed; cancellation is allowed from any
// non-terminal state.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusPreparing, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusDelivered, OrderStatusCancelled},
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether the transition s -> to is in the table.
func (s OrderStatus) CanTransitionTo(to OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Valid reports whether f is a known fulfillment type.
func (f FulfillmentType) Valid() bool {
	return f == FulfillmentPickup || f == FulfillmentDineIn
}
