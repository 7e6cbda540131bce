// Package orders owns the order lifecycle: creation with an immutable
// item snapshot and server-side total recomputation, plus status
// transitions against the closed table.
package orders

import (
	"context"
	"strings"
	"time"

	"github.com/jinzhu/gorm"

	"tablebay/internal/cart"
	"tablebay/internal/errs"
	"tablebay/internal/events"
	"tablebay/internal/models"
)

// Service is the order state machine over the database.
type Service struct {
	db  *gorm.DB
	pub events.Publisher
	now func() time.Time
}

// NewService builds the service.
func NewService(db *gorm.DB, pub events.Publisher) *Service {
	return &Service{db: db, pub: pub, now: time.Now}
}

// CustomerInfo is the contact block on an order.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ItemSnapshot is one order line captured from the cart at creation.
type ItemSnapshot struct {
	MenuItemID     uint   `json:"menu_item_id"`
	Name           string `json:"name"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	Quantity       int    `json:"quantity"`
	Instructions   string `json:"instructions"`
}

// CreateRequest carries everything needed to place an order. The
// monetary fields come from the checkout step but are recomputed from
// the snapshot; a mismatch is a validation error, never a silent
// correction.
type CreateRequest struct {
	OrderNumber     string
	FulfillmentType models.FulfillmentType
	PickupTime      string
	Customer        CustomerInfo
	SpecialRequests string
	Items           []ItemSnapshot
	SubtotalCents   int64
	TaxCents        int64
	TotalCents      int64
	ReservationID   *uint
}

func validateCustomer(c CustomerInfo) error {
	if strings.TrimSpace(c.Name) == "" {
		return errs.Validation("customer_name", "required")
	}
	if strings.TrimSpace(c.Email) == "" {
		return errs.Validation("customer_email", "required")
	}
	if !strings.Contains(c.Email, "@") {
		return errs.Validation("customer_email", "must be a valid email address")
	}
	return nil
}

// recompute derives the totals the snapshot actually adds up to.
func recompute(items []ItemSnapshot) cart.Totals {
	var subtotal int64
	for _, item := range items {
		subtotal += item.UnitPriceCents * int64(item.Quantity)
	}
	tax := (subtotal*cart.TaxRatePercent + 50) / 100
	return cart.Totals{SubtotalCents: subtotal, TaxCents: tax, TotalCents: subtotal + tax}
}

// Create validates and inserts a new pending order. Supplying the same
// order number again returns the already-created order, which makes
// checkout retries idempotent.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, errs.Validation("items", "order must contain at least one item")
	}
	for _, item := range req.Items {
		if item.Quantity < 1 {
			return nil, errs.Validation("items", "item quantity must be at least 1")
		}
		if item.UnitPriceCents <= 0 {
			return nil, errs.Validation("items", "item price must be positive")
		}
	}
	if err := validateCustomer(req.Customer); err != nil {
		return nil, err
	}
	if !req.FulfillmentType.Valid() {
		return nil, errs.Validation("fulfillment_type", "must be pickup or dine_in")
	}
	if req.FulfillmentType == models.FulfillmentPickup && strings.TrimSpace(req.PickupTime) == "" {
		return nil, errs.Validation("pickup_time", "required for pickup orders")
	}

	totals := recompute(req.Items)
	if req.SubtotalCents != totals.SubtotalCents ||
		req.TaxCents != totals.TaxCents ||
		req.TotalCents != totals.TotalCents {
		return nil, errs.Validation("totals", "do not match the order items")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Transient("create order", err)
	}

	generated := req.OrderNumber == ""
	number := req.OrderNumber
	if generated {
		number = GenerateOrderNumber(s.now())
	} else if existing, err := s.findByNumber(number); err == nil {
		if !matchesOrder(existing, req, totals) {
			return nil, errs.Validation("order_number", "already used by a different order")
		}
		return existing, nil
	}

	order := models.Order{
		OrderNumber:     number,
		Status:          models.OrderStatusPending,
		FulfillmentType: req.FulfillmentType,
		PickupTime:      req.PickupTime,
		CustomerName:    req.Customer.Name,
		CustomerEmail:   req.Customer.Email,
		CustomerPhone:   req.Customer.Phone,
		SpecialRequests: req.SpecialRequests,
		SubtotalCents:   totals.SubtotalCents,
		TaxCents:        totals.TaxCents,
		TotalCents:      totals.TotalCents,
		ReservationID:   req.ReservationID,
	}
	for _, item := range req.Items {
		order.Items = append(order.Items, models.OrderItem{
			MenuItemID:     item.MenuItemID,
			Name:           item.Name,
			UnitPriceCents: item.UnitPriceCents,
			Quantity:       item.Quantity,
			Instructions:   item.Instructions,
		})
	}

	for attempt := 0; ; attempt++ {
		order.OrderNumber = number
		err := s.db.Create(&order).Error
		if err == nil {
			break
		}
		// A concurrent retry may have won the unique index race; only a
		// matching payload makes returning its order an idempotent hit.
		if existing, ferr := s.findByNumber(number); ferr == nil {
			if matchesOrder(existing, req, totals) {
				return existing, nil
			}
			if generated && attempt == 0 {
				// Same-second suffix collision with an unrelated order.
				number = GenerateOrderNumber(s.now())
				continue
			}
			return nil, errs.Validation("order_number", "already used by a different order")
		}
		return nil, errs.Transient("create order", err)
	}

	s.publish(ctx, events.TypeOrderCreated, &order)
	return &order, nil
}

// matchesOrder reports whether an existing order under the same number
// is the same submission as req, making its return an idempotent retry
// rather than a collision with an unrelated order.
func matchesOrder(existing *models.Order, req CreateRequest, totals cart.Totals) bool {
	if existing.FulfillmentType != req.FulfillmentType ||
		existing.PickupTime != req.PickupTime ||
		existing.CustomerName != req.Customer.Name ||
		existing.CustomerEmail != req.Customer.Email ||
		existing.CustomerPhone != req.Customer.Phone ||
		existing.SubtotalCents != totals.SubtotalCents ||
		existing.TotalCents != totals.TotalCents ||
		len(existing.Items) != len(req.Items) {
		return false
	}
	for i, item := range req.Items {
		line := existing.Items[i]
		if line.MenuItemID != item.MenuItemID ||
			line.UnitPriceCents != item.UnitPriceCents ||
			line.Quantity != item.Quantity {
			return false
		}
	}
	return true
}

func (s *Service) findByNumber(number string) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Items").Where("order_number = ?", number).First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetByNumber loads one order with its items.
func (s *Service) GetByNumber(number string) (*models.Order, error) {
	order, err := s.findByNumber(number)
	if err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, errs.NotFound("order", number)
		}
		return nil, errs.Transient("get order", err)
	}
	return order, nil
}

// List returns orders newest first, optionally filtered by status.
func (s *Service) List(status models.OrderStatus) ([]models.Order, error) {
	query := s.db.Preload("Items").Order("created_at desc")
	if status != "" {
		if !status.Valid() {
			return nil, errs.Validation("status", "unknown order status")
		}
		query = query.Where("status = ?", status)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		return nil, errs.Transient("list orders", err)
	}
	return orders, nil
}

// Transition moves an order to a new status, rejecting anything outside
// the transition table.
func (s *Service) Transition(ctx context.Context, number string, to models.OrderStatus) (*models.Order, error) {
	if !to.Valid() {
		return nil, errs.Validation("status", "unknown order status")
	}

	order, err := s.GetByNumber(number)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(to) {
		return nil, &errs.StateConflictError{Entity: "order", From: string(order.Status), To: string(to)}
	}

	if err := s.db.Model(order).Update("status", to).Error; err != nil {
		return nil, errs.Transient("update order status", err)
	}
	order.Status = to

	s.publish(ctx, events.TypeOrderStatusChanged, order)
	return order, nil
}

func (s *Service) publish(ctx context.Context, eventType string, order *models.Order) {
	// Event delivery must not fail the state change.
	_ = s.pub.Publish(ctx, events.Event{
		Type:        eventType,
		Entity:      "order",
		EntityID:    order.ID,
		OrderNumber: order.OrderNumber,
		Status:      string(order.Status),
		At:          time.Now().UTC(),
	})
}
