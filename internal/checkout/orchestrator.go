// Package checkout orchestrates turning a finalized cart into an order
// and, for dine-in, a paired reservation. It is the only component that
// knows about the cart store, both state machines and the availability
// check at once.
package checkout

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"tablebay/internal/booking"
	"tablebay/internal/cart"
	"tablebay/internal/errs"
	"tablebay/internal/models"
	"tablebay/internal/monitoring"
	"tablebay/internal/orders"
	"tablebay/internal/reservations"
)

// DefaultTimeout bounds one finalize call end to end.
const DefaultTimeout = 10 * time.Second

// ReservationService is the slice of the reservation state machine the
// orchestrator needs.
type ReservationService interface {
	Create(ctx context.Context, req reservations.CreateRequest) (*models.Reservation, error)
	Cancel(ctx context.Context, id uint) error
	CheckAvailability(date, slot string, partySize int) (*booking.Result, error)
}

// OrderService is the slice of the order state machine the orchestrator
// needs.
type OrderService interface {
	Create(ctx context.Context, req orders.CreateRequest) (*models.Order, error)
}

// Orchestrator drives the checkout flow.
type Orchestrator struct {
	carts        cart.Store
	reservations ReservationService
	orders       OrderService
	metrics      *monitoring.Metrics
	timeout      time.Duration
	now          func() time.Time
}

// New builds an orchestrator. A zero timeout falls back to
// DefaultTimeout.
func New(carts cart.Store, resv ReservationService, ord OrderService, metrics *monitoring.Metrics, timeout time.Duration) *Orchestrator {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Orchestrator{
		carts:        carts,
		reservations: resv,
		orders:       ord,
		metrics:      metrics,
		timeout:      timeout,
		now:          time.Now,
	}
}

// Request is the customer's submitted checkout form. OrderNumber is an
// optional idempotency key; retried submissions reusing it land on the
// same order.
type Request struct {
	OrderNumber     string               `json:"order_number"`
	Customer        orders.CustomerInfo  `json:"customer"`
	FulfillmentType models.FulfillmentType `json:"fulfillment_type"`
	PickupTime      string               `json:"pickup_time"`
	ReservationDate string               `json:"reservation_date"`
	ReservationTime string               `json:"reservation_time"`
	PartySize       int                  `json:"party_size"`
	Occasion        string               `json:"occasion"`
	SpecialRequests string               `json:"special_requests"`
}

// Result is a successful checkout: the order number and, for dine-in,
// the created reservation's ID.
type Result struct {
	OrderNumber   string `json:"order_number"`
	ReservationID *uint  `json:"reservation_id,omitempty"`
}

// validate checks contact fields plus the fulfillment-specific ones
// before anything is created.
func (r *Request) validate() error {
	if strings.TrimSpace(r.Customer.Name) == "" {
		return errs.Validation("customer_name", "required")
	}
	if strings.TrimSpace(r.Customer.Email) == "" {
		return errs.Validation("customer_email", "required")
	}
	if !strings.Contains(r.Customer.Email, "@") {
		return errs.Validation("customer_email", "must be a valid email address")
	}
	if !r.FulfillmentType.Valid() {
		return errs.Validation("fulfillment_type", "must be pickup or dine_in")
	}

	switch r.FulfillmentType {
	case models.FulfillmentPickup:
		if strings.TrimSpace(r.PickupTime) == "" {
			return errs.Validation("pickup_time", "required for pickup orders")
		}
	case models.FulfillmentDineIn:
		if r.ReservationDate == "" || r.ReservationTime == "" {
			return errs.Validation("reservation_date", "date and time are required for dine-in orders")
		}
		if r.PartySize < 1 {
			return errs.Validation("party_size", "must be at least 1")
		}
	}
	return nil
}

// Finalize runs the checkout steps in order: validate, (dine-in) check
// availability and create the reservation, create the order from a
// snapshot of the cart, and clear the cart last so a failed order
// leaves it intact for retry. If order creation fails after the
// reservation was created, the reservation is cancelled.
func (o *Orchestrator) Finalize(ctx context.Context, sessionID string, req Request) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := o.now()
	result, err := o.finalize(ctx, sessionID, req)
	if o.metrics != nil {
		o.metrics.ObserveCheckout(string(req.FulfillmentType), o.now().Sub(start))
		if err != nil {
			kind := errs.Kind(err)
			o.metrics.CheckoutFailed(kind)
			if kind == "capacity_conflict" {
				o.metrics.CapacityConflict()
			}
		}
	}
	return result, err
}

func (o *Orchestrator) finalize(ctx context.Context, sessionID string, req Request) (*Result, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	current, err := o.carts.Get(ctx, sessionID)
	if err != nil {
		return nil, errs.Transient("load cart", err)
	}
	if current.IsEmpty() {
		return nil, errs.Validation("cart", "cart is empty")
	}

	var resv *models.Reservation
	if req.FulfillmentType == models.FulfillmentDineIn {
		// Advisory check first so a full slot fails fast with
		// alternatives; creation re-checks authoritatively.
		avail, err := o.reservations.CheckAvailability(req.ReservationDate, req.ReservationTime, req.PartySize)
		if err != nil {
			return nil, err
		}
		if !avail.Available {
			return nil, &errs.CapacityConflictError{
				Date:         req.ReservationDate,
				Time:         req.ReservationTime,
				Alternatives: avail.Alternatives,
			}
		}

		resv, err = o.reservations.Create(ctx, reservations.CreateRequest{
			CustomerName:    req.Customer.Name,
			CustomerEmail:   req.Customer.Email,
			CustomerPhone:   req.Customer.Phone,
			Date:            req.ReservationDate,
			Time:            req.ReservationTime,
			PartySize:       req.PartySize,
			SpecialRequests: req.SpecialRequests,
			Occasion:        req.Occasion,
		})
		if err != nil {
			return nil, err
		}
		if o.metrics != nil {
			o.metrics.ReservationCreated()
		}
	}

	totals := current.Totals()
	orderReq := orders.CreateRequest{
		OrderNumber:     req.OrderNumber,
		FulfillmentType: req.FulfillmentType,
		PickupTime:      req.PickupTime,
		Customer:        req.Customer,
		SpecialRequests: req.SpecialRequests,
		SubtotalCents:   totals.SubtotalCents,
		TaxCents:        totals.TaxCents,
		TotalCents:      totals.TotalCents,
	}
	for _, line := range current.Lines {
		orderReq.Items = append(orderReq.Items, orders.ItemSnapshot{
			MenuItemID:     line.ItemID,
			Name:           line.Name,
			UnitPriceCents: line.UnitPriceCents,
			Quantity:       line.Quantity,
			Instructions:   line.Instructions,
		})
	}
	if resv != nil {
		id := resv.ID
		orderReq.ReservationID = &id
	}

	order, err := o.orders.Create(ctx, orderReq)
	if err != nil {
		if resv != nil {
			o.compensate(resv.ID)
		}
		return nil, err
	}
	if o.metrics != nil {
		o.metrics.OrderCreated(string(req.FulfillmentType))
	}

	// The order exists either way; a failed clear must not fail the
	// checkout, the stale cart just gets cleared on the next visit.
	if err := o.carts.Clear(ctx, sessionID); err != nil {
		log.Printf("checkout: clearing cart for session %s failed: %v", sessionID, err)
	}

	result := &Result{OrderNumber: order.OrderNumber}
	if resv != nil {
		id := resv.ID
		result.ReservationID = &id
	}
	return result, nil
}

// compensate cancels the reservation left behind by a failed order
// creation. It runs on a fresh context so an expired checkout deadline
// cannot also strand the reservation.
func (o *Orchestrator) compensate(reservationID uint) {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	if err := o.reservations.Cancel(ctx, reservationID); err != nil {
		var state *errs.StateConflictError
		if !errors.As(err, &state) {
			log.Printf("checkout: compensating cancel of reservation %d failed: %v", reservationID, err)
		}
		return
	}
	if o.metrics != nil {
		o.metrics.CompensatingCancel()
	}
}
