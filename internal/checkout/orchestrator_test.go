package checkout

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tablebay/internal/booking"
	"tablebay/internal/cart"
	"tablebay/internal/errs"
	"tablebay/internal/models"
	"tablebay/internal/monitoring"
	"tablebay/internal/orders"
	"tablebay/internal/reservations"
)

// MockReservations is a mock implementation of ReservationService
type MockReservations struct {
	mock.Mock
}

func (m *MockReservations) Create(ctx context.Context, req reservations.CreateRequest) (*models.Reservation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reservation), args.Error(1)
}

func (m *MockReservations) Cancel(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockReservations) CheckAvailability(date, slot string, partySize int) (*booking.Result, error) {
	args := m.Called(date, slot, partySize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*booking.Result), args.Error(1)
}

// MockOrders is a mock implementation of OrderService
type MockOrders struct {
	mock.Mock
}

func (m *MockOrders) Create(ctx context.Context, req orders.CreateRequest) (*models.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Order), args.Error(1)
}

func seededCart(t *testing.T, carts cart.Store, session string) *cart.Cart {
	t.Helper()
	c := cart.New()
	c.AddItem(1, "Flame-Grilled Steak", 8500)
	c.AddItem(1, "Flame-Grilled Steak", 8500)
	require.NoError(t, carts.Save(context.Background(), session, c))
	return c
}

func pickupCheckout() Request {
	return Request{
		Customer: orders.CustomerInfo{
			Name:  "Sipho Dlamini",
			Email: "sipho@example.com",
			Phone: "+27 83 000 0000",
		},
		FulfillmentType: models.FulfillmentPickup,
		PickupTime:      "18:30",
	}
}

func dineInCheckout() Request {
	req := pickupCheckout()
	req.FulfillmentType = models.FulfillmentDineIn
	req.PickupTime = ""
	req.ReservationDate = "2025-06-01"
	req.ReservationTime = "19:00"
	req.PartySize = 2
	return req
}

func newOrchestrator(carts cart.Store, resv ReservationService, ord OrderService) *Orchestrator {
	return New(carts, resv, ord, monitoring.NewMetrics(), 0)
}

func TestPickupCheckout(t *testing.T) {
	carts := cart.NewMemoryStore()
	seeded := seededCart(t, carts, "s1")
	resv := new(MockReservations)
	ord := new(MockOrders)

	ord.On("Create", mock.Anything, mock.MatchedBy(func(req orders.CreateRequest) bool {
		return req.FulfillmentType == models.FulfillmentPickup &&
			req.SubtotalCents == seeded.Totals().SubtotalCents &&
			req.TaxCents == seeded.Totals().TaxCents &&
			req.TotalCents == seeded.Totals().TotalCents &&
			len(req.Items) == 1 && req.Items[0].Quantity == 2 &&
			req.ReservationID == nil
	})).Return(&models.Order{OrderNumber: "TB-TEST-0001", Status: models.OrderStatusPending}, nil)

	result, err := newOrchestrator(carts, resv, ord).Finalize(context.Background(), "s1", pickupCheckout())
	require.NoError(t, err)
	assert.Equal(t, "TB-TEST-0001", result.OrderNumber)
	assert.Nil(t, result.ReservationID)

	// Cart cleared only after the order was created.
	after, err := carts.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, after.IsEmpty())

	resv.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	ord.AssertExpectations(t)
}

func TestPickupWithoutTimeFailsAndKeepsCart(t *testing.T) {
	carts := cart.NewMemoryStore()
	seededCart(t, carts, "s1")
	resv := new(MockReservations)
	ord := new(MockOrders)

	req := pickupCheckout()
	req.PickupTime = ""
	_, err := newOrchestrator(carts, resv, ord).Finalize(context.Background(), "s1", req)

	var validation *errs.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "pickup_time", validation.Field)

	after, _ := carts.Get(context.Background(), "s1")
	assert.False(t, after.IsEmpty(), "a failed checkout must leave the cart intact")
	ord.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEmptyCartFailsValidation(t *testing.T) {
	carts := cart.NewMemoryStore()
	resv := new(MockReservations)
	ord := new(MockOrders)

	_, err := newOrchestrator(carts, resv, ord).Finalize(context.Background(), "s1", pickupCheckout())

	var validation *errs.ValidationError
	require.ErrorAs(t, err, &validation)
}

func TestDineInCheckoutCreatesReservationThenOrder(t *testing.T) {
	carts := cart.NewMemoryStore()
	seededCart(t, carts, "s1")
	resv := new(MockReservations)
	ord := new(MockOrders)

	resv.On("CheckAvailability", "2025-06-01", "19:00", 2).
		Return(&booking.Result{Available: true, CapacityRemaining: 1}, nil)
	created := &models.Reservation{Status: models.ReservationStatusPending}
	created.ID = 7
	resv.On("Create", mock.Anything, mock.MatchedBy(func(req reservations.CreateRequest) bool {
		return req.Date == "2025-06-01" && req.Time == "19:00" && req.PartySize == 2
	})).Return(created, nil)
	ord.On("Create", mock.Anything, mock.MatchedBy(func(req orders.CreateRequest) bool {
		return req.FulfillmentType == models.FulfillmentDineIn &&
			req.ReservationID != nil && *req.ReservationID == 7
	})).Return(&models.Order{OrderNumber: "TB-TEST-0002", Status: models.OrderStatusPending}, nil)

	result, err := newOrchestrator(carts, resv, ord).Finalize(context.Background(), "s1", dineInCheckout())
	require.NoError(t, err)
	assert.Equal(t, "TB-TEST-0002", result.OrderNumber)
	require.NotNil(t, result.ReservationID)
	assert.Equal(t, uint(7), *result.ReservationID)

	after, _ := carts.Get(context.Background(), "s1")
	assert.True(t, after.IsEmpty())

	resv.AssertExpectations(t)
	ord.AssertExpectations(t)
}

func TestDineInFullSlotReturnsAlternatives(t *testing.T) {
	carts := cart.NewMemoryStore()
	seededCart(t, carts, "s1")
	resv := new(MockReservations)
	ord := new(MockOrders)

	resv.On("CheckAvailability", "2025-06-01", "19:00", 2).
		Return(&booking.Result{Available: false, Alternatives: []string{"18:30", "19:30"}}, nil)

	_, err := newOrchestrator(carts, resv, ord).Finalize(context.Background(), "s1", dineInCheckout())

	var conflict *errs.CapacityConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []string{"18:30", "19:30"}, conflict.Alternatives)

	after, _ := carts.Get(context.Background(), "s1")
	assert.False(t, after.IsEmpty())
	resv.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	ord.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// The regression case for the orphaned-reservation gap: order creation
// fails after the reservation was created, so the reservation is
// cancelled and the cart stays intact.
func TestOrderFailureCancelsReservation(t *testing.T) {
	carts := cart.NewMemoryStore()
	seededCart(t, carts, "s1")
	resv := new(MockReservations)
	ord := new(MockOrders)

	resv.On("CheckAvailability", "2025-06-01", "19:00", 2).
		Return(&booking.Result{Available: true, CapacityRemaining: 1}, nil)
	created := &models.Reservation{Status: models.ReservationStatusPending}
	created.ID = 9
	resv.On("Create", mock.Anything, mock.Anything).Return(created, nil)
	ord.On("Create", mock.Anything, mock.Anything).
		Return(nil, errs.Transient("create order", assert.AnError))
	resv.On("Cancel", mock.Anything, uint(9)).Return(nil)

	_, err := newOrchestrator(carts, resv, ord).Finalize(context.Background(), "s1", dineInCheckout())

	var transient *errs.TransientError
	require.ErrorAs(t, err, &transient)

	resv.AssertCalled(t, "Cancel", mock.Anything, uint(9))
	after, _ := carts.Get(context.Background(), "s1")
	assert.False(t, after.IsEmpty(), "the cart must not be cleared when the order failed")
}

func TestClientIdempotencyKeyIsForwarded(t *testing.T) {
	carts := cart.NewMemoryStore()
	seededCart(t, carts, "s1")
	resv := new(MockReservations)
	ord := new(MockOrders)

	ord.On("Create", mock.Anything, mock.MatchedBy(func(req orders.CreateRequest) bool {
		return req.OrderNumber == "TB-RETRY-0042"
	})).Return(&models.Order{OrderNumber: "TB-RETRY-0042"}, nil)

	req := pickupCheckout()
	req.OrderNumber = "TB-RETRY-0042"
	result, err := newOrchestrator(carts, resv, ord).Finalize(context.Background(), "s1", req)
	require.NoError(t, err)
	assert.Equal(t, "TB-RETRY-0042", result.OrderNumber)
	ord.AssertExpectations(t)
}
