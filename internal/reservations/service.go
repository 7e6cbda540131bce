// Package reservations owns the reservation lifecycle: creation behind
// the authoritative capacity check, partial updates with slot
// revalidation, and status transitions against the closed table.
package reservations

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/jinzhu/gorm"

	"tablebay/internal/booking"
	"tablebay/internal/errs"
	"tablebay/internal/events"
	"tablebay/internal/models"
)

// Service is the reservation state machine over the database.
type Service struct {
	db       *gorm.DB
	capacity booking.CapacityConfig
	checker  *booking.Checker
	locks    *slotLocks
	pub      events.Publisher
}

// NewService builds the service. The service itself backs the
// availability checker's reservation counts.
func NewService(db *gorm.DB, capacity booking.CapacityConfig, pub events.Publisher) *Service {
	s := &Service{
		db:       db,
		capacity: capacity,
		locks:    newSlotLocks(),
		pub:      pub,
	}
	s.checker = booking.NewChecker(capacity, s)
	return s
}

// Checker exposes the advisory availability checker built over this
// service's counts.
func (s *Service) Checker() *booking.Checker {
	return s.checker
}

// CountActive counts non-cancelled reservations in a slot and party
// size range, optionally excluding one reservation's own row.
func (s *Service) CountActive(date, slot string, minParty, maxParty int, excludeID uint) (int, error) {
	query := s.db.Model(&models.Reservation{}).
		Where("reservation_date = ? AND time = ? AND party_size >= ? AND party_size <= ? AND status <> ?",
			date, slot, minParty, maxParty, models.ReservationStatusCancelled)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateRequest carries the fields for a new reservation. Name, email,
// date, time and party size are required.
type CreateRequest struct {
	CustomerName    string `json:"customer_name"`
	CustomerEmail   string `json:"customer_email"`
	CustomerPhone   string `json:"customer_phone"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	PartySize       int    `json:"party_size"`
	SpecialRequests string `json:"special_requests"`
	Occasion        string `json:"occasion"`
}

func validateContact(name, email string) error {
	if strings.TrimSpace(name) == "" {
		return errs.Validation("customer_name", "required")
	}
	if strings.TrimSpace(email) == "" {
		return errs.Validation("customer_email", "required")
	}
	if !strings.Contains(email, "@") {
		return errs.Validation("customer_email", "must be a valid email address")
	}
	return nil
}

// Create validates the request, re-runs the capacity count inside the
// slot's critical section and a transaction, and inserts the
// reservation as pending. A full bucket returns CapacityConflictError
// with alternative times.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Reservation, error) {
	if err := validateContact(req.CustomerName, req.CustomerEmail); err != nil {
		return nil, err
	}
	bucket, err := s.capacity.BucketFor(req.PartySize)
	if err != nil {
		return nil, err
	}
	if err := s.checker.ValidateSlot(req.Date, req.Time); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Transient("create reservation", err)
	}

	lock := s.locks.acquire(slotKey(req.Date, req.Time, bucket.Name))
	defer lock.Unlock()

	tx := s.db.Begin()
	if tx.Error != nil {
		return nil, errs.Transient("create reservation", tx.Error)
	}

	var count int
	err = tx.Model(&models.Reservation{}).
		Where("reservation_date = ? AND time = ? AND party_size >= ? AND party_size <= ? AND status <> ?",
			req.Date, req.Time, bucket.MinParty, bucket.MaxParty, models.ReservationStatusCancelled).
		Count(&count).Error
	if err != nil {
		tx.Rollback()
		return nil, errs.Transient("create reservation", err)
	}
	if count >= bucket.Tables {
		tx.Rollback()
		return nil, s.capacityConflict(req.Date, req.Time, req.PartySize)
	}

	resv := models.Reservation{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ReservationDate: req.Date,
		Time:            req.Time,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
		Occasion:        req.Occasion,
		Status:          models.ReservationStatusPending,
	}
	if err := tx.Create(&resv).Error; err != nil {
		tx.Rollback()
		return nil, errs.Transient("create reservation", err)
	}
	if err := tx.Commit().Error; err != nil {
		return nil, errs.Transient("create reservation", err)
	}

	s.publish(ctx, events.TypeReservationCreated, &resv)
	return &resv, nil
}

// capacityConflict builds the conflict error carrying alternatives for
// the same day.
func (s *Service) capacityConflict(date, slot string, partySize int) error {
	conflict := &errs.CapacityConflictError{Date: date, Time: slot}
	if res, err := s.checker.Check(date, slot, partySize); err == nil && !res.Available {
		conflict.Alternatives = res.Alternatives
	}
	return conflict
}

// Get loads one reservation by ID.
func (s *Service) Get(id uint) (*models.Reservation, error) {
	var resv models.Reservation
	if err := s.db.First(&resv, id).Error; err != nil {
		if gorm.IsRecordNotFoundError(err) {
			return nil, errs.NotFound("reservation", strconv.FormatUint(uint64(id), 10))
		}
		return nil, errs.Transient("get reservation", err)
	}
	return &resv, nil
}

// List returns reservations, optionally filtered to one date, soonest
// slot first.
func (s *Service) List(date string) ([]models.Reservation, error) {
	query := s.db.Order("reservation_date, time")
	if date != "" {
		query = query.Where("reservation_date = ?", date)
	}

	var reservations []models.Reservation
	if err := query.Find(&reservations).Error; err != nil {
		return nil, errs.Transient("list reservations", err)
	}
	return reservations, nil
}

// UpdateRequest carries a partial update; nil fields are left alone.
type UpdateRequest struct {
	CustomerName    *string `json:"customer_name"`
	CustomerEmail   *string `json:"customer_email"`
	CustomerPhone   *string `json:"customer_phone"`
	Date            *string `json:"date"`
	Time            *string `json:"time"`
	PartySize       *int    `json:"party_size"`
	SpecialRequests *string `json:"special_requests"`
	Occasion        *string `json:"occasion"`
}

// Update applies a partial update while the reservation is not
// terminal. Moving the reservation to a new slot or party size
// re-validates availability against the new slot, excluding the
// reservation's own row from the count.
func (s *Service) Update(ctx context.Context, id uint, req UpdateRequest) (*models.Reservation, error) {
	resv, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if resv.Status.Terminal() {
		return nil, &errs.StateConflictError{Entity: "reservation", From: string(resv.Status), To: string(resv.Status)}
	}

	newDate, newTime, newParty := resv.ReservationDate, resv.Time, resv.PartySize
	if req.Date != nil {
		newDate = *req.Date
	}
	if req.Time != nil {
		newTime = *req.Time
	}
	if req.PartySize != nil {
		newParty = *req.PartySize
	}

	slotChanged := newDate != resv.ReservationDate || newTime != resv.Time || newParty != resv.PartySize
	if slotChanged {
		bucket, err := s.capacity.BucketFor(newParty)
		if err != nil {
			return nil, err
		}
		if err := s.checker.ValidateSlot(newDate, newTime); err != nil {
			return nil, err
		}

		lock := s.locks.acquire(slotKey(newDate, newTime, bucket.Name))
		defer lock.Unlock()

		count, err := s.CountActive(newDate, newTime, bucket.MinParty, bucket.MaxParty, resv.ID)
		if err != nil {
			return nil, errs.Transient("update reservation", err)
		}
		if count >= bucket.Tables {
			conflict := &errs.CapacityConflictError{Date: newDate, Time: newTime}
			if res, cerr := s.checker.CheckExcluding(newDate, newTime, newParty, resv.ID); cerr == nil && !res.Available {
				conflict.Alternatives = res.Alternatives
			}
			return nil, conflict
		}
	}

	resv.ReservationDate = newDate
	resv.Time = newTime
	resv.PartySize = newParty
	if req.CustomerName != nil {
		resv.CustomerName = *req.CustomerName
	}
	if req.CustomerEmail != nil {
		resv.CustomerEmail = *req.CustomerEmail
	}
	if req.CustomerPhone != nil {
		resv.CustomerPhone = *req.CustomerPhone
	}
	if req.SpecialRequests != nil {
		resv.SpecialRequests = *req.SpecialRequests
	}
	if req.Occasion != nil {
		resv.Occasion = *req.Occasion
	}
	if err := validateContact(resv.CustomerName, resv.CustomerEmail); err != nil {
		return nil, err
	}

	if err := s.db.Save(resv).Error; err != nil {
		return nil, errs.Transient("update reservation", err)
	}

	s.publish(ctx, events.TypeReservationUpdated, resv)
	return resv, nil
}

// Transition moves a reservation to a new status, rejecting anything
// outside the transition table.
func (s *Service) Transition(ctx context.Context, id uint, to models.ReservationStatus) (*models.Reservation, error) {
	if !to.Valid() {
		return nil, errs.Validation("status", "unknown reservation status")
	}

	resv, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if !resv.Status.CanTransitionTo(to) {
		return nil, &errs.StateConflictError{Entity: "reservation", From: string(resv.Status), To: string(to)}
	}

	if err := s.db.Model(resv).Update("status", to).Error; err != nil {
		return nil, errs.Transient("update reservation status", err)
	}
	resv.Status = to

	s.publish(ctx, events.TypeReservationStatusChanged, resv)
	return resv, nil
}

// Cancel is the terminal cancellation transition. Also used as the
// compensating action when order creation fails after a dine-in
// reservation was already created.
func (s *Service) Cancel(ctx context.Context, id uint) error {
	_, err := s.Transition(ctx, id, models.ReservationStatusCancelled)
	return err
}

// CheckAvailability runs the advisory availability check.
func (s *Service) CheckAvailability(date, slot string, partySize int) (*booking.Result, error) {
	return s.checker.Check(date, slot, partySize)
}

func (s *Service) publish(ctx context.Context, eventType string, resv *models.Reservation) {
	// Event delivery must not fail the state change.
	_ = s.pub.Publish(ctx, events.Event{
		Type:     eventType,
		Entity:   "reservation",
		EntityID: resv.ID,
		Status:   string(resv.Status),
		At:       time.Now().UTC(),
	})
}
