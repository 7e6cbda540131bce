package models

import (
	"github.com/jinzhu/gorm"
)

// Reservation represents a table booking for a given date and time slot.
// Dates are stored as "2006-01-02" strings, times as "15:04".
type Reservation struct {
	gorm.Model
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ReservationDate string `gorm:"index"`
	Time            string
	PartySize       int
	SpecialRequests string
	Occasion        string
	Status          ReservationStatus
}

// ReservationStatus represents the possible states of a reservation
type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "pending"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusSeated    ReservationStatus = "seated"
	ReservationStatusCompleted ReservationStatus = "completed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// reservationTransitions is the closed transition table for reservation
// statuses. Forward jumps are allowed so walk-in style seating can go
// straight from pending to seated.
var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending:   {ReservationStatusConfirmed, ReservationStatusSeated, ReservationStatusCompleted, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusSeated, ReservationStatusCompleted, ReservationStatusCancelled},
	ReservationStatusSeated:    {ReservationStatusCompleted, ReservationStatusCancelled},
}

// Valid reports whether s is a known reservation status.
func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusSeated,
		ReservationStatusCompleted, ReservationStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s ReservationStatus) Terminal() bool {
	return s == ReservationStatusCompleted || s == ReservationStatusCancelled
}

// CanTransitionTo reports whether the transition s -> to is in the table.
func (s ReservationStatus) CanTransitionTo(to ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}
