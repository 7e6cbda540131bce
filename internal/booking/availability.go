package booking

import (
	"fmt"
	"sort"
	"time"

	"tablebay/internal/errs"
)

const (
	// DateLayout is the wire format for reservation dates.
	DateLayout = "2006-01-02"
	// TimeLayout is the wire format for reservation time slots.
	TimeLayout = "15:04"

	openingHour  = 16
	slotMinutes  = 30
	minLeadTime  = 2 * time.Hour
	bookingAhead = 90 * 24 * time.Hour
	maxAlternatives = 3
)

// closingHour returns the last serving hour for a weekday: 23:00
// Mon-Thu, midnight Fri-Sat, 22:00 Sun. Slots run strictly before it.
func closingHour(day time.Weekday) int {
	switch day {
	case time.Friday, time.Saturday:
		return 24
	case time.Sunday:
		return 22
	default:
		return 23
	}
}

// DaySlots returns every bookable slot for a date, from opening in
// 30-minute steps up to but excluding closing.
func DaySlots(date string) ([]string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return nil, errs.Validation("date", "must be formatted YYYY-MM-DD")
	}
	closing := closingHour(d.Weekday()) * 60

	var slots []string
	for m := openingHour * 60; m < closing; m += slotMinutes {
		slots = append(slots, fmt.Sprintf("%02d:%02d", m/60, m%60))
	}
	return slots, nil
}

// Counter counts non-cancelled reservations for a slot within a party
// size range. excludeID skips one reservation's own row so updates do
// not count themselves; zero excludes nothing.
type Counter interface {
	CountActive(date, slot string, minParty, maxParty int, excludeID uint) (int, error)
}

// Result is the outcome of an availability check.
type Result struct {
	Available         bool     `json:"available"`
	CapacityRemaining int      `json:"capacity_remaining"`
	Alternatives      []string `json:"alternatives,omitempty"`
}

// Checker answers whether a slot still has a free table in the bucket
// matching a party size. It is advisory at read time; creation re-runs
// the same count inside its critical section.
type Checker struct {
	capacity CapacityConfig
	counter  Counter
	now      func() time.Time
}

// NewChecker builds a Checker over the given capacity and counter.
func NewChecker(capacity CapacityConfig, counter Counter) *Checker {
	return &Checker{capacity: capacity, counter: counter, now: time.Now}
}

// SetClock overrides the clock used for booking-window checks.
func (c *Checker) SetClock(now func() time.Time) {
	c.now = now
}

// ValidateSlot checks that (date, slot) parses, is a bookable slot for
// that day, and falls inside the booking window: no sooner than two
// hours from now and no further out than ninety days.
func (c *Checker) ValidateSlot(date, slot string) error {
	slots, err := DaySlots(date)
	if err != nil {
		return err
	}
	if _, err := time.Parse(TimeLayout, slot); err != nil {
		return errs.Validation("time", "must be formatted HH:MM")
	}

	valid := false
	for _, s := range slots {
		if s == slot {
			valid = true
			break
		}
	}
	if !valid {
		return errs.Validation("time", "not a bookable time slot for that day")
	}

	at, err := time.ParseInLocation(DateLayout+" "+TimeLayout, date+" "+slot, time.Local)
	if err != nil {
		return errs.Validation("date", "invalid date/time")
	}
	now := c.now()
	if at.Before(now.Add(minLeadTime)) {
		return errs.Validation("date", "reservations need at least 2 hours notice")
	}
	if at.After(now.Add(bookingAhead)) {
		return errs.Validation("date", "reservations open 90 days ahead at most")
	}
	return nil
}

// Check reports whether the bucket for partySize has a free table at
// (date, slot). When full, it proposes up to three alternative slots
// for the same day, nearest to the requested time first.
func (c *Checker) Check(date, slot string, partySize int) (*Result, error) {
	return c.CheckExcluding(date, slot, partySize, 0)
}

// CheckExcluding is Check with one reservation's own row left out of
// the counts, used when moving an existing reservation to a new slot.
func (c *Checker) CheckExcluding(date, slot string, partySize int, excludeID uint) (*Result, error) {
	bucket, err := c.capacity.BucketFor(partySize)
	if err != nil {
		return nil, err
	}
	if err := c.ValidateSlot(date, slot); err != nil {
		return nil, err
	}

	count, err := c.counter.CountActive(date, slot, bucket.MinParty, bucket.MaxParty, excludeID)
	if err != nil {
		return nil, errs.Transient("availability count", err)
	}

	remaining := bucket.Tables - count
	if remaining > 0 {
		return &Result{Available: true, CapacityRemaining: remaining}, nil
	}

	alternatives, err := c.alternatives(date, slot, bucket, excludeID)
	if err != nil {
		return nil, err
	}
	return &Result{Available: false, CapacityRemaining: 0, Alternatives: alternatives}, nil
}

// alternatives scans the day's other slots and returns up to three with
// remaining bucket capacity, ordered by distance from the requested
// time, earlier slot winning ties.
func (c *Checker) alternatives(date, requested string, bucket Bucket, excludeID uint) ([]string, error) {
	slots, err := DaySlots(date)
	if err != nil {
		return nil, err
	}
	want, err := time.Parse(TimeLayout, requested)
	if err != nil {
		return nil, errs.Validation("time", "must be formatted HH:MM")
	}

	type candidate struct {
		slot     string
		distance time.Duration
	}
	var candidates []candidate
	for _, s := range slots {
		if s == requested {
			continue
		}
		at, _ := time.Parse(TimeLayout, s)
		d := at.Sub(want)
		if d < 0 {
			d = -d
		}
		candidates = append(candidates, candidate{slot: s, distance: d})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].distance != candidates[j].distance {
			return candidates[i].distance < candidates[j].distance
		}
		return candidates[i].slot < candidates[j].slot
	})

	var alternatives []string
	for _, cand := range candidates {
		count, err := c.counter.CountActive(date, cand.slot, bucket.MinParty, bucket.MaxParty, excludeID)
		if err != nil {
			return nil, errs.Transient("availability count", err)
		}
		if count < bucket.Tables {
			alternatives = append(alternatives, cand.slot)
			if len(alternatives) == maxAlternatives {
				break
			}
		}
	}
	return alternatives, nil
}
