package reservations

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"tablebay/internal/booking"
)

func TestSlotLocksEvictPastDates(t *testing.T) {
	locks := newSlotLocks()
	locks.now = func() time.Time {
		return time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	}

	// Fill past the threshold with keys whose dates have all gone by.
	base := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	locks.mu.Lock()
	for i := 0; i <= evictThreshold; i++ {
		date := base.AddDate(0, 0, i).Format(booking.DateLayout)
		locks.locks[slotKey(date, "18:00", "small")] = &sync.Mutex{}
	}
	locks.mu.Unlock()

	future := slotKey("2025-06-01", "18:00", "small")
	m := locks.acquire(future)
	m.Unlock()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Len(t, locks.locks, 1, "stale date keys should be reclaimed")
	assert.Contains(t, locks.locks, future)
}

func TestSlotLocksKeepCurrentDates(t *testing.T) {
	locks := newSlotLocks()
	locks.now = func() time.Time {
		return time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	}

	today := slotKey("2025-05-20", "18:00", "small")
	locks.mu.Lock()
	locks.locks[today] = &sync.Mutex{}
	for i := 0; i <= evictThreshold; i++ {
		date := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i).Format(booking.DateLayout)
		locks.locks[slotKey(date, "18:00", "small")] = &sync.Mutex{}
	}
	locks.mu.Unlock()

	m := locks.acquire(today)
	m.Unlock()

	locks.mu.Lock()
	defer locks.mu.Unlock()
	assert.Contains(t, locks.locks, today, "today's key must survive the sweep")
}
