package reservations

import (
	"sync"
	"time"

	"tablebay/internal/booking"
)

// evictThreshold bounds the lock map; past a size of this many entries
// the acquire path sweeps out keys for dates already behind us.
const evictThreshold = 512

// slotLocks hands out one mutex per (date, time, bucket) key so the
// capacity count and the insert run as a single critical section even
// when the database's isolation level cannot guarantee it.
type slotLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
	now   func() time.Time
}

func newSlotLocks() *slotLocks {
	return &slotLocks{locks: make(map[string]*sync.Mutex), now: time.Now}
}

// acquire locks the mutex for key and returns it for unlocking. The
// booking window never admits a date before today, so entries for past
// dates can no longer be contended and are reclaimed once the map
// grows past evictThreshold.
func (l *slotLocks) acquire(key string) *sync.Mutex {
	l.mu.Lock()
	if len(l.locks) > evictThreshold {
		l.evictPastLocked()
	}
	m, ok := l.locks[key]
	if !ok {
		m = &sync.Mutex{}
		l.locks[key] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m
}

// evictPastLocked drops every key whose date component is before
// today. Caller holds l.mu. Keys start with the YYYY-MM-DD date, so a
// lexical compare on the prefix is a date compare.
func (l *slotLocks) evictPastLocked() {
	today := l.now().Format(booking.DateLayout)
	for key := range l.locks {
		if len(key) >= len(today) && key[:len(today)] < today {
			delete(l.locks, key)
		}
	}
}

func slotKey(date, slot, bucket string) string {
	return date + "|" + slot + "|" + bucket
}
