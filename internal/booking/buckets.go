// Package booking implements table-capacity logic: party-size buckets,
// the valid time slots per day of week, the booking window, and the
// advisory availability check. The authoritative check is re-run inside
// reservation creation.
package booking

import (
	"tablebay/internal/errs"
)

// MaxPartySize is the largest party bookable online. Bigger groups must
// phone the restaurant.
const MaxPartySize = 12

// Bucket is a party-size range backed by a fixed pool of tables.
type Bucket struct {
	Name     string
	MinParty int
	MaxParty int
	Tables   int
}

// CapacityConfig holds the table count per bucket.
type CapacityConfig struct {
	SmallTables  int `yaml:"small_tables"`
	MediumTables int `yaml:"medium_tables"`
	LargeTables  int `yaml:"large_tables"`
	XLargeTables int `yaml:"xlarge_tables"`
}

// DefaultCapacity matches the physical floor plan.
var DefaultCapacity = CapacityConfig{
	SmallTables:  6,
	MediumTables: 5,
	LargeTables:  4,
	XLargeTables: 2,
}

// Buckets returns the fixed bucket partition for this capacity config.
func (c CapacityConfig) Buckets() []Bucket {
	return []Bucket{
		{Name: "small", MinParty: 1, MaxParty: 2, Tables: c.SmallTables},
		{Name: "medium", MinParty: 3, MaxParty: 4, Tables: c.MediumTables},
		{Name: "large", MinParty: 5, MaxParty: 6, Tables: c.LargeTables},
		{Name: "xlarge", MinParty: 7, MaxParty: 12, Tables: c.XLargeTables},
	}
}

// BucketFor maps a party size to its bucket. Sizes above MaxPartySize
// or below one are validation errors, never routed to capacity logic.
func (c CapacityConfig) BucketFor(partySize int) (Bucket, error) {
	if partySize < 1 {
		return Bucket{}, errs.Validation("party_size", "must be at least 1")
	}
	if partySize > MaxPartySize {
		return Bucket{}, errs.Validation("party_size", "parties larger than 12 must contact the restaurant directly")
	}
	for _, b := range c.Buckets() {
		if partySize >= b.MinParty && partySize <= b.MaxParty {
			return b, nil
		}
	}
	return Bucket{}, errs.Validation("party_size", "no table bucket for this party size")
}
