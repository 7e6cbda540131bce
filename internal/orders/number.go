package orders

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateOrderNumber derives a unique order number from the creation
// timestamp plus a random suffix. The unique index on orders catches
// the rare same-second collision; callers retry with a fresh suffix.
func GenerateOrderNumber(now time.Time) string {
	return fmt.Sprintf("TB-%s-%04d", now.Format("20060102-150405"), rand.Intn(10000))
}
