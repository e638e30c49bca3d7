package freshness

import (
	"fmt"
	"math"
	"time"
)

const ShelfExpired = "expired"

// HoursLeft rounds the remaining time up to whole hours.
func HoursLeft(deadline, now time.Time) int {
	return int(math.Ceil(deadline.Sub(now).Hours()))
}

// ShelfLabel is the short remaining-time label shown on the storage shelf.
func ShelfLabel(deadline, now time.Time) string {
	hours := HoursLeft(deadline, now)
	if hours <= 0 {
		return ShelfExpired
	}
	if hours > 24 {
		return fmt.Sprintf("%dd", hours/24)
	}
	return fmt.Sprintf("%dh", hours)
}
