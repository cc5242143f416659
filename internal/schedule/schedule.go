// Package schedule places outreach outside configured quiet hours.
package schedule

import (
	"slices"
	"time"
)

// NextWindow returns the first hour-aligned step from now whose UTC hour is
// not quiet. When every hour is quiet it falls back to now plus 15 minutes.
func NextWindow(now time.Time, quietHours []int) time.Time {
	for i := 0; i < 48; i++ {
		cand := now.Add(time.Duration(i) * time.Hour)
		if !slices.Contains(quietHours, cand.UTC().Hour()) {
			return cand
		}
	}
	return now.Add(15 * time.Minute)
}
