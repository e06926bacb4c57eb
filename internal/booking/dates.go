package booking

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used on every boundary of the
// service: API parameters, stored rows and payment metadata all carry
// dates as YYYY-MM-DD strings with no time-of-day component.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD string into a UTC time at midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidRange, s)
	}
	return t, nil
}

// ValidateRange parses both dates and enforces start < end. A zero or
// negative-length stay can never be bookable, so equal or inverted
// dates are rejected with ErrInvalidRange.
func ValidateRange(startDate, endDate string) error {
	start, err := ParseDate(startDate)
	if err != nil {
		return err
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return err
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start %s must be before end %s", ErrInvalidRange, startDate, endDate)
	}
	return nil
}

// Overlaps reports whether two date ranges conflict under the
// inclusive-boundary rule: a_start <= b_end AND a_end >= b_start.
// Shared boundary dates count as conflicting, so a check-in on another
// stay's check-out day is a conflict. YYYY-MM-DD strings order
// lexicographically the same as chronologically, which lets the
// comparison run on the raw strings.
func Overlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart <= bEnd && aEnd >= bStart
}

// Nights returns the number of whole days between two valid dates.
// Both dates must have passed ValidateRange first.
func Nights(startDate, endDate string) int {
	start, _ := ParseDate(startDate)
	end, _ := ParseDate(endDate)
	return int(end.Sub(start).Hours() / 24)
}
