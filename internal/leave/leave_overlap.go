package leave

import (
	"time"

	leaveerrors "go-leave/internal/leave/errors"
)

const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses two YYYY-MM-DD dates as UTC days. The range must hold
// at least one day.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, leaveerrors.ErrInvalidDateFormat
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, leaveerrors.ErrInvalidDateFormat
	}
	r := DateRange{Start: s, End: e}
	if r.Days() <= 0 {
		return DateRange{}, leaveerrors.ErrDateRangeInvalid
	}
	return r, nil
}

// Days is the inclusive day count: Nov 1 to Nov 5 is 5.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Overlaps reports whether the ranges share at least one day.
func (r DateRange) Overlaps(o DateRange) bool {
	return !r.Start.After(o.End) && !o.Start.After(r.End)
}

// AnyOverlap reports whether candidate intersects any of existing.
func AnyOverlap(existing []DateRange, candidate DateRange) bool {
	for _, r := range existing {
		if r.Overlaps(candidate) {
			return true
		}
	}
	return false
}
