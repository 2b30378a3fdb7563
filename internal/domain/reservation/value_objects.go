package reservation

import (
	"fmt"
	"time"

	"unihaven/internal/pkg/errs"
)

var (
	ErrInvalidStay       = errs.New("end date must be after start date")
	ErrStartBeforeWindow = errs.New("start date is before the accommodation becomes available")
	ErrEndAfterWindow    = errs.New("end date is after the accommodation availability ends")
)

// Stay is a half-open date range [start, end). Dates are calendar dates held at
// midnight UTC; the time component never participates in comparisons.
type Stay struct {
	start time.Time
	end   time.Time
}

func NewStay(start, end time.Time) (Stay, error) {
	start = truncateToDate(start)
	end = truncateToDate(end)
	if !start.Before(end) {
		return Stay{}, ErrInvalidStay
	}
	return Stay{start: start, end: end}, nil
}

func (s Stay) Start() time.Time { return s.start }
func (s Stay) End() time.Time   { return s.end }

func (s Stay) Nights() int {
	return int(s.end.Sub(s.start).Hours() / 24)
}

// Overlaps implements the half-open interval test: [a1,a2) and [b1,b2) overlap
// iff a1 < b2 and b1 < a2.
func (s Stay) Overlaps(other Stay) bool {
	return s.start.Before(other.end) && other.start.Before(s.end)
}

// WithinWindow checks the stay against an accommodation's availability window
// [from, until]. The two bound violations are distinct error conditions so
// callers can report which bound was broken.
func (s Stay) WithinWindow(from, until time.Time) error {
	if s.start.Before(truncateToDate(from)) {
		return ErrStartBeforeWindow
	}
	if s.end.After(truncateToDate(until)) {
		return ErrEndAfterWindow
	}
	return nil
}

// HasEnded reports whether the stay's end date has passed relative to the given
// calendar date.
func (s Stay) HasEnded(today time.Time) bool {
	return !truncateToDate(today).Before(s.end)
}

func (s Stay) String() string {
	return fmt.Sprintf("[%s,%s)", s.start.Format(time.DateOnly), s.end.Format(time.DateOnly))
}

func truncateToDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
