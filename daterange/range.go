package daterange

import (
	"errors"
	"time"
)

var (
	// MinTime is the earliest instant a Range bound can hold.
	MinTime = time.Date(1, time.January, 1, 0, 0, 0, 0, time.UTC)
	// MaxTime is the latest instant a Range bound can hold.
	MaxTime = time.Date(9999, time.December, 31, 23, 59, 59, 999999900, time.UTC)
)

// ErrMissingBound is returned when an operation needs both bounds of a Range.
var ErrMissingBound = errors.New("daterange: range bound is missing")

// Range is a closed-closed span of instants in UTC, optionally tagged with the
// offset from UTC that was used to compute it.
//
// A nil Begin or End means the bound is absent. Offset is carried only so the
// range can later be localized; it does not participate in equality.
type Range struct {
	Begin  *time.Time
	End    *time.Time
	Offset *time.Duration
}

// Unbounded returns the range covering every representable instant.
func Unbounded() Range {
	begin, end := MinTime, MaxTime
	return Range{Begin: &begin, End: &end}
}

// New returns a range with both bounds set and the given offset attached.
func New(begin, end time.Time, offset time.Duration) Range {
	return Range{Begin: &begin, End: &end, Offset: &offset}
}

// Equal reports whether r and other have the same bounds. Offsets are ignored.
func (r Range) Equal(other Range) bool {
	return sameInstant(r.Begin, other.Begin) && sameInstant(r.End, other.End)
}

func sameInstant(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// Difference returns End - Begin. Like time.Time.Sub, the result saturates at
// the limits of time.Duration, which the unbounded range exceeds.
func (r Range) Difference() (time.Duration, error) {
	if r.Begin == nil || r.End == nil {
		return 0, ErrMissingBound
	}
	return r.End.Sub(*r.Begin), nil
}

// Localize shifts both bounds forward by the offset, turning UTC instants
// into local wall-clock values. The result carries no offset, so localizing
// twice is a no-op. A range without an offset is returned unchanged.
func (r Range) Localize() Range {
	if r.Offset == nil {
		return r
	}
	var out Range
	if r.Begin != nil {
		b := r.Begin.Add(*r.Offset)
		out.Begin = &b
	}
	if r.End != nil {
		e := r.End.Add(*r.Offset)
		out.End = &e
	}
	return out
}

// Contains reports whether t lies within the range, bounds included.
// An absent bound leaves that side open.
func (r Range) Contains(t time.Time) bool {
	if r.Begin != nil && t.Before(*r.Begin) {
		return false
	}
	if r.End != nil && t.After(*r.End) {
		return false
	}
	return true
}

// Overlaps reports whether the two closed ranges share at least one instant.
func (r Range) Overlaps(other Range) bool {
	if r.End != nil && other.Begin != nil && r.End.Before(*other.Begin) {
		return false
	}
	if other.End != nil && r.Begin != nil && other.End.Before(*r.Begin) {
		return false
	}
	return true
}

func (r Range) String() string {
	return "[" + formatBound(r.Begin) + ", " + formatBound(r.End) + "]"
}

func formatBound(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format("2006-01-02T15:04:05.000Z07:00")
}
