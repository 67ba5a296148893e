package daterange

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrUnknownKind is returned for range names that have no calculator.
var ErrUnknownKind = errors.New("daterange: unknown range kind")

// Kind names a relative range.
type Kind string

const (
	Yesterday     Kind = "yesterday"
	PastWeek      Kind = "past_week"
	LastWeek      Kind = "last_week"
	LastTwoWeeks  Kind = "last_two_weeks"
	LastFourWeeks Kind = "last_four_weeks"
	MonthToDate   Kind = "month_to_date"
	LastMonth     Kind = "last_month"
	LastYear      Kind = "last_year"
	YearToDate    Kind = "year_to_date"
)

var kinds = []Kind{
	Yesterday,
	PastWeek,
	LastWeek,
	LastTwoWeeks,
	LastFourWeeks,
	MonthToDate,
	LastMonth,
	LastYear,
	YearToDate,
}

// Kinds returns every supported kind in a stable order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind normalizes s ("Last-Week", " last week ") to a known Kind.
func ParseKind(s string) (Kind, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "_", " ", "_").Replace(norm)
	for _, k := range kinds {
		if string(k) == norm {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Compute dispatches to the calculator method for kind.
func (c *Calculator) Compute(kind Kind, offset time.Duration, ref *time.Time) (Range, error) {
	var fn func(time.Duration, *time.Time) Range
	switch kind {
	case Yesterday:
		fn = c.YesterdayUTC
	case PastWeek:
		fn = c.PastWeekUTC
	case LastWeek:
		fn = c.LastWeekUTC
	case LastTwoWeeks:
		fn = c.LastTwoWeeksUTC
	case LastFourWeeks:
		fn = c.LastFourWeeksUTC
	case MonthToDate:
		fn = c.MonthToDateUTC
	case LastMonth:
		fn = c.LastMonthUTC
	case LastYear:
		fn = c.LastYearUTC
	case YearToDate:
		fn = c.YearToDateUTC
	default:
		return Range{}, fmt.Errorf("%w: %q", ErrUnknownKind, string(kind))
	}
	return fn(offset, ref), nil
}
