package daterange

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidArgument is returned by the Subtract helpers for negative amounts.
var ErrInvalidArgument = errors.New("daterange: invalid argument")

// StartOfDay truncates t to midnight, keeping its location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last millisecond of the day that starts at startOfDay.
// It does not truncate; pass a value from StartOfDay.
func EndOfDay(startOfDay time.Time) time.Time {
	return startOfDay.AddDate(0, 0, 1).Add(-time.Millisecond)
}

// ThisTimeYesterday returns midnight of the day before t.
func ThisTimeYesterday(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, -1)
}

// Quarter returns the calendar quarter of t, from 1 to 4.
func Quarter(t time.Time) int {
	return (int(t.Month())-1)/3 + 1
}

func negative(n int64) error {
	return fmt.Errorf("%w: value %d cannot be less than 0", ErrInvalidArgument, n)
}

func SubtractYears(t time.Time, n int) (time.Time, error) {
	if n < 0 {
		return time.Time{}, negative(int64(n))
	}
	return t.AddDate(-n, 0, 0), nil
}

func SubtractMonths(t time.Time, n int) (time.Time, error) {
	if n < 0 {
		return time.Time{}, negative(int64(n))
	}
	return t.AddDate(0, -n, 0), nil
}

func SubtractDays(t time.Time, n int) (time.Time, error) {
	if n < 0 {
		return time.Time{}, negative(int64(n))
	}
	return t.AddDate(0, 0, -n), nil
}

func SubtractHours(t time.Time, n int64) (time.Time, error) {
	return subtractUnits(t, n, time.Hour)
}

func SubtractMinutes(t time.Time, n int64) (time.Time, error) {
	return subtractUnits(t, n, time.Minute)
}

func SubtractSeconds(t time.Time, n int64) (time.Time, error) {
	return subtractUnits(t, n, time.Second)
}

func SubtractMilliseconds(t time.Time, n int64) (time.Time, error) {
	return subtractUnits(t, n, time.Millisecond)
}

func subtractUnits(t time.Time, n int64, unit time.Duration) (time.Time, error) {
	if n < 0 {
		return time.Time{}, negative(n)
	}
	return t.Add(-time.Duration(n) * unit), nil
}
