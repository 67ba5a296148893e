package daterange

import (
	"errors"
	"fmt"
	"time"
)

// ErrOutOfRange is returned when a computed date falls outside
// [MinTime, MaxTime].
var ErrOutOfRange = errors.New("daterange: date out of range")

const daysInWeek = 7

// StartDateOfWeek returns the Sunday that starts week weekOfYear (1-based)
// of year.
//
// Week 1 starts at jan1 shifted by the signed difference between Sunday and
// jan1's weekday, so unless January 1st is a Sunday it starts in December of
// the previous year: week 1 of 2015 begins 2014-12-28.
func StartDateOfWeek(year, weekOfYear int) (time.Time, error) {
	if year < MinTime.Year() || year > MaxTime.Year() {
		return time.Time{}, fmt.Errorf("%w: year %d", ErrOutOfRange, year)
	}
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	firstSunday := jan1.AddDate(0, 0, int(time.Sunday-jan1.Weekday()))

	start := firstSunday.AddDate(0, 0, (weekOfYear-1)*daysInWeek)
	if start.Before(MinTime) || start.After(MaxTime) {
		return time.Time{}, fmt.Errorf("%w: week %d of %d", ErrOutOfRange, weekOfYear, year)
	}
	return start, nil
}

// EndDateOfWeek returns the Saturday that ends week weekOfYear of year.
func EndDateOfWeek(year, weekOfYear int) (time.Time, error) {
	start, err := StartDateOfWeek(year, weekOfYear)
	if err != nil {
		return time.Time{}, err
	}
	end := start.AddDate(0, 0, daysInWeek-1)
	if end.After(MaxTime) {
		return time.Time{}, fmt.Errorf("%w: week %d of %d", ErrOutOfRange, weekOfYear, year)
	}
	return end, nil
}

// StartOfWeek returns midnight of the first day of the week containing t,
// for weeks beginning on startDay.
func StartOfWeek(t time.Time, startDay time.Weekday) time.Time {
	diff := int(t.Weekday() - startDay)
	if diff < 0 {
		diff += daysInWeek
	}
	return StartOfDay(t).AddDate(0, 0, -diff)
}
