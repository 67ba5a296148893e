package calendar

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"relcal/daterange"
	"relcal/internal/model"
)

// WeeksOfYear lists every week of year, numbered from 1, whose Sunday falls
// on or before December 31st. Week 1 may start in the previous December.
func WeeksOfYear(year int) ([]model.Week, error) {
	first, err := daterange.StartDateOfWeek(year, 1)
	if err != nil {
		return nil, err
	}
	last := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   first,
		Until:     last,
		Byweekday: []rrule.Weekday{rrule.SU},
	})
	if err != nil {
		return nil, fmt.Errorf("weeks of %d: %w", year, err)
	}

	starts := rule.All()
	weeks := make([]model.Week, 0, len(starts))
	for i, start := range starts {
		weeks = append(weeks, model.Week{
			Year:   year,
			Number: i + 1,
			Start:  start.UTC(),
			End:    start.UTC().AddDate(0, 0, 6),
		})
	}
	return weeks, nil
}

// Week returns week of year as a model.Week.
func Week(year, week int) (model.Week, error) {
	start, err := daterange.StartDateOfWeek(year, week)
	if err != nil {
		return model.Week{}, err
	}
	end, err := daterange.EndDateOfWeek(year, week)
	if err != nil {
		return model.Week{}, err
	}
	return model.Week{Year: year, Number: week, Start: start, End: end}, nil
}

// WeekOf returns the year and week number whose Sunday-to-Saturday span
// contains t's date. A late-December date that already belongs to next
// year's week 1 reports next year.
func WeekOf(t time.Time) (year, week int, err error) {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	year = day.Year()

	if year < daterange.MaxTime.Year() {
		next, err := daterange.StartDateOfWeek(year+1, 1)
		if err == nil && !day.Before(next) {
			return year + 1, 1, nil
		}
	}

	first, err := daterange.StartDateOfWeek(year, 1)
	if err != nil {
		return 0, 0, err
	}
	days := int(day.Sub(first) / (24 * time.Hour))
	return year, days/7 + 1, nil
}
