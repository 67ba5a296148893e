package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"relcal/daterange"
	appLog "relcal/internal/log"
	"relcal/internal/model"
)

// ReadWindows parses a VCALENDAR produced by Export back into windows.
//
// End is recovered as DTEND - 1ms, so only ranges that end on a whole
// second minus one millisecond (every day, week, month and year boundary)
// round-trip exactly. VEVENTs without DTSTART or DTEND are skipped.
func ReadWindows(r io.Reader) ([]model.Window, error) {
	cal, err := ical.ParseCalendar(r)
	if err != nil {
		return nil, fmt.Errorf("parse calendar: %w", err)
	}

	windows := make([]model.Window, 0)
	for _, ve := range cal.Events() {
		w, err := readEvent(ve)
		if err != nil {
			uid := ""
			if p := ve.GetProperty(ical.ComponentPropertyUniqueId); p != nil {
				uid = p.Value
			}
			appLog.Warn("ics vevent skipped", "uid", uid, "reason", err.Error())
			continue
		}
		windows = append(windows, w)
	}
	return windows, nil
}

func readEvent(ve *ical.VEvent) (model.Window, error) {
	start, err := ve.GetStartAt()
	if err != nil {
		return model.Window{}, err
	}
	end, err := ve.GetEndAt()
	if err != nil {
		return model.Window{}, err
	}

	var name string
	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		name = p.Value
	}

	var offset time.Duration
	if p := ve.GetProperty(PropertyOffset); p != nil {
		offset, err = daterange.ParseOffset(p.Value)
		if err != nil {
			return model.Window{}, err
		}
	}

	rng := daterange.New(start.UTC(), end.UTC().Add(-time.Millisecond), offset)
	return model.FromRange(name, rng), nil
}

// ParseTime parses a reference instant. Accepted forms:
//
//   - RFC 3339, with or without fractional seconds
//   - 2006-01-02T15:04:05[.000] and 2006-01-02 15:04:05, read as UTC
//   - 2006-01-02, read as UTC midnight
//   - iCalendar 20060102T150405Z, 20060102T150405 and 20060102, read as UTC
//
// The result is always in UTC.
func ParseTime(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, errors.New("empty time value")
	}

	if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
		return t.UTC(), nil
	}

	layouts := []string{
		"2006-01-02T15:04:05.999999999",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02",
		"20060102T150405Z",
		"20060102T150405",
		"20060102",
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", v)
}
