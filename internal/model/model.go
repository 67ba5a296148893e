package model

import (
	"time"

	"relcal/daterange"
)

// localLayout is used for wall-clock values that carry no zone.
const localLayout = "2006-01-02T15:04:05.000"

// Window is the external view of a computed range, shared by the CLI, the
// HTTP API and the iCalendar export.
type Window struct {
	// Name is the range kind or report name that produced the window.
	Name string `json:"name"`

	// Begin / End are the inclusive UTC bounds.
	Begin time.Time `json:"begin"`
	End   time.Time `json:"end"`

	// Offset is the caller's offset from UTC, formatted as ±HH:MM.
	Offset string `json:"offset"`

	// LocalBegin / LocalEnd are the bounds on the caller's wall clock.
	LocalBegin string `json:"local_begin"`
	LocalEnd   string `json:"local_end"`
}

// FromRange converts a fully bounded range. Absent bounds become zero times.
func FromRange(name string, r daterange.Range) Window {
	w := Window{Name: name}
	if r.Offset != nil {
		w.Offset = daterange.FormatOffset(*r.Offset)
	}
	local := r.Localize()
	if r.Begin != nil {
		w.Begin = r.Begin.UTC()
		w.LocalBegin = local.Begin.Format(localLayout)
	}
	if r.End != nil {
		w.End = r.End.UTC()
		w.LocalEnd = local.End.Format(localLayout)
	}
	return w
}

// Week describes one Sunday-to-Saturday week of a year.
type Week struct {
	Year   int       `json:"year"`
	Number int       `json:"week"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

// Run is a single scheduled firing of a report and the window it covers.
type Run struct {
	Report string    `json:"report"`
	Kind   string    `json:"kind"`
	At     time.Time `json:"at"`
	Window Window    `json:"window"`
}
