// Package daterange computes calendar-relative date ranges such as
// yesterday, last week, or year-to-date for a caller's fixed offset from
// UTC, and Sunday-started week numbering.
//
// Instants are UTC. Ranges are closed on both ends with millisecond
// resolution: a day ends at 23:59:59.999 local time, never at the next
// midnight.
//
//	offset := -4 * time.Hour
//	r := daterange.LastWeekUTC(offset, nil)
//	local := r.Localize()
package daterange
