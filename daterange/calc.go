package daterange

import "time"

// Clock returns the current instant.
type Clock func() time.Time

// Calculator computes ranges relative to a reference instant. Each method
// takes the caller's offset from UTC and an optional reference; a nil
// reference reads the calculator's clock.
//
// Boundaries are found on the local wall clock (reference + offset) and then
// shifted back to UTC, so month, week, and year starts follow the caller's
// calendar rather than UTC's.
type Calculator struct {
	Now Clock
}

// Default reads the system clock.
var Default = NewCalculator(nil)

// NewCalculator returns a Calculator that reads now. A nil now uses the
// system clock in UTC.
func NewCalculator(now Clock) *Calculator {
	return &Calculator{Now: now}
}

func (c *Calculator) now() time.Time {
	if c == nil || c.Now == nil {
		return time.Now().UTC()
	}
	return c.Now()
}

// local returns the reference instant as a local wall-clock value in UTC.
func (c *Calculator) local(offset time.Duration, ref *time.Time) time.Time {
	now := c.now()
	if ref != nil {
		now = *ref
	}
	return now.UTC().Add(offset)
}

// localRange shifts local boundaries back to UTC.
func localRange(begin, end time.Time, offset time.Duration) Range {
	return New(begin.Add(-offset), end.Add(-offset), offset)
}

// YesterdayUTC covers the whole previous local day.
func (c *Calculator) YesterdayUTC(offset time.Duration, ref *time.Time) Range {
	begin := StartOfDay(c.local(offset, ref).AddDate(0, 0, -1))
	return localRange(begin, EndOfDay(begin), offset)
}

// PastWeekUTC covers the seven local days ending yesterday.
func (c *Calculator) PastWeekUTC(offset time.Duration, ref *time.Time) Range {
	now := c.local(offset, ref)
	begin := StartOfDay(now.AddDate(0, 0, -7))
	yesterday := StartOfDay(now.AddDate(0, 0, -1))
	return localRange(begin, EndOfDay(yesterday), offset)
}

// LastWeekUTC covers the most recent full Sunday-to-Saturday week.
func (c *Calculator) LastWeekUTC(offset time.Duration, ref *time.Time) Range {
	return c.weeks(1, 1, offset, ref)
}

// LastTwoWeeksUTC covers the two most recent full Sunday-to-Saturday weeks.
func (c *Calculator) LastTwoWeeksUTC(offset time.Duration, ref *time.Time) Range {
	return c.weeks(2, 1, offset, ref)
}

// LastFourWeeksUTC covers the four most recent full Sunday-to-Saturday weeks.
func (c *Calculator) LastFourWeeksUTC(offset time.Duration, ref *time.Time) Range {
	return c.weeks(4, 1, offset, ref)
}

func (c *Calculator) weeks(startWeeksAgo, endWeeksAgo int, offset time.Duration, ref *time.Time) Range {
	today := StartOfDay(c.local(offset, ref))
	return localRange(startOfWeekAgo(today, startWeeksAgo), endOfWeekAgo(today, endWeeksAgo), offset)
}

// startOfWeekAgo walks back from today-7*weeksAgo days to the nearest Sunday.
func startOfWeekAgo(today time.Time, weeksAgo int) time.Time {
	start := today.AddDate(0, 0, -daysInWeek*weeksAgo)
	for start.Weekday() != time.Sunday {
		start = start.AddDate(0, 0, -1)
	}
	return start
}

// endOfWeekAgo walks forward from today-7*weeksAgo days to the nearest
// Saturday and returns its last millisecond.
func endOfWeekAgo(today time.Time, weeksAgo int) time.Time {
	end := today.AddDate(0, 0, -daysInWeek*weeksAgo)
	for end.Weekday() != time.Saturday {
		end = end.AddDate(0, 0, 1)
	}
	return EndOfDay(end)
}

// MonthToDateUTC runs from the first of the local month to the reference.
func (c *Calculator) MonthToDateUTC(offset time.Duration, ref *time.Time) Range {
	now := c.local(offset, ref)
	begin := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return localRange(begin, now, offset)
}

// LastMonthUTC covers the previous local calendar month.
func (c *Calculator) LastMonthUTC(offset time.Duration, ref *time.Time) Range {
	now := c.local(offset, ref)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return localRange(month.AddDate(0, -1, 0), EndOfDay(month.AddDate(0, 0, -1)), offset)
}

// LastYearUTC covers the previous local calendar year.
func (c *Calculator) LastYearUTC(offset time.Duration, ref *time.Time) Range {
	now := c.local(offset, ref)
	year := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return localRange(year.AddDate(-1, 0, 0), EndOfDay(year.AddDate(0, 0, -1)), offset)
}

// YearToDateUTC runs from January 1st of the local year to the reference.
func (c *Calculator) YearToDateUTC(offset time.Duration, ref *time.Time) Range {
	now := c.local(offset, ref)
	begin := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	return localRange(begin, now, offset)
}

func YesterdayUTC(offset time.Duration, ref *time.Time) Range {
	return Default.YesterdayUTC(offset, ref)
}

func PastWeekUTC(offset time.Duration, ref *time.Time) Range {
	return Default.PastWeekUTC(offset, ref)
}

func LastWeekUTC(offset time.Duration, ref *time.Time) Range {
	return Default.LastWeekUTC(offset, ref)
}

func LastTwoWeeksUTC(offset time.Duration, ref *time.Time) Range {
	return Default.LastTwoWeeksUTC(offset, ref)
}

func LastFourWeeksUTC(offset time.Duration, ref *time.Time) Range {
	return Default.LastFourWeeksUTC(offset, ref)
}

func MonthToDateUTC(offset time.Duration, ref *time.Time) Range {
	return Default.MonthToDateUTC(offset, ref)
}

func LastMonthUTC(offset time.Duration, ref *time.Time) Range {
	return Default.LastMonthUTC(offset, ref)
}

func LastYearUTC(offset time.Duration, ref *time.Time) Range {
	return Default.LastYearUTC(offset, ref)
}

func YearToDateUTC(offset time.Duration, ref *time.Time) Range {
	return Default.YearToDateUTC(offset, ref)
}
