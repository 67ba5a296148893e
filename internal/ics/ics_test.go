package ics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"relcal/daterange"
	"relcal/internal/model"
)

var testRef = time.Date(2014, time.October, 23, 4, 55, 34, 0, time.UTC)

func testWindows() []model.Window {
	ref := testRef
	offset := -4 * time.Hour
	return []model.Window{
		model.FromRange("yesterday", daterange.YesterdayUTC(offset, &ref)),
		model.FromRange("last_month", daterange.LastMonthUTC(offset, &ref)),
	}
}

func TestExport(t *testing.T) {
	out := Export(testWindows(), testRef)

	require.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	require.Equal(t, 2, strings.Count(out, "BEGIN:VEVENT"))
	require.Contains(t, out, "SUMMARY:yesterday")
	require.Contains(t, out, "DTSTART:20141022T040000Z")
	require.Contains(t, out, "DTEND:20141023T040000Z")
	require.Contains(t, out, "DTSTART:20140901T040000Z")
	require.Contains(t, out, "DTEND:20141001T040000Z")
	require.Contains(t, out, "X-RELCAL-OFFSET:-04:00")
	require.Contains(t, out, "DTSTAMP:20141023T045534Z")
}

func TestExportReadRoundTrip(t *testing.T) {
	want := testWindows()

	got, err := ReadWindows(strings.NewReader(Export(want, testRef)))
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestExclusiveEnd(t *testing.T) {
	endOfDay := time.Date(2014, time.October, 23, 3, 59, 59, 999000000, time.UTC)
	require.Equal(t, time.Date(2014, time.October, 23, 4, 0, 0, 0, time.UTC), exclusiveEnd(endOfDay))

	mid := time.Date(2014, time.October, 23, 4, 55, 34, 0, time.UTC)
	require.Equal(t, time.Date(2014, time.October, 23, 4, 55, 35, 0, time.UTC), exclusiveEnd(mid))
}

func TestReadWindowsSkipsIncompleteEvents(t *testing.T) {
	body := strings.Join([]string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//test//EN",
		"BEGIN:VEVENT",
		"UID:no-end",
		"DTSTART:20141022T040000Z",
		"SUMMARY:broken",
		"END:VEVENT",
		"BEGIN:VEVENT",
		"UID:ok",
		"DTSTART:20141022T040000Z",
		"DTEND:20141023T040000Z",
		"SUMMARY:fine",
		"END:VEVENT",
		"END:VCALENDAR",
		"",
	}, "\r\n")

	got, err := ReadWindows(strings.NewReader(body))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "fine", got[0].Name)
	require.Equal(t, "+00:00", got[0].Offset)
	require.Equal(t, "2014-10-23T03:59:59.999", got[0].LocalEnd)
}

func TestParseTime(t *testing.T) {
	want := time.Date(2014, time.October, 23, 4, 55, 34, 0, time.UTC)
	for _, in := range []string{
		"2014-10-23T04:55:34Z",
		"2014-10-23T00:55:34-04:00",
		"2014-10-23T04:55:34",
		"2014-10-23 04:55:34",
		"20141023T045534Z",
		"20141023T045534",
	} {
		got, err := ParseTime(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	got, err := ParseTime("2014-10-23")
	require.NoError(t, err)
	require.Equal(t, time.Date(2014, time.October, 23, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseTime("20141023")
	require.NoError(t, err)
	require.Equal(t, time.Date(2014, time.October, 23, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseTime("2014-10-23T04:55:34.250")
	require.NoError(t, err)
	require.Equal(t, want.Add(250*time.Millisecond), got)

	for _, in := range []string{"", "yesterday", "2014-13-01"} {
		_, err := ParseTime(in)
		require.Error(t, err, in)
	}
}
