package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestStartDateOfWeek(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		year, week int
		want       time.Time
	}{
		{"first week starts in previous year", 2015, 1, date(2014, time.December, 28)},
		{"middle of year", 2014, 30, date(2014, time.July, 20)},
		{"last week of year", 2014, 52, date(2014, time.December, 21)},
		{"january first is sunday", 2017, 1, date(2017, time.January, 1)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := StartDateOfWeek(tc.year, tc.week)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
			require.Equal(t, time.Sunday, got.Weekday())
		})
	}
}

func TestEndDateOfWeek(t *testing.T) {
	t.Parallel()

	cases := []struct {
		year, week int
		want       time.Time
	}{
		{2015, 1, date(2015, time.January, 3)},
		{2014, 30, date(2014, time.July, 26)},
		{2014, 52, date(2014, time.December, 27)},
	}
	for _, tc := range cases {
		got, err := EndDateOfWeek(tc.year, tc.week)
		require.NoError(t, err)
		require.Equal(t, tc.want, got)
	}
}

func TestEndDateOfWeekIsSixDaysAfterStart(t *testing.T) {
	t.Parallel()

	for year := 1990; year <= 2030; year++ {
		for week := 1; week <= 53; week++ {
			start, err := StartDateOfWeek(year, week)
			require.NoError(t, err)
			end, err := EndDateOfWeek(year, week)
			require.NoError(t, err)
			require.Equal(t, start.AddDate(0, 0, 6), end, "year %d week %d", year, week)
			require.Equal(t, time.Saturday, end.Weekday())
		}
	}
}

func TestStartDateOfWeekOutOfRange(t *testing.T) {
	t.Parallel()

	for _, year := range []int{0, -5, 10000} {
		_, err := StartDateOfWeek(year, 1)
		require.ErrorIs(t, err, ErrOutOfRange, "year %d", year)
	}

	// 0001-01-01 is a Monday, so week 1 would start in year 0.
	_, err := StartDateOfWeek(1, 1)
	require.ErrorIs(t, err, ErrOutOfRange)

	_, err = EndDateOfWeek(9999, 53)
	require.ErrorIs(t, err, ErrOutOfRange)
}

func TestStartOfWeek(t *testing.T) {
	t.Parallel()

	thursday := time.Date(2014, time.October, 23, 15, 4, 5, 0, time.UTC)
	require.Equal(t, date(2014, time.October, 19), StartOfWeek(thursday, time.Sunday))
	require.Equal(t, date(2014, time.October, 18), StartOfWeek(thursday, time.Saturday))

	sunday := date(2014, time.October, 19)
	require.Equal(t, sunday, StartOfWeek(sunday, time.Sunday))
}
