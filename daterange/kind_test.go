package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"last_week", "Last-Week", " last week ", "LAST_WEEK"} {
		k, err := ParseKind(in)
		require.NoError(t, err, in)
		require.Equal(t, LastWeek, k)
	}

	_, err := ParseKind("next_week")
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestComputeDispatchesEveryKind(t *testing.T) {
	t.Parallel()

	ref := testNow
	calc := NewCalculator(nil)
	direct := map[Kind]Range{
		Yesterday:     calc.YesterdayUTC(testOffset, &ref),
		PastWeek:      calc.PastWeekUTC(testOffset, &ref),
		LastWeek:      calc.LastWeekUTC(testOffset, &ref),
		LastTwoWeeks:  calc.LastTwoWeeksUTC(testOffset, &ref),
		LastFourWeeks: calc.LastFourWeeksUTC(testOffset, &ref),
		MonthToDate:   calc.MonthToDateUTC(testOffset, &ref),
		LastMonth:     calc.LastMonthUTC(testOffset, &ref),
		LastYear:      calc.LastYearUTC(testOffset, &ref),
		YearToDate:    calc.YearToDateUTC(testOffset, &ref),
	}
	require.Len(t, Kinds(), len(direct))

	for _, k := range Kinds() {
		got, err := calc.Compute(k, testOffset, &ref)
		require.NoError(t, err, k)
		require.True(t, direct[k].Equal(got), "kind %s", k)
	}

	_, err := calc.Compute(Kind("tomorrow"), testOffset, &ref)
	require.ErrorIs(t, err, ErrUnknownKind)
}

func TestKindsReturnsCopy(t *testing.T) {
	t.Parallel()

	ks := Kinds()
	ks[0] = "mutated"
	require.Equal(t, Yesterday, Kinds()[0])
}

func TestParseOffset(t *testing.T) {
	t.Parallel()

	cases := map[string]time.Duration{
		"":       0,
		"Z":      0,
		"utc":    0,
		"-04:00": -4 * time.Hour,
		"+0530":  5*time.Hour + 30*time.Minute,
		"+09":    9 * time.Hour,
		"-4h":    -4 * time.Hour,
		"5h45m":  5*time.Hour + 45*time.Minute,
	}
	for in, want := range cases {
		got, err := ParseOffset(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	for _, in := range []string{"04:00", "+4:0", "+04:75", "+19:00", "-20h", "soon"} {
		_, err := ParseOffset(in)
		require.ErrorIs(t, err, ErrInvalidOffset, in)
	}
}

func TestFormatOffsetAndZone(t *testing.T) {
	t.Parallel()

	require.Equal(t, "-04:00", FormatOffset(-4*time.Hour))
	require.Equal(t, "+05:30", FormatOffset(5*time.Hour+30*time.Minute))
	require.Equal(t, "+00:00", FormatOffset(0))

	require.Equal(t, time.UTC, Zone(0))
	name, secs := time.Date(2014, 1, 1, 0, 0, 0, 0, Zone(-4*time.Hour)).Zone()
	require.Equal(t, "-04:00", name)
	require.Equal(t, -4*3600, secs)
}
