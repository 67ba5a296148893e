package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"relcal/daterange"
	"relcal/internal/model"
)

var testNow = time.Date(2014, time.October, 23, 4, 55, 34, 0, time.UTC)

func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	base := []string{
		"-config", filepath.Join(dir, "relcal.yaml"),
		"-env", filepath.Join(dir, "missing.env"),
	}
	var out bytes.Buffer
	calc := daterange.NewCalculator(func() time.Time { return testNow })
	err := run(context.Background(), append(base, args...), &out, calc)
	return out.String(), err
}

func TestRangeText(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "range", "-offset", "-04:00", "yesterday", "last-month")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[0], "NAME"))
	require.Contains(t, lines[1], "2014-10-22T04:00:00.000Z")
	require.Contains(t, lines[1], "2014-10-23T03:59:59.999Z")
	require.Contains(t, lines[2], "last_month")
	require.Contains(t, lines[2], "2014-09-01T04:00:00.000Z")

	// First run writes the default config.
	_, err = os.Stat(filepath.Join(dir, "relcal.yaml"))
	require.NoError(t, err)
}

func TestRangeJSONWithReference(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "range", "-offset", "-4h", "-at", "2014-10-23T04:55:34Z", "-format", "json", "last_four_weeks")
	require.NoError(t, err)

	var windows []model.Window
	require.NoError(t, json.Unmarshal([]byte(out), &windows))
	require.Len(t, windows, 1)
	require.Equal(t, time.Date(2014, time.September, 21, 4, 0, 0, 0, time.UTC), windows[0].Begin)
	require.Equal(t, time.Date(2014, time.October, 19, 3, 59, 59, 999000000, time.UTC), windows[0].End)
}

func TestRangeICSAndRead(t *testing.T) {
	dir := t.TempDir()
	out, err := runCLI(t, dir, "range", "-offset", "-04:00", "-format", "ics", "last_week")
	require.NoError(t, err)
	require.Contains(t, out, "DTSTART:20141012T040000Z")

	path := filepath.Join(dir, "ranges.ics")
	require.NoError(t, os.WriteFile(path, []byte(out), 0o600))

	out, err = runCLI(t, dir, "read", path)
	require.NoError(t, err)
	require.Contains(t, out, "last_week")
	require.Contains(t, out, "2014-10-19T03:59:59.999Z")
	require.Contains(t, out, "-04:00")
}

func TestWeekCommands(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "week", "-year", "2015", "-week", "1")
	require.NoError(t, err)
	require.Contains(t, out, "2014-12-28")
	require.Contains(t, out, "2015-01-03")

	out, err = runCLI(t, dir, "week", "-at", "2014-07-22")
	require.NoError(t, err)
	require.Contains(t, out, "2014-07-20")
	require.Contains(t, out, "30")

	out, err = runCLI(t, dir, "weeks", "-year", "2015")
	require.NoError(t, err)
	require.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 54)

	_, err = runCLI(t, dir, "week", "-year", "2015")
	require.ErrorIs(t, err, errUsage)
}

func TestReportsCommand(t *testing.T) {
	out, err := runCLI(t, t.TempDir(), "reports", "-n", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	require.Contains(t, lines[1], "daily")
	require.Contains(t, lines[1], "2014-10-24T01:00:00Z")
}

func TestKindsAndUsage(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, dir, "kinds")
	require.NoError(t, err)
	require.Equal(t, len(daterange.Kinds()), len(strings.Split(strings.TrimSpace(out), "\n")))

	_, err = runCLI(t, dir)
	require.ErrorIs(t, err, errUsage)
	_, err = runCLI(t, dir, "frobnicate")
	require.ErrorIs(t, err, errUsage)
	_, err = runCLI(t, dir, "range", "tomorrow")
	require.ErrorIs(t, err, daterange.ErrUnknownKind)
	_, err = runCLI(t, dir, "range", "-format", "xml")
	require.ErrorIs(t, err, errUsage)
}
