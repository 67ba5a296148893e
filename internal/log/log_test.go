package log

import (
	"bytes"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	now = func() time.Time { return time.Date(2014, time.October, 23, 4, 55, 34, 0, time.UTC) }
	t.Cleanup(func() {
		SetOutput(os.Stderr)
		SetLevel(LevelInfo)
		now = time.Now
	})
	return &buf
}

func TestLineFormat(t *testing.T) {
	buf := capture(t)

	Info("range computed", "kind", "last_week", "offset", "-04:00", "label", "two words")
	require.Equal(t,
		"2014-10-23T04:55:34.000000Z [INFO] range computed kind=last_week offset=-04:00 label=\"two words\"\n",
		buf.String())
}

func TestLevelFiltering(t *testing.T) {
	buf := capture(t)

	Debug("hidden")
	require.Empty(t, buf.String())

	SetLevel(LevelDebug)
	Debug("shown")
	require.Contains(t, buf.String(), "[DEBUG] shown")

	buf.Reset()
	SetLevel(LevelError)
	Warn("hidden")
	Error("failed", errors.New("boom"), "year", 2015)
	require.Equal(t, "2014-10-23T04:55:34.000000Z [ERROR] failed err=boom year=2015\n", buf.String())
}

func TestOddAndNonStringKeys(t *testing.T) {
	buf := capture(t)

	Info("msg", 1, "skipped", "key", "value", "dangling")
	require.Contains(t, buf.String(), "msg key=value\n")
}

func TestParseLevel(t *testing.T) {
	l, ok := ParseLevel(" debug ")
	require.True(t, ok)
	require.Equal(t, LevelDebug, l)

	l, ok = ParseLevel("warning")
	require.True(t, ok)
	require.Equal(t, LevelWarn, l)

	_, ok = ParseLevel("loud")
	require.False(t, ok)
}
