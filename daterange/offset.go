package daterange

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidOffset is returned by ParseOffset.
var ErrInvalidOffset = errors.New("daterange: invalid offset")

// maxOffset bounds offsets to the span real-world zones use.
const maxOffset = 18 * time.Hour

// ParseOffset parses a fixed offset from UTC. Accepted forms are "Z", "UTC",
// "±HH:MM", "±HHMM", "±HH", and Go durations such as "-4h" or "5h30m".
func ParseOffset(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	switch strings.ToUpper(s) {
	case "", "Z", "UTC":
		return 0, nil
	}

	var d time.Duration
	if strings.ContainsAny(s, "hms") {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidOffset, s)
		}
		d = parsed
	} else {
		parsed, err := parseClockOffset(s)
		if err != nil {
			return 0, err
		}
		d = parsed
	}

	if d > maxOffset || d < -maxOffset {
		return 0, fmt.Errorf("%w: %q exceeds ±18h", ErrInvalidOffset, s)
	}
	return d, nil
}

func parseClockOffset(s string) (time.Duration, error) {
	bad := fmt.Errorf("%w: %q", ErrInvalidOffset, s)
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, bad
	}
	sign := time.Duration(1)
	if s[0] == '-' {
		sign = -1
	}
	digits := strings.ReplaceAll(s[1:], ":", "")
	if len(digits) != 2 && len(digits) != 4 {
		return 0, bad
	}
	hh, err := strconv.Atoi(digits[:2])
	if err != nil {
		return 0, bad
	}
	mm := 0
	if len(digits) == 4 {
		mm, err = strconv.Atoi(digits[2:])
		if err != nil || mm >= 60 {
			return 0, bad
		}
	}
	return sign * (time.Duration(hh)*time.Hour + time.Duration(mm)*time.Minute), nil
}

// FormatOffset renders d as "±HH:MM". Seconds are dropped.
func FormatOffset(d time.Duration) string {
	sign := '+'
	if d < 0 {
		sign = '-'
		d = -d
	}
	h := int(d / time.Hour)
	m := int((d % time.Hour) / time.Minute)
	return fmt.Sprintf("%c%02d:%02d", sign, h, m)
}

// Zone returns a fixed-offset location for d, named like "+05:30".
func Zone(d time.Duration) *time.Location {
	if d == 0 {
		return time.UTC
	}
	return time.FixedZone(FormatOffset(d), int(d/time.Second))
}
