package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseLocation resolves the zone used for attempt log timestamps.
// It accepts IANA names ("Asia/Seoul"), "UTC", and fixed offsets such as
// "+9", "UTC+09:00" or "-03:30". An empty string means UTC.
func ParseLocation(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" || strings.EqualFold(tz, "UTC") || strings.EqualFold(tz, "GMT") {
		return time.UTC, nil
	}

	if loc, err := time.LoadLocation(tz); err == nil {
		return loc, nil
	}

	offset, ok := parseOffset(strings.TrimPrefix(strings.ToUpper(tz), "UTC"))
	if !ok {
		return nil, fmt.Errorf("unsupported timezone %q", tz)
	}

	sign := "+"
	abs := offset
	if offset < 0 {
		sign, abs = "-", -offset
	}
	name := fmt.Sprintf("UTC%s%02d:%02d", sign, abs/3600, abs%3600/60)

	return time.FixedZone(name, offset), nil
}

// parseOffset parses "+H", "-HH:MM" into seconds east of UTC.
func parseOffset(s string) (int, bool) {
	if len(s) < 2 || (s[0] != '+' && s[0] != '-') {
		return 0, false
	}

	sign := 1
	if s[0] == '-' {
		sign = -1
	}

	hh, mm, found := strings.Cut(s[1:], ":")
	if !found {
		mm = "0"
	}

	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 14 {
		return 0, false
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m >= 60 {
		return 0, false
	}

	return sign * (h*3600 + m*60), true
}
