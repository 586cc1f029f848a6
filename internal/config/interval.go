package config

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// intervalPattern matches the leading `<integer><unit>` of an interval.
// Anything after the unit is ignored.
var intervalPattern = regexp.MustCompile(`^(\d+)([smhd])`)

var intervalUnits = map[string]time.Duration{
	"s": time.Second,
	"m": time.Minute,
	"h": time.Hour,
	"d": 24 * time.Hour,
}

// ParseInterval parses an update interval such as "30m", "6h" or "2d".
// Absent, unparsable and zero intervals yield DefaultUpdateInterval.
func ParseInterval(s string) time.Duration {
	d, ok := parseInterval(s)
	if !ok {
		return DefaultUpdateInterval
	}
	return d
}

func parseInterval(s string) (time.Duration, bool) {
	m := intervalPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}

	amount, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil || amount <= 0 {
		return 0, false
	}

	unit := intervalUnits[m[2]]
	if amount > int64(maxDuration/unit) {
		return 0, false
	}
	return time.Duration(amount) * unit, true
}

const maxDuration = time.Duration(1<<63 - 1)
