// Package lineup derives five-man lineup shifts from a game's substitution
// stream: continuous on-court intervals for one specific lineup, with the
// scoring differential accumulated over each interval.
package lineup

import (
	"regexp"
	"strconv"
	"strings"
)

// periodClockRE matches liveData countdown clocks like "PT07M41.50S".
var periodClockRE = regexp.MustCompile(`^PT(\d+)M(\d+(?:\.\d+)?)S$`)

// FullPeriodClock is the countdown value at the start of a regulation period.
const FullPeriodClock = "PT12M00.00S"

// ParseClock converts a period countdown clock into seconds remaining in
// the period. Malformed or empty values parse as 0 rather than failing:
// the upstream feed occasionally omits or mangles clocks, and one bad
// value must not abort a whole game's extraction. Values are comparable
// only within a single period.
func ParseClock(clock string) float64 {
	m := periodClockRE.FindStringSubmatch(strings.TrimSpace(clock))
	if m == nil {
		return 0
	}
	minutes, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	seconds, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return 0
	}
	return float64(minutes)*60 + seconds
}
