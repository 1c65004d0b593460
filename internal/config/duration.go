package config

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/and161185/nhh/internal/errs"
)

var durationRe = regexp.MustCompile(`^(\d+)([smhdw])$`)

var unitSeconds = map[string]int64{
	"s": 1,
	"m": 60,
	"h": 60 * 60,
	"d": 60 * 60 * 24,
	"w": 60 * 60 * 24 * 7,
}

// maxTTLSeconds is the largest lifetime a time.Duration can carry.
const maxTTLSeconds = int64(math.MaxInt64 / int64(time.Second))

// DurationToSeconds converts compact duration strings ("900s", "15m", "7d", "2w") to seconds.
// Units are case-insensitive. Anything else, including values that overflow int64 seconds,
// fails with errs.ErrUnsupportedDuration.
func DurationToSeconds(raw string) (int64, error) {
	m := durationRe.FindStringSubmatch(strings.ToLower(raw))
	if m == nil {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedDuration, raw)
	}
	v, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", errs.ErrUnsupportedDuration, raw)
	}
	unit := unitSeconds[m[2]]
	if v > math.MaxInt64/unit {
		return 0, fmt.Errorf("%w: %q out of range", errs.ErrUnsupportedDuration, raw)
	}
	return v * unit, nil
}

// ParseTTL is DurationToSeconds as a time.Duration. Lifetimes beyond roughly 292 years
// do not fit and are rejected.
func ParseTTL(raw string) (time.Duration, error) {
	s, err := DurationToSeconds(raw)
	if err != nil {
		return 0, err
	}
	if s > maxTTLSeconds {
		return 0, fmt.Errorf("%w: %q out of range", errs.ErrUnsupportedDuration, raw)
	}
	return time.Duration(s) * time.Second, nil
}
