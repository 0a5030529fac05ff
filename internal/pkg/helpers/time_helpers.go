package helpers

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// datetimeLayouts are tried in order. The zone-less layouts match what an HTML
// datetime-local input submits.
var datetimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseDuration parses a duration string, returns default duration on error.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}

// ParseDatetime parses a consultation datetime in any accepted layout.
// Values without a zone are read as UTC; use ParseDatetimeIn to read them as
// another wall clock.
func ParseDatetime(value string) (time.Time, error) {
	return ParseDatetimeIn(value, time.UTC)
}

// ParseDatetimeIn is ParseDatetime with zone-less values read in loc. Values
// carrying an offset keep it. The result is always in UTC.
func ParseDatetimeIn(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty datetime")
	}
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised datetime %q", value)
}
