package application

import (
	"fmt"
	"strings"
	"time"
)

// LocalDateTimeLayout is the zone-less wire format of booking and comment timestamps.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

// LocalDateTime is a timestamp exchanged without a zone. Values are read and written as UTC.
// Zoned RFC3339 input is accepted too and converted to UTC.
type LocalDateTime time.Time

// NewLocalDateTime wraps t, normalised to UTC.
func NewLocalDateTime(t time.Time) LocalDateTime {
	return LocalDateTime(t.UTC())
}

// Time returns the wrapped instant.
func (l LocalDateTime) Time() time.Time {
	return time.Time(l)
}

// MarshalJSON writes the UTC wall clock without a zone suffix.
func (l LocalDateTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(l).UTC().Format(LocalDateTimeLayout) + `"`), nil
}

// UnmarshalJSON accepts "2006-01-02T15:04:05" with optional fractional seconds, or RFC3339.
func (l *LocalDateTime) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if raw == "null" {
		return nil
	}
	s, ok := strings.CutPrefix(raw, `"`)
	if ok {
		s, ok = strings.CutSuffix(s, `"`)
	}
	if !ok {
		return fmt.Errorf("invalid date-time %s", raw)
	}

	if t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.UTC); err == nil {
		*l = LocalDateTime(t)
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("invalid date-time %q, expected %s", s, LocalDateTimeLayout)
	}
	*l = LocalDateTime(t.UTC())
	return nil
}
