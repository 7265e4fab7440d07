package models

import (
	"fmt"
	"strings"
	"time"
)

// DatetimeLayout is the wire format for practice-session start times: a
// seconds-precision local timestamp with no zone, e.g. "2024-01-01T10:00:00".
const DatetimeLayout = "2006-01-02T15:04:05"

// Datetime is a time.Time that marshals to and from DatetimeLayout.
type Datetime struct {
	time.Time
}

func ParseDatetime(s string) (Datetime, error) {
	t, err := time.Parse(DatetimeLayout, s)
	if err != nil {
		return Datetime{}, fmt.Errorf("invalid datetime %q: %w", s, err)
	}
	return Datetime{Time: t}, nil
}

func (d Datetime) String() string {
	return d.Format(DatetimeLayout)
}

func (d Datetime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(DatetimeLayout) + `"`), nil
}

func (d *Datetime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := ParseDatetime(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
