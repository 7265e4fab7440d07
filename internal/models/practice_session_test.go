package models

import (
	"encoding/json"
	"testing"
)

func TestParseDatetime(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"seconds precision", "2024-01-01T10:00:00", false},
		{"minutes only", "2024-01-01T10:00", true},
		{"empty", "", true},
		{"garbage", "not-a-datetime", true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDatetime(tc.input)
			if (err != nil) != tc.wantErr {
				t.Errorf("ParseDatetime(%q) error = %v, wantErr %v", tc.input, err, tc.wantErr)
			}
		})
	}
}

func TestDatetimeJSONRoundTrip(t *testing.T) {
	d, err := ParseDatetime("2024-01-01T10:00:00")
	if err != nil {
		t.Fatalf("ParseDatetime: %v", err)
	}

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(b) != `"2024-01-01T10:00:00"` {
		t.Errorf("Expected quoted layout string, got %s", b)
	}

	var back Datetime
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("Round trip changed value: %v != %v", back, d)
	}
}

func TestNewPracticeSessionValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     NewPracticeSession
		wantMsg string
	}{
		{
			"valid",
			NewPracticeSession{StartDatetime: "2024-01-01T10:00:00", DurationMins: 30, Instrument: "piano"},
			"",
		},
		{
			"missing start datetime",
			NewPracticeSession{DurationMins: 30, Instrument: "piano"},
			"Invalid start datetime",
		},
		{
			"unparseable start datetime",
			NewPracticeSession{StartDatetime: "sometime", DurationMins: 30, Instrument: "piano"},
			"Invalid start datetime",
		},
		{
			"zero duration",
			NewPracticeSession{StartDatetime: "2024-01-01T10:00:00", DurationMins: 0, Instrument: "piano"},
			"Invalid duration",
		},
		{
			"negative duration",
			NewPracticeSession{StartDatetime: "2024-01-01T10:00:00", DurationMins: -5, Instrument: "piano"},
			"Invalid duration",
		},
		{
			"missing instrument",
			NewPracticeSession{StartDatetime: "2024-01-01T10:00:00", DurationMins: 30},
			"Invalid instrument",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if msg := tc.req.Validate(); msg != tc.wantMsg {
				t.Errorf("Validate() = %q, want %q", msg, tc.wantMsg)
			}
		})
	}
}
