package utils

import (
	"testing"
	"time"
)

func TestLoadLocation(t *testing.T) {
	tests := []struct {
		name     string
		timezone string
		wantErr  bool
	}{
		{name: "empty string returns local", timezone: ""},
		{name: "Local returns local", timezone: "Local"},
		{name: "valid timezone UTC", timezone: "UTC"},
		{name: "invalid timezone", timezone: "Invalid/Timezone", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := LoadLocation(tt.timezone)
			if (err != nil) != tt.wantErr {
				t.Errorf("LoadLocation() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && loc == nil {
				t.Errorf("LoadLocation() returned nil location without error")
			}
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in           string
		hour, minute int
		wantErr      bool
	}{
		{in: "20:00", hour: 20},
		{in: "07:45", hour: 7, minute: 45},
		{in: "24:00", wantErr: true},
		{in: "8pm", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, err := ParseClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !tt.wantErr && (h != tt.hour || m != tt.minute) {
				t.Errorf("ParseClock(%q) = %d:%d, want %d:%d", tt.in, h, m, tt.hour, tt.minute)
			}
		})
	}
	if !ValidateTimeFormat("09:30") || ValidateTimeFormat("9h30") {
		t.Error("ValidateTimeFormat gave wrong result")
	}
}

func TestParseDateInLocation(t *testing.T) {
	got, err := ParseDateInLocation("2026-02-14", time.UTC)
	if err != nil {
		t.Fatalf("ParseDateInLocation: %v", err)
	}
	if !got.Equal(time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("got %v", got)
	}
	if _, err := ParseDateInLocation("14/02/2026", time.UTC); err == nil {
		t.Error("expected error for wrong format")
	}
}
