package entities

import (
	"testing"
	"time"
)

func TestParseLocation(t *testing.T) {
	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		in         string
		wantOffset int
	}{
		{"", 0},
		{"UTC", 0},
		{"gmt", 0},
		{"+9", 9 * 3600},
		{"UTC+09:00", 9 * 3600},
		{"-03:30", -(3*3600 + 30*60)},
		{"utc-5", -5 * 3600},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			loc, err := ParseLocation(tt.in)
			if err != nil {
				t.Fatalf("ParseLocation(%q): %v", tt.in, err)
			}
			if _, off := at.In(loc).Zone(); off != tt.wantOffset {
				t.Fatalf("offset = %d, want %d", off, tt.wantOffset)
			}
		})
	}
}

func TestParseLocationInvalid(t *testing.T) {
	for _, in := range []string{"Mars/Olympus", "+15", "+9:75", "nine"} {
		if _, err := ParseLocation(in); err == nil {
			t.Errorf("ParseLocation(%q) succeeded", in)
		}
	}
}
