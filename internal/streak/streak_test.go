package streak

import (
	"testing"
	"time"
)

func TestElapsedBreakdown(t *testing.T) {
	start := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want Breakdown
		text string
	}{
		{"same instant", start, Breakdown{}, "0m"},
		{"seconds only", start.Add(59 * time.Second), Breakdown{}, "0m"},
		{"minutes", start.Add(12*time.Minute + 30*time.Second), Breakdown{Minutes: 12}, "12m"},
		{"hours", start.Add(5*time.Hour + 7*time.Minute), Breakdown{Hours: 5, Minutes: 7}, "5h 7m"},
		{"days", start.Add(49*time.Hour + 3*time.Minute), Breakdown{Days: 2, Hours: 1, Minutes: 3}, "2d 1h 3m"},
		{"whole days", start.Add(72 * time.Hour), Breakdown{Days: 3}, "3d 0h 0m"},
		{"clock skew", start.Add(-time.Hour), Breakdown{}, "0m"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Elapsed(start, tt.now)
			if got != tt.want {
				t.Fatalf("Elapsed() = %+v, want %+v", got, tt.want)
			}
			if got.String() != tt.text {
				t.Errorf("String() = %q, want %q", got.String(), tt.text)
			}
		})
	}
}

func TestElapsedIgnoresZones(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	start := time.Date(2024, 3, 1, 17, 0, 0, 0, tokyo) // 08:00 UTC
	now := time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

	got := Elapsed(start, now)
	if got != (Breakdown{Hours: 2, Minutes: 30}) {
		t.Fatalf("Elapsed() = %+v, want 2h 30m", got)
	}
}

func TestElapsedBounds(t *testing.T) {
	start := time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)
	for _, secs := range []int64{0, 1, 59, 60, 61, 3599, 3600, 86399, 86400, 90061, 1234567, 98765432} {
		now := start.Add(time.Duration(secs) * time.Second)
		b := Elapsed(start, now)
		if b.Seconds() > secs || secs >= b.Seconds()+60 {
			t.Errorf("Elapsed(%ds) = %+v accounts for %ds", secs, b, b.Seconds())
		}
		if b.Hours > 23 || b.Minutes > 59 {
			t.Errorf("Elapsed(%ds) = %+v has overflowing units", secs, b)
		}
	}
}

func TestLong(t *testing.T) {
	tests := []struct {
		b    Breakdown
		want string
	}{
		{Breakdown{}, "0 Minutes"},
		{Breakdown{Minutes: 4}, "4 Minutes"},
		{Breakdown{Hours: 2, Minutes: 4}, "2 Hours 4 Minutes"},
		{Breakdown{Days: 1, Minutes: 4}, "1 Days 0 Hours 4 Minutes"},
	}
	for _, tt := range tests {
		if got := tt.b.Long(); got != tt.want {
			t.Errorf("%+v.Long() = %q, want %q", tt.b, got, tt.want)
		}
	}
}

func TestParseStart(t *testing.T) {
	want := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)

	inputs := []string{
		"2024-05-06T07:08:09Z",
		"2024-05-06T07:08:09+00:00",
		"2024-05-06T09:08:09+02:00",
		"2024-05-06T07:08:09",
		"2024-05-06 07:08:09",
	}
	for _, in := range inputs {
		got, err := ParseStart(in)
		if err != nil {
			t.Fatalf("ParseStart(%q): %v", in, err)
		}
		if !got.Equal(want) || got.Location() != time.UTC {
			t.Errorf("ParseStart(%q) = %v, want %v", in, got, want)
		}
	}

	if _, err := ParseStart("yesterday"); err == nil {
		t.Error("expected error for malformed input")
	}
}
