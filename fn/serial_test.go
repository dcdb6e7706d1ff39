package fn

import (
	"testing"
	"time"
)

func TestDateSerialAnchors(t *testing.T) {
	tests := []struct {
		year, month, day int
		want             float64
	}{
		{1900, 1, 1, 1},
		{1900, 2, 28, 59},
		{1900, 3, 1, 61}, // serial 60 is the phantom leap day
		{2000, 1, 1, 36526},
		{2008, 1, 1, 39448},
		{2024, 2, 29, 45351},
		{0, 1, 1, 1},     // two-digit era folds into 1900
		{1999, 12, 31, 36525},
	}
	for _, tt := range tests {
		got, ok := dateSerial(tt.year, tt.month, tt.day)
		if !ok {
			t.Errorf("dateSerial(%d, %d, %d) reported out of range", tt.year, tt.month, tt.day)
			continue
		}
		if got != tt.want {
			t.Errorf("dateSerial(%d, %d, %d) = %v, want %v", tt.year, tt.month, tt.day, got, tt.want)
		}
	}
}

func TestDateSerialLeniency(t *testing.T) {
	// day zero is the last day of the prior month, month 13 rolls the year
	base, _ := dateSerial(2024, 1, 31)
	if rolled, _ := dateSerial(2024, 2, 0); rolled != base {
		t.Errorf("dateSerial(2024, 2, 0) = %v, want %v", rolled, base)
	}
	jan, _ := dateSerial(2025, 1, 15)
	if rolled, _ := dateSerial(2024, 13, 15); rolled != jan {
		t.Errorf("dateSerial(2024, 13, 15) = %v, want %v", rolled, jan)
	}
	if _, ok := dateSerial(10000, 1, 1); ok {
		t.Error("year 10000 should be out of range")
	}
}

func TestSerialTimeRoundTrip(t *testing.T) {
	serials := []float64{1, 59, 61, 1000, 36526, 45351.5, 45351.999988425926}
	for _, s := range serials {
		back := timeSerial(serialTime(s))
		if diff := back - s; diff > 1e-6 || diff < -1e-6 {
			t.Errorf("round trip of serial %v came back as %v", s, back)
		}
	}
}

func TestSerialAdvancesOneDayPerDay(t *testing.T) {
	// from 1900-03-01 onward consecutive days differ by exactly one
	prev, _ := dateSerial(1900, 3, 1)
	day := time.Date(1900, 3, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 400; i++ {
		cur := timeSerial(day)
		if cur != prev+1 {
			t.Fatalf("serial for %v is %v, want %v", day, cur, prev+1)
		}
		prev = cur
		day = day.AddDate(0, 0, 1)
	}
}

func TestTimeFraction(t *testing.T) {
	tests := []struct {
		h, m, s int
		want    float64
	}{
		{0, 0, 0, 0},
		{12, 0, 0, 0.5},
		{6, 0, 0, 0.25},
		{18, 0, 0, 0.75},
		{25, 0, 0, 1.0 / 24}, // wraps past midnight
		{0, 90, 0, 0.0625},   // rolls into hours
	}
	for _, tt := range tests {
		got, ok := timeFraction(tt.h, tt.m, tt.s)
		if !ok {
			t.Errorf("timeFraction(%d, %d, %d) rejected", tt.h, tt.m, tt.s)
			continue
		}
		if got != tt.want {
			t.Errorf("timeFraction(%d, %d, %d) = %v, want %v", tt.h, tt.m, tt.s, got, tt.want)
		}
	}
	if _, ok := timeFraction(-1, 0, 0); ok {
		t.Error("negative time of day should be rejected")
	}
}

func TestAddMonthsClamps(t *testing.T) {
	tests := []struct {
		start  string
		months int
		want   string
	}{
		{"2024-01-31", 1, "2024-02-29"},
		{"2023-01-31", 1, "2023-02-28"},
		{"2024-03-31", -1, "2024-02-29"},
		{"2024-05-15", 3, "2024-08-15"},
		{"2024-11-30", 14, "2026-01-30"},
	}
	for _, tt := range tests {
		start, _ := time.Parse("2006-01-02", tt.start)
		got := addMonths(start, tt.months).Format("2006-01-02")
		if got != tt.want {
			t.Errorf("addMonths(%s, %d) = %s, want %s", tt.start, tt.months, got, tt.want)
		}
	}
}

func TestParseDateText(t *testing.T) {
	want := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	for _, s := range []string{"2024-03-15", "2024/03/15", "03/15/2024", "3/15/2024", "March 15, 2024", "15-Mar-2024"} {
		got, ok := parseDateText(s)
		if !ok {
			t.Errorf("parseDateText(%q) failed", s)
			continue
		}
		if !got.Equal(want) {
			t.Errorf("parseDateText(%q) = %v, want %v", s, got, want)
		}
	}
	if _, ok := parseDateText("not a date"); ok {
		t.Error("parseDateText accepted nonsense")
	}
}

func TestParseTimeText(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"12:00:00", 0.5},
		{"12:00", 0.5},
		{"6:00 AM", 0.25},
		{"6:30:00 PM", 0.77083333333333333},
	}
	for _, tt := range tests {
		got, ok := parseTimeText(tt.in)
		if !ok {
			t.Errorf("parseTimeText(%q) failed", tt.in)
			continue
		}
		if diff := got - tt.want; diff > 1e-12 || diff < -1e-12 {
			t.Errorf("parseTimeText(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
