package fn

import (
	"testing"

	"github.com/cellmath/formula/value"
)

func TestApplyFormatNumbers(t *testing.T) {
	tests := []struct {
		code string
		n    float64
		want string
	}{
		{"0", 3.6, "4"},
		{"0.00", 3.14159, "3.14"},
		{"0.0", -2.5, "-2.5"},
		{"#,##0", 1234567.891, "1,234,568"},
		{"#,##0.00", 1234.5, "1,234.50"},
		{"#,##0", 0, "0"},
		{"0000", 42, "0042"},
		{"#", 0, ""},
		{"0%", 0.42, "42%"},
		{"0.0%", 0.1234, "12.3%"},
		{"0,", 12345, "12"},
		{"0.0,", 12345.6, "12.3"},
		{"0,,", 2500000, "3"},
		{"0.00E+00", 12345, "1.23E+04"},
		{"0.00E+00", 0.0012, "1.20E-03"},
		{"0.00e+00", 12345, "1.23e+04"},
		{"0.0#", 2.5, "2.5"},
		{"0.0#", 2.56, "2.56"},
		{`"$"#,##0.00`, 1234.5, "$1,234.50"},
		{`0" units"`, 7, "7 units"},
		{"£0.00", 9.5, "£9.50"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, errv := applyFormat(tt.code, value.Number(tt.n))
			if errv != nil {
				t.Fatalf("applyFormat(%q, %v) returned %v", tt.code, tt.n, errv)
			}
			if got != tt.want {
				t.Errorf("applyFormat(%q, %v) = %q, want %q", tt.code, tt.n, got, tt.want)
			}
		})
	}
}

func TestApplyFormatSections(t *testing.T) {
	tests := []struct {
		code string
		n    float64
		want string
	}{
		{"0.00;(0.00)", -3.5, "(3.50)"},
		{"0.00;(0.00)", 3.5, "3.50"},
		{"0;-0;\"zero\"", 0, "zero"},
		{"0;-0;\"zero\"", -4, "-4"},
	}
	for _, tt := range tests {
		got, errv := applyFormat(tt.code, value.Number(tt.n))
		if errv != nil {
			t.Fatalf("applyFormat(%q, %v) returned %v", tt.code, tt.n, errv)
		}
		if got != tt.want {
			t.Errorf("applyFormat(%q, %v) = %q, want %q", tt.code, tt.n, got, tt.want)
		}
	}
}

func TestApplyFormatDates(t *testing.T) {
	// serial 45351 is 2024-02-29; the fraction carries the time of day
	tests := []struct {
		code   string
		serial float64
		want   string
	}{
		{"yyyy-mm-dd", 45351, "2024-02-29"},
		{"m/d/yyyy", 45351, "2/29/2024"},
		{"dd-mmm-yy", 45351, "29-Feb-24"},
		{"mmmm d", 45351, "February 29"},
		{"ddd", 45351, "Thu"},
		{"dddd", 45351, "Thursday"},
		{"h:mm AM/PM", 0.75, "6:00 PM"},
		{"h:mm:ss", 0.5004861111111111, "12:00:42"},
		{"hh:mm", 0.25, "06:00"},
		{"mm:ss", 0.5010416666666667, "01:30"},
		{"e", 45351, "2024"},
		{"yyyy\\-mm", 45351, "2024-02"},
		{`yyyy" year"`, 45351, "2024 year"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			got, errv := applyFormat(tt.code, value.Number(tt.serial))
			if errv != nil {
				t.Fatalf("applyFormat(%q, %v) returned %v", tt.code, tt.serial, errv)
			}
			if got != tt.want {
				t.Errorf("applyFormat(%q, %v) = %q, want %q", tt.code, tt.serial, got, tt.want)
			}
		})
	}

	if _, errv := applyFormat("yyyy-mm-dd", value.Number(-1)); errv == nil {
		t.Error("negative serial under a date code should error")
	}
}

func TestApplyFormatText(t *testing.T) {
	tests := []struct {
		code string
		text string
		want string
	}{
		{"0.00", "abc", "abc"},
		{`@" rocks"`, "Go", "Go rocks"},
		{"@@", "ha", "haha"},
		{`0.00;-0.00;"zero";"say "@`, "hi", "say hi"},
	}
	for _, tt := range tests {
		got, errv := applyFormat(tt.code, value.Text(tt.text))
		if errv != nil {
			t.Fatalf("applyFormat(%q, %q) returned %v", tt.code, tt.text, errv)
		}
		if got != tt.want {
			t.Errorf("applyFormat(%q, %q) = %q, want %q", tt.code, tt.text, got, tt.want)
		}
	}
}

func TestApplyFormatGeneral(t *testing.T) {
	got, errv := applyFormat("General", value.Number(3.5))
	if errv != nil {
		t.Fatalf("General returned %v", errv)
	}
	if got != "3.5" {
		t.Errorf("General rendered %q, want 3.5", got)
	}
}
