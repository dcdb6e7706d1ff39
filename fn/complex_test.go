package fn

import (
	"testing"

	"github.com/cellmath/formula/value"
)

func TestParseComplexText(t *testing.T) {
	tests := []struct {
		in     string
		re, im float64
		suffix byte
		ok     bool
	}{
		{"3", 3, 0, 0, true},
		{"-2.5", -2.5, 0, 0, true},
		{"i", 0, 1, 'i', true},
		{"-i", 0, -1, 'i', true},
		{"2i", 0, 2, 'i', true},
		{"3+4i", 3, 4, 'i', true},
		{"3-4j", 3, -4, 'j', true},
		{"-1-i", -1, -1, 'i', true},
		{"1e2+3i", 100, 3, 'i', true},
		{"2.5e-1i", 0, 0.25, 'i', true},
		{"  4+2i  ", 4, 2, 'i', true},
		{"3+4k", 0, 0, 0, false},
		{"abc", 0, 0, 0, false},
		{"", 0, 0, 0, false},
		{"3+4I", 0, 0, 0, false}, // suffix must be lower case
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			z, suffix, ok := parseComplexText(tt.in)
			if ok != tt.ok {
				t.Fatalf("parseComplexText(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if !ok {
				return
			}
			if real(z) != tt.re || imag(z) != tt.im {
				t.Errorf("parseComplexText(%q) = %v+%vi, want %v+%vi", tt.in, real(z), imag(z), tt.re, tt.im)
			}
			if suffix != tt.suffix {
				t.Errorf("parseComplexText(%q) suffix = %c, want %c", tt.in, suffix, tt.suffix)
			}
		})
	}
}

func TestFormatComplex(t *testing.T) {
	tests := []struct {
		re, im float64
		suffix byte
		want   string
	}{
		{0, 0, 0, "0"},
		{3, 0, 0, "3"},
		{0, 2, 0, "2i"},
		{0, -2, 'j', "-2j"},
		{3, 4, 0, "3+4i"},
		{3, -4, 0, "3-4i"},
		{3, 1, 0, "3+i"},
		{3, -1, 0, "3-i"},
		{0, 1, 0, "i"},
		{0, -1, 0, "-i"},
		{-2.5, 0.5, 'j', "-2.5+0.5j"},
	}
	for _, tt := range tests {
		got := formatComplex(complex(tt.re, tt.im), tt.suffix)
		wantText(t, got, tt.want)
	}
}

func TestComplexRoundTrip(t *testing.T) {
	for _, s := range []string{"3+4i", "-1-i", "2j", "5", "-i"} {
		z, suffix, ok := parseComplexText(s)
		if !ok {
			t.Fatalf("parseComplexText(%q) failed", s)
		}
		got := formatComplex(z, suffix)
		wantText(t, got, s)
	}
}

func TestComplexHandlers(t *testing.T) {
	wantText(t, fnComplex(nil, args(value.Number(3), value.Number(4))), "3+4i")
	wantText(t, fnComplex(nil, args(value.Number(3), value.Number(4), value.Text("j"))), "3+4j")
	wantErrorKind(t, fnComplex(nil, args(value.Number(3), value.Number(4), value.Text("k"))), value.ErrValue)

	wantNumber(t, fnImAbs(nil, args(value.Text("3+4i"))), 5)
	wantNumber(t, fnImReal(nil, args(value.Text("3+4i"))), 3)
	wantNumber(t, fnImaginary(nil, args(value.Text("3+4i"))), 4)

	wantText(t, fnImSub(nil, args(value.Text("5+3i"), value.Text("2+i"))), "3+2i")
	wantText(t, fnImSum(nil, args(value.Text("1+2i"), value.Text("2+3i"))), "3+5i")
	wantText(t, fnImProduct(nil, args(value.Text("1+i"), value.Text("1-i"))), "2")
	wantText(t, fnImDiv(nil, args(value.Text("4+2i"), value.Text("2"))), "2+i")
	wantErrorKind(t, fnImDiv(nil, args(value.Text("1"), value.Text("0"))), value.ErrNum)
	wantErrorKind(t, fnImSub(nil, args(value.Text("1+i"), value.Text("1+j"))), value.ErrValue)
	wantErrorKind(t, fnImArgument(nil, args(value.Text("0"))), value.ErrDiv0)

	wantText(t, fnImSub(nil, args(value.Text("5+3j"), value.Text("2"))), "3+3j") // suffix survives plain operands
}

func TestComplexConjugate(t *testing.T) {
	// registered through the one-arg wrapper, so go through parse + format
	z, suffix, _ := parseComplexText("3+4i")
	got := formatComplex(complex(real(z), -imag(z)), suffix)
	wantText(t, got, "3-4i")
}
