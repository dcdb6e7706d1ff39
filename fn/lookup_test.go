package fn

import (
	"testing"

	"github.com/cellmath/formula/cell"
	"github.com/cellmath/formula/value"
)

func numVec(nums ...float64) []value.Scalar {
	out := make([]value.Scalar, len(nums))
	for i, n := range nums {
		out[i] = value.Number(n)
	}
	return out
}

func TestXfind(t *testing.T) {
	tests := []struct {
		name       string
		lookup     value.Scalar
		vec        []value.Scalar
		matchMode  int
		searchMode int
		want       int  // 0-based; -1 means expect #N/A
	}{
		{"exact forward", value.Number(30), numVec(10, 20, 30), 0, 1, 2},
		{"exact missing", value.Number(25), numVec(10, 20, 30), 0, 1, -1},
		{"next smaller", value.Number(25), numVec(10, 20, 30), -1, 1, 1},
		{"next smaller exact hit", value.Number(20), numVec(10, 20, 30), -1, 1, 1},
		{"next larger", value.Number(25), numVec(10, 20, 30), 1, 1, 2},
		{"next larger none", value.Number(99), numVec(10, 20, 30), 1, 1, -1},
		{"reverse picks last duplicate", value.Number(20), numVec(10, 20, 20, 30), 0, -1, 2},
		{"binary ascending", value.Number(20), numVec(10, 20, 30, 40), 0, 2, 1},
		{"binary ascending smaller", value.Number(35), numVec(10, 20, 30, 40), -1, 2, 2},
		{"binary descending", value.Number(20), numVec(40, 30, 20, 10), 0, -2, 2},
		{"binary descending larger", value.Number(25), numVec(40, 30, 20, 10), 1, -2, 1},
		{"text is case-insensitive", value.Text("banana"), []value.Scalar{value.Text("Apple"), value.Text("BANANA")}, 0, 1, 1},
		{"wildcard mode", value.Text("b*"), []value.Scalar{value.Text("apple"), value.Text("banana")}, 2, 1, 1},
		{"type mismatch never matches", value.Number(1), []value.Scalar{value.Text("1")}, 0, 1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			idx, errv := xfind(tt.lookup, tt.vec, tt.matchMode, tt.searchMode)
			if tt.want < 0 {
				if errv == nil {
					t.Fatalf("xfind found index %d, want #N/A", idx)
				}
				return
			}
			if errv != nil {
				t.Fatalf("xfind returned %v, want index %d", errv, tt.want)
			}
			if idx != tt.want {
				t.Errorf("xfind = %d, want %d", idx, tt.want)
			}
		})
	}
}

func TestXfindRejectsBadModes(t *testing.T) {
	if _, errv := xfind(value.Number(1), numVec(1), 5, 1); errv == nil {
		t.Error("match mode 5 should be rejected")
	}
	if _, errv := xfind(value.Number(1), numVec(1), 0, 3); errv == nil {
		t.Error("search mode 3 should be rejected")
	}
}

func TestApproxLast(t *testing.T) {
	vec := numVec(10, 20, 20, 30)
	tests := []struct {
		lookup value.Scalar
		want   int
	}{
		{value.Number(20), 2}, // later duplicate wins
		{value.Number(25), 2},
		{value.Number(100), 3},
		{value.Number(5), -1},
		{value.Text("20"), -1}, // text never matches numbers
	}
	for _, tt := range tests {
		if got := approxLast(tt.lookup, vec); got != tt.want {
			t.Errorf("approxLast(%v) = %d, want %d", tt.lookup, got, tt.want)
		}
	}
}

func TestDirectionalCompare(t *testing.T) {
	n, s := value.Number(5), value.Text("apple")
	if directionalCompare(n, s, 1) >= 0 {
		t.Error("numbers should sort before text ascending")
	}
	if directionalCompare(n, s, -1) <= 0 {
		t.Error("descending reverses the number/text order")
	}
	// blanks sink regardless of direction
	if directionalCompare(value.Empty{}, n, 1) <= 0 {
		t.Error("blank should sort after a number ascending")
	}
	if directionalCompare(value.Empty{}, n, -1) <= 0 {
		t.Error("blank should sort after a number descending")
	}
	if directionalCompare(value.Text("a"), value.Text("B"), 1) >= 0 {
		t.Error("text ordering should ignore case")
	}
}

func TestParseR1C1(t *testing.T) {
	base := cell.MustParse("E5") // row 4, col 4
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"R2C3", "C2", true},
		{"R[1]C[-1]", "D6", true},
		{"RC", "E5", true},
		{"R[2]C", "E7", true},
		{"RC[3]", "H5", true},
		{"r10c1", "A10", true},
		{"R[-9]C", "", false}, // off the top of the sheet
		{"Q4", "", false},
		{"R1C1:R2C2", "", false}, // ranges are split before parsing
	}
	for _, tt := range tests {
		got, ok := parseR1C1(tt.in, base)
		if ok != tt.ok {
			t.Errorf("parseR1C1(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			continue
		}
		if ok && got.String() != tt.want {
			t.Errorf("parseR1C1(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestScalarKey(t *testing.T) {
	if scalarKey(value.Number(1)) == scalarKey(value.Text("1")) {
		t.Error("a number and its text spelling must key differently")
	}
	if scalarKey(value.Text("apple")) != scalarKey(value.Text("APPLE")) {
		t.Error("text keys should ignore case")
	}
	if scalarKey(value.Empty{}) != scalarKey(value.Empty{}) {
		t.Error("blank keys must agree")
	}
}
