package value

import (
	"math"
	"testing"
)

func TestToNumber(t *testing.T) {
	cases := []struct {
		name string
		in   Value
		want float64
		ok   bool
	}{
		{"number", Number(42), 42, true},
		{"true", Boolean(true), 1, true},
		{"false", Boolean(false), 0, true},
		{"numeric text", Text("3.5"), 3.5, true},
		{"padded text", Text("  10 "), 10, true},
		{"percent text", Text("50%"), 0.5, true},
		{"scientific", Text("1e3"), 1000, true},
		{"empty cell", Empty{}, 0, true},
		{"word", Text("apple"), 0, false},
		{"blank text", Text(""), 0, false},
		{"error", NewError(ErrDiv0, ""), 0, false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, ok := ToNumber(c.in)
			if ok != c.ok || got != c.want {
				t.Errorf("ToNumber(%v) = %v, %v; want %v, %v", c.in, got, ok, c.want, c.ok)
			}
		})
	}
}

func TestCompare(t *testing.T) {
	cases := []struct {
		name string
		a, b Scalar
		want int
	}{
		{"numbers", Number(1), Number(2), -1},
		{"equal numbers", Number(2), Number(2), 0},
		{"text case-insensitive", Text("apple"), Text("APPLE"), 0},
		{"text order", Text("apple"), Text("banana"), -1},
		{"number below text", Number(9e9), Text("a"), -1},
		{"text below boolean", Text("zzz"), Boolean(false), -1},
		{"false below true", Boolean(false), Boolean(true), -1},
		{"blank equals zero", Empty{}, Number(0), 0},
		{"blank equals empty text", Empty{}, Text(""), 0},
		{"blank below one", Empty{}, Number(1), -1},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Compare(c.a, c.b); got != c.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", c.a, c.b, got, c.want)
			}
		})
	}
}

func TestBinaryOpScalars(t *testing.T) {
	cases := []struct {
		name string
		op   string
		l, r Value
		want Value
	}{
		{"add", "+", Number(1), Number(2), Number(3)},
		{"add numeric text", "+", Text("4"), Number(2), Number(6)},
		{"add boolean", "+", Boolean(true), Number(2), Number(3)},
		{"add blank", "+", Empty{}, Number(5), Number(5)},
		{"subtract", "-", Number(10), Number(4), Number(6)},
		{"multiply", "*", Number(6), Number(7), Number(42)},
		{"divide", "/", Number(10), Number(4), Number(2.5)},
		{"divide by zero", "/", Number(1), Number(0), NewError(ErrDiv0, "division by zero")},
		{"power", "^", Number(2), Number(10), Number(1024)},
		{"concat", "&", Text("ab"), Number(3), Text("ab3")},
		{"concat blank", "&", Empty{}, Text("x"), Text("x")},
		{"equal text folds case", "=", Text("Apple"), Text("APPLE"), Boolean(true)},
		{"not equal", "<>", Number(1), Number(2), Boolean(true)},
		{"less", "<", Number(1), Number(2), Boolean(true)},
		{"greater equal", ">=", Number(2), Number(2), Boolean(true)},
		{"add word fails", "+", Number(1), Text("pear"), NewError(ErrValue, `"pear" is not a number`)},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := BinaryOp(c.op, c.l, c.r)
			if !sameValue(got, c.want) {
				t.Errorf("BinaryOp(%s, %v, %v) = %v, want %v", c.op, c.l, c.r, got, c.want)
			}
		})
	}
}

func TestBinaryOpErrorPrecedence(t *testing.T) {
	left := NewError(ErrName, "left")
	right := NewError(ErrDiv0, "right")
	got := BinaryOp("+", left, right)
	e, ok := got.(Error)
	if !ok || e.Kind != ErrName {
		t.Fatalf("error precedence: got %v, want left #NAME?", got)
	}
}

func TestBinaryOpBroadcast(t *testing.T) {
	col := NumberColumn([]float64{1, 2, 3})

	t.Run("array plus scalar", func(t *testing.T) {
		got := BinaryOp("+", col, Number(10))
		arr, ok := got.(*Array)
		if !ok || arr.Rows() != 3 || arr.Cols() != 1 {
			t.Fatalf("got %v, want 3x1 array", got)
		}
		for i, want := range []float64{11, 12, 13} {
			if arr.At(i, 0) != Number(want) {
				t.Errorf("row %d = %v, want %v", i, arr.At(i, 0), want)
			}
		}
	})

	t.Run("same shape", func(t *testing.T) {
		got := BinaryOp("*", col, NumberColumn([]float64{2, 2, 2}))
		arr := got.(*Array)
		for i, want := range []float64{2, 4, 6} {
			if arr.At(i, 0) != Number(want) {
				t.Errorf("row %d = %v, want %v", i, arr.At(i, 0), want)
			}
		}
	})

	t.Run("column times row spreads", func(t *testing.T) {
		row := Row([]Scalar{Number(10), Number(20)})
		got := BinaryOp("+", col, row)
		arr, ok := got.(*Array)
		if !ok || arr.Rows() != 3 || arr.Cols() != 2 {
			t.Fatalf("got %v, want 3x2 array", got)
		}
		if arr.At(0, 0) != Number(11) || arr.At(2, 1) != Number(23) {
			t.Errorf("corners = %v, %v; want 11, 23", arr.At(0, 0), arr.At(2, 1))
		}
	})

	t.Run("mismatched shapes", func(t *testing.T) {
		two := NumberColumn([]float64{1, 2})
		got := BinaryOp("+", col, two)
		e, ok := got.(Error)
		if !ok || e.Kind != ErrValue {
			t.Fatalf("3x1 + 2x1 = %v, want #VALUE!", got)
		}
	})

	t.Run("error cell wins per cell", func(t *testing.T) {
		mixed := Column([]Scalar{Number(1), NewError(ErrNA, "")})
		got := BinaryOp("+", mixed, Number(1)).(*Array)
		if got.At(0, 0) != Number(2) {
			t.Errorf("clean cell = %v, want 2", got.At(0, 0))
		}
		if e, ok := got.At(1, 0).(Error); !ok || e.Kind != ErrNA {
			t.Errorf("error cell = %v, want #N/A", got.At(1, 0))
		}
	})
}

func TestUnaryOp(t *testing.T) {
	if got := UnaryOp("-", Number(5)); got != Number(-5) {
		t.Errorf("negate = %v, want -5", got)
	}
	if got := UnaryOp("%", Number(50)); got != Number(0.5) {
		t.Errorf("percent = %v, want 0.5", got)
	}
	got := UnaryOp("-", NumberColumn([]float64{1, -2}))
	arr := got.(*Array)
	if arr.At(0, 0) != Number(-1) || arr.At(1, 0) != Number(2) {
		t.Errorf("array negate = %v", got)
	}
}

func TestPowerEdges(t *testing.T) {
	if got := BinaryOp("^", Number(0), Number(0)); !IsError(got) {
		t.Errorf("0^0 = %v, want #NUM!", got)
	}
	got := BinaryOp("^", Number(-8), Number(1.0/3.0))
	if e, ok := got.(Error); !ok || e.Kind != ErrNum {
		t.Errorf("(-8)^(1/3) = %v, want #NUM!", got)
	}
	if got := BinaryOp("*", Number(1e308), Number(10)); !IsError(got) {
		t.Errorf("overflow = %v, want #NUM!", got)
	}
}

func TestFormatNumber(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{15, "15"},
		{-3, "-3"},
		{0, "0"},
		{2.5, "2.5"},
		{1e20, "1e+20"},
		{0.1, "0.1"},
	}
	for _, c := range cases {
		if got := FormatNumber(c.in); got != c.want {
			t.Errorf("FormatNumber(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestArrayString(t *testing.T) {
	a := FromRows([][]Scalar{
		{Number(1), Text("a b")},
		{Boolean(true), NewError(ErrNA, "")},
	})
	want := `{1,"a b";TRUE,#N/A}`
	if got := a.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBindingsScopes(t *testing.T) {
	outer := NewBindings(nil)
	outer.Define("x", Number(1))
	outer.Define("y", Number(2))

	inner := NewBindings(outer)
	inner.Define("X", Number(10)) // shadows, case-insensitive

	if v, ok := inner.Lookup("x"); !ok || v != Number(10) {
		t.Errorf("inner x = %v, want 10", v)
	}
	if v, ok := inner.Lookup("Y"); !ok || v != Number(2) {
		t.Errorf("inner y = %v, want 2 from outer scope", v)
	}
	if _, ok := outer.Lookup("z"); ok {
		t.Error("z should be unbound")
	}
	if v, _ := outer.Lookup("x"); v != Number(1) {
		t.Error("inner define must not leak to outer scope")
	}
}

func TestAsScalar(t *testing.T) {
	one := NewArray(1, 1)
	one.Set(0, 0, Number(7))
	if got := AsScalar(one); got != Number(7) {
		t.Errorf("1x1 array collapses to %v, want 7", got)
	}
	big := NewArray(2, 2)
	if _, ok := AsScalar(big).(Error); !ok {
		t.Error("2x2 array should not reduce to a scalar")
	}
}

func sameValue(a, b Value) bool {
	if ae, ok := a.(Error); ok {
		be, ok2 := b.(Error)
		return ok2 && ae.Kind == be.Kind
	}
	if an, ok := a.(Number); ok {
		bn, ok2 := b.(Number)
		return ok2 && math.Abs(float64(an)-float64(bn)) < 1e-12
	}
	return a == b
}
