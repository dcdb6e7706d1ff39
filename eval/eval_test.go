package eval

import (
	"strings"
	"testing"
	"time"

	"github.com/cellmath/formula/cell"
	"github.com/cellmath/formula/parse"
	"github.com/cellmath/formula/value"
)

type mapGrid map[cell.Ref]value.Value

func (g mapGrid) CellValue(ref cell.Ref) value.Value { return g[ref] }

func run(t *testing.T, formula string, opts Options) value.Value {
	t.Helper()
	e, err := parse.Parse(formula)
	if err != nil {
		t.Fatalf("parse %q: %v", formula, err)
	}
	return Evaluate(e, opts)
}

func runPlain(t *testing.T, formula string) value.Value {
	return run(t, formula, Options{})
}

func wantNumber(t *testing.T, v value.Value, want float64) {
	t.Helper()
	n, ok := v.(value.Number)
	if !ok {
		t.Fatalf("got %v (%T), want %v", v, v, want)
	}
	if float64(n) != want {
		t.Errorf("got %v, want %v", float64(n), want)
	}
}

func wantErrorKind(t *testing.T, v value.Value, kind value.ErrorKind) {
	t.Helper()
	e, ok := v.(value.Error)
	if !ok {
		t.Fatalf("got %v (%T), want a %s error", v, v, value.Error{Kind: kind})
	}
	if e.Kind != kind {
		t.Errorf("got %v, want kind %v", e, kind)
	}
}

func TestCellAndSpanValues(t *testing.T) {
	grid := mapGrid{
		cell.MustParse("A1"): value.Number(10),
		cell.MustParse("A2"): value.Number(20),
		cell.MustParse("A3"): value.Number(30),
		cell.MustParse("A4"): value.Number(40),
		cell.MustParse("B1"): value.Text("label"),
	}
	opts := Options{Grid: grid}

	wantNumber(t, run(t, "=A1", opts), 10)
	wantNumber(t, run(t, "=SUM(A1:A4)", opts), 100)
	wantNumber(t, run(t, "=A1+A2", opts), 30)
	if v := run(t, "=B1", opts); v != value.Text("label") {
		t.Errorf("B1 = %v", v)
	}
	// empty cells read as blank, which SUM ignores
	wantNumber(t, run(t, "=SUM(A1:B4)", opts), 100)
}

func TestRangeIntersection(t *testing.T) {
	grid := mapGrid{}
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			grid[cell.Ref{Row: r, Col: c}] = value.Number(float64(r*4 + c + 1))
		}
	}
	opts := Options{Grid: grid}

	// A1:D2 and B1:B4 overlap in B1:B2
	wantNumber(t, run(t, "=SUM(A1:D2 B1:B4)", opts), 8)
	// a single-cell overlap reads as a scalar
	wantNumber(t, run(t, "=A1:B2 B2:C3", opts), 6)
	wantErrorKind(t, run(t, "=SUM(A1:A2 C3:C4)", opts), value.ErrNull)
}

func TestUnknownFunctionAndArity(t *testing.T) {
	wantErrorKind(t, runPlain(t, "=NOSUCHFN(1)"), value.ErrName)
	wantErrorKind(t, runPlain(t, "=SUM()"), value.ErrNA)
	wantErrorKind(t, runPlain(t, "=ABS(1,2)"), value.ErrNA)
	wantErrorKind(t, runPlain(t, "=IF(TRUE)"), value.ErrNA)
}

func TestLazyShortCircuit(t *testing.T) {
	wantNumber(t, runPlain(t, "=IF(TRUE,1,1/0)"), 1)
	wantNumber(t, runPlain(t, "=IF(FALSE,1/0,2)"), 2)
	if v := runPlain(t, "=AND(FALSE,1/0)"); v != value.Boolean(false) {
		t.Errorf("AND(FALSE, 1/0) = %v, want FALSE", v)
	}
	if v := runPlain(t, "=OR(TRUE,1/0)"); v != value.Boolean(true) {
		t.Errorf("OR(TRUE, 1/0) = %v, want TRUE", v)
	}
	wantNumber(t, runPlain(t, "=CHOOSE(2,1/0,42)"), 42)
	wantErrorKind(t, runPlain(t, "=IF(FALSE,1,1/0)"), value.ErrDiv0)
}

func TestLambdaApply(t *testing.T) {
	wantNumber(t, runPlain(t, "=LAMBDA(x,x*2)(21)"), 42)
	wantNumber(t, runPlain(t, "=LAMBDA(a,b,a+b)(40,2)"), 42)
	wantErrorKind(t, runPlain(t, "=LAMBDA(a,b,a+b)(1)"), value.ErrValue)
	wantNumber(t, runPlain(t, "=LET(double,LAMBDA(x,x*2),double(21))"), 42)
	wantNumber(t, runPlain(t, "=LET(x,40,y,2,x+y)"), 42)
	// lambdas close over the bindings where they were written
	wantNumber(t, runPlain(t, "=LET(n,10,f,LAMBDA(x,x+n),LET(n,99,f(1)))"), 11)
}

func TestApplyTextNamesBuiltin(t *testing.T) {
	wantNumber(t, runPlain(t, `=REDUCE(0,SEQUENCE(4),"SUM")`), 10)
	wantErrorKind(t, runPlain(t, "=LAMBDA(x,x)(1)+NOTHING"), value.ErrName)
}

func TestApplyNonCallable(t *testing.T) {
	wantErrorKind(t, runPlain(t, "=MAP(SEQUENCE(3),5)"), value.ErrValue)
}

func TestWorkbookNames(t *testing.T) {
	opts := Options{Names: map[string]value.Value{
		"TaxRate":  value.Number(0.2),
		"Greeting": value.Text("hello"),
	}}
	wantNumber(t, run(t, "=TaxRate*100", opts), 20)
	wantNumber(t, run(t, "=TAXRATE*100", opts), 20)
	if v := run(t, "=UPPER(Greeting)", opts); v != value.Text("HELLO") {
		t.Errorf("UPPER(Greeting) = %v", v)
	}
	wantErrorKind(t, runPlain(t, "=TaxRate"), value.ErrName)
}

func TestBaseCell(t *testing.T) {
	opts := Options{At: cell.MustParse("D7")}
	wantNumber(t, run(t, "=ROW()", opts), 7)
	wantNumber(t, run(t, "=COLUMN()", opts), 4)
}

func TestNegativeReference(t *testing.T) {
	// OFFSET walking off the top of the sheet
	wantErrorKind(t, runPlain(t, "=OFFSET(A1,-1,0)"), value.ErrRef)
	wantErrorKind(t, runPlain(t, "=OFFSET(A1,0,-1)"), value.ErrRef)
	wantNumber(t, run(t, "=OFFSET(A1,1,1)", Options{Grid: mapGrid{cell.MustParse("B2"): value.Number(5)}}), 5)
}

func TestMaxDepth(t *testing.T) {
	// nest beyond the configured budget
	depth := 40
	formula := "=" + strings.Repeat("ABS(", depth) + "1" + strings.Repeat(")", depth)
	wantErrorKind(t, run(t, formula, Options{MaxDepth: 32}), value.ErrNum)
	wantNumber(t, run(t, formula, Options{MaxDepth: 64}), 1)
	// zero means no budget at all
	deep := "=" + strings.Repeat("ABS(", 600) + "1" + strings.Repeat(")", 600)
	wantNumber(t, run(t, deep, Options{}), 1)
}

func TestClockAndRandSeams(t *testing.T) {
	fixed := time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)
	opts := Options{
		Clock: func() time.Time { return fixed },
		Rand:  func() float64 { return 0.25 },
	}
	wantNumber(t, run(t, "=TODAY()", opts), 45351)
	wantNumber(t, run(t, "=NOW()", opts), 45351.5)
	wantNumber(t, run(t, "=RAND()", opts), 0.25)
	wantNumber(t, run(t, "=RANDBETWEEN(1,4)", opts), 2)
}

func TestDeterministicEvaluation(t *testing.T) {
	grid := mapGrid{
		cell.MustParse("A1"): value.Number(3),
		cell.MustParse("A2"): value.Number(4),
	}
	e, err := parse.Parse("=SQRT(A1^2+A2^2)&\" done\"")
	if err != nil {
		t.Fatal(err)
	}
	first := Evaluate(e, Options{Grid: grid})
	for i := 0; i < 10; i++ {
		if got := Evaluate(e, Options{Grid: grid}); got != first {
			t.Fatalf("evaluation %d produced %v, first produced %v", i, got, first)
		}
	}
	if first != value.Text("5 done") {
		t.Errorf("got %v, want \"5 done\"", first)
	}
}

func TestErrorPrecedenceLeftToRight(t *testing.T) {
	// both operands error; the left one wins
	v := runPlain(t, "=1/0+NOSUCH()")
	wantErrorKind(t, v, value.ErrDiv0)
	v = runPlain(t, "=NOSUCH()+1/0")
	wantErrorKind(t, v, value.ErrName)
}

func TestBroadcastShape(t *testing.T) {
	v := runPlain(t, "={1,2,3}+{10;20}")
	a, ok := v.(*value.Array)
	if !ok {
		t.Fatalf("broadcast result is %T", v)
	}
	if a.Rows() != 2 || a.Cols() != 3 {
		t.Fatalf("broadcast shape %dx%d, want 2x3", a.Rows(), a.Cols())
	}
	wantNumber(t, a.At(0, 0), 11)
	wantNumber(t, a.At(1, 2), 23)
}

func TestVolatileFunctionsUseInjectedRand(t *testing.T) {
	seq := []float64{0.1, 0.9}
	i := 0
	opts := Options{Rand: func() float64 {
		v := seq[i%len(seq)]
		i++
		return v
	}}
	a := run(t, "=RAND()", opts)
	b := run(t, "=RAND()", opts)
	if a == b {
		t.Errorf("successive RAND() calls both returned %v", a)
	}
}
