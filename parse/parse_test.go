package parse

import (
	"strings"
	"testing"

	"github.com/cellmath/formula/cell"
)

func TestParseRender(t *testing.T) {
	// expected strings show the parsed grouping: compound operands are
	// parenthesized when the tree is rendered back to text.
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"number", "=1", "1"},
		{"decimal", "=2.5", "2.5"},
		{"scientific", "=1e3", "1000"},
		{"text", `="hi"`, `"hi"`},
		{"escaped quote", `="say ""hi"""`, `"say ""hi"""`},
		{"boolean", "=TRUE", "TRUE"},
		{"error literal", "=#N/A", "#N/A"},
		{"cell", "=B12", "B12"},
		{"absolute cell", "=$A$1", "A1"},
		{"range", "=A1:B3", "A1:B3"},
		{"reversed range normalizes", "=B3:A1", "A1:B3"},
		{"name", "=profit", "profit"},
		{"precedence", "=1+2*3", "1+(2*3)"},
		{"grouping", "=(1+2)*3", "(1+2)*3"},
		{"power right assoc", "=2^3^2", "2^(3^2)"},
		{"power binds over minus", "=-2^2", "-(2^2)"},
		{"negative exponent", "=2^-3", "2^-3"},
		{"percent", "=50%", "50%"},
		{"concat", `="a"&"b"&"c"`, `("a"&"b")&"c"`},
		{"compare", "=A1>=3", "A1>=3"},
		{"not equal", "=A1<>B1", "A1<>B1"},
		{"call", "=SUM(A1:A4)", "SUM(A1:A4)"},
		{"call no args", "=NOW()", "NOW()"},
		{"nested call", "=IF(A1>3,1,2)", "IF(A1>3,1,2)"},
		{"omitted args", `=TEXTSPLIT("a,,b",",",,TRUE)`, `TEXTSPLIT("a,,b",",",,TRUE)`},
		{"trailing omitted", "=ROUND(1.5,)", "ROUND(1.5,)"},
		{"array literal", "={1,2;3,4}", "{1,2;3,4}"},
		{"array of text", `={"Apple","Banana"}`, `{"Apple","Banana"}`},
		{"array with sign", "={-1,2}", "{-1,2}"},
		{"intersection", "=A1:B3 B2:C4", "A1:B3 B2:C4"},
		{"lambda", "=LAMBDA(x,x*2)", "LAMBDA(x,x*2)"},
		{"lambda applied", "=LAMBDA(x,x*2)(21)", "LAMBDA(x,x*2)(21)"},
		{"lambda two params", "=LAMBDA(a,b,a+b)(1,2)", "LAMBDA(a,b,a+b)(1,2)"},
		{"let", "=LET(x,5,x*x)", "LET(x,5,x*x)"},
		{"let chain", "=LET(x,1,y,x+1,y*2)", "LET(x,1,y,x+1,y*2)"},
		{"lowercase keywords", "=let(x,1,lambda(y,y+x))", "LET(x,1,LAMBDA(y,y+x))"},
		{"bound name call", "=LET(f,LAMBDA(x,x+1),f(2))", "LET(f,LAMBDA(x,x+1),f(2))"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			e, err := Parse(c.in)
			if err != nil {
				t.Fatalf("Parse(%q): %v", c.in, err)
			}
			if got := e.String(); got != c.want {
				t.Errorf("Parse(%q).String() = %q, want %q", c.in, got, c.want)
			}
		})
	}
}

// rendering a parsed tree and parsing the render again must reach a fixpoint.
func TestRenderFixpoint(t *testing.T) {
	formulas := []string{
		"=1+(2*3)",
		`=XLOOKUP("Orange",{"Apple","Banana"},{10,20},"Not Found")`,
		"=LAMBDA(x,x*2)(21)",
		"=A1:B3 B2:C4",
		"=LET(x,5,x*x)",
		`=TEXTSPLIT("a,,b",",",,TRUE)`,
		"=-(2^2)",
		"=50%",
	}
	for _, f := range formulas {
		e, err := Parse(f)
		if err != nil {
			t.Fatalf("Parse(%q): %v", f, err)
		}
		first := e.String()
		e2, err := Parse("=" + first)
		if err != nil {
			t.Fatalf("reparse of %q: %v", first, err)
		}
		if second := e2.String(); second != first {
			t.Errorf("render not stable: %q then %q", first, second)
		}
	}
}

func TestParseErrors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		msg  string
	}{
		{"missing introducer", "1+2", "must start"},
		{"empty", "=", "no expression"},
		{"blank body", "=   ", "no expression"},
		{"trailing operator", "=1+", "unexpected end"},
		{"union", "=(A1,B2)", "union"},
		{"sheet qualified", "=Sheet1!A1", "sheet-qualified"},
		{"bad range", "=A1:A", "invalid range"},
		{"row only range", "=1:30", "invalid range"},
		{"ragged array", "={1,2;3}", "equal length"},
		{"empty array element", "={1,,2}", "empty"},
		{"lambda without body", "=LAMBDA()", "body"},
		{"lambda numeric param", "=LAMBDA(1,x)", "parameter must be a name"},
		{"lambda cell param", "=LAMBDA(A1,A1+1)", "parameter must be a name"},
		{"lambda duplicate param", "=LAMBDA(x,X,x)", "duplicate"},
		{"let without body", "=LET(x,1)", "pairs"},
		{"let dangling pair", "=LET(x,1,y)", "pairs"},
		{"let duplicate binding", "=LET(x,1,x,2,x)", "duplicate"},
		{"let numeric binding", "=LET(1,2,3)", "binding must be a name"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := Parse(c.in)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", c.in)
			}
			pe, ok := err.(*Error)
			if !ok {
				t.Fatalf("Parse(%q) returned %T, want *Error", c.in, err)
			}
			if !strings.Contains(pe.Msg, c.msg) {
				t.Errorf("Parse(%q) error %q, want mention of %q", c.in, pe.Msg, c.msg)
			}
		})
	}
}

func TestPrecedents(t *testing.T) {
	e, err := Parse("=SUM(A1:A4)+B2*C3-A1+LET(x,D1,x)")
	if err != nil {
		t.Fatal(err)
	}
	got := Precedents(e)
	want := []string{"A1:A4", "B2", "C3", "A1", "D1"}
	if len(got) != len(want) {
		t.Fatalf("Precedents = %v, want %v", got, want)
	}
	for i, s := range got {
		if s.String() != want[i] {
			t.Errorf("precedent %d = %s, want %s", i, s, want[i])
		}
	}
}

func TestPrecedentsDedup(t *testing.T) {
	e := MustParse("=A1+A1+A1:B2")
	got := Precedents(e)
	if len(got) != 2 {
		t.Fatalf("Precedents = %v, want [A1 A1:B2]", got)
	}
	if got[0] != (cell.Span{Start: cell.MustParse("A1"), End: cell.MustParse("A1")}) {
		t.Errorf("first precedent = %v, want A1", got[0])
	}
}

func BenchmarkParse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Parse("=SUM(A1:A100)*2+IF(B1>5,1,0)"); err != nil {
			b.Fatal(err)
		}
	}
}
