package formula

import (
	"fmt"
	"testing"

	"github.com/cellmath/formula/cell"
	"github.com/cellmath/formula/value"
)

// benchBook fills column A with n numbers. Eval reuses the interned parse,
// so the hot loops below time evaluation rather than parsing.
func benchBook(b *testing.B, n int) *Book {
	b.Helper()
	book := NewBook()
	for i := 0; i < n; i++ {
		book.Set(cell.Ref{Row: i, Col: 0}, value.Number(float64(i%100)))
	}
	return book
}

func BenchmarkParse(b *testing.B) {
	for i := 0; i < b.N; i++ {
		if _, err := Parse("=IF(SUM(A1:A10)>50, AVERAGE(B1:B10)*2, MAX(C1:C10)-MIN(C1:C10))"); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSumLargeRange(b *testing.B) {
	book := benchBook(b, 1000)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		book.Eval("=SUM(A1:A1000)")
	}
}

func BenchmarkNestedConditionals(b *testing.B) {
	book := benchBook(b, 20)
	for i := 0; i < 20; i++ {
		book.Set(cell.Ref{Row: i, Col: 1}, value.Number(float64(i)*1.5))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		book.Eval("=IF(AVERAGE(A1:A20)>10, SUM(B1:B20), MAX(A1:A20))")
	}
}

func BenchmarkManySmallFormulas(b *testing.B) {
	book := benchBook(b, 10)
	forms := []string{"=A1+A2", "=A3*2", "=A4-A5", "=A6/2", "=A7+A8*A9"}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		book.Eval(forms[i%len(forms)])
	}
}

func BenchmarkTextJoin(b *testing.B) {
	book := NewBook()
	for i := 0; i < 50; i++ {
		book.Set(cell.Ref{Row: i, Col: 0}, value.Text(fmt.Sprintf("item-%d", i)))
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		book.Eval(`=TEXTJOIN(",", TRUE, A1:A50)`)
	}
}

func BenchmarkLambdaCall(b *testing.B) {
	book := NewBook()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		book.Eval("=LET(f, LAMBDA(x, x*x+1), f(12))")
	}
}

func BenchmarkCellPopulation(b *testing.B) {
	for i := 0; i < b.N; i++ {
		book := NewBook()
		for r := 0; r < 1000; r++ {
			book.Set(cell.Ref{Row: r, Col: 0}, value.Number(float64(r)))
		}
	}
}
