package formula

import (
	"math"
	"testing"

	"github.com/cellmath/formula/value"
)

func TestMathFunctions(t *testing.T) {
	sc := newScenario(t, "math").
		FillColumn("B1", 5, 10, 15, 20).
		FillColumn("C1", 1, 2, 3, 4)
	sc.AssertNumber("=ABS(-3.5)", 3.5).
		AssertNumber("=SIGN(-42)", -1).
		AssertNumber("=SIGN(0)", 0).
		AssertNumber("=INT(-1.5)", -2).
		AssertNumber("=EVEN(1.5)", 2).
		AssertNumber("=EVEN(-1)", -2).
		AssertNumber("=ODD(1.5)", 3).
		AssertNumber("=ODD(-2)", -3).
		AssertNumber("=SQRT(16)", 4).
		AssertErr("=SQRT(-4)", value.ErrNum).
		AssertNumber("=LN(EXP(1))", 1).
		AssertNumber("=LOG10(100)", 2).
		AssertNumber("=LOG(8,2)", 3).
		AssertErr("=LOG(8,1)", value.ErrNum).
		AssertNumber("=POWER(2,10)", 1024).
		AssertErr("=POWER(0,0)", value.ErrNum).
		AssertNumber("=MOD(10,3)", 1).
		AssertNumber("=MOD(-3,2)", 1).
		AssertNumber("=MOD(3,-2)", -1).
		AssertErr("=MOD(5,0)", value.ErrDiv0).
		AssertNumber("=QUOTIENT(7,2)", 3).
		AssertNumber("=QUOTIENT(-7,2)", -3)
	// rounding halves away from zero, negative digits shift left of the point
	sc.AssertNumber("=ROUND(2.5,0)", 3).
		AssertNumber("=ROUND(-2.5,0)", -3).
		AssertNumber("=ROUND(3.14159,2)", 3.14).
		AssertNumber("=ROUND(12345,-2)", 12300).
		AssertNumber("=ROUNDUP(3.2,0)", 4).
		AssertNumber("=ROUNDUP(-3.2,0)", -4).
		AssertNumber("=ROUNDDOWN(3.9,0)", 3).
		AssertNumber("=ROUNDDOWN(-3.9,0)", -3).
		AssertNumber("=TRUNC(8.9)", 8).
		AssertNumber("=TRUNC(-8.9)", -8).
		AssertNumber("=MROUND(7,2)", 8).
		AssertNumber("=CEILING(2.5,1)", 3).
		AssertNumber("=CEILING(-2.5,-2)", -4).
		AssertNumber("=CEILING(1.3,0.2)", 1.4).
		AssertErr("=CEILING(2.5,-1)", value.ErrNum).
		AssertNumber("=FLOOR(2.5,1)", 2).
		AssertErr("=FLOOR(5,0)", value.ErrDiv0).
		AssertNumber("=CEILING.MATH(-7.1)", -7).
		AssertNumber("=CEILING.MATH(-7.1,1,1)", -8).
		AssertNumber("=FLOOR.MATH(-7.1)", -8).
		AssertNumber("=FLOOR.MATH(-7.1,1,1)", -7)
	sc.AssertNumber("=FACT(5)", 120).
		AssertNumber("=FACT(0)", 1).
		AssertErr("=FACT(-1)", value.ErrNum).
		AssertNumber("=FACTDOUBLE(7)", 105).
		AssertNumber("=FACTDOUBLE(8)", 384).
		AssertNumber("=COMBIN(8,3)", 56).
		AssertErr("=COMBIN(4,5)", value.ErrNum).
		AssertNumber("=GCD(24,36,60)", 12).
		AssertNumber("=LCM(4,6)", 12).
		AssertNumber("=LCM(5,0)", 0).
		AssertNumber("=SUMSQ(3,4)", 25).
		AssertNumber("=PRODUCT(2,3,4)", 24).
		AssertNumber("=SUMPRODUCT({1,2,3},{4,5,6})", 32).
		AssertNumber("=DEGREES(PI())", 180).
		AssertNumber("=RADIANS(180)", math.Pi).
		AssertNumber("=ATAN2(1,1)", math.Pi/4).
		AssertErr("=ATAN2(0,0)", value.ErrDiv0)
	sc.AssertNumber(`=SUMIF(B1:B4,">8")`, 45).
		AssertNumber(`=SUMIF(B1:B4,">8",C1:C4)`, 9)
}

func TestTextFunctions(t *testing.T) {
	sc := newScenario(t, "text")
	sc.AssertText("=CHAR(65)", "A").
		AssertErr("=CHAR(0)", value.ErrValue).
		AssertNumber(`=CODE("A")`, 65).
		AssertText("=UNICHAR(960)", "π").
		AssertNumber(`=UNICODE("π")`, 960).
		AssertText(`=CLEAN("ab"&CHAR(10)&"c")`, "abc").
		AssertText(`=TRIM("  a   b  ")`, "a b").
		AssertText(`=CONCAT("a",1,TRUE)`, "a1TRUE").
		AssertBool(`=EXACT("Word","word")`, false).
		AssertNumber(`=LEN("Phoenix, AZ")`, 11)
	// FIND is case sensitive, SEARCH folds case and honors wildcards
	sc.AssertNumber(`=FIND("m","Miriam McGovern")`, 6).
		AssertNumber(`=FIND("M","Miriam McGovern",3)`, 8).
		AssertErr(`=FIND("x","abc")`, value.ErrValue).
		AssertNumber(`=SEARCH("e","Statements",6)`, 7).
		AssertNumber(`=SEARCH("b?t","about a bit")`, 9)
	sc.AssertText(`=LEFT("Sale Price",4)`, "Sale").
		AssertText(`=LEFT("Sweden")`, "S").
		AssertText(`=RIGHT("Sale Price",5)`, "Price").
		AssertText(`=MID("Fluid Flow",7,20)`, "Flow").
		AssertText(`=MID("Fluid Flow",20,5)`, "").
		AssertText(`=PROPER("hello world")`, "Hello World").
		AssertText(`=REPLACE("abcdefghijk",6,5,"*")`, "abcde*k").
		AssertText(`=REPT("*-",3)`, "*-*-*-").
		AssertErr(`=REPT("x",-1)`, value.ErrValue).
		AssertText(`=SUBSTITUTE("Sales Data","Sales","Cost")`, "Cost Data").
		AssertText(`=SUBSTITUTE("Quarter 1, 2011","1","2",3)`, "Quarter 1, 2012").
		AssertText("=T(123)", "").
		AssertText(`=T("text")`, "text")
	sc.AssertNumber(`=VALUE("1,000")`, 1000).
		AssertNumber(`=VALUE("16:48")-VALUE("12:00")`, 0.2).
		AssertNumber(`=NUMBERVALUE("2.500,27",",",".")`, 2500.27).
		AssertNumber(`=NUMBERVALUE("3.5%")`, 0.035).
		AssertText("=FIXED(1234.567,1)", "1,234.6").
		AssertText("=FIXED(1234.567,-1)", "1,230").
		AssertText("=FIXED(44.332)", "44.33").
		AssertText("=DOLLAR(1234.567,2)", "$1,234.57").
		AssertText("=DOLLAR(-1234.567,2)", "($1,234.57)").
		AssertText(`=TEXT(1234567.891,"#,##0")`, "1,234,568")
	sc.AssertText(`=TEXTJOIN("-",TRUE,"a","","b")`, "a-b").
		AssertText(`=TEXTJOIN({"-","+"},TRUE,1,2,3)`, "1-2+3").
		AssertText(`=TEXTBEFORE("red-blue-green","-")`, "red").
		AssertText(`=TEXTAFTER("red-blue-green","-",-1)`, "green").
		AssertErr(`=TEXTBEFORE("a,b",",",2)`, value.ErrNA).
		AssertFn(`=TEXTSPLIT("a,b;c,d",",",";")`, func(t *testing.T, v value.Value) {
			a, ok := v.(*value.Array)
			if !ok || a.Rows() != 2 || a.Cols() != 2 {
				t.Fatalf("TEXTSPLIT = %v, want a 2x2 array", v)
			}
			for i, want := range []string{"a", "b", "c", "d"} {
				if s, ok := a.Flat(i).(value.Text); !ok || string(s) != want {
					t.Errorf("TEXTSPLIT[%d] = %v, want %q", i, a.Flat(i), want)
				}
			}
		})
}

func TestStatisticalFunctions(t *testing.T) {
	sc := newScenario(t, "stat").
		FillColumn("A1", 2, 4, 4, 4, 5, 5, 7, 9).
		FillColumn("C1", 100, 200, 300, 400).
		FillColumn("E1", 7, 3.5, 3.5, 1, 2).
		FillTextColumn("D1", "apples", "oranges", "peaches", "apples").
		Set("B1", value.Text("x")).
		SetNumber("B2", 10) // B3 stays blank
	sc.AssertNumber("=AVERAGE(A1:A8)", 5).
		AssertNumber("=STDEV.P(A1:A8)", 2).
		AssertNumber("=VAR.P(A1:A8)", 4).
		AssertNumber("=VAR.S(A1:A8)", 32.0/7).
		AssertNumber("=STDEV.S(A1:A8)", math.Sqrt(32.0/7)).
		AssertNumber("=DEVSQ(A1:A8)", 32).
		AssertNumber("=AVEDEV(A1:A8)", 1.5).
		AssertNumber("=MEDIAN(A1:A8)", 4.5).
		AssertNumber("=MEDIAN(1,2,100)", 2).
		AssertNumber("=MODE.SNGL(A1:A8)", 4).
		AssertErr("=MODE.SNGL(1,2,3)", value.ErrNA).
		AssertNumber("=LARGE(A1:A8,2)", 7).
		AssertNumber("=SMALL(A1:A8,3)", 4).
		AssertErr("=LARGE(A1:A8,9)", value.ErrNum)
	// only real numbers count; COUNTA sees anything non-blank
	sc.AssertNumber("=COUNT(B1:B3)", 1).
		AssertNumber("=COUNTA(B1:B3)", 2).
		AssertNumber("=COUNTBLANK(B1:B3)", 1).
		AssertNumber("=AVERAGEA(B1:B2)", 5).
		AssertNumber("=MAXA(0.5,TRUE)", 1)
	sc.AssertNumber("=PERCENTILE.INC({1,2,3,4},0.3)", 1.9).
		AssertNumber("=QUARTILE.INC({1,2,4,7},2)", 3).
		AssertNumber("=RANK.EQ(3.5,E1:E5,1)", 3).
		AssertNumber("=RANK.EQ(7,E1:E5)", 1).
		AssertErr("=RANK.EQ(8,E1:E5)", value.ErrNA).
		AssertNumber("=TRIMMEAN({2,3,4,5,100},0.4)", 4).
		AssertNumber("=GEOMEAN(4,9)", 6).
		AssertNumber("=HARMEAN(2,4,4)", 3).
		AssertNumber("=STANDARDIZE(42,40,1.5)", 2/1.5).
		AssertNumber("=PERMUT(5,2)", 20).
		AssertNumber("=PHI(0)", 1/math.Sqrt(2*math.Pi))
	sc.AssertNumber("=CORREL({1,2,3,4},{2,4,6,8})", 1).
		AssertNumber("=RSQ({1,2,3,4},{2,4,6,8})", 1).
		AssertNumber("=SLOPE({2,4,6,8},{1,2,3,4})", 2).
		AssertNumber("=INTERCEPT({2,4,6,8},{1,2,3,4})", 0).
		AssertNumber("=FORECAST.LINEAR(10,{2,4,6,8},{1,2,3,4})", 20).
		AssertNumber("=COVARIANCE.P({1,2,3,4},{2,4,6,8})", 2.5).
		AssertNumber("=COVARIANCE.S({1,2,3,4},{2,4,6,8})", 10.0/3)
	sc.AssertNumber(`=AVERAGEIF(C1:C4,">=200")`, 300).
		AssertErr(`=AVERAGEIF(C1:C4,"<0")`, value.ErrDiv0).
		AssertNumber(`=COUNTIF(D1:D4,"apples")`, 2).
		AssertNumber(`=COUNTIF(D1:D4,"a*")`, 2).
		AssertNumber(`=COUNTIFS(C1:C4,">100",C1:C4,"<400")`, 2)
}

func TestDateAndTimeFunctions(t *testing.T) {
	sc := newScenario(t, "dates")
	sc.AssertNumber("=TIME(12,0,0)", 0.5).
		AssertNumber("=TIME(6,0,0)", 0.25).
		AssertNumber("=HOUR(0.75)", 18).
		AssertNumber("=MINUTE(TIME(1,30,0))", 30).
		AssertNumber("=SECOND(TIME(1,2,3))", 3).
		AssertNumber(`=TIMEVALUE("2:24 AM")`, 0.1).
		AssertNumber(`=DATEVALUE("2011-02-23")-DATE(2011,2,23)`, 0)
	// EDATE clamps to the shorter month rather than spilling into the next
	sc.AssertNumber("=EDATE(DATE(2011,1,15),1)-DATE(2011,2,15)", 0).
		AssertNumber("=EDATE(DATE(2024,1,31),1)-DATE(2024,2,29)", 0).
		AssertNumber("=EOMONTH(DATE(2011,1,1),-3)-DATE(2010,10,31)", 0).
		AssertNumber("=DAYS(DATE(2011,3,15),DATE(2011,2,1))", 42).
		AssertNumber("=DAYS360(DATE(2011,1,30),DATE(2011,2,1))", 1)
	sc.AssertNumber("=WEEKDAY(DATE(2008,2,14))", 5).
		AssertNumber("=WEEKDAY(DATE(2008,2,14),3)", 3).
		AssertNumber("=WEEKNUM(DATE(2012,3,9))", 10).
		AssertNumber("=ISOWEEKNUM(DATE(2012,3,9))", 10)
	sc.AssertNumber(`=DATEDIF(DATE(2001,1,1),DATE(2003,1,1),"Y")`, 2).
		AssertNumber(`=DATEDIF(DATE(2001,6,1),DATE(2002,8,15),"D")`, 440).
		AssertNumber(`=DATEDIF(DATE(2001,6,1),DATE(2002,8,15),"YD")`, 75).
		AssertNumber(`=DATEDIF(DATE(2001,6,1),DATE(2002,8,15),"MD")`, 14).
		AssertErr(`=DATEDIF(DATE(2003,1,1),DATE(2001,1,1),"Y")`, value.ErrNum)
	sc.AssertNumber("=NETWORKDAYS(DATE(2012,10,1),DATE(2013,3,1))", 110).
		AssertNumber("=NETWORKDAYS(DATE(2012,10,1),DATE(2013,3,1),DATE(2012,11,22))", 109).
		AssertNumber("=WORKDAY(DATE(2008,10,1),151)-DATE(2009,4,30)", 0).
		AssertNumber("=YEARFRAC(DATE(2012,1,1),DATE(2012,7,30))", 209.0/360).
		AssertNumber("=YEARFRAC(DATE(2012,1,1),DATE(2012,7,30),3)", 211.0/365)
}

func TestLogicalFunctions(t *testing.T) {
	sc := newScenario(t, "logical")
	sc.AssertText(`=IF(1,"y","n")`, "y").
		AssertNumber(`=IF("TRUE",1,2)`, 1).
		AssertErr(`=IF("abc",1,2)`, value.ErrValue).
		AssertNumber("=IFS(FALSE,1,TRUE,2)", 2).
		AssertErr("=IFS(FALSE,1)", value.ErrNA).
		AssertText(`=SWITCH(3,1,"one",2,"two",3,"three")`, "three").
		AssertText(`=SWITCH(99,1,"one","many")`, "many").
		AssertErr(`=SWITCH(99,1,"one")`, value.ErrNA)
	sc.AssertBool("=XOR(TRUE,TRUE,TRUE)", true).
		AssertBool("=XOR(TRUE,TRUE)", false).
		AssertBool("=NOT(FALSE)", true).
		AssertErr(`=NOT("abc")`, value.ErrValue).
		AssertBool("=AND(TRUE,1)", true).
		AssertBool("=AND({1,1,0})", false).
		AssertBool("=OR({0,0})", false).
		AssertErr("=AND(TRUE,1/0)", value.ErrDiv0).
		AssertErr(`=AND({"a"})`, value.ErrValue).
		AssertBool("=TRUE()", true).
		AssertBool("=FALSE()", false)
	// IFNA catches only #N/A; IFERROR catches everything
	sc.AssertText(`=IFNA(MATCH(9,{1,2,3},0),"missing")`, "missing").
		AssertErr("=IFNA(1/0,5)", value.ErrDiv0).
		AssertNumber("=IFERROR(1/0,5)", 5).
		AssertNumber("=IFERROR(42,5)", 42)
}

func TestInformationFunctions(t *testing.T) {
	sc := newScenario(t, "info")
	sc.AssertBool("=ISBLANK(Z99)", true).
		AssertBool(`=ISBLANK("")`, false).
		AssertBool("=ISNUMBER(1)", true).
		AssertBool(`=ISNUMBER("1")`, false).
		AssertBool(`=ISTEXT("a")`, true).
		AssertBool("=ISNONTEXT(1)", true).
		AssertBool("=ISLOGICAL(TRUE)", true).
		AssertBool("=ISLOGICAL(1)", false)
	sc.AssertBool("=ISERR(1/0)", true).
		AssertBool("=ISERR(NA())", false).
		AssertBool("=ISERROR(NA())", true).
		AssertBool("=ISNA(NA())", true).
		AssertBool("=ISNA(1/0)", false).
		AssertErr("=NA()", value.ErrNA)
	// parity truncates before testing
	sc.AssertBool("=ISEVEN(2.5)", true).
		AssertBool("=ISODD(3)", true).
		AssertErr(`=ISEVEN("a")`, value.ErrValue)
	sc.AssertNumber("=N(TRUE)", 1).
		AssertNumber(`=N("text")`, 0).
		AssertNumber("=N(7)", 7).
		AssertNumber("=TYPE(1)", 1).
		AssertNumber(`=TYPE("a")`, 2).
		AssertNumber("=TYPE(TRUE)", 4).
		AssertNumber("=TYPE(NA())", 16).
		AssertNumber("=TYPE({1,2})", 64).
		AssertNumber("=ERROR.TYPE(1/0)", 2).
		AssertNumber("=ERROR.TYPE(NA())", 7).
		AssertErr("=ERROR.TYPE(1)", value.ErrNA)
}

func TestLookupFunctions(t *testing.T) {
	sc := newScenario(t, "lookup").
		FillColumn("A1", 1, 2, 3).
		FillTextColumn("B1", "one", "two", "three")
	sc.AssertText("=VLOOKUP(2,A1:B3,2,FALSE)", "two").
		AssertText("=VLOOKUP(2.5,A1:B3,2)", "two").
		AssertErr("=VLOOKUP(0.5,A1:B3,2)", value.ErrNA).
		AssertErr("=VLOOKUP(1,A1:B3,3,FALSE)", value.ErrRef).
		AssertErr("=VLOOKUP(1,A1:B3,0,FALSE)", value.ErrValue).
		AssertNumber("=HLOOKUP(2,{1,2,3;10,20,30},2,FALSE)", 20).
		AssertText(`=LOOKUP(4.19,{4.14,4.19,5.17},{"red","orange","yellow"})`, "orange").
		AssertNumber("=LOOKUP(2,{1,2,3;10,20,30})", 20)
	sc.AssertNumber("=INDEX({1,2;3,4},2,2)", 4).
		AssertCol("=INDEX({1,2;3,4},0,2)", 2, 4).
		AssertNumber("=INDEX({1,2,3},2)", 2).
		AssertErr("=INDEX({1,2;3,4},3,1)", value.ErrRef)
	sc.AssertNumber("=MATCH(41,{25,38,40,41},0)", 4).
		AssertNumber("=MATCH(39,{25,38,40,41})", 2).
		AssertNumber("=MATCH(39,{41,40,38,25},-1)", 2).
		AssertErr("=MATCH(9,{1,2,3},0)", value.ErrNA).
		AssertNumber(`=XMATCH("b",{"a","b","c"})`, 2).
		AssertNumber("=XMATCH(5,{1,4,8},1)", 3).
		AssertNumber("=XMATCH(5,{1,4,8},-1)", 2)
	// CHOOSE evaluates only the branch it picks
	sc.AssertText(`=CHOOSE(2,"a","b","c")`, "b").
		AssertNumber("=CHOOSE(1,1,1/0)", 1).
		AssertErr("=CHOOSE(5,1,2)", value.ErrValue)
	sc.AssertText("=ADDRESS(2,3)", "$C$2").
		AssertText("=ADDRESS(2,3,2)", "C$2").
		AssertText("=ADDRESS(2,3,4)", "C2").
		AssertText("=ADDRESS(2,3,1,FALSE)", "R2C3").
		AssertText(`=ADDRESS(2,3,1,TRUE,"My Sheet")`, "'My Sheet'!$C$2")
	sc.AssertNumber("=ROW()", 1).
		AssertNumber("=ROW(B5)", 5).
		AssertNumber("=COLUMN(B5)", 2).
		AssertNumber("=ROWS(A1:C4)", 4).
		AssertNumber("=COLUMNS(A1:C4)", 3)
	sc.AssertText("=OFFSET(A1,1,1)", "two").
		AssertNumber("=SUM(OFFSET(A1,0,0,3,1))", 6).
		AssertErr("=OFFSET(A1,-1,0)", value.ErrRef).
		AssertText(`=INDIRECT("B2")`, "two").
		AssertText(`=INDIRECT("R2C2",FALSE)`, "two").
		AssertNumber(`=SUM(INDIRECT("A1:A3"))`, 6).
		AssertErr(`=INDIRECT("1A")`, value.ErrRef)
	sc.AssertRow("=TRANSPOSE({1;2;3})", 1, 2, 3).
		AssertFn("=TRANSPOSE({1,2;3,4})", func(t *testing.T, v value.Value) {
			a, ok := v.(*value.Array)
			if !ok || a.Rows() != 2 || a.Cols() != 2 {
				t.Fatalf("TRANSPOSE = %v, want a 2x2 array", v)
			}
			if n, ok := a.At(0, 1).(value.Number); !ok || n != 3 {
				t.Errorf("TRANSPOSE[0,1] = %v, want 3", a.At(0, 1))
			}
		})
	sc.AssertCol("=SORT({3;1;2})", 1, 2, 3).
		AssertCol("=SORT({3;1;2},1,-1)", 3, 2, 1).
		AssertCol("=INDEX(SORT({1,9;2,8;3,7},2),0,1)", 3, 2, 1).
		AssertRow("=SORT({3,1,2},1,1,TRUE)", 1, 2, 3).
		AssertErr("=SORT({1;2},1,0)", value.ErrValue).
		AssertTextRow(`=TOROW(SORTBY({"a";"b";"c"},{3;1;2}))`, "b", "c", "a").
		AssertCol("=SORTBY({1;2;3},{1;2;3},-1)", 3, 2, 1)
	sc.AssertCol("=UNIQUE({1;2;2;3})", 1, 2, 3).
		AssertText(`=UNIQUE({"a";"A"})`, "a").
		AssertCol("=UNIQUE({1;2;2;3},FALSE,TRUE)", 1, 3)
}

func TestArrayFunctions(t *testing.T) {
	sc := newScenario(t, "array").
		SetNumber("G1", 1).
		SetNumber("G3", 2) // G2 stays blank
	sc.AssertCol("=SEQUENCE(3)", 1, 2, 3).
		AssertNumber("=SUM(SEQUENCE(2,3,10,5))", 135).
		AssertErr("=SEQUENCE(0)", value.ErrValue).
		AssertRow("=TOROW({1,2;3,4})", 1, 2, 3, 4).
		AssertCol("=TOCOL({1,2;3,4},0,TRUE)", 1, 3, 2, 4).
		AssertRow("=TOROW(G1:G3,1)", 1, 2)
	sc.AssertNumber("=SUM(WRAPROWS(SEQUENCE(5),2,0))", 15).
		AssertErr("=SUM(WRAPROWS(SEQUENCE(5),2))", value.ErrNA).
		AssertRow("=TOROW(WRAPCOLS(SEQUENCE(4),2))", 1, 3, 2, 4)
	sc.AssertRow("=TAKE({1,2,3;4,5,6},1)", 1, 2, 3).
		AssertRow("=TAKE({1,2,3;4,5,6},-1)", 4, 5, 6).
		AssertRow("=TAKE({1,2,3;4,5,6},1,-2)", 2, 3).
		AssertErr("=TAKE({1,2},0)", value.ErrValue).
		AssertRow("=DROP({1,2,3;4,5,6},1)", 4, 5, 6).
		AssertRow("=TOROW(DROP({1,2,3;4,5,6},0,-1))", 1, 2, 4, 5).
		AssertErr("=DROP({1,2},0,2)", value.ErrValue)
	sc.AssertRow("=TOROW(CHOOSECOLS({1,2,3;4,5,6},3,1))", 3, 1, 6, 4).
		AssertRow("=CHOOSEROWS({1,2;3,4;5,6},-1)", 5, 6).
		AssertErr("=CHOOSECOLS({1,2},3)", value.ErrValue).
		AssertRow("=TOROW(EXPAND({1,2},2,3,0))", 1, 2, 0, 0, 0, 0).
		AssertErr("=EXPAND({1,2,3},1,2)", value.ErrValue)
	sc.AssertCol("=FILTER({1;2;3;4},{1;2;3;4}>2)", 3, 4).
		AssertRow("=FILTER({1,2,3},{TRUE,FALSE,TRUE})", 1, 3).
		AssertText(`=FILTER({1;2},{FALSE;FALSE},"none")`, "none").
		AssertErr("=FILTER({1;2},{FALSE;FALSE})", value.ErrValue).
		AssertErr("=FILTER({1;2;3},{TRUE;FALSE})", value.ErrValue)
	// ragged stacks pad with #N/A
	sc.AssertRow("=HSTACK({1,2},{3})", 1, 2, 3).
		AssertCol("=VSTACK({1;2},{3})", 1, 2, 3).
		AssertErr("=SUM(VSTACK({1,2},{3}))", value.ErrNA)
	sc.AssertRow("=MAP({1,2,3},LAMBDA(x,x*2))", 2, 4, 6).
		AssertRow("=MAP({1,2},{10,20},LAMBDA(a,b,a+b))", 11, 22).
		AssertRow("=MAP({1,2},3,LAMBDA(a,b,a*b))", 3, 6).
		AssertRow(`=MAP({1,4,9},"SQRT")`, 1, 2, 3).
		AssertErr("=MAP({1,2},{1,2,3},LAMBDA(a,b,a+b))", value.ErrValue).
		AssertErr("=MAP({1,2},2)", value.ErrValue)
	sc.AssertNumber("=REDUCE(0,{1,2,3,4},LAMBDA(a,b,a+b))", 10).
		AssertRow("=SCAN(0,{1,2,3},LAMBDA(a,b,a+b))", 1, 3, 6).
		AssertCol("=BYROW({1,2;3,4},LAMBDA(r,SUM(r)))", 3, 7).
		AssertRow("=BYCOL({1,2;3,4},LAMBDA(c,MAX(c)))", 3, 4).
		AssertNumber("=SUM(MAKEARRAY(2,3,LAMBDA(r,c,r*10+c)))", 102).
		AssertErr("=MAKEARRAY(0,2,LAMBDA(r,c,r))", value.ErrValue)
}

func TestFinancialFunctions(t *testing.T) {
	sc := newScenario(t, "financial")
	c := math.Pow(1.1, 2)
	sc.AssertNumber("=PMT(0,24,-2400)", 100).
		AssertErr("=PMT(0.1,0,100)", value.ErrNum).
		AssertNumber("=PMT(0.1,2,-1000)", 1000*c*0.1/(c-1)).
		AssertNumber("=FV(0,12,-100)", 1200).
		AssertNumber("=FV(0.1,1,0,-100)", 110).
		AssertNumber("=PV(0.1,1,0,-110)", 100).
		AssertNumber("=NPER(0,-100,1000)", 10).
		AssertErr("=NPER(0.1,0,100,100)", value.ErrNum).
		AssertNumber("=RATE(10,0,-100,200)", math.Pow(2, 0.1)-1).
		AssertErr("=RATE(0,10,100)", value.ErrNum)
	// the period count NPER reports grows the balance to exactly the target
	sc.Calc("B1", "=NPER(0.1,0,-100,200)").
		AssertNumber("=FV(0.1,B1,0,-100)", 200)
	sc.AssertNumber("=IPMT(0.1,1,3,-100)", 10).
		AssertNumber("=IPMT(0.1,1,3,-100,0,1)", 0).
		AssertErr("=IPMT(0.1,4,3,-100)", value.ErrNum).
		AssertNumber("=PPMT(0.1,2,3,-100)+IPMT(0.1,2,3,-100)-PMT(0.1,3,-100)", 0).
		AssertNumber("=CUMIPMT(0.1,2,100,1,1,0)", -10).
		AssertNumber("=CUMIPMT(0.1,2,100,1,2,0)+CUMPRINC(0.1,2,100,1,2,0)-2*PMT(0.1,2,100)", 0).
		AssertErr("=CUMIPMT(0.1,2,100,0,2,0)", value.ErrNum)
	sc.AssertNumber("=NPV(0,100,200,300)", 600).
		AssertNumber("=NPV(0.1,110)", 100).
		AssertErr("=NPV(-1,100)", value.ErrDiv0).
		AssertNumber("=IRR({-100,110})", 0.1).
		AssertErr("=IRR({-100,-110})", value.ErrNum).
		AssertErr("=IRR({-100})", value.ErrNum).
		AssertNumber("=MIRR({-100,0,121},0.1,0.1)", 0.1).
		AssertErr("=MIRR({-100,-50},0.1,0.1)", value.ErrDiv0)
	sc.AssertNumber("=SLN(30000,7500,10)", 2250).
		AssertErr("=SLN(30000,7500,0)", value.ErrDiv0).
		AssertNumber("=SYD(30000,7500,10,1)", 450000.0/110).
		AssertErr("=SYD(30000,7500,10,11)", value.ErrNum).
		AssertNumber("=DDB(2400,300,10,1)", 480).
		AssertNumber("=DDB(2400,300,10,2)", 384).
		AssertNumber("=DDB(2400,300,10,1,1.5)", 360)
	sc.AssertNumber("=DOLLARDE(1.02,16)", 1.125).
		AssertNumber("=DOLLARFR(1.125,16)", 1.02).
		AssertErr("=DOLLARDE(1.1,0)", value.ErrDiv0).
		AssertErr("=DOLLARFR(1.1,-1)", value.ErrNum).
		AssertNumber("=EFFECT(0.1,2)", 0.1025).
		AssertErr("=EFFECT(0,2)", value.ErrNum).
		AssertNumber("=NOMINAL(0.1025,2)", 0.1).
		AssertNumber("=FVSCHEDULE(100,{0.1,-0.1})", 99).
		AssertErr(`=FVSCHEDULE(100,{0.1,"x"})`, value.ErrValue).
		AssertNumber("=ISPMT(0.1,1,4,4000)", -300).
		AssertNumber("=PDURATION(0.1,100,200)", math.Log(2)/math.Log(1.1)).
		AssertNumber("=RRI(10,100,200)", math.Pow(2, 0.1)-1).
		AssertErr("=RRI(0,100,200)", value.ErrNum)
}
