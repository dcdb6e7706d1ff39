package fn

import (
	"sort"
	"testing"
)

var catalog = []string{
	// math
	"ABS", "ACOS", "ACOSH", "ASIN", "ASINH", "ATAN", "ATAN2", "ATANH",
	"CEILING", "CEILING.MATH", "COMBIN", "COS", "COSH", "DEGREES", "EVEN",
	"EXP", "FACT", "FACTDOUBLE", "FLOOR", "FLOOR.MATH", "GCD", "INT", "LCM",
	"LN", "LOG", "LOG10", "MOD", "MROUND", "ODD", "PI", "POWER", "PRODUCT",
	"QUOTIENT", "RADIANS", "RAND", "RANDARRAY", "RANDBETWEEN", "ROUND",
	"ROUNDDOWN", "ROUNDUP", "SIGN", "SIN", "SINH", "SQRT", "SQRTPI", "SUM",
	"SUMIF", "SUMIFS", "SUMPRODUCT", "SUMSQ", "TAN", "TANH", "TRUNC",
	// statistics
	"AVEDEV", "AVERAGE", "AVERAGEA", "AVERAGEIF", "AVERAGEIFS", "BINOM.DIST",
	"BINOM.INV", "CORREL", "COUNT", "COUNTA", "COUNTBLANK", "COUNTIF",
	"COUNTIFS", "COVARIANCE.P", "COVARIANCE.S", "DEVSQ", "EXPON.DIST",
	"FISHER", "FISHERINV", "FORECAST.LINEAR", "GAUSS", "GEOMEAN", "HARMEAN",
	"INTERCEPT", "KURT", "LARGE", "MAX", "MAXA", "MAXIFS", "MEDIAN", "MIN",
	"MINA", "MINIFS", "MODE.SNGL", "NORM.DIST", "NORM.INV", "NORM.S.DIST",
	"NORM.S.INV", "PEARSON", "PERCENTILE.INC", "PERMUT", "PHI",
	"POISSON.DIST", "QUARTILE.INC", "RANK.EQ", "RSQ", "SKEW", "SLOPE",
	"SMALL", "STANDARDIZE", "STDEV.P", "STDEV.S", "TRIMMEAN", "VAR.P",
	"VAR.S", "WEIBULL.DIST",
	// financial
	"CUMIPMT", "CUMPRINC", "DB", "DDB", "DOLLARDE", "DOLLARFR", "EFFECT",
	"FV", "FVSCHEDULE", "IPMT", "IRR", "ISPMT", "MIRR", "NOMINAL", "NPER",
	"NPV", "PDURATION", "PMT", "PPMT", "PV", "RATE", "RRI", "SLN", "SYD",
	"XIRR", "XNPV",
	// date and time
	"DATE", "DATEDIF", "DATEVALUE", "DAY", "DAYS", "DAYS360", "EDATE",
	"EOMONTH", "HOUR", "ISOWEEKNUM", "MINUTE", "MONTH", "NETWORKDAYS",
	"NOW", "SECOND", "TIME", "TIMEVALUE", "TODAY", "WEEKDAY", "WEEKNUM",
	"WORKDAY", "YEAR", "YEARFRAC",
	// text
	"CHAR", "CLEAN", "CODE", "CONCAT", "CONCATENATE", "DOLLAR", "EXACT",
	"FIND", "FIXED", "LEFT", "LEN", "LOWER", "MID", "NUMBERVALUE", "PROPER",
	"REPLACE", "REPT", "RIGHT", "SEARCH", "SUBSTITUTE", "T", "TEXT",
	"TEXTAFTER", "TEXTBEFORE", "TEXTJOIN", "TEXTSPLIT", "TRIM", "UNICHAR",
	"UNICODE", "UPPER", "VALUE",
	// lookup and reference
	"ADDRESS", "CHOOSE", "COLUMN", "COLUMNS", "HLOOKUP", "INDEX", "INDIRECT",
	"LOOKUP", "MATCH", "OFFSET", "ROW", "ROWS", "SORT", "SORTBY",
	"TRANSPOSE", "UNIQUE", "VLOOKUP", "XLOOKUP", "XMATCH",
	// array shaping
	"BYCOL", "BYROW", "CHOOSECOLS", "CHOOSEROWS", "DROP", "EXPAND", "FILTER",
	"HSTACK", "MAKEARRAY", "MAP", "REDUCE", "SCAN", "SEQUENCE", "TAKE",
	"TOCOL", "TOROW", "VSTACK", "WRAPCOLS", "WRAPROWS",
	// logical
	"AND", "FALSE", "IF", "IFERROR", "IFNA", "IFS", "LAMBDA", "LET", "NOT",
	"OR", "SWITCH", "TRUE", "XOR",
	// complex numbers
	"COMPLEX", "IMABS", "IMAGINARY", "IMARGUMENT", "IMCONJUGATE", "IMCOS",
	"IMCOSH", "IMDIV", "IMEXP", "IMLN", "IMLOG10", "IMLOG2", "IMPOWER",
	"IMPRODUCT", "IMREAL", "IMSIN", "IMSINH", "IMSQRT", "IMSUB", "IMSUM",
	"IMTAN",
	// engineering
	"BIN2DEC", "BIN2HEX", "BIN2OCT", "BITAND", "BITLSHIFT", "BITOR",
	"BITRSHIFT", "BITXOR", "DEC2BIN", "DEC2HEX", "DEC2OCT", "DELTA", "ERF",
	"ERF.PRECISE", "ERFC", "GESTEP", "HEX2BIN", "HEX2DEC", "HEX2OCT",
	"OCT2BIN", "OCT2DEC", "OCT2HEX",
	// information
	"ERROR.TYPE", "ISBLANK", "ISERR", "ISERROR", "ISEVEN", "ISLOGICAL",
	"ISNA", "ISNONTEXT", "ISNUMBER", "ISODD", "ISTEXT", "N", "NA", "TYPE",
}

func TestBuiltinCatalogComplete(t *testing.T) {
	r := Builtins()
	for _, name := range catalog {
		d, ok := r.Lookup(name)
		if !ok {
			t.Errorf("builtin %s is missing", name)
			continue
		}
		if d.Syntax == "" || d.Desc == "" {
			t.Errorf("builtin %s lacks syntax or description", name)
		}
		if d.Category == "" {
			t.Errorf("builtin %s lacks a category", name)
		}
	}
	if got, want := len(r.Names()), len(catalog); got != want {
		t.Errorf("registry holds %d functions, catalog lists %d", got, want)
	}
}

func TestLookupIgnoresCase(t *testing.T) {
	r := Builtins()
	for _, name := range []string{"sum", "Sum", "vLoOkUp", "norm.s.dist"} {
		if _, ok := r.Lookup(name); !ok {
			t.Errorf("Lookup(%q) failed", name)
		}
	}
	if _, ok := r.Lookup("NO.SUCH.FUNCTION"); ok {
		t.Error("Lookup invented a function")
	}
}

func TestVolatileFlags(t *testing.T) {
	r := Builtins()
	volatile := map[string]bool{
		"RAND": true, "RANDBETWEEN": true, "RANDARRAY": true,
		"NOW": true, "TODAY": true, "OFFSET": true, "INDIRECT": true,
	}
	for _, name := range r.Names() {
		d, _ := r.Lookup(name)
		if d.Volatile != volatile[name] {
			t.Errorf("%s volatile = %v, want %v", name, d.Volatile, volatile[name])
		}
	}
}

func TestLazyFlags(t *testing.T) {
	r := Builtins()
	lazy := []string{"IF", "IFS", "IFERROR", "IFNA", "SWITCH", "CHOOSE",
		"AND", "OR", "XOR", "NOT", "ROW", "COLUMN", "ROWS", "COLUMNS", "OFFSET"}
	for _, name := range lazy {
		d, ok := r.Lookup(name)
		if !ok {
			t.Fatalf("builtin %s is missing", name)
		}
		if !d.Lazy() {
			t.Errorf("%s should take thunked arguments", name)
		}
	}
	for _, name := range []string{"SUM", "VLOOKUP", "TEXT", "INDIRECT"} {
		d, _ := r.Lookup(name)
		if d.Lazy() {
			t.Errorf("%s should take evaluated arguments", name)
		}
	}
}

func TestNamesSorted(t *testing.T) {
	names := Builtins().Names()
	if !sort.StringsAreSorted(names) {
		t.Error("Names() is not sorted")
	}
}

func TestCategoriesPresent(t *testing.T) {
	cats := Builtins().Categories()
	if len(cats) < 8 {
		t.Errorf("expected a spread of categories, got %v", cats)
	}
}
