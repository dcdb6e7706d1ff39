// Fx evaluates spreadsheet formulas from the command line.
//
// With no arguments it reads formulas from standard input, one per line.
// Lines of the form "B2 = 12" or "B2 = =SUM(A1:A4)" set a cell instead of
// evaluating. Arguments are evaluated in order and the results printed.
//
//	fx '=SUM(1,2,3)*2'
//	fx -f book.yaml -cell B2
//	fx -f report.xlsx -s Totals '=MAX(C1:C100)'
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/cellmath/formula"
	"github.com/cellmath/formula/cell"
	"github.com/cellmath/formula/value"
)

var (
	bookFlag  = flag.String("f", "", "workbook to load (.yaml or .xlsx)")
	sheetFlag = flag.String("s", "", "sheet to read from an .xlsx workbook (default first)")
	cellFlag  = flag.String("cell", "", "print the value of one cell and exit")
	prompt    = flag.String("prompt", "fx> ", "interactive prompt")
	verbose   = flag.Bool("v", false, "trace function dispatch to stderr")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("fx: ")

	flag.Usage = usage
	flag.Parse()

	book, err := loadBook(*bookFlag, *sheetFlag)
	if err != nil {
		log.Fatal(err)
	}
	book.Options.MaxDepth = formula.DefaultMaxDepth
	if *verbose {
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(zerolog.DebugLevel).With().Timestamp().Logger()
		book.Options.Logger = &logger
	}

	if *cellFlag != "" {
		v, err := book.CellA1(*cellFlag)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println(v)
		return
	}

	if flag.NArg() > 0 {
		for _, arg := range flag.Args() {
			fmt.Println(book.Eval(arg))
		}
		return
	}
	repl(book)
}

func repl(book *formula.Book) {
	in := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(*prompt)
		if !in.Scan() {
			fmt.Println()
			return
		}
		line := strings.TrimSpace(in.Text())
		if line == "" {
			continue
		}
		if done, err := assign(book, line); done {
			if err != nil {
				log.Print(err)
			}
			continue
		}
		fmt.Println(book.Eval(line))
	}
}

// assign handles "ADDR = rest" lines. rest starting with = becomes a formula
// cell; anything else is stored as a literal.
func assign(book *formula.Book, line string) (bool, error) {
	eq := strings.Index(line, "=")
	if eq <= 0 {
		return false, nil
	}
	ref, err := cell.Parse(strings.TrimSpace(line[:eq]))
	if err != nil {
		return false, nil
	}
	rest := strings.TrimSpace(line[eq+1:])
	if strings.HasPrefix(rest, "=") {
		return true, book.SetFormula(ref, rest)
	}
	book.Set(ref, importValue(rest))
	return true, nil
}

func loadBook(path, sheetName string) (*formula.Book, error) {
	if path == "" {
		return formula.NewBook(), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formula.ReadBookFile(path)
	case ".xlsx", ".xlsm":
		return loadExcel(path, sheetName)
	}
	return nil, fmt.Errorf("unsupported workbook %q: want .yaml or .xlsx", path)
}

// loadExcel pulls one sheet's values into a fresh book. Formulas in the file
// arrive as their cached results; fx evaluates new formulas against those.
func loadExcel(path, sheetName string) (*formula.Book, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheetName == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
		sheetName = list[0]
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheetName, err)
	}

	book := formula.NewBook()
	for r, row := range rows {
		for c, text := range row {
			if text == "" {
				continue
			}
			book.Set(cell.Ref{Row: r, Col: c}, importValue(text))
		}
	}
	return book, nil
}

// importValue types a formatted cell the way a paste would: numbers,
// booleans, and error tokens keep their type, everything else is text.
func importValue(text string) value.Value {
	if n, err := strconv.ParseFloat(text, 64); err == nil {
		return value.Number(n)
	}
	switch strings.ToUpper(text) {
	case "TRUE":
		return value.Boolean(true)
	case "FALSE":
		return value.Boolean(false)
	}
	if e, ok := value.ParseErrorToken(text); ok {
		return e
	}
	return value.Text(text)
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: fx [options] [formula ...]\n")
	fmt.Fprintf(os.Stderr, "Flags:\n")
	flag.PrintDefaults()
	os.Exit(2)
}
