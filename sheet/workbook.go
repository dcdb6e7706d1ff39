package sheet

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cellmath/formula/cell"
	"github.com/cellmath/formula/value"
)

// Workbook is a sheet loaded from the YAML fixture format, together with
// the formula cells and defined names the file carried. Formula text is not
// parsed here; the caller decides when to evaluate it.
type Workbook struct {
	Sheet    *Sheet
	Formulas map[cell.Ref]string // formula cells, normalized to "=BODY"
	Names    map[string]string   // defined name (upper) -> formula text
}

type workbookDoc struct {
	Cells map[string]any    `yaml:"cells"`
	Names map[string]string `yaml:"names"`
}

// LoadWorkbook parses the YAML workbook format:
//
//	cells:
//	  A1: 10
//	  B2: "=SUM(A1:A4)"
//	names:
//	  DISCOUNT: "=LAMBDA(p, p*0.9)"
//
// Plain scalars become cell values. A string starting with = is kept aside
// as formula text. Quoting matters: 10 is a number, "10" is text.
func LoadWorkbook(data []byte) (*Workbook, error) {
	var doc workbookDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("workbook: %w", err)
	}
	wb := &Workbook{
		Sheet:    New(),
		Formulas: make(map[cell.Ref]string),
		Names:    make(map[string]string, len(doc.Names)),
	}
	for addr, raw := range doc.Cells {
		ref, err := cell.Parse(addr)
		if err != nil {
			return nil, fmt.Errorf("workbook cell %q: %w", addr, err)
		}
		v, formula, err := decodeCell(raw)
		if err != nil {
			return nil, fmt.Errorf("workbook cell %q: %w", addr, err)
		}
		if formula != "" {
			wb.Formulas[ref] = formula
			continue
		}
		wb.Sheet.Set(ref, v)
	}
	for name, text := range doc.Names {
		key := strings.ToUpper(name)
		if _, dup := wb.Names[key]; dup {
			return nil, fmt.Errorf("workbook name %q: already defined", name)
		}
		wb.Names[key] = text
	}
	return wb, nil
}

// ReadWorkbookFile loads a workbook from disk.
func ReadWorkbookFile(path string) (*Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read workbook: %w", err)
	}
	return LoadWorkbook(data)
}

// decodeCell converts a decoded YAML scalar to a cell value, or recognizes
// formula text by its leading =.
func decodeCell(raw any) (value.Value, string, error) {
	switch v := raw.(type) {
	case nil:
		return value.Empty{}, "", nil
	case bool:
		return value.Boolean(v), "", nil
	case int:
		return value.Number(v), "", nil
	case int64:
		return value.Number(v), "", nil
	case float64:
		return value.Number(v), "", nil
	case string:
		text := strings.TrimSpace(v)
		if strings.HasPrefix(text, "=") {
			body := strings.TrimSpace(strings.TrimPrefix(text, "="))
			if body == "" {
				return nil, "", fmt.Errorf("empty formula")
			}
			return nil, "=" + body, nil
		}
		return value.Text(v), "", nil
	}
	return nil, "", fmt.Errorf("unsupported value of type %T", raw)
}
