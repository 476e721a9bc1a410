package xlhelper

import (
	"fmt"
	"strings"
)

// Describe returns a human-readable outline of the workbook: each sheet
// with its used range, followed by the formula cells it holds.
// Useful for checking a generated workbook without opening a spreadsheet app.
//
//	Workbook: report.xlsx
//	Sheet1 (active) A1:D5 (4x5)
//	  Formulas:
//	    D2: =B2*C2
func (f *Facade) Describe() (string, error) {
	if err := f.requireWorkbook(); err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("Workbook: ")
	if f.path != "" {
		b.WriteString(f.path)
	} else {
		b.WriteString("<unsaved>")
	}
	b.WriteByte('\n')

	for _, sheet := range f.wb.SheetNames() {
		if err := f.describeSheet(&b, sheet); err != nil {
			return "", err
		}
	}
	return b.String(), nil
}

func (f *Facade) describeSheet(b *strings.Builder, sheet string) error {
	rows, cols, err := f.wb.UsedRange(sheet)
	if err != nil {
		return err
	}
	b.WriteString(sheet)
	if sheet == f.sheet {
		b.WriteString(" (active)")
	}
	if rows == 0 || cols == 0 {
		b.WriteString(" empty\n")
		return nil
	}
	used := Range{First: NewCellRef("", 1, 1), Last: NewCellRef("", rows, cols)}
	fmt.Fprintf(b, " %s %s\n", used, used.Size())

	var formulas []string
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			formula, err := f.wb.GetFormula(sheet, r, c)
			if err != nil {
				return err
			}
			if formula != "" {
				formulas = append(formulas, fmt.Sprintf("    %s: %s", CellName(r, c), formula))
			}
		}
	}
	if len(formulas) > 0 {
		b.WriteString("  Formulas:\n")
		for _, line := range formulas {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	return nil
}
