package xlhelper

import (
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// openLegacy reads a BIFF .xls workbook and copies its values into a new
// excelize file. Formulas and styles are not carried over; the result is
// saved as xlsx.
func openLegacy(path string) (*excelize.File, error) {
	book, err := xls.Open(path, "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open legacy workbook %q: %w", path, err)
	}
	if book == nil {
		return nil, fmt.Errorf("open legacy workbook %q: no Workbook stream", path)
	}

	f := excelize.NewFile()
	defaultSheet := f.GetSheetName(0)
	imported := 0
	for i := 0; i < book.NumSheets(); i++ {
		ws := book.GetSheet(i)
		if ws == nil {
			continue
		}
		name := ws.Name
		if imported == 0 {
			if err := f.SetSheetName(defaultSheet, name); err != nil {
				f.Close()
				return nil, fmt.Errorf("import sheet %q: %w", name, err)
			}
		} else if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, fmt.Errorf("import sheet %q: %w", name, err)
		}
		imported++

		for r := 0; r <= int(ws.MaxRow); r++ {
			row := legacyRow(ws, r)
			if row == nil {
				continue
			}
			// LastCol is one past the last used column.
			for c := row.FirstCol(); c < row.LastCol(); c++ {
				text := row.Col(c)
				if text == "" {
					continue
				}
				var value any = text
				if n, ok := ParseNumber(text); ok {
					value = n
				}
				if err := f.SetCellValue(name, CellName(r+1, c+1), value); err != nil {
					f.Close()
					return nil, fmt.Errorf("import %s!%s: %w", name, CellName(r+1, c+1), err)
				}
			}
		}
	}
	return f, nil
}

// legacyRow returns row r, or nil when the sheet stores no such row.
// WorkSheet.Row panics on rows missing from the file.
func legacyRow(ws *xls.WorkSheet, r int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return ws.Row(r)
}
