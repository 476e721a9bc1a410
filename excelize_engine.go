package xlhelper

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"
)

// ExcelizeEngine opens and creates workbooks with excelize. Files ending in
// .xls are imported through the legacy reader.
type ExcelizeEngine struct{}

// Open loads the workbook at path.
func (ExcelizeEngine) Open(path string) (Workbook, error) {
	if strings.EqualFold(filepath.Ext(path), ".xls") {
		f, err := openLegacy(path)
		if err != nil {
			return nil, err
		}
		return NewExcelizeWorkbook(f), nil
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	return NewExcelizeWorkbook(f), nil
}

// CreateNew returns an empty workbook with the excelize default sheet.
func (ExcelizeEngine) CreateNew() (Workbook, error) {
	return NewExcelizeWorkbook(excelize.NewFile()), nil
}

// ExcelizeWorkbook implements Workbook using excelize.
type ExcelizeWorkbook struct {
	file *excelize.File

	mu sync.Mutex // protects writes; the file may be shared via File()
}

// NewExcelizeWorkbook wraps an excelize file.
func NewExcelizeWorkbook(f *excelize.File) *ExcelizeWorkbook {
	return &ExcelizeWorkbook{file: f}
}

// SheetNames returns all sheet names in workbook order.
func (wb *ExcelizeWorkbook) SheetNames() []string {
	return wb.file.GetSheetList()
}

// DefaultSheet returns the sheet excelize marks active.
func (wb *ExcelizeWorkbook) DefaultSheet() string {
	return wb.file.GetSheetName(wb.file.GetActiveSheetIndex())
}

// NewSheet appends an empty sheet.
func (wb *ExcelizeWorkbook) NewSheet(name string) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	if _, err := wb.file.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %q: %w", name, err)
	}
	return nil
}

// GetCell reads the raw stored value and types it from the cell's type tag.
func (wb *ExcelizeWorkbook) GetCell(sheet string, row, col int) (any, error) {
	cell := CellName(row, col)
	raw, err := wb.file.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read %s!%s: %w", sheet, cell, err)
	}
	ct, err := wb.file.GetCellType(sheet, cell)
	if err != nil {
		return nil, fmt.Errorf("read type of %s!%s: %w", sheet, cell, err)
	}
	return decodeRaw(raw, cellTypeOf(ct)), nil
}

// cellTypeOf maps excelize cell types to CellType. Numbers are written
// without a type tag, so an unset tag is read as a number.
func cellTypeOf(ct excelize.CellType) CellType {
	switch ct {
	case excelize.CellTypeBool:
		return CellBoolean
	case excelize.CellTypeNumber, excelize.CellTypeUnset:
		return CellNumber
	case excelize.CellTypeDate:
		return CellDate
	case excelize.CellTypeError:
		return CellError
	case excelize.CellTypeFormula:
		return CellFormula
	default:
		return CellString
	}
}

// SetCell writes a value. excelize keeps the cell's existing style.
func (wb *ExcelizeWorkbook) SetCell(sheet string, row, col int, value any) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	cell := CellName(row, col)
	if err := wb.file.SetCellValue(sheet, cell, value); err != nil {
		return fmt.Errorf("write %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// GetFormula returns the cell formula with its leading "=", or "".
func (wb *ExcelizeWorkbook) GetFormula(sheet string, row, col int) (string, error) {
	cell := CellName(row, col)
	formula, err := wb.file.GetCellFormula(sheet, cell)
	if err != nil {
		return "", fmt.Errorf("read formula %s!%s: %w", sheet, cell, err)
	}
	if formula == "" || strings.HasPrefix(formula, "=") {
		return formula, nil
	}
	return "=" + formula, nil
}

// SetFormula stores a formula (without "=", as xlsx keeps it) and drops
// any cached value so the cell reads as empty until recalculated.
func (wb *ExcelizeWorkbook) SetFormula(sheet string, row, col int, formula string) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	cell := CellName(row, col)
	if err := wb.file.SetCellValue(sheet, cell, nil); err != nil {
		return fmt.Errorf("clear %s!%s: %w", sheet, cell, err)
	}
	if err := wb.file.SetCellFormula(sheet, cell, strings.TrimPrefix(formula, "=")); err != nil {
		return fmt.Errorf("write formula %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// ApplyStyle registers the style and assigns it to the cell. A nil style
// resets the cell to the default style.
func (wb *ExcelizeWorkbook) ApplyStyle(sheet string, row, col int, style *Style) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	cell := CellName(row, col)
	styleID := 0
	if style != nil {
		id, err := wb.file.NewStyle(toExcelizeStyle(style))
		if err != nil {
			return fmt.Errorf("create style for %s!%s: %w", sheet, cell, err)
		}
		styleID = id
	}
	if err := wb.file.SetCellStyle(sheet, cell, cell, styleID); err != nil {
		return fmt.Errorf("style %s!%s: %w", sheet, cell, err)
	}
	return nil
}

func toExcelizeStyle(s *Style) *excelize.Style {
	out := &excelize.Style{}
	if s.Font != nil {
		out.Font = &excelize.Font{
			Bold:   s.Font.Bold,
			Italic: s.Font.Italic,
			Strike: s.Font.Strike,
			Size:   s.Font.Size,
			Family: s.Font.Family,
			Color:  s.Font.Color,
		}
		if s.Font.Underline {
			out.Font.Underline = "single"
		}
	}
	if s.Fill != nil {
		out.Fill = excelize.Fill{
			Type:    "pattern",
			Color:   []string{s.Fill.Color},
			Pattern: s.Fill.EffectivePattern(),
		}
	}
	for _, b := range s.Border {
		out.Border = append(out.Border, excelize.Border{
			Type:  b.Side,
			Color: b.Color,
			Style: b.EffectiveStyle(),
		})
	}
	if s.Alignment != nil {
		out.Alignment = &excelize.Alignment{
			Horizontal: s.Alignment.Horizontal,
			Vertical:   s.Alignment.Vertical,
			WrapText:   s.Alignment.WrapText,
		}
	}
	if s.NumberFormat != "" {
		numFmt := s.NumberFormat
		out.CustomNumFmt = &numFmt
	}
	return out
}

// ColumnWidth returns the column width for a sheet/column.
func (wb *ExcelizeWorkbook) ColumnWidth(sheet string, col int) (float64, error) {
	w, err := wb.file.GetColWidth(sheet, ColToLetters(col))
	if err != nil {
		return 0, fmt.Errorf("read width of column %s: %w", ColToLetters(col), err)
	}
	return w, nil
}

// SetColumnWidth sets the display width of one column.
func (wb *ExcelizeWorkbook) SetColumnWidth(sheet string, col int, width float64) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	name := ColToLetters(col)
	if err := wb.file.SetColWidth(sheet, name, name, width); err != nil {
		return fmt.Errorf("set width of column %s: %w", name, err)
	}
	return nil
}

// UsedRange counts rows and the widest row that hold values.
func (wb *ExcelizeWorkbook) UsedRange(sheet string) (int, int, error) {
	rows, err := wb.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return 0, 0, fmt.Errorf("read rows from sheet %q: %w", sheet, err)
	}
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	return len(rows), cols, nil
}

// SaveAs writes the workbook to path; the extension picks the xlsx flavour.
func (wb *ExcelizeWorkbook) SaveAs(path string) error {
	wb.mu.Lock()
	defer wb.mu.Unlock()
	return wb.file.SaveAs(path)
}

// Close closes the underlying excelize file.
func (wb *ExcelizeWorkbook) Close() error {
	return wb.file.Close()
}

// File returns the underlying excelize file for advanced operations.
func (wb *ExcelizeWorkbook) File() *excelize.File {
	return wb.file
}
