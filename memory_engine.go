package xlhelper

import (
	"fmt"
	"slices"
)

// MemoryEngine creates workbooks that live only in memory. It is meant for
// tests and scratch computations; it cannot open files.
type MemoryEngine struct{}

// Open always fails: there is no file format behind a memory workbook.
func (MemoryEngine) Open(path string) (Workbook, error) {
	return nil, fmt.Errorf("%w: memory engine cannot load %q", ErrUnsupportedFormat, path)
}

// CreateNew returns a workbook with a single sheet named "Sheet1".
func (MemoryEngine) CreateNew() (Workbook, error) {
	return NewMemoryWorkbook("Sheet1"), nil
}

// MemoryWorkbook implements Workbook over maps.
type MemoryWorkbook struct {
	order  []string
	sheets map[string]*memorySheet
	saved  []string
	closed bool
}

type memorySheet struct {
	cells  map[[2]int]*memoryCell
	widths map[int]float64
}

type memoryCell struct {
	value   any
	formula string
	style   *Style
}

// NewMemoryWorkbook creates a workbook with the given sheets, in order.
// A repeated name is created once.
func NewMemoryWorkbook(sheets ...string) *MemoryWorkbook {
	wb := &MemoryWorkbook{sheets: make(map[string]*memorySheet)}
	for _, name := range sheets {
		if _, ok := wb.sheets[name]; !ok {
			wb.addSheet(name)
		}
	}
	return wb
}

// SheetNames returns all sheet names in creation order.
func (wb *MemoryWorkbook) SheetNames() []string {
	return slices.Clone(wb.order)
}

// DefaultSheet returns the first sheet.
func (wb *MemoryWorkbook) DefaultSheet() string {
	if len(wb.order) == 0 {
		return ""
	}
	return wb.order[0]
}

// NewSheet appends an empty sheet.
func (wb *MemoryWorkbook) NewSheet(name string) error {
	if _, ok := wb.sheets[name]; ok {
		return fmt.Errorf("%w: %q", ErrSheetExists, name)
	}
	wb.addSheet(name)
	return nil
}

func (wb *MemoryWorkbook) addSheet(name string) {
	wb.sheets[name] = &memorySheet{
		cells:  make(map[[2]int]*memoryCell),
		widths: make(map[int]float64),
	}
	wb.order = append(wb.order, name)
}

func (wb *MemoryWorkbook) sheet(name string) (*memorySheet, error) {
	s, ok := wb.sheets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	return s, nil
}

func (s *memorySheet) cell(row, col int) *memoryCell {
	key := [2]int{row, col}
	c, ok := s.cells[key]
	if !ok {
		c = &memoryCell{}
		s.cells[key] = c
	}
	return c
}

// GetCell returns the stored value or nil.
func (wb *MemoryWorkbook) GetCell(sheet string, row, col int) (any, error) {
	s, err := wb.sheet(sheet)
	if err != nil {
		return nil, err
	}
	if c, ok := s.cells[[2]int{row, col}]; ok {
		return c.value, nil
	}
	return nil, nil
}

// SetCell stores a value and clears any formula on the cell.
func (wb *MemoryWorkbook) SetCell(sheet string, row, col int, value any) error {
	s, err := wb.sheet(sheet)
	if err != nil {
		return err
	}
	c := s.cell(row, col)
	c.value = normalizeValue(value)
	c.formula = ""
	return nil
}

// GetFormula returns the stored formula or "".
func (wb *MemoryWorkbook) GetFormula(sheet string, row, col int) (string, error) {
	s, err := wb.sheet(sheet)
	if err != nil {
		return "", err
	}
	if c, ok := s.cells[[2]int{row, col}]; ok {
		return c.formula, nil
	}
	return "", nil
}

// SetFormula stores a formula; the cell value reads as nil afterwards.
func (wb *MemoryWorkbook) SetFormula(sheet string, row, col int, formula string) error {
	s, err := wb.sheet(sheet)
	if err != nil {
		return err
	}
	c := s.cell(row, col)
	c.value = nil
	c.formula = formula
	return nil
}

// ApplyStyle records the style on the cell.
func (wb *MemoryWorkbook) ApplyStyle(sheet string, row, col int, style *Style) error {
	s, err := wb.sheet(sheet)
	if err != nil {
		return err
	}
	s.cell(row, col).style = style
	return nil
}

// Style returns the style last applied to a cell.
func (wb *MemoryWorkbook) Style(sheet string, row, col int) *Style {
	s, ok := wb.sheets[sheet]
	if !ok {
		return nil
	}
	if c, ok := s.cells[[2]int{row, col}]; ok {
		return c.style
	}
	return nil
}

// DefaultColumnWidth matches the xlsx default column width.
const DefaultColumnWidth = 9.140625

// ColumnWidth returns the width set on the column, or the default.
func (wb *MemoryWorkbook) ColumnWidth(sheet string, col int) (float64, error) {
	s, err := wb.sheet(sheet)
	if err != nil {
		return 0, err
	}
	if w, ok := s.widths[col]; ok {
		return w, nil
	}
	return DefaultColumnWidth, nil
}

// SetColumnWidth records a column width.
func (wb *MemoryWorkbook) SetColumnWidth(sheet string, col int, width float64) error {
	s, err := wb.sheet(sheet)
	if err != nil {
		return err
	}
	s.widths[col] = width
	return nil
}

// UsedRange reports the furthest row and column holding a value or formula.
func (wb *MemoryWorkbook) UsedRange(sheet string) (int, int, error) {
	s, err := wb.sheet(sheet)
	if err != nil {
		return 0, 0, err
	}
	rows, cols := 0, 0
	for key, c := range s.cells {
		if c.value == nil && c.formula == "" {
			continue
		}
		rows = max(rows, key[0])
		cols = max(cols, key[1])
	}
	return rows, cols, nil
}

// SaveAs records the path; nothing is written.
func (wb *MemoryWorkbook) SaveAs(path string) error {
	if wb.closed {
		return fmt.Errorf("%w: workbook closed", ErrWriteFailure)
	}
	wb.saved = append(wb.saved, path)
	return nil
}

// Saved returns the paths passed to SaveAs, oldest first.
func (wb *MemoryWorkbook) Saved() []string {
	return slices.Clone(wb.saved)
}

// Close marks the workbook closed.
func (wb *MemoryWorkbook) Close() error {
	wb.closed = true
	return nil
}
