package xlhelper

import (
	"errors"
	"fmt"
	"os"
	"slices"
)

// Facade is a simplified API over one workbook. Every operation acts on the
// active sheet and takes 1-based rows and columns. A Facade is not safe for
// concurrent use.
type Facade struct {
	path  string
	opts  *Options
	wb    Workbook
	sheet string
}

// New creates a Facade whose Save writes to path. No workbook is loaded
// until Open or CreateNew is called.
func New(path string, opts ...Option) *Facade {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return &Facade{path: path, opts: o}
}

// Path returns the file Save writes to.
func (f *Facade) Path() string {
	return f.path
}

// Workbook returns the engine handle, or nil before Open/CreateNew.
func (f *Facade) Workbook() Workbook {
	return f.wb
}

// Open loads the workbook at path, or at the Facade's path when path is
// empty. The workbook's default sheet becomes active.
func (f *Facade) Open(path string) error {
	if path == "" {
		path = f.path
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %q: %w", ErrFileNotFound, path, err)
	}
	wb, err := f.opts.engine.Open(path)
	if err != nil {
		if errors.Is(err, ErrUnsupportedFormat) {
			return fmt.Errorf("%w: %w", ErrFileNotFound, err)
		}
		return fmt.Errorf("%w: %w: %w", ErrFileNotFound, ErrUnsupportedFormat, err)
	}
	if err := f.replace(wb); err != nil {
		return err
	}
	if f.path == "" {
		f.path = path
	}
	f.opts.logger.Debug().Str("path", path).Str("sheet", f.sheet).Msg("opened workbook")
	return nil
}

// CreateNew replaces the current workbook with an empty one, discarding
// unsaved changes. Nothing is written to disk.
func (f *Facade) CreateNew() error {
	wb, err := f.opts.engine.CreateNew()
	if err != nil {
		return fmt.Errorf("create workbook: %w", err)
	}
	if err := f.replace(wb); err != nil {
		return err
	}
	f.opts.logger.Debug().Str("sheet", f.sheet).Msg("created workbook")
	return nil
}

func (f *Facade) replace(wb Workbook) error {
	if f.wb != nil {
		if err := f.wb.Close(); err != nil {
			return errors.Join(fmt.Errorf("close previous workbook: %w", err), wb.Close())
		}
	}
	f.wb = wb
	f.sheet = wb.DefaultSheet()
	return nil
}

// Save writes the workbook to the Facade's path.
func (f *Facade) Save() error {
	return f.SaveAs(f.path)
}

// SaveAs writes the workbook to path. The Facade's own path is unchanged.
func (f *Facade) SaveAs(path string) error {
	if err := f.requireWorkbook(); err != nil {
		return err
	}
	if path == "" {
		return fmt.Errorf("%w: no path configured", ErrWriteFailure)
	}
	if err := f.wb.SaveAs(path); err != nil {
		return fmt.Errorf("%w %q: %w", ErrWriteFailure, path, err)
	}
	f.opts.logger.Debug().Str("path", path).Msg("saved workbook")
	return nil
}

// Close releases the workbook without saving it.
func (f *Facade) Close() error {
	if f.wb == nil {
		return nil
	}
	err := f.wb.Close()
	f.wb = nil
	f.sheet = ""
	return err
}

func (f *Facade) requireWorkbook() error {
	if f.wb == nil {
		return ErrNoWorkbook
	}
	return nil
}

// SheetNames returns the workbook's sheets in order.
func (f *Facade) SheetNames() []string {
	if f.wb == nil {
		return nil
	}
	return f.wb.SheetNames()
}

// ActiveSheet returns the name of the sheet operations act on.
func (f *Facade) ActiveSheet() string {
	return f.sheet
}

// SelectSheet makes name the active sheet. On failure the active sheet is
// unchanged.
func (f *Facade) SelectSheet(name string) error {
	if err := f.requireWorkbook(); err != nil {
		return err
	}
	if !slices.Contains(f.wb.SheetNames(), name) {
		return fmt.Errorf("%w: %q", ErrSheetNotFound, name)
	}
	f.sheet = name
	f.opts.logger.Debug().Str("sheet", name).Msg("selected sheet")
	return nil
}

// CreateSheet adds an empty sheet. The active sheet does not change.
func (f *Facade) CreateSheet(name string) error {
	if err := f.requireWorkbook(); err != nil {
		return err
	}
	if slices.Contains(f.wb.SheetNames(), name) {
		return fmt.Errorf("%w: %q", ErrSheetExists, name)
	}
	return f.wb.NewSheet(name)
}

// cell validates a coordinate against the open workbook.
func (f *Facade) cell(row, col int) error {
	if err := f.requireWorkbook(); err != nil {
		return err
	}
	return checkCell(row, col)
}

// WriteCell sets a single cell's value.
func (f *Facade) WriteCell(row, col int, value any) error {
	if err := f.cell(row, col); err != nil {
		return err
	}
	return f.wb.SetCell(f.sheet, row, col, value)
}

// ReadCell returns a cell's value: string, int, float64, bool, or nil for
// an empty cell. File-backed engines store every number as a float, so an
// integral float64 written with WriteCell reads back as int.
func (f *Facade) ReadCell(row, col int) (any, error) {
	if err := f.cell(row, col); err != nil {
		return nil, err
	}
	return f.wb.GetCell(f.sheet, row, col)
}

// WriteRow writes values into row starting at column 1.
func (f *Facade) WriteRow(row int, values []any) error {
	for i, v := range values {
		if err := f.WriteCell(row, i+1, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadRow returns the row's values up to its last populated cell. Gaps
// before that cell read as nil.
func (f *Facade) ReadRow(row int) ([]any, error) {
	if err := f.cell(row, 1); err != nil {
		return nil, err
	}
	_, cols, err := f.wb.UsedRange(f.sheet)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, cols)
	for c := 1; c <= cols; c++ {
		v, err := f.wb.GetCell(f.sheet, row, c)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return trimTrailingEmpty(out), nil
}

// WriteColumn writes values down col starting at row 1.
func (f *Facade) WriteColumn(col int, values []any) error {
	for i, v := range values {
		if err := f.WriteCell(i+1, col, v); err != nil {
			return err
		}
	}
	return nil
}

// ReadColumn returns the column's values up to its last populated cell.
func (f *Facade) ReadColumn(col int) ([]any, error) {
	if err := f.cell(1, col); err != nil {
		return nil, err
	}
	rows, _, err := f.wb.UsedRange(f.sheet)
	if err != nil {
		return nil, err
	}
	out := make([]any, 0, rows)
	for r := 1; r <= rows; r++ {
		v, err := f.wb.GetCell(f.sheet, r, col)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return trimTrailingEmpty(out), nil
}

func trimTrailingEmpty(values []any) []any {
	n := len(values)
	for n > 0 && values[n-1] == nil {
		n--
	}
	return values[:n]
}

// WriteRange writes grid with its top-left corner at (startRow, startCol).
// Each inner slice is one row; rows may differ in length.
func (f *Facade) WriteRange(startRow, startCol int, grid [][]any) error {
	if err := f.cell(startRow, startCol); err != nil {
		return err
	}
	for i, values := range grid {
		for j, v := range values {
			if err := f.wb.SetCell(f.sheet, startRow+i, startCol+j, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReadRange returns the inclusive rectangle as rows of values. The start
// must not lie after the end on either axis.
func (f *Facade) ReadRange(startRow, startCol, endRow, endCol int) ([][]any, error) {
	if err := f.requireWorkbook(); err != nil {
		return nil, err
	}
	rng, err := NewRange(startRow, startCol, endRow, endCol)
	if err != nil {
		return nil, err
	}
	size := rng.Size()
	grid := make([][]any, size.Height)
	for i := range grid {
		grid[i] = make([]any, size.Width)
		for j := range grid[i] {
			v, err := f.wb.GetCell(f.sheet, startRow+i, startCol+j)
			if err != nil {
				return nil, err
			}
			grid[i][j] = v
		}
	}
	return grid, nil
}

// ApplyStyle formats one cell. The style is passed to the engine as is.
func (f *Facade) ApplyStyle(row, col int, style *Style) error {
	if err := f.cell(row, col); err != nil {
		return err
	}
	return f.wb.ApplyStyle(f.sheet, row, col, style)
}

// AutoFitColumns sizes every column of the used range from its longest
// rendered value. Columns without values keep their width.
func (f *Facade) AutoFitColumns() error {
	if err := f.requireWorkbook(); err != nil {
		return err
	}
	lens, err := columnTextWidths(f.wb, f.sheet)
	if err != nil {
		return err
	}
	for i, n := range lens {
		if n == 0 {
			continue
		}
		col := i + 1
		w, err := widths.Width(f.opts.autoFitExpr, n, col)
		if err != nil {
			return err
		}
		if err := f.wb.SetColumnWidth(f.sheet, col, w); err != nil {
			return err
		}
	}
	return nil
}

// ColumnWidth returns the display width of a column.
func (f *Facade) ColumnWidth(col int) (float64, error) {
	if err := f.cell(1, col); err != nil {
		return 0, err
	}
	return f.wb.ColumnWidth(f.sheet, col)
}

// SetFormula stores formula in a cell. The text is not checked.
func (f *Facade) SetFormula(row, col int, formula string) error {
	if err := f.cell(row, col); err != nil {
		return err
	}
	return f.wb.SetFormula(f.sheet, row, col, formula)
}

// GetFormula returns a cell's formula, or "" when it holds none.
func (f *Facade) GetFormula(row, col int) (string, error) {
	if err := f.cell(row, col); err != nil {
		return "", err
	}
	return f.wb.GetFormula(f.sheet, row, col)
}

// CopyFormula copies the formula at (fromRow, fromCol) to (toRow, toCol),
// shifting relative references by the distance between the two cells.
// A source without a formula leaves the target untouched.
func (f *Facade) CopyFormula(fromRow, fromCol, toRow, toCol int) error {
	if err := f.cell(toRow, toCol); err != nil {
		return err
	}
	src, err := f.GetFormula(fromRow, fromCol)
	if err != nil || src == "" {
		return err
	}
	shifted, err := ShiftFormula(src, toRow-fromRow, toCol-fromCol)
	if err != nil {
		return err
	}
	return f.wb.SetFormula(f.sheet, toRow, toCol, shifted)
}

// SumRange stores =SUM(<range>) at the result cell.
func (f *Facade) SumRange(startRow, startCol, endRow, endCol, resultRow, resultCol int) error {
	return f.aggregate(BuildSum, startRow, startCol, endRow, endCol, resultRow, resultCol)
}

// AverageRange stores =AVERAGE(<range>) at the result cell.
func (f *Facade) AverageRange(startRow, startCol, endRow, endCol, resultRow, resultCol int) error {
	return f.aggregate(BuildAverage, startRow, startCol, endRow, endCol, resultRow, resultCol)
}

// CountRange stores =COUNT(<range>) at the result cell.
func (f *Facade) CountRange(startRow, startCol, endRow, endCol, resultRow, resultCol int) error {
	return f.aggregate(BuildCount, startRow, startCol, endRow, endCol, resultRow, resultCol)
}

func (f *Facade) aggregate(build func(Range) string, startRow, startCol, endRow, endCol, resultRow, resultCol int) error {
	if err := f.cell(resultRow, resultCol); err != nil {
		return err
	}
	rng, err := NewRange(startRow, startCol, endRow, endCol)
	if err != nil {
		return err
	}
	return f.wb.SetFormula(f.sheet, resultRow, resultCol, build(rng))
}

// IfFormula stores an IF formula testing the condition cell and yielding
// trueVal or falseVal as text. The test is configured with WithIfComparison.
func (f *Facade) IfFormula(condRow, condCol int, trueVal, falseVal any, resultRow, resultCol int) error {
	if err := f.cell(resultRow, resultCol); err != nil {
		return err
	}
	if err := checkCell(condRow, condCol); err != nil {
		return err
	}
	formula, err := BuildIf(NewCellRef("", condRow, condCol), f.opts.comparison, trueVal, falseVal)
	if err != nil {
		return err
	}
	return f.wb.SetFormula(f.sheet, resultRow, resultCol, formula)
}

// Vlookup stores =VLOOKUP(<lookup>,<table>,<colIndex>,FALSE) at the result
// cell. colIndex counts from the table's first column.
func (f *Facade) Vlookup(lookupRow, lookupCol, tableStartRow, tableStartCol, tableEndRow, tableEndCol, colIndex, resultRow, resultCol int) error {
	if err := f.cell(resultRow, resultCol); err != nil {
		return err
	}
	if err := checkCell(lookupRow, lookupCol); err != nil {
		return err
	}
	table, err := NewRange(tableStartRow, tableStartCol, tableEndRow, tableEndCol)
	if err != nil {
		return err
	}
	formula, err := BuildVlookup(NewCellRef("", lookupRow, lookupCol), table, colIndex)
	if err != nil {
		return err
	}
	return f.wb.SetFormula(f.sheet, resultRow, resultCol, formula)
}
