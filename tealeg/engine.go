// Package tealeg provides an xlhelper engine backed by github.com/tealeg/xlsx.
// It reads and writes .xlsx files without excelize; styles map onto the
// smaller tealeg style model.
package tealeg

import (
	"fmt"
	"slices"

	"github.com/javajack/xlhelper"
	"github.com/tealeg/xlsx"
)

// Engine implements xlhelper.Engine.
type Engine struct{}

// Open loads an .xlsx file.
func (Engine) Open(path string) (xlhelper.Workbook, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	return NewWorkbook(f), nil
}

// CreateNew returns a workbook with one sheet named "Sheet1".
func (Engine) CreateNew() (xlhelper.Workbook, error) {
	f := xlsx.NewFile()
	if _, err := f.AddSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	return NewWorkbook(f), nil
}

// Workbook implements xlhelper.Workbook over a tealeg file.
type Workbook struct {
	file *xlsx.File
}

// NewWorkbook wraps a tealeg file.
func NewWorkbook(f *xlsx.File) *Workbook {
	return &Workbook{file: f}
}

// File returns the underlying tealeg file.
func (wb *Workbook) File() *xlsx.File {
	return wb.file
}

func (wb *Workbook) sheet(name string) (*xlsx.Sheet, error) {
	s, ok := wb.file.Sheet[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", xlhelper.ErrSheetNotFound, name)
	}
	return s, nil
}

// SheetNames returns sheet names in workbook order.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, 0, len(wb.file.Sheets))
	for _, s := range wb.file.Sheets {
		names = append(names, s.Name)
	}
	return names
}

// DefaultSheet returns the first sheet.
func (wb *Workbook) DefaultSheet() string {
	if len(wb.file.Sheets) == 0 {
		return ""
	}
	return wb.file.Sheets[0].Name
}

// NewSheet appends an empty sheet.
func (wb *Workbook) NewSheet(name string) error {
	if slices.Contains(wb.SheetNames(), name) {
		return fmt.Errorf("%w: %q", xlhelper.ErrSheetExists, name)
	}
	if _, err := wb.file.AddSheet(name); err != nil {
		return fmt.Errorf("create sheet %q: %w", name, err)
	}
	return nil
}

// cell returns the existing cell or nil; tealeg's Sheet.Cell would grow the
// sheet, which reads must not do.
func cell(s *xlsx.Sheet, row, col int) *xlsx.Cell {
	if row > len(s.Rows) {
		return nil
	}
	r := s.Rows[row-1]
	if r == nil || col > len(r.Cells) {
		return nil
	}
	return r.Cells[col-1]
}

// GetCell returns the typed cell value or nil.
func (wb *Workbook) GetCell(sheet string, row, col int) (any, error) {
	s, err := wb.sheet(sheet)
	if err != nil {
		return nil, err
	}
	c := cell(s, row, col)
	if c == nil || c.Value == "" {
		return nil, nil
	}
	switch c.Type() {
	case xlsx.CellTypeBool:
		return c.Bool(), nil
	case xlsx.CellTypeString, xlsx.CellTypeInline:
		return c.Value, nil
	}
	// numbers written in this session are typed "general", loaded ones numeric
	if n, ok := xlhelper.ParseNumber(c.Value); ok {
		return n, nil
	}
	return c.Value, nil
}

// SetCell writes a value; Sheet.Cell translates to 0-based indexes.
func (wb *Workbook) SetCell(sheet string, row, col int, value any) error {
	s, err := wb.sheet(sheet)
	if err != nil {
		return err
	}
	c := s.Cell(row-1, col-1)
	switch v := value.(type) {
	case nil:
		c.SetString("")
	case string:
		c.SetString(v)
	case bool:
		c.SetBool(v)
	case int:
		c.SetInt(v)
	case int64:
		c.SetInt64(v)
	case float64:
		c.SetFloat(v)
	default:
		c.SetValue(v)
	}
	return nil
}

// GetFormula returns the formula with a leading "=", or "".
func (wb *Workbook) GetFormula(sheet string, row, col int) (string, error) {
	s, err := wb.sheet(sheet)
	if err != nil {
		return "", err
	}
	c := cell(s, row, col)
	if c == nil || c.Formula() == "" {
		return "", nil
	}
	return "=" + c.Formula(), nil
}

// SetFormula stores a formula without its leading "=".
func (wb *Workbook) SetFormula(sheet string, row, col int, formula string) error {
	s, err := wb.sheet(sheet)
	if err != nil {
		return err
	}
	c := s.Cell(row-1, col-1)
	c.Value = ""
	if len(formula) > 0 && formula[0] == '=' {
		formula = formula[1:]
	}
	c.SetFormula(formula)
	return nil
}

// ApplyStyle maps the style onto a tealeg style. Borders share one style
// per cell side; NumberFormat becomes the cell's number format.
func (wb *Workbook) ApplyStyle(sheet string, row, col int, style *xlhelper.Style) error {
	s, err := wb.sheet(sheet)
	if err != nil {
		return err
	}
	c := s.Cell(row-1, col-1)
	if style == nil {
		c.SetStyle(xlsx.NewStyle())
		return nil
	}
	c.SetStyle(toTealegStyle(style))
	if style.NumberFormat != "" {
		c.NumFmt = style.NumberFormat
	}
	return nil
}

// borderStyles names xlsx border styles by index.
var borderStyles = []string{"none", "thin", "medium", "dashed", "dotted", "thick", "double", "hair"}

func toTealegStyle(s *xlhelper.Style) *xlsx.Style {
	st := xlsx.NewStyle()
	if s.Font != nil {
		st.Font.Bold = s.Font.Bold
		st.Font.Italic = s.Font.Italic
		st.Font.Underline = s.Font.Underline
		if s.Font.Size > 0 {
			st.Font.Size = int(s.Font.Size)
		}
		if s.Font.Family != "" {
			st.Font.Name = s.Font.Family
		}
		if s.Font.Color != "" {
			st.Font.Color = argb(s.Font.Color)
		}
		st.ApplyFont = true
	}
	if s.Fill != nil {
		st.Fill = *xlsx.NewFill("solid", argb(s.Fill.Color), argb(s.Fill.Color))
		st.ApplyFill = true
	}
	for _, b := range s.Border {
		name := "thin"
		if i := b.EffectiveStyle(); i < len(borderStyles) {
			name = borderStyles[i]
		}
		color := argb(b.Color)
		switch b.Side {
		case "left":
			st.Border.Left, st.Border.LeftColor = name, color
		case "right":
			st.Border.Right, st.Border.RightColor = name, color
		case "top":
			st.Border.Top, st.Border.TopColor = name, color
		case "bottom":
			st.Border.Bottom, st.Border.BottomColor = name, color
		}
		st.ApplyBorder = true
	}
	if s.Alignment != nil {
		st.Alignment.Horizontal = s.Alignment.Horizontal
		st.Alignment.Vertical = s.Alignment.Vertical
		st.Alignment.WrapText = s.Alignment.WrapText
		st.ApplyAlignment = true
	}
	return st
}

// argb prefixes an RGB hex color with an opaque alpha channel.
func argb(rgb string) string {
	if len(rgb) == 6 {
		return "FF" + rgb
	}
	return rgb
}

// ColumnWidth returns the width of the column, or 0 when none was set.
func (wb *Workbook) ColumnWidth(sheet string, col int) (float64, error) {
	s, err := wb.sheet(sheet)
	if err != nil {
		return 0, err
	}
	width := 0.0
	for _, c := range s.Cols {
		if c != nil && col >= c.Min && col <= c.Max {
			width = c.Width
		}
	}
	return width, nil
}

// SetColumnWidth sets the width of one column.
func (wb *Workbook) SetColumnWidth(sheet string, col int, width float64) error {
	s, err := wb.sheet(sheet)
	if err != nil {
		return err
	}
	if err := s.SetColWidth(col-1, col-1, width); err != nil {
		return fmt.Errorf("set width of column %s: %w", xlhelper.ColToLetters(col), err)
	}
	return nil
}

// UsedRange reports the furthest row and column holding a value or formula.
func (wb *Workbook) UsedRange(sheet string) (int, int, error) {
	s, err := wb.sheet(sheet)
	if err != nil {
		return 0, 0, err
	}
	rows, cols := 0, 0
	for r, row := range s.Rows {
		if row == nil {
			continue
		}
		for c, cl := range row.Cells {
			if cl == nil || (cl.Value == "" && cl.Formula() == "") {
				continue
			}
			rows = max(rows, r+1)
			cols = max(cols, c+1)
		}
	}
	return rows, cols, nil
}

// SaveAs writes the workbook as .xlsx.
func (wb *Workbook) SaveAs(path string) error {
	return wb.file.Save(path)
}

// Close is a no-op; tealeg holds no open handles after loading.
func (wb *Workbook) Close() error {
	return nil
}

