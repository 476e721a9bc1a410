package xlhelper

import (
	"fmt"
	"strconv"
	"strings"
)

// Grid limits of the xlsx format.
const (
	MaxRows = 1048576
	MaxCols = 16384
)

// CellRef represents a single cell reference in a workbook.
type CellRef struct {
	Sheet string // sheet name (empty = active sheet)
	Row   int    // 1-based row number
	Col   int    // 1-based column number
}

// NewCellRef creates a CellRef with explicit sheet, row, col.
func NewCellRef(sheet string, row, col int) CellRef {
	return CellRef{Sheet: sheet, Row: row, Col: col}
}

// ParseCellRef parses a cell reference string like "A1", "Sheet1!B5", or "$A$1".
func ParseCellRef(s string) (CellRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CellRef{}, fmt.Errorf("empty cell reference")
	}

	var sheet string
	cellPart := s

	if idx := strings.LastIndex(s, "!"); idx >= 0 {
		sheet = strings.Trim(s[:idx], "'")
		cellPart = s[idx+1:]
	}

	cellPart = strings.ReplaceAll(cellPart, "$", "")
	if cellPart == "" {
		return CellRef{}, fmt.Errorf("invalid cell reference: %q", s)
	}

	col, row, err := parseCellName(cellPart)
	if err != nil {
		return CellRef{}, fmt.Errorf("invalid cell reference %q: %w", s, err)
	}

	return CellRef{Sheet: sheet, Row: row, Col: col}, nil
}

// parseCellName parses "B3" into col=2, row=3.
func parseCellName(name string) (col, row int, err error) {
	if len(name) == 0 {
		return 0, 0, fmt.Errorf("empty cell name")
	}

	i := 0
	for i < len(name) && isAlpha(name[i]) {
		i++
	}
	if i == 0 || i == len(name) {
		return 0, 0, fmt.Errorf("invalid cell name: %q", name)
	}

	col, err = LettersToCol(name[:i])
	if err != nil {
		return 0, 0, err
	}

	row, err = strconv.Atoi(name[i:])
	if err != nil || row < 1 || !isDigits(name[i:]) {
		return 0, 0, fmt.Errorf("invalid row in cell name: %q", name)
	}
	return col, row, nil
}

func isAlpha(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String formats the CellRef as "Sheet1!A1" or "A1" if no sheet.
func (c CellRef) String() string {
	name := c.CellName()
	if c.Sheet != "" {
		return quoteSheet(c.Sheet) + "!" + name
	}
	return name
}

// CellName returns just the cell part like "A1" without sheet name.
func (c CellRef) CellName() string {
	return CellName(c.Row, c.Col)
}

// CellName converts a 1-based (row, col) pair to A1 notation: (2, 28) → "AB2".
func CellName(row, col int) string {
	return ColToLetters(col) + strconv.Itoa(row)
}

// ColToLetters converts a 1-based column number to its letters.
// 1→"A", 26→"Z", 27→"AA", 702→"ZZ", 703→"AAA". Columns below 1 yield "".
func ColToLetters(col int) string {
	var buf [8]byte
	i := len(buf)
	for col > 0 {
		col-- // no zero digit in bijective base-26
		i--
		buf[i] = byte('A' + col%26)
		col /= 26
	}
	return string(buf[i:])
}

// LettersToCol converts column letters to a 1-based column number.
// "A"→1, "Z"→26, "AA"→27. Lowercase letters are accepted.
func LettersToCol(name string) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("empty column name")
	}
	col := 0
	for i := 0; i < len(name); i++ {
		ch := name[i]
		if ch >= 'a' && ch <= 'z' {
			ch -= 'a' - 'A'
		}
		if ch < 'A' || ch > 'Z' {
			return 0, fmt.Errorf("invalid column name: %q", name)
		}
		col = col*26 + int(ch-'A') + 1
		if col > MaxCols {
			return 0, fmt.Errorf("column %q beyond %s", name, ColToLetters(MaxCols))
		}
	}
	return col, nil
}

// quoteSheet wraps a sheet name in single quotes when a formula needs it.
func quoteSheet(name string) string {
	for i := 0; i < len(name); i++ {
		b := name[i]
		if !isAlpha(b) && !(b >= '0' && b <= '9') && b != '_' && b != '.' {
			return "'" + strings.ReplaceAll(name, "'", "''") + "'"
		}
	}
	return name
}

// Range represents an inclusive rectangle of cells on one sheet.
type Range struct {
	First CellRef
	Last  CellRef
}

// NewRange creates a Range from 1-based bounds. The start must not lie
// after the end on either axis.
func NewRange(startRow, startCol, endRow, endCol int) (Range, error) {
	if err := checkCell(startRow, startCol); err != nil {
		return Range{}, err
	}
	if err := checkCell(endRow, endCol); err != nil {
		return Range{}, err
	}
	if startRow > endRow || startCol > endCol {
		return Range{}, fmt.Errorf("%w: %s:%s", ErrInvalidRange,
			CellName(startRow, startCol), CellName(endRow, endCol))
	}
	return Range{
		First: CellRef{Row: startRow, Col: startCol},
		Last:  CellRef{Row: endRow, Col: endCol},
	}, nil
}

// ParseRange parses an area reference string like "A1:C5" or "Sheet1!A1:C5".
// A single cell "B2" is a 1x1 range.
func ParseRange(s string) (Range, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, ":", 2)

	first, err := ParseCellRef(parts[0])
	if err != nil {
		return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
	}
	last := first
	if len(parts) == 2 {
		last, err = ParseCellRef(parts[1])
		if err != nil {
			return Range{}, fmt.Errorf("invalid range %q: %w", s, err)
		}
	}

	// Inherit sheet name from first cell if last doesn't have one
	if last.Sheet == "" && first.Sheet != "" {
		last.Sheet = first.Sheet
	}
	if first.Row > last.Row || first.Col > last.Col {
		return Range{}, fmt.Errorf("%w: %q", ErrInvalidRange, s)
	}
	return Range{First: first, Last: last}, nil
}

// String formats the Range as "A1:C5". A 1x1 range stays "A1:A1" so it can
// be dropped into any function that expects a range.
func (r Range) String() string {
	s := r.First.CellName() + ":" + r.Last.CellName()
	if r.First.Sheet != "" {
		return quoteSheet(r.First.Sheet) + "!" + s
	}
	return s
}

// Size returns the dimensions of the range.
func (r Range) Size() Size {
	return Size{
		Width:  r.Last.Col - r.First.Col + 1,
		Height: r.Last.Row - r.First.Row + 1,
	}
}

// Size represents width (columns) and height (rows).
type Size struct {
	Width  int
	Height int
}

// String formats the Size as "(WxH)".
func (s Size) String() string {
	return fmt.Sprintf("(%dx%d)", s.Width, s.Height)
}

// checkCell rejects coordinates below 1. Upper bounds are left to the engine.
func checkCell(row, col int) error {
	if row < 1 || col < 1 {
		return fmt.Errorf("%w: row %d, col %d", ErrInvalidCell, row, col)
	}
	return nil
}
