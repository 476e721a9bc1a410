package xlhelper

// Engine creates and loads workbooks. It is the seam between the Facade and
// a concrete spreadsheet library.
type Engine interface {
	Open(path string) (Workbook, error)
	CreateNew() (Workbook, error)
}

// Workbook abstracts the spreadsheet operations the Facade forwards to.
// Rows and columns are 1-based; each implementation translates them to its
// own addressing.
type Workbook interface {
	// Sheets
	SheetNames() []string
	DefaultSheet() string
	NewSheet(name string) error

	// Cell values and formulas. GetCell returns nil for an empty cell.
	GetCell(sheet string, row, col int) (any, error)
	SetCell(sheet string, row, col int, value any) error
	GetFormula(sheet string, row, col int) (string, error)
	SetFormula(sheet string, row, col int, formula string) error

	// Presentation
	ApplyStyle(sheet string, row, col int, style *Style) error
	ColumnWidth(sheet string, col int) (float64, error)
	SetColumnWidth(sheet string, col int, width float64) error

	// UsedRange reports the number of rows and columns holding data.
	UsedRange(sheet string) (rows, cols int, err error)

	// I/O
	SaveAs(path string) error
	Close() error
}
