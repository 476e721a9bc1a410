package xlhelper

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound indicates the workbook path does not exist or cannot be opened.
	ErrFileNotFound = errors.New("workbook not found")

	// ErrUnsupportedFormat indicates the file exists but is not a spreadsheet
	// the engine can read. It is always reported together with ErrFileNotFound.
	ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

	// ErrSheetNotFound indicates a sheet name missing from the workbook.
	ErrSheetNotFound = errors.New("sheet not found")

	// ErrSheetExists indicates CreateSheet was given a name already in use.
	ErrSheetExists = errors.New("sheet already exists")

	// ErrWriteFailure indicates the workbook could not be saved.
	ErrWriteFailure = errors.New("write workbook")

	// ErrInvalidRange indicates a range whose start lies after its end.
	ErrInvalidRange = errors.New("invalid range")

	// ErrInvalidCell indicates a row or column below 1.
	ErrInvalidCell = errors.New("invalid cell")

	// ErrFormulaParse indicates a formula reference that could not be classified.
	ErrFormulaParse = errors.New("formula parse failure")

	// ErrNoWorkbook indicates an operation before Open or CreateNew.
	ErrNoWorkbook = errors.New("no workbook open")
)

// FormulaError reports the token CopyFormula could not translate.
type FormulaError struct {
	Formula string
	Token   string
	Err     error
}

func (e *FormulaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v: token %q in %q: %v", ErrFormulaParse, e.Token, e.Formula, e.Err)
	}
	return fmt.Sprintf("%v: token %q in %q", ErrFormulaParse, e.Token, e.Formula)
}

// Is reports ErrFormulaParse so callers can match the error kind.
func (e *FormulaError) Is(target error) bool {
	return target == ErrFormulaParse
}

func (e *FormulaError) Unwrap() error {
	return e.Err
}
