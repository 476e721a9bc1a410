package xlhelper

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newExcelizeFacade(t *testing.T, path string) *Facade {
	t.Helper()
	f := New(path)
	require.NoError(t, f.CreateNew())
	t.Cleanup(func() { f.Close() })
	return f
}

func TestExcelize_SaveAndOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "roundtrip.xlsx")
	f := newExcelizeFacade(t, path)
	assert.Equal(t, "Sheet1", f.ActiveSheet())

	require.NoError(t, f.WriteRow(1, []any{"hello", 42, 3.5, true}))
	require.NoError(t, f.SetFormula(2, 2, "=B1*2"))
	require.NoError(t, f.CreateSheet("Data"))
	require.NoError(t, f.Save())
	require.NoError(t, f.Close())

	g := New(path)
	require.NoError(t, g.Open(""))
	defer g.Close()

	assert.Equal(t, []string{"Sheet1", "Data"}, g.SheetNames())
	row, err := g.ReadRow(1)
	require.NoError(t, err)
	assert.Equal(t, []any{"hello", 42, 3.5, true}, row)

	formula, err := g.GetFormula(2, 2)
	require.NoError(t, err)
	assert.Equal(t, "=B1*2", formula)

	v, err := g.ReadCell(5, 5)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestExcelize_IntegralFloatReadsAsInt(t *testing.T) {
	f := newExcelizeFacade(t, "")
	require.NoError(t, f.WriteCell(1, 1, 2.0))
	require.NoError(t, f.WriteCell(1, 2, 2.5))

	row, err := f.ReadRow(1)
	require.NoError(t, err)
	assert.Equal(t, []any{2, 2.5}, row)
}

func TestExcelize_OpenSetsPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "named.xlsx")
	src := excelize.NewFile()
	require.NoError(t, src.SetCellValue("Sheet1", "A1", "x"))
	require.NoError(t, src.SaveAs(path))
	require.NoError(t, src.Close())

	f := New("")
	require.NoError(t, f.Open(path))
	defer f.Close()
	assert.Equal(t, path, f.Path())
}

func TestExcelize_OpenErrors(t *testing.T) {
	dir := t.TempDir()

	f := New(filepath.Join(dir, "missing.xlsx"))
	err := f.Open("")
	assert.ErrorIs(t, err, ErrFileNotFound)

	junk := filepath.Join(dir, "junk.xlsx")
	require.NoError(t, os.WriteFile(junk, []byte("not a workbook"), 0o644))
	err = f.Open(junk)
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Nil(t, f.Workbook())

	legacy := filepath.Join(dir, "junk.xls")
	require.NoError(t, os.WriteFile(legacy, []byte("not a workbook either"), 0o644))
	err = f.Open(legacy)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestExcelize_SaveFailure(t *testing.T) {
	f := newExcelizeFacade(t, "")
	require.NoError(t, f.WriteCell(1, 1, "x"))
	err := f.SaveAs(filepath.Join(t.TempDir(), "out.txt"))
	assert.ErrorIs(t, err, ErrWriteFailure)
}

func TestExcelize_SelectSheet(t *testing.T) {
	f := newExcelizeFacade(t, "")
	require.NoError(t, f.CreateSheet("Data"))
	assert.ErrorIs(t, f.CreateSheet("Data"), ErrSheetExists)

	require.NoError(t, f.SelectSheet("Data"))
	require.NoError(t, f.WriteCell(3, 2, "on data"))
	assert.ErrorIs(t, f.SelectSheet("Nope"), ErrSheetNotFound)
	assert.Equal(t, "Data", f.ActiveSheet())

	file := f.Workbook().(*ExcelizeWorkbook).File()
	got, err := file.GetCellValue("Data", "B3")
	require.NoError(t, err)
	assert.Equal(t, "on data", got)
}

func TestExcelize_ApplyStyle(t *testing.T) {
	f := newExcelizeFacade(t, "")
	require.NoError(t, f.WriteCell(1, 1, "Header"))
	require.NoError(t, f.ApplyStyle(1, 1, &Style{
		Font:         &Font{Bold: true, Color: "FF0000", Underline: true},
		Fill:         &Fill{Color: "DDEBF7"},
		Border:       []Border{{Side: "bottom", Style: 2}},
		Alignment:    &Alignment{Horizontal: "center"},
		NumberFormat: "#,##0.00",
	}))
	// rewriting the value keeps the style
	require.NoError(t, f.WriteCell(1, 1, "Header 2"))

	file := f.Workbook().(*ExcelizeWorkbook).File()
	id, err := file.GetCellStyle("Sheet1", "A1")
	require.NoError(t, err)
	require.NotZero(t, id)

	style, err := file.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
	assert.Equal(t, "single", style.Font.Underline)

	require.NoError(t, f.ApplyStyle(1, 1, nil))
	id, err = file.GetCellStyle("Sheet1", "A1")
	require.NoError(t, err)
	assert.Zero(t, id)
}

func TestExcelize_AutoFitColumns(t *testing.T) {
	f := newExcelizeFacade(t, "")
	require.NoError(t, f.WriteRow(1, []any{"Name", "A considerably longer value"}))
	require.NoError(t, f.AutoFitColumns())

	a, err := f.ColumnWidth(1)
	require.NoError(t, err)
	b, err := f.ColumnWidth(2)
	require.NoError(t, err)
	assert.Equal(t, 6.0, a)
	assert.Equal(t, 29.0, b)
	assert.Less(t, a, b)
}

func TestExcelize_CopyFormula(t *testing.T) {
	f := newExcelizeFacade(t, "")
	require.NoError(t, f.WriteRange(2, 2, [][]any{{2, 3}, {4, 5}}))
	require.NoError(t, f.SetFormula(2, 4, "=B2*C2"))
	require.NoError(t, f.CopyFormula(2, 4, 3, 4))

	got, err := f.GetFormula(3, 4)
	require.NoError(t, err)
	assert.Equal(t, "=B3*C3", got)

	require.NoError(t, f.SumRange(2, 2, 3, 2, 4, 2))
	got, err = f.GetFormula(4, 2)
	require.NoError(t, err)
	assert.Equal(t, "=SUM(B2:B3)", got)
}
