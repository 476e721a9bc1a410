package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/javajack/xlhelper"
)

// run executes the CLI with args and returns its stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	require.NoError(t, err, "xlhelper %v", args)
	return out
}

func TestParseValue(t *testing.T) {
	assert.Equal(t, 12, parseValue("12"))
	assert.Equal(t, 1.25, parseValue("1.25"))
	assert.Equal(t, true, parseValue("true"))
	assert.Equal(t, false, parseValue("FALSE"))
	assert.Equal(t, "007", parseValue("'007"))
	assert.Equal(t, "hello", parseValue("hello"))
	assert.Nil(t, parseValue(""))
	assert.Equal(t, []any{"a", 1, true}, parseValues([]string{"a", "1", "TRUE"}))
}

func TestCLI_Workflow(t *testing.T) {
	file := filepath.Join(t.TempDir(), "products.xlsx")

	mustRun(t, "-f", file, "new", "--add-sheet", "Lookup")
	mustRun(t, "-f", file, "row", "1", "Product", "Price", "Qty", "Total")
	mustRun(t, "-f", file, "row", "2", "Apple", "1.5", "10")
	mustRun(t, "-f", file, "row", "3", "Pear", "2", "4")
	mustRun(t, "-f", file, "formula", "D2", "B2*C2")
	mustRun(t, "-f", file, "copy-formula", "D2", "D3")
	mustRun(t, "-f", file, "sum", "D2:D3", "D5")
	mustRun(t, "-f", file, "if", "D5", "big", "small", "E5", "--op", ">", "--threshold", "20")
	mustRun(t, "-f", file, "vlookup", "A3", "A1:D3", "4", "F3")
	mustRun(t, "-f", file, "set", "A7", "'0042")

	assert.Equal(t, "=B3*C3\n", mustRun(t, "-f", file, "formula", "D3"))
	assert.Equal(t, "Pear\t2\t4\n", mustRun(t, "-f", file, "row", "3"))
	assert.Equal(t, "0042\n", mustRun(t, "-f", file, "get", "A7"))
	assert.Equal(t, "Sheet1 *\nLookup\n", mustRun(t, "-f", file, "sheets"))

	f, err := excelize.OpenFile(file)
	require.NoError(t, err)
	defer f.Close()

	want := map[string]string{
		"D2": "B2*C2",
		"D5": "SUM(D2:D3)",
		"E5": `IF(D5>20, "big", "small")`,
		"F3": "VLOOKUP(A3,A1:D3,4,FALSE)",
	}
	for cell, formula := range want {
		got, err := f.GetCellFormula("Sheet1", cell)
		require.NoError(t, err)
		assert.Equal(t, formula, got, cell)
	}
}

func TestCLI_SheetFlag(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sheets.xlsx")
	mustRun(t, "-f", file, "new")
	mustRun(t, "-f", file, "sheets", "--create", "Data")
	mustRun(t, "-f", file, "-s", "Data", "column", "B", "x", "y")

	assert.Equal(t, "x\ny\n", mustRun(t, "-f", file, "--sheet", "Data", "column", "B"))
	assert.Equal(t, "\n", mustRun(t, "-f", file, "get", "B1"))

	_, err := run(t, "-f", file, "-s", "Missing", "get", "A1")
	assert.Error(t, err)
}

func TestCLI_SheetQualifiedRefs(t *testing.T) {
	file := filepath.Join(t.TempDir(), "qualified.xlsx")
	mustRun(t, "-f", file, "new", "--add-sheet", "Data")
	mustRun(t, "-f", file, "set", "Data!A1", "hello")
	mustRun(t, "-f", file, "column", "B", "1", "2")
	mustRun(t, "-f", file, "sum", "Data!A2:A3", "Data!B1")

	assert.Equal(t, "hello\n", mustRun(t, "-f", file, "--sheet", "Data", "get", "A1"))
	assert.Equal(t, "\n", mustRun(t, "-f", file, "get", "Sheet1!A1"))
	assert.Equal(t, "=SUM(A2:A3)\n", mustRun(t, "-f", file, "formula", "Data!B1"))
	assert.Equal(t, "hello\n", mustRun(t, "-f", file, "range", "Data!A1:A1"))
	assert.Equal(t, "1\n", mustRun(t, "-f", file, "get", "Sheet1!B1"))
	assert.Equal(t, "hello\n", mustRun(t, "-f", file, "-s", "Data", "get", "Data!A1"))

	_, err := run(t, "-f", file, "set", "Missing!A1", "x")
	assert.ErrorIs(t, err, xlhelper.ErrSheetNotFound)

	_, err = run(t, "-f", file, "copy-formula", "Data!B1", "Sheet1!C1")
	assert.Error(t, err, "refs on different sheets")
	_, err = run(t, "-f", file, "-s", "Sheet1", "get", "Data!A1")
	assert.Error(t, err, "ref sheet differs from --sheet")
	_, err = run(t, "-f", file, "sum", "Data!A2:A3", "Sheet1!C1")
	assert.Error(t, err)

	f, err := excelize.OpenFile(file)
	require.NoError(t, err)
	defer f.Close()
	got, err := f.GetCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Empty(t, got)
	got, err = f.GetCellFormula("Data", "B1")
	require.NoError(t, err)
	assert.Equal(t, "SUM(A2:A3)", got)
	got, err = f.GetCellFormula("Sheet1", "C1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCLI_StyleAndAutofit(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "styled.xlsx")
	stylePath := filepath.Join(dir, "header.yaml")
	require.NoError(t, os.WriteFile(stylePath, []byte(`
font:
  bold: true
  color: "FFFFFF"
fill:
  color: "4472C4"
border:
  - side: bottom
    style: 2
`), 0o644))

	mustRun(t, "-f", file, "new")
	mustRun(t, "-f", file, "row", "1", "Name", "Description")
	mustRun(t, "-f", file, "style", "A1", "B1", "--style", stylePath)
	mustRun(t, "-f", file, "autofit")

	f, err := excelize.OpenFile(file)
	require.NoError(t, err)
	defer f.Close()

	id, err := f.GetCellStyle("Sheet1", "B1")
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	w, err := f.GetColWidth("Sheet1", "B")
	require.NoError(t, err)
	assert.Equal(t, 13.0, w)
}

func TestCLI_Describe(t *testing.T) {
	file := filepath.Join(t.TempDir(), "describe.xlsx")
	mustRun(t, "-f", file, "new")
	mustRun(t, "-f", file, "row", "1", "a", "b")
	mustRun(t, "-f", file, "range", "A1:B1")

	out := mustRun(t, "-f", file, "describe")
	assert.Equal(t, "Workbook: "+file+"\nSheet1 (active) A1:B1 (2x1)\n", out)

	assert.Equal(t, "a\tb\n\t\n", mustRun(t, "-f", file, "range", "A1:B2"))
}

func TestCLI_Errors(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "e.xlsx")

	_, err := run(t, "-f", filepath.Join(dir, "missing.xlsx"), "get", "A1")
	assert.Error(t, err)

	mustRun(t, "-f", file, "new")
	_, err = run(t, "-f", file, "new")
	assert.Error(t, err, "new refuses to overwrite")

	_, err = run(t, "-f", file, "get", "not-a-cell")
	assert.Error(t, err)
	_, err = run(t, "-f", file, "sum", "B4:B2", "A1")
	assert.Error(t, err)
	_, err = run(t, "-f", file, "--engine", "nope", "get", "A1")
	assert.Error(t, err)
	_, err = run(t, "-f", file, "--log-level", "loud", "get", "A1")
	assert.Error(t, err)
}

func TestCLI_TealegEngine(t *testing.T) {
	file := filepath.Join(t.TempDir(), "tealeg.xlsx")
	mustRun(t, "--engine", "tealeg", "-f", file, "new")
	mustRun(t, "--engine", "tealeg", "-f", file, "row", "1", "x", "5")
	assert.Equal(t, "x\t5\n", mustRun(t, "--engine", "tealeg", "-f", file, "row", "1"))
}
