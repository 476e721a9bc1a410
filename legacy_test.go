package xlhelper

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLegacy_Import(t *testing.T) {
	f := New(filepath.Join("testdata", "legacy.xls"))
	require.NoError(t, f.Open(""))
	t.Cleanup(func() { f.Close() })

	assert.Equal(t, []string{"Products", "Notes"}, f.SheetNames())
	assert.Equal(t, "Products", f.ActiveSheet())

	want := map[[2]int]any{
		{1, 1}: "name",
		{1, 3}: "price",
		{2, 1}: "apple",
		{2, 2}: 12,
		{2, 3}: 2.5,
		{3, 1}: nil, // row missing from the file
		{4, 1}: "pear",
		{4, 2}: nil,
		{4, 3}: 0.75,
		{1, 4}: nil,
	}
	for cell, value := range want {
		got, err := f.ReadCell(cell[0], cell[1])
		require.NoError(t, err)
		assert.Equal(t, value, got, CellName(cell[0], cell[1]))
	}

	require.NoError(t, f.SelectSheet("Notes"))
	got, err := f.ReadRow(1)
	require.NoError(t, err)
	assert.Equal(t, []any{"checked", 2024}, got)
}
