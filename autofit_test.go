package xlhelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWidthEvaluator(t *testing.T) {
	e := &widthEvaluator{}

	w, err := e.Width(DefaultAutoFitExpr, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 12.0, w)

	w, err = e.Width(`letter == "B" ? maxLen * 2 : maxLen`, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, 20.0, w)

	w, err = e.Width(DefaultAutoFitExpr, 1000, 1)
	require.NoError(t, err)
	assert.Equal(t, float64(MaxColumnWidth), w, "clamped")

	_, err = e.Width("maxLen - 100", 3, 1)
	assert.Error(t, err)

	_, err = e.Width("unknownVar + 1", 3, 1)
	assert.Error(t, err)
}

func TestWidthEvaluator_Caches(t *testing.T) {
	e := &widthEvaluator{}
	p1, err := e.compile("maxLen + 3")
	require.NoError(t, err)
	p2, err := e.compile("maxLen + 3")
	require.NoError(t, err)
	assert.Same(t, p1, p2)
}

func TestColumnTextWidths(t *testing.T) {
	wb := NewMemoryWorkbook("Sheet1")
	require.NoError(t, wb.SetCell("Sheet1", 1, 1, "héllo"))
	require.NoError(t, wb.SetCell("Sheet1", 2, 1, 3.25))
	require.NoError(t, wb.SetCell("Sheet1", 1, 3, true))

	lens, err := columnTextWidths(wb, "Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 0, 4}, lens)

	_, err = columnTextWidths(wb, "Missing")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}
