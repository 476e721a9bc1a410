package xlhelper

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DefaultAutoFitExpr pads the longest rendered value by two characters.
const DefaultAutoFitExpr = "maxLen + 2"

// MaxColumnWidth is the widest column the xlsx format allows.
const MaxColumnWidth = 255

// widthEvaluator computes a column width from an expr-lang expression.
// The expression sees maxLen (longest rendered value, in characters),
// col (1-based column number) and letter (column letters).
type widthEvaluator struct {
	cache sync.Map // expression string → compiled *vm.Program
}

var widths = &widthEvaluator{}

func widthEnv(maxLen, col int) map[string]any {
	return map[string]any{
		"maxLen": maxLen,
		"col":    col,
		"letter": ColToLetters(col),
	}
}

func (e *widthEvaluator) compile(expression string) (*vm.Program, error) {
	if cached, ok := e.cache.Load(expression); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(expression, expr.Env(widthEnv(0, 1)), expr.AsFloat64())
	if err != nil {
		return nil, fmt.Errorf("compile width expression %q: %w", expression, err)
	}
	e.cache.Store(expression, program)
	return program, nil
}

// Width evaluates expression for one column and clamps the result to
// (0, MaxColumnWidth].
func (e *widthEvaluator) Width(expression string, maxLen, col int) (float64, error) {
	program, err := e.compile(expression)
	if err != nil {
		return 0, err
	}
	out, err := expr.Run(program, widthEnv(maxLen, col))
	if err != nil {
		return 0, fmt.Errorf("evaluate width expression %q: %w", expression, err)
	}
	w, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("width expression %q evaluated to %T, expected number", expression, out)
	}
	if w <= 0 {
		return 0, fmt.Errorf("width expression %q gave %v for column %s", expression, w, ColToLetters(col))
	}
	return min(w, MaxColumnWidth), nil
}

// columnTextWidths returns, per column of the used range, the length of the
// longest rendered value. Index 0 is column 1.
func columnTextWidths(wb Workbook, sheet string) ([]int, error) {
	rows, cols, err := wb.UsedRange(sheet)
	if err != nil {
		return nil, err
	}
	lens := make([]int, cols)
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			v, err := wb.GetCell(sheet, r, c)
			if err != nil {
				return nil, err
			}
			if n := utf8.RuneCountInString(RenderValue(v)); n > lens[c-1] {
				lens[c-1] = n
			}
		}
	}
	return lens, nil
}
