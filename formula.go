package xlhelper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/efp"
)

// Comparison is the test an IF formula applies to its condition cell,
// e.g. {Op: ">", Threshold: 100} renders "A1>100".
type Comparison struct {
	Op        string
	Threshold any
}

var comparisonOps = map[string]bool{
	"=": true, "<>": true, "<": true, "<=": true, ">": true, ">=": true,
}

// BuildSum returns "=SUM(<range>)".
func BuildSum(r Range) string { return buildAggregate("SUM", r) }

// BuildAverage returns "=AVERAGE(<range>)".
func BuildAverage(r Range) string { return buildAggregate("AVERAGE", r) }

// BuildCount returns "=COUNT(<range>)".
func BuildCount(r Range) string { return buildAggregate("COUNT", r) }

func buildAggregate(fn string, r Range) string {
	return "=" + fn + "(" + r.String() + ")"
}

// BuildIf returns `=IF(<cond>, "<trueVal>", "<falseVal>")`. With a
// comparison the condition becomes <cond><op><threshold>. Both branch values
// are rendered as text literals.
func BuildIf(cond CellRef, cmp *Comparison, trueVal, falseVal any) (string, error) {
	condition := cond.String()
	if cmp != nil {
		if !comparisonOps[cmp.Op] {
			return "", fmt.Errorf("unsupported comparison operator %q", cmp.Op)
		}
		condition += cmp.Op + formulaLiteral(cmp.Threshold)
	}
	return fmt.Sprintf("=IF(%s, %s, %s)", condition, quoteText(RenderValue(trueVal)), quoteText(RenderValue(falseVal))), nil
}

// BuildVlookup returns "=VLOOKUP(<lookup>,<table>,<colIndex>,FALSE)".
// colIndex counts from the table's first column.
func BuildVlookup(lookup CellRef, table Range, colIndex int) (string, error) {
	if colIndex < 1 || colIndex > table.Size().Width {
		return "", fmt.Errorf("%w: column index %d outside table %s", ErrInvalidRange, colIndex, table)
	}
	return fmt.Sprintf("=VLOOKUP(%s,%s,%d,FALSE)", lookup, table, colIndex), nil
}

// formulaLiteral renders a constant operand: numbers and booleans bare,
// anything else as a quoted string.
func formulaLiteral(v any) string {
	switch TypeOf(v) {
	case CellNumber, CellBoolean:
		return RenderValue(v)
	default:
		return quoteText(RenderValue(v))
	}
}

func quoteText(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ShiftFormula moves every relative reference in formula by dRow rows and
// dCol columns, as a spreadsheet does when a formula is copied. Components
// anchored with "$" stay put. Function names, strings, numbers, booleans,
// error literals and defined names are copied unchanged. A reference pushed
// off the grid becomes #REF!.
func ShiftFormula(formula string, dRow, dCol int) (string, error) {
	prefix, body := "", formula
	if strings.HasPrefix(body, "=") {
		prefix, body = "=", body[1:]
	}
	if (dRow == 0 && dCol == 0) || strings.TrimSpace(body) == "" {
		return formula, nil
	}

	ps := efp.ExcelParser()
	tokens := ps.Parse(body)

	var b strings.Builder
	b.WriteString(prefix)
	cursor := 0
	depth := 0 // inside an array constant while > 0
	for _, tok := range tokens {
		fn := tok.TType == efp.TokenTypeFunction
		if depth > 0 {
			if fn && tok.TSubType == efp.TokenSubTypeStart {
				depth++
			} else if fn && tok.TSubType == efp.TokenSubTypeStop {
				depth--
			}
			continue
		}
		if fn && tok.TSubType == efp.TokenSubTypeStart && tok.TValue == "ARRAY" {
			// Array constants hold no references; copy {..} as written.
			end := arrayConstantEnd(body[cursor:])
			if end < 0 {
				return "", &FormulaError{Formula: formula, Token: "{"}
			}
			b.WriteString(body[cursor : cursor+end])
			cursor += end
			depth = 1
			continue
		}
		isRef := tok.TType == efp.TokenTypeOperand && tok.TSubType == efp.TokenSubTypeRange
		idx, lit := locateToken(body[cursor:], tok, isRef)
		if idx < 0 {
			return "", &FormulaError{Formula: formula, Token: tok.TValue}
		}
		if lit == "" {
			continue
		}
		b.WriteString(body[cursor : cursor+idx])
		cursor += idx
		if isRef {
			shifted, err := shiftReference(lit, dRow, dCol)
			if err != nil {
				return "", &FormulaError{Formula: formula, Token: lit, Err: err}
			}
			b.WriteString(shifted)
		} else {
			b.WriteString(lit)
		}
		cursor += len(lit)
	}
	b.WriteString(body[cursor:])
	return b.String(), nil
}

// locateToken finds the source text of tok in s. The tokenizer unescapes
// string literals and may drop the quotes around sheet names, so those are
// rebuilt before searching. Empty tokens report index 0.
func locateToken(s string, tok efp.Token, isRef bool) (int, string) {
	if tok.TType == efp.TokenTypeOperand && tok.TSubType == efp.TokenSubTypeText {
		lit := quoteText(tok.TValue)
		return strings.Index(s, lit), lit
	}
	if tok.TValue == "" {
		return 0, ""
	}
	if idx := strings.Index(s, tok.TValue); idx >= 0 {
		return idx, tok.TValue
	}
	if isRef {
		if bang := strings.LastIndex(tok.TValue, "!"); bang > 0 {
			sheet := strings.Trim(tok.TValue[:bang], "'")
			lit := "'" + strings.ReplaceAll(sheet, "'", "''") + "'" + tok.TValue[bang:]
			return strings.Index(s, lit), lit
		}
	}
	return -1, tok.TValue
}

// arrayConstantEnd returns the offset just past the first {..} array
// constant in s, skipping quoted strings, or -1 when it is not closed.
func arrayConstantEnd(s string) int {
	open := strings.IndexByte(s, '{')
	if open < 0 {
		return -1
	}
	inText := false
	for i := open + 1; i < len(s); i++ {
		switch s[i] {
		case '"':
			inText = !inText
		case '}':
			if !inText {
				return i + 1
			}
		}
	}
	return -1
}

// refPartRegex matches one side of a reference: a cell ($A$1, B2), a whole
// column ($C) or a whole row (7).
var refPartRegex = regexp.MustCompile(`^(\$?)([A-Za-z]{1,3})?(\$?)([0-9]+)?$`)

// nameRegex matches defined names, which are never shifted.
var nameRegex = regexp.MustCompile(`^[A-Za-z_\\][A-Za-z0-9_.\\]*$`)

type refKind int

const (
	refCell refKind = iota
	refColumn
	refRow
)

type refPart struct {
	kind           refKind
	colAbs, rowAbs bool
	col, row       int
}

func parseRefPart(s string) (refPart, bool) {
	m := refPartRegex.FindStringSubmatch(s)
	if m == nil || s == "" || s == "$" {
		return refPart{}, false
	}
	letters, digits := m[2], m[4]
	p := refPart{}
	switch {
	case letters != "" && digits != "":
		p.kind = refCell
		p.colAbs, p.rowAbs = m[1] != "", m[3] != ""
	case letters != "":
		if m[3] != "" {
			return refPart{}, false
		}
		p.kind = refColumn
		p.colAbs = m[1] != ""
	case digits != "":
		p.kind = refRow
		p.rowAbs = m[1] != "" || m[3] != ""
	default:
		return refPart{}, false
	}
	if letters != "" {
		col, err := LettersToCol(letters)
		if err != nil {
			return refPart{}, false
		}
		p.col = col
	}
	if digits != "" {
		row, err := strconv.Atoi(digits)
		if err != nil || row < 1 || row > MaxRows {
			return refPart{}, false
		}
		p.row = row
	}
	return p, true
}

// shift moves the relative components. ok is false when the result leaves
// the grid.
func (p refPart) shift(dRow, dCol int) (refPart, bool) {
	if p.kind != refRow && !p.colAbs {
		p.col += dCol
		if p.col < 1 || p.col > MaxCols {
			return p, false
		}
	}
	if p.kind != refColumn && !p.rowAbs {
		p.row += dRow
		if p.row < 1 || p.row > MaxRows {
			return p, false
		}
	}
	return p, true
}

func (p refPart) String() string {
	var b strings.Builder
	if p.kind != refRow {
		if p.colAbs {
			b.WriteByte('$')
		}
		b.WriteString(ColToLetters(p.col))
	}
	if p.kind != refColumn {
		if p.rowAbs {
			b.WriteByte('$')
		}
		b.WriteString(strconv.Itoa(p.row))
	}
	return b.String()
}

// shiftReference translates one reference operand such as "B2",
// "Sheet1!$A$1:B5", "A:C" or "3:4".
func shiftReference(ref string, dRow, dCol int) (string, error) {
	sheet, cells := "", ref
	if bang := strings.LastIndex(ref, "!"); bang >= 0 {
		sheet, cells = ref[:bang+1], ref[bang+1:]
	}

	parts := strings.Split(cells, ":")
	if len(parts) > 2 {
		return "", fmt.Errorf("unexpected reference %q", ref)
	}

	parsed := make([]refPart, len(parts))
	for i, s := range parts {
		p, ok := parseRefPart(s)
		if !ok || (len(parts) == 1 && p.kind != refCell) {
			if len(parts) == 1 && nameRegex.MatchString(cells) {
				return ref, nil // defined name
			}
			return "", fmt.Errorf("unrecognized reference %q", ref)
		}
		parsed[i] = p
	}
	if len(parsed) == 2 && parsed[0].kind != parsed[1].kind {
		return "", fmt.Errorf("mixed reference kinds in %q", ref)
	}

	out := make([]string, len(parsed))
	for i, p := range parsed {
		shifted, ok := p.shift(dRow, dCol)
		if !ok {
			return "#REF!", nil
		}
		out[i] = shifted.String()
	}
	return sheet + strings.Join(out, ":"), nil
}
