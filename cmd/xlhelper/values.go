package main

import (
	"strings"

	"github.com/javajack/xlhelper"
)

// parseValue types a command line argument: numbers become int or float64,
// TRUE/FALSE become bool, an empty string clears the cell. A leading
// apostrophe keeps the rest as text, as spreadsheet apps do.
func parseValue(s string) any {
	if rest, ok := strings.CutPrefix(s, "'"); ok {
		return rest
	}
	switch strings.ToUpper(s) {
	case "":
		return nil
	case "TRUE":
		return true
	case "FALSE":
		return false
	}
	if n, ok := xlhelper.ParseNumber(s); ok {
		return n
	}
	return s
}

func parseValues(args []string) []any {
	values := make([]any, len(args))
	for i, a := range args {
		values[i] = parseValue(a)
	}
	return values
}

func parseCells(args []string) ([]xlhelper.CellRef, error) {
	refs := make([]xlhelper.CellRef, 0, len(args))
	for _, a := range args {
		ref, err := xlhelper.ParseCellRef(a)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func renderLine(values []any) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = xlhelper.RenderValue(v)
	}
	return strings.Join(parts, "\t")
}
