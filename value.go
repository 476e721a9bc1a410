package xlhelper

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// CellType represents the type of data in a cell.
type CellType int

const (
	CellBlank CellType = iota
	CellString
	CellNumber
	CellBoolean
	CellDate
	CellFormula
	CellError
)

// String returns a human-readable name for the CellType.
func (ct CellType) String() string {
	switch ct {
	case CellBlank:
		return "Blank"
	case CellString:
		return "String"
	case CellNumber:
		return "Number"
	case CellBoolean:
		return "Boolean"
	case CellDate:
		return "Date"
	case CellFormula:
		return "Formula"
	case CellError:
		return "Error"
	default:
		return "Unknown"
	}
}

// TypeOf determines the CellType of a value returned by ReadCell.
func TypeOf(v any) CellType {
	if v == nil {
		return CellBlank
	}
	switch v.(type) {
	case bool:
		return CellBoolean
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return CellNumber
	case time.Time:
		return CellDate
	default:
		return CellString
	}
}

// normalizeValue folds Go numeric kinds into int and float64, the two
// number types ReadCell hands back.
func normalizeValue(v any) any {
	switch n := v.(type) {
	case int8:
		return int(n)
	case int16:
		return int(n)
	case int32:
		return int(n)
	case int64:
		return int(n)
	case uint:
		return int(n)
	case uint8:
		return int(n)
	case uint16:
		return int(n)
	case uint32:
		return int(n)
	case uint64:
		return int(n)
	case float32:
		return float64(n)
	case string:
		if n == "" {
			return nil
		}
	}
	return v
}

// ParseNumber returns an int or float64 for numeric text, or ok=false.
func ParseNumber(s string) (any, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, false
	}
	if !strings.ContainsAny(s, ".eE") {
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return f, true
}

// decodeRaw turns a raw stored cell value into a typed Go value.
func decodeRaw(raw string, kind CellType) any {
	if raw == "" {
		return nil
	}
	switch kind {
	case CellBoolean:
		if b, err := strconv.ParseBool(raw); err == nil {
			return b
		}
		return raw
	case CellNumber:
		if n, ok := ParseNumber(raw); ok {
			return n
		}
		return raw
	default:
		return raw
	}
}

// RenderValue formats a cell value the way it is displayed, for width
// estimates and text output.
func RenderValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "TRUE"
		}
		return "FALSE"
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case time.Time:
		return x.Format(time.DateOnly)
	default:
		return fmt.Sprint(x)
	}
}
