package sheet

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Coerce normalizes a scalar-like value into a Cell. It reports false when the
// value is absent (nil) and never fails: unknown types are stringified.
func Coerce(value any) (Cell, bool) {
	if value == nil {
		return Cell{}, false
	}

	switch v := value.(type) {
	case string, bool:
		return Cell{V: v}, true
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Cell{V: strconv.FormatFloat(v, 'g', -1, 64)}, true
		}
		return Cell{V: v, T: CellTypeNumber}, true
	case float32:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Cell{V: strconv.FormatFloat(f, 'g', -1, 32)}, true
		}
		return Cell{V: v, T: CellTypeNumber}, true
	}

	if IsNumber(value) {
		return Cell{V: value, T: CellTypeNumber}, true
	}
	return Cell{V: stringify(value)}, true
}

// IsNumber reports whether v has a numeric runtime type. Booleans never count.
func IsNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	}
	return false
}

// ToFloat converts a numeric value to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// FormatValue renders a cell value for display; nil becomes "".
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	return stringify(v)
}

func stringify(v any) string {
	switch val := v.(type) {
	case fmt.Stringer:
		return val.String()
	case []any, map[string]any, json.Marshaler:
		if b, err := json.Marshal(val); err == nil {
			return string(b)
		}
	}
	return fmt.Sprint(v)
}
