// Package convert provides loose numeric conversion for terminal payloads,
// which mix JSON numbers, strings and integers depending on bridge version.
package convert

import (
	"encoding/json"
	"strconv"
	"strings"
)

// ToFloat64 converts common numeric representations to float64.
// Unsupported types and parse failures yield 0.
func ToFloat64(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case float64:
		return t
	case float32:
		return float64(t)
	case int:
		return float64(t)
	case int32:
		return float64(t)
	case int64:
		return float64(t)
	case uint64:
		return float64(t)
	case json.Number:
		f, _ := t.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f
	default:
		return 0
	}
}

// ToInt64 converts common numeric representations to int64.
// Unsupported types and parse failures yield 0.
func ToInt64(v any) int64 {
	switch t := v.(type) {
	case nil:
		return 0
	case int64:
		return t
	case int:
		return int64(t)
	case int32:
		return int64(t)
	case uint64:
		return int64(t)
	case float64:
		return int64(t)
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			f, _ := t.Float64()
			return int64(f)
		}
		return n
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			f, _ := strconv.ParseFloat(strings.TrimSpace(t), 64)
			return int64(f)
		}
		return n
	default:
		return 0
	}
}
