package provider

import (
	"encoding/json"
	"math"
)

// ExtractNumber returns the numeric value of a decoded JSON scalar.
//
// Decoders configured with UseNumber produce json.Number; plain decoding
// produces float64. Strings, booleans, objects and non-finite values are not
// numbers and report ok=false.
func ExtractNumber(val interface{}) (float64, bool) {
	var f float64
	switch v := val.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		n, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = n
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ExtractCount converts a numeric JSON value into a non-negative game count.
// Fractional values are truncated; negative values are not counts.
func ExtractCount(val interface{}) (int, bool) {
	f, ok := ExtractNumber(val)
	if !ok || f < 0 {
		return 0, false
	}
	return int(f), true
}
