package jsonutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexibleStringValue converts a json.RawMessage to a string, handling cases where
// the upstream source sends numbers or booleans instead of strings. Returns empty string for null/empty.
func FlexibleStringValue(raw json.RawMessage) string {
	if isNull(raw) {
		return ""
	}

	// Try string first
	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		return strVal
	}

	// Try number
	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		if numVal == float64(int64(numVal)) {
			return fmt.Sprintf("%d", int64(numVal))
		}
		return fmt.Sprintf("%g", numVal)
	}

	// Try boolean
	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		return fmt.Sprintf("%t", boolVal)
	}

	// Fallback: return raw string representation
	return string(raw)
}

// FlexibleFloat converts a json.RawMessage holding a number, a numeric string or a
// boolean into a float64. The second return value is false when the value is
// null, missing, an object/array, or a non-numeric string.
func FlexibleFloat(raw json.RawMessage) (float64, bool) {
	if isNull(raw) {
		return 0, false
	}

	var numVal float64
	if err := json.Unmarshal(raw, &numVal); err == nil {
		return numVal, true
	}

	var strVal string
	if err := json.Unmarshal(raw, &strVal); err == nil {
		f, err := strconv.ParseFloat(strings.TrimSpace(strVal), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}

	// Booleans show up in block summaries ("safe": true)
	var boolVal bool
	if err := json.Unmarshal(raw, &boolVal); err == nil {
		if boolVal {
			return 1, true
		}
		return 0, true
	}

	return 0, false
}

// IsObject reports whether raw holds a JSON object.
func IsObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// Lookup walks nested objects following keys and returns the raw value at the end
// of the path. Returns nil if any step is missing or is not an object.
func Lookup(raw json.RawMessage, keys ...string) json.RawMessage {
	current := raw
	for _, key := range keys {
		if !IsObject(current) {
			return nil
		}
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(current, &fields); err != nil {
			return nil
		}
		next, ok := fields[key]
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || string(trimmed) == "null"
}
