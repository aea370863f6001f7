// Package parser turns raw sheet exports into rows and groups rows into sections.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// numberPattern matches the cell texts that dynamic typing turns into numbers.
var numberPattern = regexp.MustCompile(`^\s*-?(\d+\.?|\.\d+|\d+\.\d+)([eE][-+]?\d+)?\s*$`)

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	if !numberPattern.MatchString(s) {
		return s
	}
	t := strings.TrimSpace(s)
	// Try integer first
	if i, err := strconv.ParseInt(t, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(t, 64); err == nil {
		return f
	}
	return s
}

// coerceValue applies dynamic typing to a raw cell text: booleans, numbers and
// nil for the empty string. Anything else is returned unchanged.
func coerceValue(s string) interface{} {
	switch s {
	case "":
		return nil
	case "true", "TRUE":
		return true
	case "false", "FALSE":
		return false
	}
	return parseValue(s)
}

// CellString formats a cell value the way it is displayed and compared.
// nil formats as the empty string.
func CellString(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// IsBlank reports whether a cell value is nil or whitespace only.
func IsBlank(v interface{}) bool {
	return v == nil || strings.TrimSpace(CellString(v)) == ""
}
