package core

// coerce.go holds the single rule deciding whether a textual cell is a number.
//
// The grammar is the standard float literal: optional sign, digits with an
// optional fraction (or a bare fraction), optional exponent. Currency symbols,
// thousands separators, NaN and Inf are not numbers here; a cell that is not
// a number stays a string.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates the float grammar.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// IsNumeric reports whether s (after trimming) satisfies the float grammar.
func IsNumeric(s string) bool {
	return numericRegex.MatchString(strings.TrimSpace(s))
}

// ParseNumber parses s as a float if and only if it satisfies IsNumeric.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out of range ("1e999") still matches the grammar.
		return 0, false
	}
	return f, true
}

// CoerceCell converts a trimmed delimited-text cell into a number cell when it
// satisfies the grammar, otherwise into a string cell.
func CoerceCell(s string) Cell {
	s = strings.TrimSpace(s)
	if f, ok := ParseNumber(s); ok {
		return NumberCell(f)
	}
	return StringCell(s)
}

// formatNumber renders a float in its shortest round-tripping form. Very
// large or very small magnitudes switch to exponent notation, with the same
// cut-offs as JavaScript's Number.toString.
func formatNumber(f float64) string {
	if abs := math.Abs(f); f != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
