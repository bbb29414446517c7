package modelcard

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cardops/modelcard/domain/model"
)

var (
	// plain decimal integers, optionally signed
	integerPattern = regexp.MustCompile(`^[+-]?\d+$`)
	// decimal numbers with an optional exponent; hex, inf and nan are excluded
	floatPattern = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)
)

// inferCell converts one cell of text into a typed value.
//
// Empty cells are absent. Integers become int64, falling back to float64 when
// they overflow; decimal and exponent forms become float64; true and false in
// any letter case become bool. Everything else stays a string, untrimmed.
func inferCell(text string) model.Value {
	if text == "" {
		return model.Absent()
	}

	if integerPattern.MatchString(text) {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return model.Int(i)
		}
	}
	if floatPattern.MatchString(text) {
		if f, err := strconv.ParseFloat(text, 64); err == nil {
			return model.Float(f)
		}
	}

	switch strings.ToLower(text) {
	case "true":
		return model.Bool(true)
	case "false":
		return model.Bool(false)
	}
	return model.String(text)
}

// inferCells runs inferCell over a row of text cells.
func inferCells(cells []string) []model.Value {
	values := make([]model.Value, len(cells))
	for i, c := range cells {
		values[i] = inferCell(c)
	}
	return values
}

// isNumericText reports whether text would be inferred as a number.
func isNumericText(text string) bool {
	return floatPattern.MatchString(text)
}
