package chart

import (
	"math"
	"strconv"
)

const (
	sciHighOrder = 5
	sciLowOrder  = -4

	sciWidthHint = 8
)

// FormatNumber renders an axis or readout value.
//
// Magnitudes above 1e5 or below 1e-4 use scientific notation with one
// decimal. Everything else is fixed notation: one decimal for |v| >= 1, and
// one more decimal per decade below 1. widthHint is a character-count
// estimate for pre-sizing label columns; it depends only on the order of
// magnitude, not on the sign.
func FormatNumber(v float64) (text string, decimals int, widthHint int) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'g', -1, 64), 0, 4
	}
	if v == 0 {
		return "0.0", 1, 4
	}

	order := math.Log10(math.Abs(v))
	if order > sciHighOrder || order < sciLowOrder {
		return strconv.FormatFloat(v, 'e', 1, 64), 1, sciWidthHint
	}

	decimals = 1
	if order < 0 {
		decimals = 1 + int(math.Ceil(-order))
	}
	intDigits := 1
	if order >= 1 {
		intDigits = int(math.Floor(order)) + 1
	}
	text = strconv.FormatFloat(v, 'f', decimals, 64)
	return text, decimals, 1 + intDigits + 1 + decimals
}

func formatNumberText(v float64) string {
	s, _, _ := FormatNumber(v)
	return s
}
