package sheet

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"google.golang.org/api/sheets/v4"
)

// Grid is a snapshot of the cell values of a worksheet, one slice per row. Rows
// need not all be the same width.
type Grid [][]any

// FromValueRange copies the cell values from a Google Sheets response.
func FromValueRange(data *sheets.ValueRange) Grid {
	if data == nil {
		return Grid{}
	}

	grid := make(Grid, len(data.Values))
	for i, row := range data.Values {
		grid[i] = append([]any{}, row...)
	}

	return grid
}

// Stringify returns the text representation of a cell value. Missing values are
// always returned as an empty string.
func Stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return number(val, 64)
	case float32:
		return number(float64(val), 32)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// number formats a value in the shortest form that round trips, in decimal notation
// for magnitudes in [1e-6, 1e21) and exponent notation (e.g. 1e+21, 1.5e-7) outside it.
func number(v float64, bits int) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "Infinity"
	case math.IsInf(v, -1):
		return "-Infinity"
	case v == 0:
		return "0"
	}

	if abs := math.Abs(v); abs >= 1e21 || abs < 1e-6 {
		mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(v, 'e', -1, bits), "e")

		return mantissa + "e" + exponent[:1] + strings.TrimLeft(exponent[1:], "0")
	}

	return strconv.FormatFloat(v, 'f', -1, bits)
}
