package sheet

import (
	"bytes"
	"encoding/base64"
	"io"
	"strings"
)

// MakeCSV writes the grid as CSV. Fields containing a double quote, comma or
// newline are quoted (with embedded quotes doubled), everything else is written
// verbatim. Rows are separated by '\n' and there is no trailing newline.
func MakeCSV(w io.Writer, grid Grid) error {
	for i, row := range grid {
		if i > 0 {
			if _, err := io.WriteString(w, "\n"); err != nil {
				return err
			}
		}

		fields := make([]string, len(row))
		for j, cell := range row {
			fields[j] = escape(Stringify(cell))
		}

		if _, err := io.WriteString(w, strings.Join(fields, ",")); err != nil {
			return err
		}
	}

	return nil
}

// CSV returns the grid as a CSV document.
func CSV(grid Grid) string {
	var b strings.Builder

	MakeCSV(&b, grid)

	return b.String()
}

// Encode returns the base64 encoding of the UTF-8 CSV document for the grid, as
// expected by the 'content' field of the GitHub contents API.
func Encode(grid Grid) string {
	var b bytes.Buffer

	MakeCSV(&b, grid)

	return base64.StdEncoding.EncodeToString(b.Bytes())
}

func escape(v string) string {
	if strings.ContainsAny(v, "\",\n") {
		return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
	}

	return v
}
