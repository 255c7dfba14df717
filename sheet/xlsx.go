package sheet

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// FromXLSX reads the cell values of a worksheet in a local Excel workbook. An
// empty sheet name selects the first worksheet in the workbook.
func FromXLSX(path, name string) (Grid, error) {
	if path == "" {
		return nil, ErrMissingFilePath
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if name == "" {
		if list := f.GetSheetList(); len(list) > 0 {
			name = list[0]
		}
	}

	if index, err := f.GetSheetIndex(name); err != nil {
		return nil, fmt.Errorf("failed to get sheet index: %w", err)
	} else if index == -1 {
		return nil, fmt.Errorf("%w: '%s'", ErrSheetNotFound, name)
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	grid := make(Grid, len(rows))
	for i, row := range rows {
		grid[i] = make([]any, len(row))
		for j, v := range row {
			grid[i][j] = v
		}
	}

	return grid, nil
}
