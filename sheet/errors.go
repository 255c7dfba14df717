package sheet

import "errors"

var (
	// ErrSheetNotFound is returned when the named worksheet does not exist
	ErrSheetNotFound = errors.New("worksheet not found")

	// ErrMissingFilePath is returned when an xlsx source has no file
	ErrMissingFilePath = errors.New("workbook file path is required")
)
