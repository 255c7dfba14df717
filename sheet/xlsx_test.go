package sheet

import (
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xuri/excelize/v2"
)

func makeWorkbook(t *testing.T, sheet string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatalf("Error renaming worksheet (%v)", err)
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("Error creating cell name (%v)", err)
		}

		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("Error writing row %v (%v)", i+1, err)
		}
	}

	file := filepath.Join(t.TempDir(), "data.xlsx")
	if err := f.SaveAs(file); err != nil {
		t.Fatalf("Error saving workbook (%v)", err)
	}

	return file
}

func TestFromXLSX(t *testing.T) {
	file := makeWorkbook(t, "Data", [][]any{
		{"Name", "Notes"},
		{"Alice", "a, b"},
		{"Bob", `say "hi"`},
	})

	expected := Grid{
		{"Name", "Notes"},
		{"Alice", "a, b"},
		{"Bob", `say "hi"`},
	}

	grid, err := FromXLSX(file, "Data")
	if err != nil {
		t.Fatalf("Unexpected error returned from FromXLSX (%v)", err)
	}

	if !reflect.DeepEqual(grid, expected) {
		t.Errorf("Incorrect grid\n   expected: %v\n   got:      %v\n", expected, grid)
	}

	if s := CSV(grid); s != "Name,Notes\nAlice,\"a, b\"\nBob,\"say \"\"hi\"\"\"" {
		t.Errorf("Incorrect CSV from workbook: %q", s)
	}
}

func TestFromXLSXWithDefaultSheet(t *testing.T) {
	file := makeWorkbook(t, "First", [][]any{
		{"x", "y"},
	})

	grid, err := FromXLSX(file, "")
	if err != nil {
		t.Fatalf("Unexpected error returned from FromXLSX (%v)", err)
	}

	if !reflect.DeepEqual(grid, Grid{{"x", "y"}}) {
		t.Errorf("Incorrect grid - got %v", grid)
	}
}

func TestFromXLSXWithMissingSheet(t *testing.T) {
	file := makeWorkbook(t, "Data", [][]any{
		{"x"},
	})

	if _, err := FromXLSX(file, "Missing"); !errors.Is(err, ErrSheetNotFound) {
		t.Errorf("Expected ErrSheetNotFound, got %v", err)
	}
}

func TestFromXLSXWithMissingFile(t *testing.T) {
	if _, err := FromXLSX("", "Data"); !errors.Is(err, ErrMissingFilePath) {
		t.Errorf("Expected ErrMissingFilePath, got %v", err)
	}

	if _, err := FromXLSX(filepath.Join(t.TempDir(), "missing.xlsx"), "Data"); err == nil {
		t.Errorf("Expected error for missing workbook, got %v", err)
	}
}
