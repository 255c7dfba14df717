package sheet

import (
	"encoding/base64"
	"encoding/csv"
	"math"
	"reflect"
	"strings"
	"testing"

	"google.golang.org/api/sheets/v4"
)

func TestMakeCSV(t *testing.T) {
	expected := `Name,Height,Notes
Alice,"5'2""","line1
line2"
Bob,180,"a, b"`

	var f strings.Builder
	var data = sheets.ValueRange{
		Values: [][]any{
			[]any{"Name", "Height", "Notes"},
			[]any{"Alice", `5'2"`, "line1\nline2"},
			[]any{"Bob", 180.0, "a, b"},
		},
	}

	if err := MakeCSV(&f, FromValueRange(&data)); err != nil {
		t.Fatalf("Unexpected error returned from MakeCSV (%v)", err)
	}

	if f.String() != expected {
		t.Errorf("Incorrect CSV\n   expected: %s\n   got:      %s\n", expected, f.String())
	}
}

func TestMakeCSVWithMixedCellTypes(t *testing.T) {
	expected := "1,1.5,true,false,,text"

	grid := Grid{
		{1.0, 1.5, true, false, nil, "text"},
	}

	if s := CSV(grid); s != expected {
		t.Errorf("Incorrect CSV\n   expected: %q\n   got:      %q\n", expected, s)
	}
}

func TestMakeCSVWithEmptyCells(t *testing.T) {
	grid := Grid{
		{nil, "", nil},
		{"x", nil},
	}

	s := CSV(grid)

	if strings.Contains(s, "null") || strings.Contains(s, "undefined") || strings.Contains(s, "nil") {
		t.Errorf("Empty cells encoded as text: %q", s)
	}

	if s != ",,\nx," {
		t.Errorf("Incorrect CSV\n   expected: %q\n   got:      %q\n", ",,\nx,", s)
	}
}

func TestMakeCSVWithRaggedRows(t *testing.T) {
	expected := "a\nb,c,d\n\ne,f"

	grid := Grid{
		{"a"},
		{"b", "c", "d"},
		{},
		{"e", "f"},
	}

	if s := CSV(grid); s != expected {
		t.Errorf("Incorrect CSV\n   expected: %q\n   got:      %q\n", expected, s)
	}
}

func TestMakeCSVWithEmptyGrid(t *testing.T) {
	if s := CSV(Grid{}); s != "" {
		t.Errorf("Expected empty CSV for empty grid, got %q", s)
	}

	if s := CSV(FromValueRange(nil)); s != "" {
		t.Errorf("Expected empty CSV for nil value range, got %q", s)
	}
}

func TestCSVRoundTrip(t *testing.T) {
	grid := Grid{
		{"Name", "Height", "Notes", "Count"},
		{"Alice", `5'2"`, "line1\nline2", 3.0},
		{`"quoted"`, "a,b,c", `,"`, nil},
		{"日本語", "カンマ、", "  padded  ", true},
		{"short"},
	}

	r := csv.NewReader(strings.NewReader(CSV(grid)))
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("Error parsing generated CSV (%v)", err)
	}

	expected := [][]string{}
	for _, row := range grid {
		record := []string{}
		for _, v := range row {
			record = append(record, Stringify(v))
		}
		expected = append(expected, record)
	}

	if !reflect.DeepEqual(records, expected) {
		t.Errorf("Incorrect round trip\n   expected: %q\n   got:      %q\n", expected, records)
	}
}

func TestEncode(t *testing.T) {
	grid := Grid{
		{"id", "name"},
		{1.0, "スプレッドシート"},
	}

	encoded := Encode(grid)

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		t.Fatalf("Encoded payload is not valid base64 (%v)", err)
	}

	if string(decoded) != "id,name\n1,スプレッドシート" {
		t.Errorf("Incorrect decoded payload\n   expected: %q\n   got:      %q\n", "id,name\n1,スプレッドシート", string(decoded))
	}
}

func TestStringify(t *testing.T) {
	tests := []struct {
		value    any
		expected string
	}{
		{nil, ""},
		{"", ""},
		{"text", "text"},
		{true, "true"},
		{false, "false"},
		{42.0, "42"},
		{-0.25, "-0.25"},
		{float32(2.5), "2.5"},
		{int64(7), "7"},
		{0.000001, "0.000001"},
		{1e-7, "1e-7"},
		{-1.5e-7, "-1.5e-7"},
		{1e21, "1e+21"},
		{1.2345e22, "1.2345e+22"},
		{123456789012345680000.0, "123456789012345680000"},
		{math.Copysign(0, -1), "0"},
		{math.Inf(1), "Infinity"},
		{math.Inf(-1), "-Infinity"},
		{float32(1e-7), "1e-7"},
	}

	for _, test := range tests {
		if s := Stringify(test.value); s != test.expected {
			t.Errorf("Incorrect string for %#v - expected:%q, got:%q", test.value, test.expected, s)
		}
	}
}
