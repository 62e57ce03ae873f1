package core

import (
	"strconv"
	"strings"
)

// DefaultPreviewRows is how many rows Head shows when asked for n <= 0.
const DefaultPreviewRows = 5

// nullMarkers are field values read as missing, in addition to the empty
// string. The list follows the NA spellings spreadsheet exports commonly use.
var nullMarkers = map[string]bool{
	"#N/A": true, "#N/A N/A": true, "#NA": true, "-1.#IND": true, "-1.#QNAN": true,
	"-NaN": true, "-nan": true, "1.#IND": true, "1.#QNAN": true, "<NA>": true,
	"N/A": true, "NA": true, "NULL": true, "NaN": true, "None": true,
	"n/a": true, "nan": true, "null": true,
}

// Cell is a single field value. Null cells render empty and never match a
// search query.
type Cell struct {
	Value string
	Null  bool
}

// NewCell builds a Cell from a raw CSV field, marking missing values null.
func NewCell(raw string) Cell {
	if raw == "" || nullMarkers[raw] {
		return Cell{Null: true}
	}
	return Cell{Value: raw}
}

// String returns the display form of the cell.
func (c Cell) String() string {
	if c.Null {
		return ""
	}
	return c.Value
}

// Row is one data record, with cells aligned to the dataset header.
type Row struct {
	Line  int // 1-indexed line in the source file
	Cells []Cell
}

// Values returns the display form of every cell in the row.
func (r Row) Values() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = c.String()
	}
	return out
}

// Dataset is an in-memory table parsed from an uploaded CSV file.
// Every row has exactly len(Header) cells. A Dataset is never modified
// after Load returns it.
type Dataset struct {
	Header []string
	Rows   []Row
	Digest string // hex SHA-256 of the uploaded bytes
	Size   int64  // bytes read from the upload
}

// Len returns the number of data rows.
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Rows)
}

// ColumnIndex returns the position of a column in the header.
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	for i, h := range d.Header {
		if h == name {
			return i, true
		}
	}
	return -1, false
}

// Value returns the cell at row i for the named column.
func (d *Dataset) Value(i int, column string) (Cell, bool) {
	idx, ok := d.ColumnIndex(column)
	if !ok || i < 0 || i >= len(d.Rows) {
		return Cell{}, false
	}
	return d.Rows[i].Cells[idx], true
}

// Record returns row i as a column name to display value mapping.
// Null cells are omitted.
func (d *Dataset) Record(i int) map[string]string {
	rec := make(map[string]string, len(d.Header))
	for j, c := range d.Rows[i].Cells {
		if !c.Null {
			rec[d.Header[j]] = c.Value
		}
	}
	return rec
}

// Head returns the first n rows with every column.
// n <= 0 uses DefaultPreviewRows.
func (d *Dataset) Head(n int) []Row {
	if d == nil {
		return nil
	}
	if n <= 0 {
		n = DefaultPreviewRows
	}
	if n > len(d.Rows) {
		n = len(d.Rows)
	}
	return d.Rows[:n]
}

// normalizeHeader makes column names usable as unique keys: blank names
// become "Unnamed: <i>" and repeats get ".1", ".2" suffixes.
func normalizeHeader(raw []string) []string {
	header := make([]string, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, name := range raw {
		if strings.TrimSpace(name) == "" {
			name = "Unnamed: " + strconv.Itoa(i)
		}
		candidate := name
		for n := 1; seen[candidate]; n++ {
			candidate = name + "." + strconv.Itoa(n)
		}
		seen[candidate] = true
		header[i] = candidate
	}
	return header
}
