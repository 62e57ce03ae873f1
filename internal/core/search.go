package core

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultDisplayColumns are the columns search results are projected onto.
var DefaultDisplayColumns = []string{
	"HLA Allele",
	"Allele Classification",
	"Disease",
	"Clinical Significance",
}

// SearchStatus distinguishes a successful search with rows from one that
// matched nothing. Neither is an error.
type SearchStatus string

const (
	StatusMatched SearchStatus = "matched"
	StatusNoMatch SearchStatus = "no_match"
)

// SearchOptions controls result projection.
type SearchOptions struct {
	// Columns to project matching rows onto. Empty uses DefaultDisplayColumns.
	Columns []string
}

// SearchResult holds the matching rows in their original order.
type SearchResult struct {
	Query   string       `json:"query"`
	Status  SearchStatus `json:"status"`
	Columns []string     `json:"columns"`
	// Rows are the matches projected onto Columns.
	Rows []Row `json:"-"`
	// Matched are the indexes of the matches in Dataset.Rows.
	Matched []int `json:"matched"`
}

// Count returns the number of matching rows.
func (r *SearchResult) Count() int {
	return len(r.Matched)
}

// Records returns the projected rows as column name to value mappings.
// Null cells are omitted.
func (r *SearchResult) Records() []map[string]string {
	out := make([]map[string]string, len(r.Rows))
	for i, row := range r.Rows {
		rec := make(map[string]string, len(r.Columns))
		for j, c := range row.Cells {
			if !c.Null {
				rec[r.Columns[j]] = c.Value
			}
		}
		out[i] = rec
	}
	return out
}

// Search returns the rows of ds where at least one non-null cell contains
// query, compared case-insensitively with Unicode case folding. The query
// is a literal substring; an empty query matches every row.
//
// Returns ErrNoDataset if ds is nil. Zero matches yields StatusNoMatch.
// When there are matches and ds lacks a display column, the result is a
// *MissingColumnError naming every missing column.
func Search(ds *Dataset, query string, opts SearchOptions) (*SearchResult, error) {
	if ds == nil {
		return nil, ErrNoDataset
	}

	columns := opts.Columns
	if len(columns) == 0 {
		columns = DefaultDisplayColumns
	}

	fold := cases.Fold()
	needle := fold.String(query)

	var matched []int
	for i, row := range ds.Rows {
		if rowMatches(row, needle, fold) {
			matched = append(matched, i)
		}
	}

	result := &SearchResult{
		Query:   query,
		Columns: columns,
		Matched: matched,
	}
	if len(matched) == 0 {
		result.Status = StatusNoMatch
		return result, nil
	}

	idx, err := projection(ds, columns)
	if err != nil {
		return nil, err
	}

	result.Status = StatusMatched
	result.Rows = make([]Row, len(matched))
	for i, m := range matched {
		src := ds.Rows[m]
		cells := make([]Cell, len(idx))
		for j, col := range idx {
			cells[j] = src.Cells[col]
		}
		result.Rows[i] = Row{Line: src.Line, Cells: cells}
	}
	return result, nil
}

func rowMatches(row Row, needle string, fold cases.Caser) bool {
	// Every row contains the empty string, including rows of nulls
	if needle == "" {
		return true
	}
	for _, c := range row.Cells {
		if c.Null {
			continue
		}
		if strings.Contains(fold.String(c.Value), needle) {
			return true
		}
	}
	return false
}

// projection resolves display columns to header positions.
func projection(ds *Dataset, columns []string) ([]int, error) {
	idx := make([]int, len(columns))
	var missing []string
	for i, col := range columns {
		pos, ok := ds.ColumnIndex(col)
		if !ok {
			missing = append(missing, col)
			continue
		}
		idx[i] = pos
	}
	if len(missing) > 0 {
		return nil, &MissingColumnError{Missing: missing, Available: ds.Header}
	}
	return idx, nil
}
