package gamelog

import (
	"regexp"
)

// Row maps a column name to the cell text.
type Row map[string]string

// Table is a set of rows sharing one ordered column set.
type Table struct {
	Season  string   `json:"season,omitempty"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Has reports whether the table has the named column.
func (t *Table) Has(column string) bool {
	for _, c := range t.Columns {
		if c == column {
			return true
		}
	}
	return false
}

// Values returns the cells of each row in column order.
func (t *Table) Values() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		vals := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			vals[i] = row[c]
		}
		out = append(out, vals)
	}
	return out
}

// Reindex returns a copy of t conformed to columns. Missing columns are filled
// with empty strings, columns not listed are dropped, and row order is kept.
func (t *Table) Reindex(columns []string) *Table {
	out := &Table{
		Season:  t.Season,
		Columns: append([]string(nil), columns...),
		Rows:    make([]Row, 0, len(t.Rows)),
	}
	for _, row := range t.Rows {
		r := make(Row, len(columns))
		for _, c := range columns {
			r[c] = row[c]
		}
		out.Rows = append(out.Rows, r)
	}
	return out
}

// Concat stacks tables in order. The result's columns are the union of the
// inputs' columns in first-seen order; cells a table lacks are empty. Nil
// tables are skipped, and nil is returned when nothing remains.
func Concat(tables ...*Table) *Table {
	var out *Table
	seen := make(map[string]bool)

	for _, t := range tables {
		if t == nil {
			continue
		}
		if out == nil {
			out = &Table{Season: t.Season}
		}
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				out.Columns = append(out.Columns, c)
			}
		}
		out.Rows = append(out.Rows, t.Rows...)
	}
	if out == nil {
		return nil
	}

	for i, row := range out.Rows {
		if len(row) == len(out.Columns) {
			continue
		}
		filled := make(Row, len(out.Columns))
		for _, c := range out.Columns {
			filled[c] = row[c]
		}
		out.Rows[i] = filled
	}
	return out
}

var seasonPattern = regexp.MustCompile(`/gamelog/(\d{4})`)

// SeasonFromURL extracts the season year from a game log URL, or "" if the URL
// has none.
func SeasonFromURL(url string) string {
	m := seasonPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}
