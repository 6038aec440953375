package gamelog

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	ErrNothingToMerge   = errors.New("no season tables to merge")
	ErrNilTable         = errors.New("season table is nil")
	ErrDuplicateColumns = errors.New("duplicate column names")
)

// MergeError identifies the season tables that could not be combined.
type MergeError struct {
	Seasons []string
	Columns []string
	Err     error
}

func (e *MergeError) Error() string {
	var b strings.Builder
	b.WriteString("merging game logs")
	if len(e.Seasons) > 0 {
		fmt.Fprintf(&b, " for seasons [%s]", strings.Join(e.Seasons, ", "))
	}
	if len(e.Columns) > 0 {
		fmt.Fprintf(&b, " (columns: %s)", strings.Join(e.Columns, ", "))
	}
	fmt.Fprintf(&b, ": %v", e.Err)
	return b.String()
}

func (e *MergeError) Unwrap() error { return e.Err }

// Merge combines season tables into one. The columns of the last table are the
// canonical set; every table is reindexed to it before the rows are stacked in
// input order.
func Merge(tables []*Table) (*Table, error) {
	if len(tables) == 0 {
		return nil, &MergeError{Err: ErrNothingToMerge}
	}

	for i, t := range tables {
		if t == nil {
			return nil, &MergeError{
				Seasons: seasonLabels(tables),
				Err:     errors.Wrapf(ErrNilTable, "table %d", i),
			}
		}
		if dups := duplicates(t.Columns); len(dups) > 0 {
			return nil, &MergeError{
				Seasons: []string{t.Season},
				Columns: dups,
				Err:     ErrDuplicateColumns,
			}
		}
	}

	canonical := tables[len(tables)-1].Columns
	merged := &Table{Columns: append([]string(nil), canonical...)}
	for _, t := range tables {
		merged.Rows = append(merged.Rows, t.Reindex(canonical).Rows...)
	}
	return merged, nil
}

func seasonLabels(tables []*Table) []string {
	labels := make([]string, len(tables))
	for i, t := range tables {
		if t == nil {
			labels[i] = "<nil>"
			continue
		}
		labels[i] = t.Season
	}
	return labels
}

func duplicates(columns []string) []string {
	seen := make(map[string]int, len(columns))
	var dups []string
	for _, c := range columns {
		seen[c]++
		if seen[c] == 2 {
			dups = append(dups, c)
		}
	}
	return dups
}
