// Package filter narrows game logs down to the games a caller cares about.
//
// Criteria combine with AND; list criteria (opponents, teams) match when any
// entry matches:
//   - Date range (from/to, inclusive)
//   - Opponents and teams (three-letter codes, case-insensitive)
//   - Venue (home or away games only)
//   - Result (wins or losses only)
//
// Example usage:
//
//	f := filter.NewFilter()
//	f.Venue = filter.VenueAway
//	f.Opponents = []string{"BOS"}
//	away := f.Apply(table)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/bbref-crawler/internal/gamelog"
)

// Venue restricts games to one side of the court.
type Venue string

const (
	VenueAny  Venue = ""
	VenueHome Venue = "home"
	VenueAway Venue = "away"
)

// Result restricts games to wins or losses.
type Result string

const (
	ResultAny  Result = ""
	ResultWin  Result = "W"
	ResultLoss Result = "L"
)

const dateLayout = "2006-01-02"

// Filter represents game log filtering criteria
type Filter struct {
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	Opponents []string `json:"opponents,omitempty"`
	Teams     []string `json:"teams,omitempty"`

	Venue  Venue  `json:"venue,omitempty"`
	Result Result `json:"result,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all games until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Opponents: []string{},
		Teams:     []string{},
	}
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		len(f.Opponents) == 0 &&
		len(f.Teams) == 0 &&
		f.Venue == VenueAny &&
		f.Result == ResultAny
}

// Matches checks if a game log row passes every active criterion. A row
// whose date cannot be parsed never passes a date bound.
func (f *Filter) Matches(row gamelog.Row) bool {
	if f.IsEmpty() {
		return true
	}

	if f.DateFrom != nil || f.DateTo != nil {
		date, err := time.Parse(dateLayout, strings.TrimSpace(row["Date"]))
		if err != nil {
			return false
		}
		if f.DateFrom != nil && date.Before(*f.DateFrom) {
			return false
		}
		if f.DateTo != nil && date.After(*f.DateTo) {
			return false
		}
	}

	if !matchesAny(row["Opp"], f.Opponents) || !matchesAny(row["Tm"], f.Teams) {
		return false
	}

	// away games carry "@" in the home/away column
	switch away := strings.TrimSpace(row[gamelog.ColumnHomeAway]) == "@"; f.Venue {
	case VenueHome:
		if away {
			return false
		}
	case VenueAway:
		if !away {
			return false
		}
	}

	if f.Result != ResultAny {
		outcome := strings.TrimSpace(row[gamelog.ColumnWinLoss])
		if !strings.HasPrefix(strings.ToUpper(outcome), string(f.Result)) {
			return false
		}
	}

	return true
}

func matchesAny(value string, codes []string) bool {
	if len(codes) == 0 {
		return true
	}
	value = strings.TrimSpace(value)
	for _, code := range codes {
		if strings.EqualFold(value, strings.TrimSpace(code)) {
			return true
		}
	}
	return false
}

// Apply returns a table holding only the matching rows. The input is not
// modified; an empty filter returns it unchanged.
func (f *Filter) Apply(table *gamelog.Table) *gamelog.Table {
	if table == nil || f.IsEmpty() {
		return table
	}

	out := &gamelog.Table{
		Season:  table.Season,
		Columns: table.Columns,
		Rows:    make([]gamelog.Row, 0, len(table.Rows)),
	}
	for _, row := range table.Rows {
		if f.Matches(row) {
			out.Rows = append(out.Rows, row)
		}
	}
	return out
}

// String returns a human-readable description of the active filter criteria.
// Format: "From: 2019-01-01 | To: 2019-01-31 | Opponents: BOS | Away"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format(dateLayout)))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format(dateLayout)))
	}
	if len(f.Opponents) > 0 {
		parts = append(parts, fmt.Sprintf("Opponents: %s", strings.Join(f.Opponents, ", ")))
	}
	if len(f.Teams) > 0 {
		parts = append(parts, fmt.Sprintf("Teams: %s", strings.Join(f.Teams, ", ")))
	}
	switch f.Venue {
	case VenueHome:
		parts = append(parts, "Home")
	case VenueAway:
		parts = append(parts, "Away")
	}
	switch f.Result {
	case ResultWin:
		parts = append(parts, "Wins")
	case ResultLoss:
		parts = append(parts, "Losses")
	}
	return strings.Join(parts, " | ")
}

// Clone creates a deep copy of the filter.
func (f *Filter) Clone() *Filter {
	clone := &Filter{
		Venue:     f.Venue,
		Result:    f.Result,
		Opponents: append([]string{}, f.Opponents...),
		Teams:     append([]string{}, f.Teams...),
	}
	if f.DateFrom != nil {
		df := *f.DateFrom
		clone.DateFrom = &df
	}
	if f.DateTo != nil {
		dt := *f.DateTo
		clone.DateTo = &dt
	}
	return clone
}
