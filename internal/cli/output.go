package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jedib0t/go-pretty/v6/table"
)

// OutputFormat represents the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// textRenderer is implemented by every command result.
type textRenderer interface {
	renderText(w io.Writer) error
}

// WriteOutput writes result in the specified format
func WriteOutput(w io.Writer, result textRenderer, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return result.renderText(w)
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}
}

func writeJSON(w io.Writer, result interface{}) error {
	data, err := sonic.ConfigStd.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

// BuildResult summarizes a collection build.
type BuildResult struct {
	Kind      string    `json:"kind"`
	BuiltAt   time.Time `json:"built_at"`
	Requested int       `json:"requested"`
	Known     int       `json:"known,omitempty"`
	Scraped   int       `json:"scraped"`
	Failed    int       `json:"failed"`
	Total     int       `json:"total"`
	Linked    int       `json:"linked_coaches,omitempty"`
	Path      string    `json:"path"`
}

func (r *BuildResult) renderText(w io.Writer) error {
	fmt.Fprintf(w, "Scraped %d of %d %s", r.Scraped, r.Requested, r.Kind)
	if r.Known > 0 {
		fmt.Fprintf(w, " (%d already collected)", r.Known)
	}
	fmt.Fprintln(w)
	if r.Failed > 0 {
		fmt.Fprintf(w, "Skipped %d that could not be fetched\n", r.Failed)
	}
	if r.Linked > 0 {
		fmt.Fprintf(w, "Linked %d teams to their coach\n", r.Linked)
	}
	_, err := fmt.Fprintf(w, "Saved %d %s to %s\n", r.Total, r.Kind, r.Path)
	return err
}

// Match is one search hit.
type Match struct {
	Name       string  `json:"name"`
	URL        string  `json:"url"`
	Similarity float64 `json:"similarity"`
}

// SearchResult lists the names matching a query.
type SearchResult struct {
	Kind      string  `json:"kind"`
	Query     string  `json:"query"`
	Threshold float64 `json:"threshold"`
	Matches   []Match `json:"matches"`
}

func (r *SearchResult) renderText(w io.Writer) error {
	if len(r.Matches) == 0 {
		_, err := fmt.Fprintf(w, "No %s matching %q\n", r.Kind, r.Query)
		return err
	}

	t := newTable(w)
	t.AppendHeader(table.Row{"Name", "Similarity", "URL"})
	for _, m := range r.Matches {
		t.AppendRow(table.Row{m.Name, fmt.Sprintf("%.2f", m.Similarity), m.URL})
	}
	t.AppendFooter(table.Row{"", "", fmt.Sprintf("%d matches", len(r.Matches))})
	t.Render()
	return nil
}

// GameLogResult holds a player's game logs for one or all seasons.
type GameLogResult struct {
	Player  string              `json:"player"`
	Season  string              `json:"season,omitempty"`
	Filter  string              `json:"filter,omitempty"`
	Games   int                 `json:"games"`
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}

func (r *GameLogResult) renderText(w io.Writer) error {
	if r.Games == 0 {
		_, err := fmt.Fprintf(w, "No games found for %s\n", r.Player)
		return err
	}

	t := newTable(w)
	header := make(table.Row, len(r.Columns))
	for i, c := range r.Columns {
		header[i] = c
	}
	t.AppendHeader(header)
	for _, row := range r.Rows {
		cells := make(table.Row, len(r.Columns))
		for i, c := range r.Columns {
			cells[i] = row[c]
		}
		t.AppendRow(cells)
	}
	title := r.Player
	if r.Season != "" {
		title += " " + r.Season
	}
	if r.Filter != "" {
		t.SetCaption(r.Filter)
	}
	t.SetTitle(fmt.Sprintf("%s (%d games)", title, r.Games))
	t.Render()
	return nil
}

// ExportResult summarizes an archive export.
type ExportResult struct {
	Path     string    `json:"path"`
	Players  int       `json:"players"`
	Seasons  int       `json:"seasons"`
	Games    int       `json:"games"`
	Failed   []string  `json:"failed,omitempty"`
	Finished time.Time `json:"finished"`
}

func (r *ExportResult) renderText(w io.Writer) error {
	fmt.Fprintf(w, "Exported %d games across %d seasons for %d players to %s\n", r.Games, r.Seasons, r.Players, r.Path)
	if len(r.Failed) > 0 {
		_, err := fmt.Fprintf(w, "Failed: %s\n", strings.Join(r.Failed, ", "))
		return err
	}
	return nil
}
