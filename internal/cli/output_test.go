package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestSortMatches(t *testing.T) {
	matches := func() []Match {
		return []Match{
			{Name: "mike james", Similarity: 0.4},
			{Name: "LeBron James", Similarity: 0.9},
			{Name: "Jokić", Similarity: 0.4},
		}
	}

	tests := []struct {
		order SortOrder
		want  []string
	}{
		{SortByName, []string{"Jokić", "LeBron James", "mike james"}},
		{SortBySimilarity, []string{"LeBron James", "Jokić", "mike james"}},
	}

	for _, tt := range tests {
		t.Run(string(tt.order), func(t *testing.T) {
			got := matches()
			sortMatches(got, tt.order)

			names := make([]string, len(got))
			for i, m := range got {
				names[i] = m.Name
			}
			if diff := cmp.Diff(tt.want, names); diff != "" {
				t.Errorf("sortMatches() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSortOrder(t *testing.T) {
	order, err := parseSortOrder("Similarity")
	require.NoError(t, err)
	require.Equal(t, SortBySimilarity, order)

	_, err = parseSortOrder("date")
	require.Error(t, err)
}

func TestWriteOutput_Text(t *testing.T) {
	var buf bytes.Buffer
	err := WriteOutput(&buf, &SearchResult{
		Kind:  "players",
		Query: "james",
		Matches: []Match{
			{Name: "LeBron James", URL: "https://example.com/j.html", Similarity: 0.5},
		},
	}, FormatText)
	require.NoError(t, err)
	require.Contains(t, buf.String(), "LeBron James")
	require.Contains(t, buf.String(), "0.50")
	// go-pretty upper-cases footers
	require.Contains(t, strings.ToUpper(buf.String()), "1 MATCHES")

	buf.Reset()
	require.NoError(t, WriteOutput(&buf, &SearchResult{Kind: "coaches", Query: "x"}, FormatText))
	require.Equal(t, "No coaches matching \"x\"\n", buf.String())
}

func TestWriteOutput_GameLogText(t *testing.T) {
	var buf bytes.Buffer
	err := WriteOutput(&buf, &GameLogResult{
		Player:  "LeBron James",
		Season:  "2018-19",
		Games:   1,
		Columns: []string{"G", "Date", "PTS"},
		Rows:    []map[string]string{{"G": "1", "Date": "2018-10-18", "PTS": "26"}},
	}, FormatText)
	require.NoError(t, err)
	require.Contains(t, strings.ToUpper(buf.String()), "LEBRON JAMES 2018-19 (1 GAMES)")
	require.Contains(t, buf.String(), "2018-10-18")
}

func TestWriteOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := WriteOutput(&buf, &ExportResult{Path: "a.db", Players: 2, Failed: []string{"X"}}, FormatJSON)
	require.NoError(t, err)
	require.Contains(t, buf.String(), `"path": "a.db"`)
	require.Contains(t, buf.String(), `"failed": [`)
}

func TestWriteOutput_Unsupported(t *testing.T) {
	err := WriteOutput(&bytes.Buffer{}, &BuildResult{}, OutputFormat("xml"))
	require.Error(t, err)
}
