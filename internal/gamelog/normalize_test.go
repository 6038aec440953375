package gamelog

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var wantColumns = []string{"G", "Date", "Age", "Tm", "HomeAway", "Opp", "WinLoss", "GS", "MP", "PTS", "+/-"}

func loadFixture(t *testing.T, name string) *goquery.Document {
	t.Helper()
	f, err := os.Open("../../testdata/fixtures/" + name)
	require.NoError(t, err)
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	require.NoError(t, err)
	return doc
}

func parseHTML(t *testing.T, s string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	require.NoError(t, err)
	return doc
}

func TestParseHeader(t *testing.T) {
	doc := loadFixture(t, "gamelog_2019.html")
	got := ParseHeader(doc.Find("table#pgl_basic"))
	if diff := cmp.Diff(wantColumns, got); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}
}

func TestNameColumns(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  []string
	}{
		{
			name:  "blank cells renamed in order",
			cells: []string{"G", "Date", "Age", "Tm", "", "Opp", "", "GS"},
			want:  []string{"G", "Date", "Age", "Tm", "HomeAway", "Opp", "WinLoss", "GS"},
		},
		{
			name:  "no blank cells inserts at fixed positions",
			cells: []string{"G", "Date", "Age", "Tm", "Opp", "GS", "MP"},
			want:  []string{"G", "Date", "Age", "Tm", "HomeAway", "Opp", "WinLoss", "GS", "MP"},
		},
		{
			name:  "one blank cell",
			cells: []string{"G", "Date", "Age", "Tm", "", "Opp", "GS"},
			want:  []string{"G", "Date", "Age", "Tm", "HomeAway", "Opp", "WinLoss", "GS"},
		},
		{
			name:  "short header appends",
			cells: []string{"G", "Date"},
			want:  []string{"G", "Date", "HomeAway", "WinLoss"},
		},
		{
			name:  "extra blank cells get positional names",
			cells: []string{"G", "", "", ""},
			want:  []string{"G", "HomeAway", "WinLoss", "Col3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, nameColumns(tt.cells)); diff != "" {
				t.Errorf("nameColumns mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize_FiltersSpacerAndHeaderRows(t *testing.T) {
	doc := loadFixture(t, "gamelog_2019.html")

	table, err := Normalize(doc.Find("table#pgl_basic"), nil)
	require.NoError(t, err)
	require.Equal(t, 3, table.Len())

	for _, row := range table.Rows {
		require.Len(t, row, len(wantColumns))
		for _, c := range wantColumns {
			_, ok := row[c]
			require.True(t, ok, "column %s missing", c)
		}
	}

	require.Equal(t, Row{
		"G": "1", "Date": "2018-10-18", "Age": "33-292", "Tm": "LAL", "HomeAway": "@",
		"Opp": "POR", "WinLoss": "L (-9)", "GS": "1", "MP": "37:13", "PTS": "26", "+/-": "-3",
	}, table.Rows[0])
	require.Equal(t, "", table.Rows[1]["HomeAway"])
	require.Equal(t, "3", table.Rows[2]["G"])
}

func TestNormalize_PadsShortRows(t *testing.T) {
	doc := parseHTML(t, `<table>
		<thead><tr><th>Rk</th><th>G</th><th>Date</th><th>Age</th><th>Tm</th><th></th><th>Opp</th><th></th><th>PTS</th></tr></thead>
		<tbody><tr><th>1</th><td>1</td><td>2004-11-02</td><td>19-310</td><td>CLE</td><td></td><td>TOR</td></tr></tbody>
	</table>`)

	table, err := Normalize(doc.Find("table"), nil)
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	require.Equal(t, "", table.Rows[0]["WinLoss"])
	require.Equal(t, "", table.Rows[0]["PTS"])
	require.Equal(t, "TOR", table.Rows[0]["Opp"])
}

func TestNormalize_ShapeMismatch(t *testing.T) {
	doc := parseHTML(t, `<table>
		<thead><tr><th>Rk</th><th>G</th><th>PTS</th></tr></thead>
		<tbody><tr><th>1</th><td>1</td><td>20</td><td>extra</td><td>more</td><td>cells</td></tr></tbody>
	</table>`)

	_, err := Normalize(doc.Find("table"), []string{"G", "PTS"})
	require.True(t, errors.Is(err, ErrShapeMismatch), "got %v", err)
}

func TestNormalize_NoGamesColumnKeepsRows(t *testing.T) {
	doc := parseHTML(t, `<table><tbody>
		<tr><td>x</td><td>1</td></tr>
		<tr><td>y</td><td>2</td></tr>
	</tbody></table>`)

	table, err := Normalize(doc.Find("table"), []string{"A", "B"})
	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
}

func TestParseSeasonPage_RegularAndPlayoffs(t *testing.T) {
	doc := loadFixture(t, "gamelog_2019.html")

	table, err := ParseSeasonPage(doc)
	require.NoError(t, err)
	require.Equal(t, wantColumns, table.Columns)
	require.Equal(t, 4, table.Len())

	last := table.Rows[3]
	require.Equal(t, "2019-04-14", last["Date"])
	require.Equal(t, "DEN", last["Opp"])
	require.Equal(t, "W (+8)", last["WinLoss"])
}

func TestParseSeasonPage_OnlyOneTable(t *testing.T) {
	regularOnly := `<table id="pgl_basic">
		<thead><tr><th>Rk</th><th>G</th><th>Date</th><th>Age</th><th>Tm</th><th></th><th>Opp</th><th></th><th>PTS</th></tr></thead>
		<tbody><tr><th>1</th><td>1</td><td>2004-11-02</td><td>19-310</td><td>CLE</td><td>@</td><td>TOR</td><td>W (+3)</td><td>22</td></tr></tbody>
	</table>`
	table, err := ParseSeasonPage(parseHTML(t, regularOnly))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())

	playoffsOnly := `<div id="all_pgl_basic_playoffs"><!-- ` +
		strings.ReplaceAll(regularOnly, `id="pgl_basic"`, `id="pgl_basic_playoffs"`) +
		` --></div>`
	table, err = ParseSeasonPage(parseHTML(t, playoffsOnly))
	require.NoError(t, err)
	require.Equal(t, 1, table.Len())
	require.Equal(t, "22", table.Rows[0]["PTS"])
}

func TestParseSeasonPage_NoTables(t *testing.T) {
	_, err := ParseSeasonPage(parseHTML(t, `<html><body><p>nothing</p></body></html>`))
	require.ErrorIs(t, err, ErrNoTables)
}

func TestSeasonFromURL(t *testing.T) {
	require.Equal(t, "2019", SeasonFromURL("https://www.basketball-reference.com/players/j/jamesle01/gamelog/2019"))
	require.Equal(t, "2004", SeasonFromURL("/players/j/jamesle01/gamelog/2004/"))
	require.Equal(t, "", SeasonFromURL("/players/j/jamesle01.html"))
}
