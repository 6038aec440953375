package gamelog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/bbref-crawler/internal/logger"
	"github.com/pfrederiksen/bbref-crawler/internal/scraper"
)

const (
	ColumnHomeAway = "HomeAway"
	ColumnWinLoss  = "WinLoss"
	ColumnGames    = "G"

	RegularSeasonTable = "pgl_basic"
	PlayoffTable       = "pgl_basic_playoffs"
)

// positions used when the header has no blank cell to carry the synthetic names
const (
	homeAwayPos = 4
	winLossPos  = 6
)

var (
	ErrShapeMismatch = errors.New("row has more cells than header")
	ErrNoTables      = errors.New("no game log tables on page")
)

// ParseHeader reads the column names from the last header row of table, drops
// the leading rank column and names the unlabeled indicator columns.
func ParseHeader(table *goquery.Selection) []string {
	var cells []string
	table.Find("thead tr").Last().Find("th").Each(func(_ int, th *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(th.Text()))
	})
	if len(cells) == 0 {
		return nil
	}
	return nameColumns(cells[1:])
}

func nameColumns(cells []string) []string {
	synthetic := []string{ColumnHomeAway, ColumnWinLoss}
	header := make([]string, 0, len(cells)+len(synthetic))

	for i, c := range cells {
		if c == "" {
			if len(synthetic) > 0 {
				c, synthetic = synthetic[0], synthetic[1:]
			} else {
				c = fmt.Sprintf("Col%d", i)
			}
		}
		header = append(header, c)
	}

	for _, name := range synthetic {
		pos := winLossPos
		if name == ColumnHomeAway {
			pos = homeAwayPos
		}
		pos = min(pos, len(header))
		header = append(header[:pos], append([]string{name}, header[pos:]...)...)
	}
	return header
}

// Normalize converts a game log table into records keyed by header. Spacer rows
// (no data cells, or an empty first cell) are skipped, short rows are padded
// with empty strings, and rows whose games-played value is not a number are
// dropped. A row with more cells than the header yields ErrShapeMismatch.
func Normalize(table *goquery.Selection, header []string) (*Table, error) {
	if header == nil {
		header = ParseHeader(table)
	}
	out := &Table{
		Columns: append([]string(nil), header...),
		Rows:    []Row{},
	}
	checkGames := out.Has(ColumnGames)

	var rowErr error
	table.Find("tbody tr").EachWithBreak(func(i int, tr *goquery.Selection) bool {
		tds := tr.Find("td")
		if tds.Length() == 0 {
			return true
		}
		cells := tds.Map(func(_ int, td *goquery.Selection) string {
			return strings.TrimSpace(td.Text())
		})
		if cells[0] == "" {
			return true
		}
		if len(cells) > len(header) {
			rowErr = errors.Wrapf(ErrShapeMismatch, "row %d has %d cells, header has %d", i, len(cells), len(header))
			return false
		}

		row := make(Row, len(header))
		for j, col := range header {
			if j < len(cells) {
				row[col] = cells[j]
			} else {
				row[col] = ""
			}
		}
		if checkGames {
			if _, err := strconv.Atoi(row[ColumnGames]); err != nil {
				return true
			}
		}
		out.Rows = append(out.Rows, row)
		return true
	})
	if rowErr != nil {
		return nil, rowErr
	}
	return out, nil
}

// ParseSeasonPage normalizes the regular season and playoff tables of a game
// log page and concatenates them. The playoff table may be hidden in a comment.
// A table that fails to normalize is left out; ErrNoTables is returned when
// neither table yields anything.
func ParseSeasonPage(doc *goquery.Document) (*Table, error) {
	regular := doc.Find("table#" + RegularSeasonTable).First()
	playoffs := scraper.LocateTable(doc, PlayoffTable)

	var header []string
	if regular.Length() > 0 {
		header = ParseHeader(regular)
	}

	var tables []*Table
	var errs error
	for _, part := range []struct {
		id  string
		sel *goquery.Selection
	}{{RegularSeasonTable, regular}, {PlayoffTable, playoffs}} {
		id, sel := part.id, part.sel
		if sel.Length() == 0 {
			continue
		}
		h := ParseHeader(sel)
		if h == nil {
			h = header
		}
		t, err := Normalize(sel, h)
		if err != nil {
			logger.Warn("Skipping game log table", logger.Fields{"table": id, "error": err.Error()})
			errs = errors.CombineErrors(errs, err)
			continue
		}
		tables = append(tables, t)
	}

	if len(tables) == 0 {
		if errs != nil {
			return nil, errors.Mark(errs, ErrNoTables)
		}
		return nil, ErrNoTables
	}
	return Concat(tables...), nil
}
