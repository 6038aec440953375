// Package gamelog turns basketball-reference game log pages into rectangular tables.
//
// A season page carries a regular season table (table#pgl_basic) and, for players
// who reached the postseason, a playoff table that the site hides inside an HTML
// comment. ParseSeasonPage normalizes both and concatenates them. The header row
// encodes the home/away and win/loss indicators as unlabeled columns; they are
// named HomeAway and WinLoss here.
//
// Column sets drift across seasons (plus/minus was added partway through the
// site's history). Merge reconciles a sequence of season tables against the
// columns of the last one.
package gamelog
