// Package entity scrapes player, coach and team overview pages.
//
// Each entity is constructed from a name and overview URL and populated at most
// once by Scrape. Populating fetches the page a single time and then runs a set
// of independent extractions (biography, nicknames, season teams, salaries,
// game log links for players; season teams for coaches; location and former
// names for teams). A failing extraction is logged and only its own fields are
// reset; the others still run.
//
// Entities serialize to explicit JSON records whose keys match the archives
// produced by earlier versions of the crawler. The cached page text is never
// written.
package entity
