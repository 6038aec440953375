package directory

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pfrederiksen/bbref-crawler/internal/logger"
	"github.com/pfrederiksen/bbref-crawler/internal/scraper"
)

// Letters are the player index pages, /players/a/ through /players/z/.
const Letters = "abcdefghijklmnopqrstuvwxyz"

// Listing is one row of an index page.
type Listing struct {
	Name      string `json:"name"`
	URL       string `json:"url"`
	FirstYear int    `json:"first_year,omitempty"`
	LastYear  int    `json:"last_year,omitempty"`
	Active    bool   `json:"active"`
}

// ParsePlayerListing reads table#players from a letter index page.
// Active players are the ones whose name is in bold.
func ParsePlayerListing(doc *goquery.Document, baseURL string) []Listing {
	return parseListing(doc.Find("table#players tbody tr"), `th[data-stat="player"][scope="row"]`, baseURL)
}

// ParseCoachListing reads table#coaches from the coach index page.
func ParseCoachListing(doc *goquery.Document, baseURL string) []Listing {
	return parseListing(doc.Find("table#coaches tbody tr"), `th[data-stat="coach"][scope="row"]`, baseURL)
}

// ParseTeamListing reads the active franchises from the team index page.
// Rows for former franchise names are ignored.
func ParseTeamListing(doc *goquery.Document, baseURL string) []Listing {
	listings := parseListing(doc.Find("table#teams_active tr"), `th[data-stat="franch_name"]`, baseURL)
	for i := range listings {
		listings[i].Active = true
	}
	return listings
}

func parseListing(rows *goquery.Selection, nameSelector, baseURL string) []Listing {
	var listings []Listing
	rows.Each(func(_ int, row *goquery.Selection) {
		cell := row.Find(nameSelector).First()
		link := cell.Find("a").First()
		href, ok := link.Attr("href")
		if !ok {
			return
		}

		l := Listing{
			Name:   strings.TrimSpace(link.Text()),
			URL:    scraper.Absolute(baseURL, href),
			Active: cell.Find("strong").Length() > 0,
		}
		if first, ok := year(row, "year_min"); ok {
			l.FirstYear = first
		}
		if last, ok := year(row, "year_max"); ok {
			l.LastYear = last
		} else {
			logger.Debug("Listing row without last year", logger.Fields{"name": l.Name})
		}
		listings = append(listings, l)
	})
	return listings
}

func year(row *goquery.Selection, stat string) (int, bool) {
	text := strings.TrimSpace(row.Find(`td[data-stat="` + stat + `"]`).Text())
	n, err := strconv.Atoi(text)
	return n, err == nil
}

// FilterActiveSince keeps listings whose last year is at least minYear.
// Listings without a last year are dropped.
func FilterActiveSince(listings []Listing, minYear int) []Listing {
	out := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if l.LastYear >= minYear && l.LastYear != 0 {
			out = append(out, l)
		}
	}
	return out
}
