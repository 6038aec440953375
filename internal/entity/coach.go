package entity

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/bbref-crawler/internal/logger"
	"github.com/pfrederiksen/bbref-crawler/internal/scraper"
)

// Coach is a coach overview page and the teams coached per season.
type Coach struct {
	Name        string
	OverviewURL string
	Content     string
	Teams       SeasonMap

	state State
}

// NewCoach creates an unpopulated coach.
func NewCoach(name, overviewURL string) *Coach {
	return &Coach{Name: name, OverviewURL: overviewURL}
}

// FetchCoach creates a coach and scrapes its overview page.
func FetchCoach(ctx context.Context, f scraper.PageFetcher, name, overviewURL string) (*Coach, error) {
	c := NewCoach(name, overviewURL)
	return c, c.Scrape(ctx, f)
}

func (c *Coach) IsPopulated() bool { return c.state == Populated }

// Scrape fetches the overview page once and extracts the season teams.
func (c *Coach) Scrape(ctx context.Context, f scraper.PageFetcher) error {
	if err := checkUnpopulated(c.state, "coach", c.Name); err != nil {
		return err
	}
	logger.Info("Scraping coach", logger.Fields{"name": c.Name, "url": c.OverviewURL})

	doc, err := f.Fetch(ctx, c.OverviewURL)
	if err != nil {
		return errors.Wrapf(err, "scraping coach %q", c.Name)
	}
	c.populate(doc)
	return nil
}

func (c *Coach) populate(doc *goquery.Document) {
	c.Content = doc.Text()
	c.state = Populated

	runExtractions(doc, "coach", c.Name, []extraction{
		{group: "teams", run: c.scrapeTeams, reset: c.Teams.Reset},
	})
}

// scrapeTeams reads table#coach-stats. The team is the title of the team
// link, i.e. the full franchise name for that season.
func (c *Coach) scrapeTeams(doc *goquery.Document) error {
	table := scraper.LocateTable(doc, "coach-stats")
	if table.Length() == 0 {
		return errors.New("coach-stats table not found")
	}

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		season := strings.TrimSpace(row.Find(`th[data-stat="season"]`).Text())
		team, ok := row.Find(`td[data-stat="team_id"] a`).First().Attr("title")
		if season == "" || !ok {
			return
		}
		c.Teams.Set(season, team)
	})
	return nil
}

// LatestTeam returns the team of the most recent season listed.
func (c *Coach) LatestTeam() (season, team string, ok bool) {
	e, ok := c.Teams.Last()
	return e.Season, e.Value, ok
}

type coachRecord struct {
	Name               string    `json:"name"`
	OverviewURL        string    `json:"overview_url"`
	OverviewURLContent *string   `json:"overview_url_content"`
	Teams              SeasonMap `json:"teams"`
}

func (c *Coach) ToJSON() ([]byte, error) {
	return sonic.Marshal(coachRecord{
		Name:        c.Name,
		OverviewURL: c.OverviewURL,
		Teams:       c.Teams,
	})
}

func (c *Coach) FromJSON(data []byte) error {
	var rec coachRecord
	if err := sonic.Unmarshal(data, &rec); err != nil {
		return errors.Wrap(err, "decoding coach")
	}
	*c = Coach{
		Name:        rec.Name,
		OverviewURL: rec.OverviewURL,
		Teams:       rec.Teams,
		state:       Populated,
	}
	return nil
}
