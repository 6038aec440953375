package entity

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/bbref-crawler/internal/logger"
	"github.com/pfrederiksen/bbref-crawler/internal/scraper"
)

var (
	positionPattern = regexp.MustCompile(`(Point Guard|Center|Power Forward|Shooting Guard|Small Forward)`)
	heightPattern   = regexp.MustCompile(`^[0-9]-[0-9]{1,2}`)
	weightPattern   = regexp.MustCompile(`([0-9]{2,3})lb`)
	nicknamePattern = regexp.MustCompile(`^\(([A-Za-z, 0-9.\-]+)\)`)
)

const gameLogMarker = "Game Logs"

// Salary is one season's salary row.
type Salary struct {
	Season string `json:"season"`
	Team   string `json:"team"`
	Amount int64  `json:"amount"`
}

// Player is a player overview page and the data extracted from it.
type Player struct {
	Name        string
	OverviewURL string
	// Content is the text of the overview page. It is only set on the
	// instance that scraped the page and is never persisted.
	Content string

	Nicknames []string
	Positions []string
	Height    string
	Weight    string
	Teams     SeasonMap
	Salaries  []Salary

	GameLogURLs         []string
	GameLogURLsBySeason SeasonMap

	state State
}

// NewPlayer creates an unpopulated player.
func NewPlayer(name, overviewURL string) *Player {
	return &Player{Name: name, OverviewURL: overviewURL}
}

// FetchPlayer creates a player and scrapes its overview page.
func FetchPlayer(ctx context.Context, f scraper.PageFetcher, name, overviewURL string) (*Player, error) {
	p := NewPlayer(name, overviewURL)
	if err := p.Scrape(ctx, f); err != nil {
		return p, err
	}
	return p, nil
}

// IsPopulated reports whether the overview page has been scraped or loaded.
func (p *Player) IsPopulated() bool { return p.state == Populated }

// Scrape fetches the overview page once and extracts the player's fields.
// Calling it on a populated player returns an assertion failure. A fetch
// error leaves the player unpopulated.
func (p *Player) Scrape(ctx context.Context, f scraper.PageFetcher) error {
	if err := checkUnpopulated(p.state, "player", p.Name); err != nil {
		return err
	}
	logger.Info("Scraping player", logger.Fields{"name": p.Name, "url": p.OverviewURL})

	doc, err := f.Fetch(ctx, p.OverviewURL)
	if err != nil {
		return errors.Wrapf(err, "scraping player %q", p.Name)
	}
	p.populate(doc)
	return nil
}

// populate extracts the player's fields from an already fetched overview page.
func (p *Player) populate(doc *goquery.Document) {
	p.Content = doc.Text()
	p.state = Populated

	runExtractions(doc, "player", p.Name, []extraction{
		{group: "bio", run: p.scrapeBio, reset: p.resetBio},
		{group: "nicknames", run: p.scrapeNicknames, reset: func() { p.Nicknames = nil }},
		{group: "teams", run: p.scrapeTeams, reset: p.Teams.Reset},
		{group: "salaries", run: p.scrapeSalaries, reset: func() { p.Salaries = nil }},
		{group: "gamelogs", run: p.scrapeGameLogLinks, reset: p.resetGameLogLinks},
	})
}

func (p *Player) resetBio() {
	p.Positions = nil
	p.Height = ""
	p.Weight = ""
}

func (p *Player) scrapeBio(doc *goquery.Document) error {
	positionText, ok := findText(doc, positionPattern)
	if !ok {
		return errors.New("position not found")
	}
	heightText, ok := findText(doc, heightPattern)
	if !ok {
		return errors.New("height not found")
	}
	weightText, ok := findText(doc, weightPattern)
	if !ok {
		return errors.New("weight not found")
	}

	p.Height = strings.TrimSpace(heightPattern.FindString(heightText))
	p.Weight = strings.TrimSpace(weightPattern.FindStringSubmatch(weightText)[1])
	p.Positions = nil
	for _, pos := range positionPattern.FindAllString(positionText, -1) {
		p.Positions = append(p.Positions, strings.TrimSpace(pos))
	}
	return nil
}

func (p *Player) scrapeNicknames(doc *goquery.Document) error {
	meta := doc.Find("div#meta")
	if meta.Length() == 0 {
		return errors.New("div#meta not found")
	}

	p.Nicknames = nil
	meta.Find("p").EachWithBreak(func(_ int, line *goquery.Selection) bool {
		m := nicknamePattern.FindStringSubmatch(strings.TrimSpace(strings.ReplaceAll(line.Text(), "\n", "")))
		if m == nil {
			return true
		}
		p.Nicknames = strings.Split(m[1], ", ")
		return false
	})
	return nil
}

func (p *Player) scrapeTeams(doc *goquery.Document) error {
	table := scraper.LocateTable(doc, "per_game")
	if table.Length() == 0 {
		table = scraper.LocateTable(doc, "per_game_stats")
	}
	if table.Length() == 0 {
		return errors.New("per game table not found")
	}

	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		season := row.Find(`th[data-stat="season"] a`).First()
		if season.Length() == 0 {
			season = row.Find(`th[data-stat="year_id"] a`).First()
		}
		if season.Length() == 0 {
			return
		}
		team := row.Find(`td[data-stat="team_id"] a, td[data-stat="team_name_abbr"] a`).First()
		if team.Length() == 0 {
			return
		}
		p.Teams.Set(strings.TrimSpace(season.Text()), strings.TrimSpace(team.Text()))
	})
	return nil
}

func (p *Player) scrapeSalaries(doc *goquery.Document) error {
	table := scraper.LocateTable(doc, "all_salaries")
	if table.Length() == 0 {
		return nil
	}

	p.Salaries = nil
	table.Find("tbody tr").Each(func(_ int, row *goquery.Selection) {
		season := strings.TrimSpace(row.Find(`th[data-stat="season"]`).Text())
		amount, err := parseDollars(row.Find(`td[data-stat="salary"]`).Text())
		if season == "" || err != nil {
			return
		}
		p.Salaries = append(p.Salaries, Salary{
			Season: season,
			Team:   strings.TrimSpace(row.Find(`td[data-stat="team_name"]`).Text()),
			Amount: amount,
		})
	})
	return nil
}

// parseDollars parses amounts like "$16,407,500".
func parseDollars(s string) (int64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	return strconv.ParseInt(s, 10, 64)
}

func (p *Player) resetGameLogLinks() {
	p.GameLogURLs = nil
	p.GameLogURLsBySeason.Reset()
}

// scrapeGameLogLinks collects the links from the first list item labeled
// "Game Logs" that has any. Later items with the same label are unrelated.
func (p *Player) scrapeGameLogLinks(doc *goquery.Document) error {
	doc.Find("li").EachWithBreak(func(_ int, li *goquery.Selection) bool {
		if !strings.Contains(li.Text(), gameLogMarker) {
			return true
		}
		li.Find("a").Each(func(_ int, a *goquery.Selection) {
			href, _ := a.Attr("href")
			if !strings.Contains(href, "/gamelog/") {
				return
			}
			url := scraper.Absolute(p.OverviewURL, href)
			p.GameLogURLs = append(p.GameLogURLs, url)
			p.GameLogURLsBySeason.Set(strings.TrimSpace(a.Text()), url)
		})
		return len(p.GameLogURLs) == 0
	})
	return nil
}

type playerRecord struct {
	Name               string    `json:"name"`
	OverviewURL        string    `json:"overview_url"`
	OverviewURLContent *string   `json:"overview_url_content"`
	Nicknames          []string  `json:"nicknames"`
	Positions          []string  `json:"positions"`
	Height             *string   `json:"height"`
	Weight             *string   `json:"weight"`
	TeamsDict          SeasonMap `json:"teams_dict"`
	GamelogData        any       `json:"gamelog_data"`
	GamelogURLList     []string  `json:"gamelog_url_list"`
	GamelogURLDict     SeasonMap `json:"gamelog_url_dict"`
	Salaries           []Salary  `json:"salaries"`
}

// ToJSON encodes the player's fields. The cached page content is written as
// null and the player is not modified.
func (p *Player) ToJSON() ([]byte, error) {
	return sonic.Marshal(playerRecord{
		Name:           p.Name,
		OverviewURL:    p.OverviewURL,
		Nicknames:      nonNil(p.Nicknames),
		Positions:      nonNil(p.Positions),
		Height:         optional(p.Height),
		Weight:         optional(p.Weight),
		TeamsDict:      p.Teams,
		GamelogURLList: nonNil(p.GameLogURLs),
		GamelogURLDict: p.GameLogURLsBySeason,
		Salaries:       nonNil(p.Salaries),
	})
}

// FromJSON replaces the player's fields with a decoded record. The player is
// marked populated so it is not scraped again.
func (p *Player) FromJSON(data []byte) error {
	var rec playerRecord
	if err := sonic.Unmarshal(data, &rec); err != nil {
		return errors.Wrap(err, "decoding player")
	}
	*p = Player{
		Name:                rec.Name,
		OverviewURL:         rec.OverviewURL,
		Nicknames:           rec.Nicknames,
		Positions:           rec.Positions,
		Height:              deref(rec.Height),
		Weight:              deref(rec.Weight),
		Teams:               rec.TeamsDict,
		Salaries:            rec.Salaries,
		GameLogURLs:         rec.GamelogURLList,
		GameLogURLsBySeason: rec.GamelogURLDict,
		state:               Populated,
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
