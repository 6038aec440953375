package entity

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/bbref-crawler/internal/logger"
	"github.com/pfrederiksen/bbref-crawler/internal/scraper"
)

var (
	teamIDPattern     = regexp.MustCompile(`[A-Z]{3}`)
	locationPrefix    = regexp.MustCompile(`^\s*Location:\s*`)
	formerNamesPrefix = regexp.MustCompile(`^\s*Team Names:\s*`)
)

// TeamLocation is the city and state a franchise plays in.
type TeamLocation struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// Team is a franchise overview page.
type Team struct {
	Name        string
	ID          string
	OverviewURL string
	Content     string

	Loc         *TeamLocation
	FormerNames []string
	Coach       *Coach

	state State
}

// NewTeam creates an unpopulated team. The three letter ID is taken from
// the URL.
func NewTeam(name, overviewURL string) *Team {
	return &Team{
		Name:        name,
		ID:          teamIDPattern.FindString(overviewURL),
		OverviewURL: overviewURL,
	}
}

// FetchTeam creates a team and scrapes its overview page.
func FetchTeam(ctx context.Context, f scraper.PageFetcher, name, overviewURL string) (*Team, error) {
	t := NewTeam(name, overviewURL)
	return t, t.Scrape(ctx, f)
}

func (t *Team) IsPopulated() bool { return t.state == Populated }

// Scrape fetches the overview page once and extracts location and former names.
func (t *Team) Scrape(ctx context.Context, f scraper.PageFetcher) error {
	if err := checkUnpopulated(t.state, "team", t.Name); err != nil {
		return err
	}
	logger.Info("Scraping team", logger.Fields{"name": t.Name, "url": t.OverviewURL})

	doc, err := f.Fetch(ctx, t.OverviewURL)
	if err != nil {
		return errors.Wrapf(err, "scraping team %q", t.Name)
	}
	t.populate(doc)
	return nil
}

func (t *Team) populate(doc *goquery.Document) {
	t.Content = doc.Text()
	t.state = Populated

	runExtractions(doc, "team", t.Name, []extraction{
		{group: "location", run: t.scrapeLocation, reset: func() { t.Loc = nil }},
		{group: "former_names", run: t.scrapeFormerNames, reset: func() { t.FormerNames = nil }},
	})
}

// bioLines returns the paragraphs of div#meta that carry a bold label.
func bioLines(doc *goquery.Document) *goquery.Selection {
	return doc.Find("div#meta p").FilterFunction(func(_ int, p *goquery.Selection) bool {
		return p.Find("strong").Length() > 0
	})
}

func (t *Team) scrapeLocation(doc *goquery.Document) error {
	lines := bioLines(doc)
	if lines.Length() < 1 {
		return errors.New("location line not found")
	}
	text := locationPrefix.ReplaceAllString(strings.TrimSpace(lineText(lines.Eq(0))), "")
	parts := strings.Split(text, ", ")
	if len(parts) < 2 {
		return errors.Newf("unexpected location %q", text)
	}
	t.Loc = &TeamLocation{
		City:  strings.TrimSpace(parts[0]),
		State: strings.TrimSpace(parts[1]),
	}
	return nil
}

func (t *Team) scrapeFormerNames(doc *goquery.Document) error {
	lines := bioLines(doc)
	if lines.Length() < 2 {
		return errors.New("team names line not found")
	}
	text := formerNamesPrefix.ReplaceAllString(strings.TrimSpace(lineText(lines.Eq(1))), "")
	t.FormerNames = splitList(text)
	return nil
}

// Location returns "City, State", or "" when unknown.
func (t *Team) Location() string {
	if t.Loc == nil {
		return ""
	}
	return fmt.Sprintf("%s, %s", t.Loc.City, t.Loc.State)
}

func (t *Team) City() string {
	if t.Loc == nil {
		return ""
	}
	return t.Loc.City
}

func (t *Team) State() string {
	if t.Loc == nil {
		return ""
	}
	return t.Loc.State
}

type teamRecord struct {
	Name               string        `json:"name"`
	ID                 string        `json:"id"`
	OverviewURL        string        `json:"overview_url"`
	OverviewURLContent *string       `json:"overview_url_content"`
	Location           *TeamLocation `json:"location"`
	FormerNames        []string      `json:"former_names"`
	Coach              *string       `json:"coach"`
}

func (t *Team) ToJSON() ([]byte, error) {
	rec := teamRecord{
		Name:        t.Name,
		ID:          t.ID,
		OverviewURL: t.OverviewURL,
		Location:    t.Loc,
		FormerNames: nonNil(t.FormerNames),
	}
	if t.Coach != nil {
		rec.Coach = &t.Coach.Name
	}
	return sonic.Marshal(rec)
}

// FromJSON decodes a team. The coach is restored by name only; LinkCoaches
// or a lookup in a loaded coach collection attaches the full record.
func (t *Team) FromJSON(data []byte) error {
	var rec teamRecord
	if err := sonic.Unmarshal(data, &rec); err != nil {
		return errors.Wrap(err, "decoding team")
	}
	*t = Team{
		Name:        rec.Name,
		ID:          rec.ID,
		OverviewURL: rec.OverviewURL,
		Loc:         rec.Location,
		FormerNames: rec.FormerNames,
		state:       Populated,
	}
	if rec.Coach != nil {
		t.Coach = NewCoach(*rec.Coach, "")
	}
	return nil
}
