package directory

import (
	"context"
	"sort"

	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/bbref-crawler/internal/entity"
	"github.com/pfrederiksen/bbref-crawler/internal/logger"
	"github.com/pfrederiksen/bbref-crawler/internal/scraper"
)

const DefaultMinYearActive = 2004

// Options configures a Builder.
type Options struct {
	BaseURL       string
	MinYearActive int
}

// Builder crawls index pages and overview pages sequentially.
type Builder struct {
	fetcher scraper.PageFetcher
	baseURL string
	minYear int
}

// NewBuilder creates a Builder whose requests are spaced out by pacer. pacer
// may be nil to fetch without delay.
func NewBuilder(f scraper.PageFetcher, pacer *scraper.Pacer, opts Options) *Builder {
	if opts.BaseURL == "" {
		opts.BaseURL = scraper.BaseURL
	}
	if opts.MinYearActive == 0 {
		opts.MinYearActive = DefaultMinYearActive
	}
	return &Builder{
		fetcher: scraper.Paced(f, pacer),
		baseURL: opts.BaseURL,
		minYear: opts.MinYearActive,
	}
}

// ErrNoIndexPages is returned when none of the letter index pages could be fetched.
var ErrNoIndexPages = errors.New("no player index page could be fetched")

// PlayerListings fetches every letter page and returns the players active in
// or after the minimum year. Letter pages that fail are logged and skipped;
// when all of them fail the result is ErrNoIndexPages.
func (b *Builder) PlayerListings(ctx context.Context) ([]Listing, error) {
	var all []Listing
	fetched := 0
	var lastErr error
	for _, letter := range Letters {
		url := b.baseURL + "/players/" + string(letter) + "/"
		doc, err := b.fetcher.Fetch(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logger.Error("Failed to fetch player index", logger.Fields{"letter": string(letter), "url": url}, err)
			lastErr = err
			continue
		}
		fetched++
		all = append(all, ParsePlayerListing(doc, b.baseURL)...)
	}
	if fetched == 0 {
		return nil, errors.Mark(errors.Wrapf(lastErr, "all %d player index pages failed", len(Letters)), ErrNoIndexPages)
	}

	listings := FilterActiveSince(all, b.minYear)
	logger.Info("Collected player listings", logger.Fields{"total": len(all), "active_since": b.minYear, "kept": len(listings)})
	return listings, nil
}

// CoachListings fetches the coach index.
func (b *Builder) CoachListings(ctx context.Context) ([]Listing, error) {
	doc, err := b.fetcher.Fetch(ctx, b.baseURL+"/coaches/")
	if err != nil {
		return nil, err
	}
	return FilterActiveSince(ParseCoachListing(doc, b.baseURL), b.minYear), nil
}

// TeamListings fetches the active franchises.
func (b *Builder) TeamListings(ctx context.Context) ([]Listing, error) {
	doc, err := b.fetcher.Fetch(ctx, b.baseURL+"/teams/")
	if err != nil {
		return nil, err
	}
	return ParseTeamListing(doc, b.baseURL), nil
}

// BuildPlayers scrapes every listed player. Players whose page cannot be
// fetched are logged and left out. A duplicate name replaces the earlier entry.
func (b *Builder) BuildPlayers(ctx context.Context, listings []Listing) (map[string]*entity.Player, error) {
	players := make(map[string]*entity.Player, len(listings))
	for _, l := range listings {
		p, err := entity.FetchPlayer(ctx, b.fetcher, l.Name, l.URL)
		if err != nil {
			if ctx.Err() != nil {
				return players, ctx.Err()
			}
			logger.Error("Skipping player", logger.Fields{"name": l.Name, "url": l.URL}, err)
			continue
		}
		players[l.Name] = p
	}
	logger.SetGauge("directory.players", float64(len(players)))
	return players, nil
}

// BuildSpecificPlayers scrapes the given name to URL mapping. Names with an
// empty URL are reported as not found.
func (b *Builder) BuildSpecificPlayers(ctx context.Context, urls map[string]string) (map[string]*entity.Player, error) {
	names := make([]string, 0, len(urls))
	for name := range urls {
		names = append(names, name)
	}
	sort.Strings(names)

	logger.Debug("Building specific players", logger.Fields{"count": len(names)})

	var listings []Listing
	for _, name := range names {
		if urls[name] == "" {
			logger.Error("Player not found", logger.Fields{"name": name}, nil)
			continue
		}
		listings = append(listings, Listing{Name: name, URL: urls[name]})
	}

	players, err := b.BuildPlayers(ctx, listings)
	if err != nil {
		return players, err
	}

	if missing := len(urls) - len(players); missing > 0 {
		logger.Error("Missing players", logger.Fields{"missing": missing, "requested": len(urls)}, nil)
	} else {
		logger.Info("Retrieved all requested players", logger.Fields{"count": len(players)})
	}
	return players, nil
}

// Players lists and scrapes every player active since the minimum year.
func (b *Builder) Players(ctx context.Context) (map[string]*entity.Player, error) {
	listings, err := b.PlayerListings(ctx)
	if err != nil {
		return nil, err
	}
	return b.BuildPlayers(ctx, listings)
}

// Coaches lists and scrapes every coach active since the minimum year.
func (b *Builder) Coaches(ctx context.Context) (map[string]*entity.Coach, error) {
	listings, err := b.CoachListings(ctx)
	if err != nil {
		return nil, err
	}
	return b.BuildCoaches(ctx, listings)
}

// BuildCoaches scrapes every listed coach, leaving out those whose page
// cannot be fetched.
func (b *Builder) BuildCoaches(ctx context.Context, listings []Listing) (map[string]*entity.Coach, error) {
	coaches := make(map[string]*entity.Coach, len(listings))
	for _, l := range listings {
		c, err := entity.FetchCoach(ctx, b.fetcher, l.Name, l.URL)
		if err != nil {
			if ctx.Err() != nil {
				return coaches, ctx.Err()
			}
			logger.Error("Skipping coach", logger.Fields{"name": l.Name, "url": l.URL}, err)
			continue
		}
		coaches[l.Name] = c
	}
	logger.SetGauge("directory.coaches", float64(len(coaches)))
	return coaches, nil
}

// Teams lists and scrapes every active franchise.
func (b *Builder) Teams(ctx context.Context) (map[string]*entity.Team, error) {
	listings, err := b.TeamListings(ctx)
	if err != nil {
		return nil, err
	}
	return b.BuildTeams(ctx, listings)
}

// BuildTeams scrapes every listed team, leaving out those whose page cannot
// be fetched.
func (b *Builder) BuildTeams(ctx context.Context, listings []Listing) (map[string]*entity.Team, error) {
	teams := make(map[string]*entity.Team, len(listings))
	for _, l := range listings {
		t, err := entity.FetchTeam(ctx, b.fetcher, l.Name, l.URL)
		if err != nil {
			if ctx.Err() != nil {
				return teams, ctx.Err()
			}
			logger.Error("Skipping team", logger.Fields{"name": l.Name, "url": l.URL}, err)
			continue
		}
		teams[l.Name] = t
	}
	logger.SetGauge("directory.teams", float64(len(teams)))
	return teams, nil
}
