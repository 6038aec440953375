package directory

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/bbref-crawler/internal/entity"
	"github.com/pfrederiksen/bbref-crawler/internal/gamelog"
)

var (
	ErrPlayerNotFound = errors.New("player not found")
	ErrSeasonNotFound = errors.New("season not found")
)

// AllGameLogs loads and merges every season of the named player's game logs.
func AllGameLogs(ctx context.Context, loader *gamelog.Loader, players map[string]*entity.Player, name string) (*gamelog.Table, error) {
	p, ok := players[name]
	if !ok {
		return nil, errors.Wrapf(ErrPlayerNotFound, "%q", name)
	}
	table, err := loader.All(ctx, p.GameLogURLs)
	if err != nil {
		return nil, errors.Wrapf(err, "game logs for %q", name)
	}
	return table, nil
}

// SeasonGameLogs loads one season of the named player's game logs. season is
// either the label shown on the site ("2018-19") or the year in the URL ("2019").
func SeasonGameLogs(ctx context.Context, loader *gamelog.Loader, players map[string]*entity.Player, name, season string) (*gamelog.Table, error) {
	p, ok := players[name]
	if !ok {
		return nil, errors.Wrapf(ErrPlayerNotFound, "%q", name)
	}

	url, ok := p.GameLogURLsBySeason.Get(season)
	if !ok {
		for _, u := range p.GameLogURLs {
			if gamelog.SeasonFromURL(u) == season {
				url, ok = u, true
				break
			}
		}
	}
	if !ok {
		return nil, errors.Wrapf(ErrSeasonNotFound, "%q for %q", season, name)
	}

	table, err := loader.Season(ctx, url)
	if err != nil {
		return nil, errors.Wrapf(err, "game logs for %q in %s", name, season)
	}
	return table, nil
}
