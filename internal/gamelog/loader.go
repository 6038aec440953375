package gamelog

import (
	"context"

	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/bbref-crawler/internal/logger"
	"github.com/pfrederiksen/bbref-crawler/internal/scraper"
)

// Loader fetches and normalizes game log pages, one at a time.
type Loader struct {
	fetcher scraper.PageFetcher
}

// NewLoader creates a Loader whose requests are spaced out by pacer. pacer
// may be nil to fetch without delay.
func NewLoader(fetcher scraper.PageFetcher, pacer *scraper.Pacer) *Loader {
	return &Loader{fetcher: scraper.Paced(fetcher, pacer)}
}

// Season fetches one game log page.
func (l *Loader) Season(ctx context.Context, url string) (*Table, error) {
	doc, err := l.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	table, err := ParseSeasonPage(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing game log %s", url)
	}
	table.Season = SeasonFromURL(url)
	logger.IncrCounter("gamelog.seasons")
	return table, nil
}

// Seasons loads each URL in order. Pages that fail are logged and skipped, so
// the result may be shorter than urls. Only context cancellation is returned.
func (l *Loader) Seasons(ctx context.Context, urls []string) ([]*Table, error) {
	tables := make([]*Table, 0, len(urls))
	for _, url := range urls {
		t, err := l.Season(ctx, url)
		if err != nil {
			if ctx.Err() != nil {
				return tables, ctx.Err()
			}
			logger.Error("Failed to load game log", logger.Fields{"url": url}, err)
			continue
		}
		tables = append(tables, t)
	}
	return tables, nil
}

// All loads every URL and merges the seasons into one table.
func (l *Loader) All(ctx context.Context, urls []string) (*Table, error) {
	tables, err := l.Seasons(ctx, urls)
	if err != nil {
		return nil, err
	}
	return Merge(tables)
}
