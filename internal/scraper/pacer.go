package scraper

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Pacer keeps at least interval between the end of one request and the start
// of the next. It is not safe for concurrent use; a crawl that fetches in
// parallel needs a shared limiter instead.
type Pacer struct {
	interval time.Duration
	last     time.Time
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
}

// NewPacer creates a Pacer with the given minimum interval.
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{
		interval: interval,
		now:      time.Now,
		sleep:    sleepContext,
	}
}

// Wait blocks until the interval since the previous request finished has
// elapsed. The first call returns immediately.
func (p *Pacer) Wait(ctx context.Context) error {
	if !p.last.IsZero() {
		if remaining := p.interval - p.now().Sub(p.last); remaining > 0 {
			if err := p.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	p.last = p.now()
	return nil
}

// Done marks the end of a request; the next Wait measures from here.
func (p *Pacer) Done() {
	p.last = p.now()
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type pacedFetcher struct {
	fetcher PageFetcher
	pacer   *Pacer
}

// Paced wraps f so that every fetch waits on p first and calls p.Done once
// the fetch returns, retries included. A nil pacer returns f unchanged.
func Paced(f PageFetcher, p *Pacer) PageFetcher {
	if p == nil {
		return f
	}
	return &pacedFetcher{fetcher: f, pacer: p}
}

func (pf *pacedFetcher) Fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if err := pf.pacer.Wait(ctx); err != nil {
		return nil, err
	}
	defer pf.pacer.Done()
	return pf.fetcher.Fetch(ctx, rawURL)
}
