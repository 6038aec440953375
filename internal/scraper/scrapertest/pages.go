// Package scrapertest provides an in-memory PageFetcher for tests.
package scrapertest

import (
	"context"
	"os"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/bbref-crawler/internal/scraper"
)

// Pages serves HTML by URL. Unknown URLs fail with a fatal fetch error.
type Pages struct {
	mu       sync.Mutex
	html     map[string]string
	errs     map[string]error
	requests []string
}

// New creates Pages from a url->HTML map.
func New(html map[string]string) *Pages {
	p := &Pages{html: make(map[string]string), errs: make(map[string]error)}
	for url, body := range html {
		p.html[url] = body
	}
	return p
}

// Set registers body for url.
func (p *Pages) Set(url, body string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.html[url] = body
}

// SetFile registers the contents of a fixture file for url.
func (p *Pages) SetFile(url, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	p.Set(url, string(data))
	return nil
}

// Fail makes requests for url return err.
func (p *Pages) Fail(url string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs[url] = err
}

// Requests returns the URLs fetched so far, in order.
func (p *Pages) Requests() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.requests...)
}

func (p *Pages) Fetch(ctx context.Context, url string) (*goquery.Document, error) {
	p.mu.Lock()
	p.requests = append(p.requests, url)
	body, ok := p.html[url]
	err := p.errs[url]
	p.mu.Unlock()

	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.Mark(errors.Newf("fetching %s: unexpected status code 404", url), scraper.ErrFatal)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(body))
}

var _ scraper.PageFetcher = (*Pages)(nil)
