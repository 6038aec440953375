package scraper

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/cockroachdb/errors"
	"github.com/go-resty/resty/v2"

	"github.com/pfrederiksen/bbref-crawler/internal/logger"
)

const (
	BaseURL      = "https://www.basketball-reference.com"
	UserAgent    = "bbref-crawler/1.0 (github.com/pfrederiksen/bbref-crawler)"
	Timeout      = 30 * time.Second
	MaxAttempts  = 3
	RetryBackoff = 5 * time.Second
	MaxRedirects = 10
)

var (
	// ErrTransient marks failures that were retried (server errors, timeouts)
	// until the attempt cap ran out.
	ErrTransient = errors.New("transient fetch failure")
	// ErrFatal marks failures that are never retried: connection errors,
	// malformed URLs, redirect loops and client errors.
	ErrFatal = errors.New("fatal fetch failure")
)

// IsRetryable reports whether err came from a transient cause.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}

// PageFetcher retrieves a URL and returns its parsed document.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*goquery.Document, error)
}

// Options configures a Fetcher. An empty UserAgent and non-positive Timeout or
// MaxAttempts fall back to the package defaults. A zero Backoff retries
// immediately; only a negative Backoff falls back to RetryBackoff.
type Options struct {
	UserAgent   string
	Timeout     time.Duration
	MaxAttempts int
	Backoff     time.Duration
}

// Fetcher fetches pages over HTTP, retrying server errors and timeouts
// with a fixed backoff between attempts.
type Fetcher struct {
	client      *resty.Client
	maxAttempts int
}

// New creates a Fetcher
func New(opts Options) *Fetcher {
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = Timeout
	}
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = MaxAttempts
	}
	if opts.Backoff < 0 {
		opts.Backoff = RetryBackoff
	}

	client := resty.New().
		SetLogger(restyLogger{}).
		SetTimeout(opts.Timeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(MaxRedirects)).
		SetRetryCount(opts.MaxAttempts - 1).
		// equal min and max wait pins resty's jittered backoff to a fixed delay
		SetRetryWaitTime(opts.Backoff).
		SetRetryMaxWaitTime(opts.Backoff).
		AddRetryCondition(shouldRetry).
		AddRetryHook(func(res *resty.Response, err error) {
			logger.IncrCounter("fetch.retry")
			fields := logger.Fields{}
			if res != nil && res.Request != nil {
				fields["url"] = res.Request.URL
				fields["status"] = res.StatusCode()
			}
			logger.Debug("retrying fetch", fields)
		})

	return &Fetcher{
		client:      client,
		maxAttempts: opts.MaxAttempts,
	}
}

// restyLogger routes resty's own diagnostics through the structured logger.
type restyLogger struct{}

func (restyLogger) Errorf(format string, v ...interface{}) {
	logger.Warn("http client error", logger.Fields{"source": "resty", "detail": fmt.Sprintf(format, v...)})
}

func (restyLogger) Warnf(format string, v ...interface{}) {
	logger.Warn("http client warning", logger.Fields{"source": "resty", "detail": fmt.Sprintf(format, v...)})
}

func (restyLogger) Debugf(format string, v ...interface{}) {
	logger.Debug("http client debug", logger.Fields{"source": "resty", "detail": fmt.Sprintf(format, v...)})
}

// shouldRetry replaces resty's default condition: only timeouts and 5xx
// responses are retried.
func shouldRetry(res *resty.Response, err error) bool {
	if err != nil {
		return isTimeout(err)
	}
	return res != nil && res.StatusCode() >= http.StatusInternalServerError
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Fetch retrieves rawURL and parses it. The returned error is marked with
// either ErrTransient or ErrFatal; callers are expected to skip the page.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	start := time.Now()
	defer func() { logger.RecordTiming("fetch", time.Since(start)) }()

	if err := validateURL(rawURL); err != nil {
		logger.IncrCounter("fetch.failed")
		return nil, errors.Mark(err, ErrFatal)
	}

	res, err := f.client.R().SetContext(ctx).Get(rawURL)
	if err != nil {
		logger.IncrCounter("fetch.failed")
		if isTimeout(err) {
			return nil, errors.Mark(errors.Wrapf(err, "fetching %s after %d attempts", rawURL, f.maxAttempts), ErrTransient)
		}
		return nil, errors.Mark(errors.Wrapf(err, "fetching %s", rawURL), ErrFatal)
	}

	switch code := res.StatusCode(); {
	case code >= http.StatusInternalServerError:
		logger.IncrCounter("fetch.failed")
		return nil, errors.Mark(errors.Newf("fetching %s: server error %d after %d attempts", rawURL, code, f.maxAttempts), ErrTransient)
	case code != http.StatusOK:
		logger.IncrCounter("fetch.failed")
		return nil, errors.Mark(errors.Newf("fetching %s: unexpected status code %d", rawURL, code), ErrFatal)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(res.Body()))
	if err != nil {
		logger.IncrCounter("fetch.failed")
		return nil, errors.Mark(errors.Wrapf(err, "parsing HTML from %s", rawURL), ErrFatal)
	}

	logger.IncrCounter("fetch.ok")
	return doc, nil
}

func validateURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return errors.Wrapf(err, "malformed url %q", rawURL)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.Newf("malformed url %q", rawURL)
	}
	return nil
}

// Absolute resolves href against base. Already absolute hrefs are returned as-is.
func Absolute(base, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	if ref.IsAbs() {
		return ref.String()
	}
	b, err := url.Parse(base)
	if err != nil {
		return base + href
	}
	return b.ResolveReference(ref).String()
}
