// Package scraper provides page fetching and HTML helpers for basketball-reference.com.
//
// The Fetcher retrieves a page with a bounded number of attempts, retrying server
// errors and timeouts with a fixed backoff and failing fast on connection errors,
// malformed URLs and redirect loops. Failures are returned as errors marked
// ErrTransient or ErrFatal so a crawl can skip the page and continue.
//
// The site ships several statistics tables (playoff game logs, salaries) inside
// HTML comments. FindHTMLInComment and LocateTable recover them by re-parsing the
// comment text, so no caller has to special-case the markup.
//
// Pacer enforces the minimum delay between consecutive requests.
package scraper
