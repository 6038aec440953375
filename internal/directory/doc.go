// Package directory builds the name to entity indexes for players, coaches and
// teams and searches them by name.
//
// Player listings are fetched one page per letter of the alphabet; coaches and
// active teams each come from a single page. Entities whose last active season
// is before the configured minimum year are left out. Every request goes
// through a shared Pacer, and an entity that fails to fetch is logged and
// skipped so the crawl always completes its pass.
package directory
