// Package cli implements the command-line interface for bbref-crawler.
//
// The cli package provides the Cobra-based CLI for building the player, coach and
// team collections, searching them by name, loading game logs and exporting them
// to SQLite. Output is human-readable text (tables rendered with go-pretty) or JSON.
// It coordinates the config, scraper, directory, gamelog, storage and archive
// packages.
package cli
