// Package storage provides JSON persistence for scraped entity collections.
//
// A collection file is a JSON object mapping each entity name to a JSON string
// holding that entity's record. The value is encoded twice on purpose: archives
// written by earlier versions of the crawler use this layout and must keep
// loading. Collections live in the data directory as players.json, coaches.json
// and teams.json. The default data directory is ~/.local/share/bbref-crawler/.
package storage
