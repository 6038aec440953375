// Package archive exports scraped players and their game logs to SQLite.
package archive

import (
	"context"
	"database/sql"
	_ "embed"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"

	"github.com/pfrederiksen/bbref-crawler/internal/entity"
	"github.com/pfrederiksen/bbref-crawler/internal/gamelog"
)

//go:embed schema.sql
var Schema string

// Store is a SQLite game log archive.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the archive at path. ":memory:" gives a private
// in-memory archive.
func Open(ctx context.Context, path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening archive %s", path)
	}
	// one connection keeps ":memory:" databases shared and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "enabling foreign keys")
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "creating archive schema")
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// ExportPlayer writes the player and the rows of each season table. Rows
// previously exported for the player are replaced.
func (s *Store) ExportPlayer(ctx context.Context, p *entity.Player, seasons []*gamelog.Table) (err error) {
	positions, err := sonic.Marshal(nonNil(p.Positions))
	if err != nil {
		return errors.Wrap(err, "encoding positions")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "starting export")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO players (name, overview_url, positions, height, weight, exported_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			overview_url = excluded.overview_url,
			positions = excluded.positions,
			height = excluded.height,
			weight = excluded.weight,
			exported_at = excluded.exported_at`,
		p.Name, p.OverviewURL, string(positions), nullString(p.Height), nullString(p.Weight), s.now().Unix(),
	)
	if err != nil {
		return errors.Wrapf(err, "writing player %q", p.Name)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM game_logs WHERE player = ?`, p.Name); err != nil {
		return errors.Wrapf(err, "clearing game logs for %q", p.Name)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO game_logs (player, season, seq, stats) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, "preparing game log insert")
	}
	defer stmt.Close()

	for _, table := range seasons {
		if table == nil {
			continue
		}
		for i, row := range table.Rows {
			stats, encErr := sonic.ConfigStd.Marshal(row)
			if encErr != nil {
				return errors.Wrapf(encErr, "encoding %s row %d", table.Season, i)
			}
			if _, err = stmt.ExecContext(ctx, p.Name, table.Season, i, string(stats)); err != nil {
				return errors.Wrapf(err, "writing %s row %d for %q", table.Season, i, p.Name)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return errors.Wrap(err, "committing export")
	}
	return nil
}

// StoredGame is one archived game log row.
type StoredGame struct {
	Season string
	Seq    int
	Stats  gamelog.Row
}

// GameLogs returns the archived rows of a player ordered by season and
// position within the season.
func (s *Store) GameLogs(ctx context.Context, player string) ([]StoredGame, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT season, seq, stats FROM game_logs WHERE player = ? ORDER BY season, seq`, player)
	if err != nil {
		return nil, errors.Wrapf(err, "querying game logs for %q", player)
	}
	defer rows.Close()

	var games []StoredGame
	for rows.Next() {
		var g StoredGame
		var stats string
		if err := rows.Scan(&g.Season, &g.Seq, &stats); err != nil {
			return nil, errors.Wrap(err, "scanning game log")
		}
		if err := sonic.UnmarshalString(stats, &g.Stats); err != nil {
			return nil, errors.Wrapf(err, "decoding %s row %d", g.Season, g.Seq)
		}
		games = append(games, g)
	}
	return games, rows.Err()
}

// Players returns the archived player names in order.
func (s *Store) Players(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM players ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, "querying players")
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, errors.Wrap(err, "scanning player")
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
