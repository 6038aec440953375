package cli

import (
	"fmt"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/bbref-crawler/internal/archive"
	"github.com/pfrederiksen/bbref-crawler/internal/directory"
	"github.com/pfrederiksen/bbref-crawler/internal/entity"
	"github.com/pfrederiksen/bbref-crawler/internal/logger"
	"github.com/pfrederiksen/bbref-crawler/internal/storage"
)

const defaultArchive = "gamelogs.db"

func newExportCmd(root *rootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "export [NAME...]",
		Short: "Export saved players and their game logs to SQLite",
		Long: `Fetch the game logs of each named player (every saved player when no name
is given) and write them to a SQLite archive. Exporting a player again
replaces the rows written before.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.setup(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			players, err := a.store.LoadPlayers()
			if err != nil {
				return err
			}
			selected, err := selectPlayers(players, args)
			if err != nil {
				return err
			}

			if dbPath == "" {
				dbPath = a.store.Path(defaultArchive)
			} else if dbPath, err = storage.ExpandHome(dbPath); err != nil {
				return err
			}
			store, err := archive.Open(ctx, dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			result := &ExportResult{Path: dbPath}
			loader := a.loader()
			for _, p := range selected {
				seasons, err := loader.Seasons(ctx, p.GameLogURLs)
				if err != nil {
					return fmt.Errorf("export interrupted at %q: %w", p.Name, err)
				}
				if err := store.ExportPlayer(ctx, p, seasons); err != nil {
					logger.Error("Failed to export player", logger.Fields{"name": p.Name}, err)
					result.Failed = append(result.Failed, p.Name)
					continue
				}
				result.Players++
				result.Seasons += len(seasons)
				for _, s := range seasons {
					result.Games += s.Len()
				}
			}
			result.Finished = time.Now()

			return a.write(result)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite archive path (default <data-dir>/"+defaultArchive+")")
	return cmd
}

// selectPlayers returns the named players sorted by name, or all of them
// when names is empty.
func selectPlayers(players map[string]*entity.Player, names []string) ([]*entity.Player, error) {
	if len(names) == 0 {
		names = make([]string, 0, len(players))
		for name := range players {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	selected := make([]*entity.Player, 0, len(names))
	for _, name := range names {
		p, ok := players[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", directory.ErrPlayerNotFound, name)
		}
		selected = append(selected, p)
	}
	return selected, nil
}
