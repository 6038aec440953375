package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/bbref-crawler/internal/directory"
	"github.com/pfrederiksen/bbref-crawler/internal/entity"
	"github.com/pfrederiksen/bbref-crawler/internal/logger"
	"github.com/pfrederiksen/bbref-crawler/internal/storage"
)

func newPlayersCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "players",
		Short: "Build and update the saved player collection",
	}
	cmd.AddCommand(newPlayersBuildCmd(root), newPlayersAddCmd(root))
	return cmd
}

func newPlayersBuildCmd(root *rootOptions) *cobra.Command {
	var (
		minYear int
		resume  bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Crawl every player active since --min-year",
		Long: `Crawl the player index for every letter, keep the players whose last
season is at or after --min-year and scrape each overview page.

With --resume, players already in the saved collection are not fetched again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.setup(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("min-year") {
				a.cfg.MinYearActive = minYear
			}
			ctx := cmd.Context()

			saved := map[string]*entity.Player{}
			if resume {
				if saved, err = a.store.LoadPlayers(); err != nil {
					return err
				}
			}

			b := a.builder()
			listings, err := b.PlayerListings(ctx)
			if err != nil {
				return err
			}

			diff := directory.NewListings(saved, listings)
			logger.Info("Building players", logger.Fields{
				"listed": len(listings),
				"known":  diff.Known,
				"new":    len(diff.New),
			})

			scraped, buildErr := b.BuildPlayers(ctx, diff.New)
			for name, p := range scraped {
				saved[name] = p
			}
			if len(scraped) > 0 {
				if err := a.store.SavePlayers(saved); err != nil {
					return err
				}
			} else if !resume {
				logger.Warn("No players scraped, keeping saved collection", logger.Fields{"listed": len(listings)})
				if saved, err = a.store.LoadPlayers(); err != nil {
					return err
				}
			}
			if buildErr != nil {
				return fmt.Errorf("build interrupted after %d players: %w", len(scraped), buildErr)
			}

			return a.write(&BuildResult{
				Kind:      "players",
				BuiltAt:   time.Now(),
				Requested: len(diff.New),
				Known:     diff.Known,
				Scraped:   len(scraped),
				Failed:    len(diff.New) - len(scraped),
				Total:     len(saved),
				Path:      a.store.Path(storage.PlayersFile),
			})
		},
	}

	cmd.Flags().IntVar(&minYear, "min-year", directory.DefaultMinYearActive, "Only include players active in or after this year")
	cmd.Flags().BoolVar(&resume, "resume", false, "Skip players already in the saved collection")
	return cmd
}

func newPlayersAddCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add NAME=URL...",
		Short: "Scrape specific players into the saved collection",
		Example: `  bbref-crawler players add "LeBron James=https://www.basketball-reference.com/players/j/jamesle01.html"
  bbref-crawler players add "Nikola Jokić=/players/j/jokicni01.html"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			urls, err := parsePlayerArgs(args)
			if err != nil {
				return err
			}

			a, err := root.setup(cmd)
			if err != nil {
				return err
			}
			for name, u := range urls {
				if strings.HasPrefix(u, "/") {
					urls[name] = a.cfg.BaseURL + u
				}
			}

			saved, err := a.store.LoadPlayers()
			if err != nil {
				return err
			}

			scraped, buildErr := a.builder().BuildSpecificPlayers(cmd.Context(), urls)
			for name, p := range scraped {
				saved[name] = p
			}
			if err := a.store.SavePlayers(saved); err != nil {
				return err
			}
			if buildErr != nil {
				return buildErr
			}

			return a.write(&BuildResult{
				Kind:      "players",
				BuiltAt:   time.Now(),
				Requested: len(urls),
				Scraped:   len(scraped),
				Failed:    len(urls) - len(scraped),
				Total:     len(saved),
				Path:      a.store.Path(storage.PlayersFile),
			})
		},
	}
}

// parsePlayerArgs turns NAME=URL arguments into a mapping. A bare NAME maps
// to an empty URL, which the builder reports as not found.
func parsePlayerArgs(args []string) (map[string]string, error) {
	urls := make(map[string]string, len(args))
	for _, arg := range args {
		name, u, _ := strings.Cut(arg, "=")
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("invalid player %q: expected NAME=URL", arg)
		}
		urls[name] = strings.TrimSpace(u)
	}
	return urls, nil
}
