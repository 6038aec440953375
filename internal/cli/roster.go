package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/bbref-crawler/internal/directory"
	"github.com/pfrederiksen/bbref-crawler/internal/logger"
	"github.com/pfrederiksen/bbref-crawler/internal/storage"
)

func newCoachesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coaches",
		Short: "Build the saved coach collection",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "build",
		Short: "Crawl every coach active since the configured minimum year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.setup(cmd)
			if err != nil {
				return err
			}

			b := a.builder()
			listings, err := b.CoachListings(cmd.Context())
			if err != nil {
				return err
			}

			coaches, buildErr := b.BuildCoaches(cmd.Context(), listings)
			if len(coaches) > 0 {
				if err := a.store.SaveCoaches(coaches); err != nil {
					return err
				}
			}
			if buildErr != nil {
				return fmt.Errorf("building coaches: %w", buildErr)
			}

			return a.write(&BuildResult{
				Kind:      "coaches",
				BuiltAt:   time.Now(),
				Requested: len(listings),
				Scraped:   len(coaches),
				Failed:    len(listings) - len(coaches),
				Total:     len(coaches),
				Path:      a.store.Path(storage.CoachesFile),
			})
		},
	})
	return cmd
}

func newTeamsCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "teams",
		Short: "Build the saved team collection",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "build",
		Short: "Crawl every active franchise and link it to its current coach",
		Long: `Crawl the active franchises and scrape each team page. When a coach
collection has been built, every team is linked to the coach whose most
recent season was with that team.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := root.setup(cmd)
			if err != nil {
				return err
			}

			b := a.builder()
			listings, err := b.TeamListings(cmd.Context())
			if err != nil {
				return err
			}

			teams, buildErr := b.BuildTeams(cmd.Context(), listings)

			coaches, err := a.store.LoadCoaches()
			if err != nil {
				return err
			}
			linked := directory.LinkCoaches(teams, coaches)
			logger.Debug("Linked coaches", logger.Fields{"teams": len(teams), "linked": linked})

			if len(teams) > 0 {
				if err := a.store.SaveTeams(teams); err != nil {
					return err
				}
			}
			if buildErr != nil {
				return fmt.Errorf("building teams: %w", buildErr)
			}

			return a.write(&BuildResult{
				Kind:      "teams",
				BuiltAt:   time.Now(),
				Requested: len(listings),
				Scraped:   len(teams),
				Failed:    len(listings) - len(teams),
				Total:     len(teams),
				Linked:    linked,
				Path:      a.store.Path(storage.TeamsFile),
			})
		},
	})
	return cmd
}
