package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/bbref-crawler/internal/directory"
)

func newSearchCmd(root *rootOptions) *cobra.Command {
	var (
		kind      string
		threshold float64
		sortOrder string
	)

	cmd := &cobra.Command{
		Use:   "search QUERY",
		Short: "Fuzzy search a saved collection by name",
		Long: `Search the saved players, coaches or teams. A name matches when it contains
the query (case-insensitive) or its similarity ratio to the query is at least
--threshold.`,
		Example: `  bbref-crawler search "lebron"
  bbref-crawler search --kind coaches --threshold 0.7 "Popovic"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := parseSortOrder(sortOrder)
			if err != nil {
				return err
			}

			a, err := root.setup(cmd)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("threshold") {
				threshold = a.cfg.FuzzyThreshold
			}
			if threshold < 0 || threshold > 1 {
				return fmt.Errorf("invalid threshold: %v (must be within [0, 1])", threshold)
			}

			urls, err := a.collectionURLs(strings.ToLower(kind))
			if err != nil {
				return err
			}

			query := args[0]
			names := directory.Search(urls, query, threshold)
			matches := make([]Match, 0, len(names))
			for _, name := range names {
				matches = append(matches, Match{
					Name:       name,
					URL:        urls[name],
					Similarity: directory.Similarity(name, query),
				})
			}
			sortMatches(matches, order)

			return a.write(&SearchResult{
				Kind:      kind,
				Query:     query,
				Threshold: threshold,
				Matches:   matches,
			})
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "players", "Collection to search: players, coaches or teams")
	cmd.Flags().Float64Var(&threshold, "threshold", directory.DefaultThreshold, "Minimum similarity ratio for non-substring matches")
	cmd.Flags().StringVar(&sortOrder, "sort", "similarity", "Sort order: name or similarity")
	return cmd
}

// collectionURLs loads a saved collection as a name to overview URL mapping.
func (a *app) collectionURLs(kind string) (map[string]string, error) {
	urls := map[string]string{}
	switch kind {
	case "players":
		players, err := a.store.LoadPlayers()
		if err != nil {
			return nil, err
		}
		for name, p := range players {
			urls[name] = p.OverviewURL
		}
	case "coaches":
		coaches, err := a.store.LoadCoaches()
		if err != nil {
			return nil, err
		}
		for name, c := range coaches {
			urls[name] = c.OverviewURL
		}
	case "teams":
		teams, err := a.store.LoadTeams()
		if err != nil {
			return nil, err
		}
		for name, t := range teams {
			urls[name] = t.OverviewURL
		}
	default:
		return nil, fmt.Errorf("invalid kind: %s (must be 'players', 'coaches' or 'teams')", kind)
	}
	return urls, nil
}
