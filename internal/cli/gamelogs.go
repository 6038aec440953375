package cli

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/bbref-crawler/internal/directory"
	"github.com/pfrederiksen/bbref-crawler/internal/filter"
	"github.com/pfrederiksen/bbref-crawler/internal/gamelog"
)

const maxSuggestions = 5

func newGameLogsCmd(root *rootOptions) *cobra.Command {
	var (
		season    string
		dates     string
		opponents []string
		teams     []string
		venue     string
		result    string
	)

	cmd := &cobra.Command{
		Use:   "gamelogs NAME",
		Short: "Fetch a saved player's game logs",
		Long: `Fetch and normalize the regular season and playoff game logs of a player
from the saved collection. Without --season every listed season is loaded
and merged into one table.`,
		Example: `  bbref-crawler gamelogs "LeBron James" --season 2018-19
  bbref-crawler gamelogs "LeBron James" --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			games, err := buildFilter(dates, opponents, teams, venue, result)
			if err != nil {
				return err
			}

			a, err := root.setup(cmd)
			if err != nil {
				return err
			}

			players, err := a.store.LoadPlayers()
			if err != nil {
				return err
			}

			name := args[0]
			var logs *gamelog.Table
			if season != "" {
				logs, err = directory.SeasonGameLogs(cmd.Context(), a.loader(), players, name, season)
			} else {
				logs, err = directory.AllGameLogs(cmd.Context(), a.loader(), players, name)
			}
			if errors.Is(err, directory.ErrPlayerNotFound) {
				if similar := directory.Search(players, name, a.cfg.FuzzyThreshold); len(similar) > 0 {
					if len(similar) > maxSuggestions {
						similar = similar[:maxSuggestions]
					}
					return fmt.Errorf("%w; did you mean: %s", err, strings.Join(similar, ", "))
				}
			}
			if err != nil {
				return err
			}

			logs = games.Apply(logs)
			res := &GameLogResult{
				Player:  name,
				Season:  season,
				Games:   logs.Len(),
				Columns: logs.Columns,
				Rows:    rowMaps(logs.Rows),
			}
			if !games.IsEmpty() {
				res.Filter = games.String()
			}
			return a.write(res)
		},
	}

	cmd.Flags().StringVar(&season, "season", "", "Season label (2018-19) or year (2019)")
	cmd.Flags().StringVar(&dates, "dates", "", "Date range: 2019-01-05, 2019-01 or 2019-01-05..2019-02-10")
	cmd.Flags().StringSliceVar(&opponents, "opponent", nil, "Only games against these teams (e.g. BOS,NYK)")
	cmd.Flags().StringSliceVar(&teams, "team", nil, "Only games played for these teams")
	cmd.Flags().StringVar(&venue, "venue", "", "Only home or away games")
	cmd.Flags().StringVar(&result, "result", "", "Only wins (W) or losses (L)")
	return cmd
}

func buildFilter(dates string, opponents, teams []string, venue, result string) (*filter.Filter, error) {
	f := filter.NewFilter()
	if dates != "" {
		from, to, err := filter.ParseDateRange(dates)
		if err != nil {
			return nil, err
		}
		f.DateFrom, f.DateTo = from, to
	}
	f.Opponents = append(f.Opponents, opponents...)
	f.Teams = append(f.Teams, teams...)

	var err error
	if f.Venue, err = filter.ParseVenue(venue); err != nil {
		return nil, err
	}
	if f.Result, err = filter.ParseResult(result); err != nil {
		return nil, err
	}
	return f, nil
}

func rowMaps(rows []gamelog.Row) []map[string]string {
	out := make([]map[string]string, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out
}
