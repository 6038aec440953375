package directory

import (
	"github.com/pfrederiksen/bbref-crawler/internal/entity"
)

// LinkCoaches sets each team's Coach to the coach whose most recent season
// was with that team. When several coaches qualify the latest season wins.
// It returns the number of teams linked.
func LinkCoaches(teams map[string]*entity.Team, coaches map[string]*entity.Coach) int {
	type candidate struct {
		coach  *entity.Coach
		season string
	}
	latest := make(map[string]candidate)
	for _, c := range coaches {
		season, team, ok := c.LatestTeam()
		if !ok {
			continue
		}
		if cur, seen := latest[team]; !seen || season > cur.season ||
			(season == cur.season && c.Name < cur.coach.Name) {
			latest[team] = candidate{coach: c, season: season}
		}
	}

	linked := 0
	for name, t := range teams {
		if cand, ok := latest[name]; ok {
			t.Coach = cand.coach
			linked++
		}
	}
	return linked
}
