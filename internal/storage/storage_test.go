package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/bbref-crawler/internal/entity"
)

func TestNew_ExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	s, err := New("~/bbref-data")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, "bbref-data"), s.Dir())

	info, err := os.Stat(s.Dir())
	require.NoError(t, err)
	require.True(t, info.IsDir())
}

func TestPlayers_RoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	lebron := entity.NewPlayer("LeBron James", "https://www.basketball-reference.com/players/j/jamesle01.html")
	lebron.Content = "cached page text"
	lebron.Positions = []string{"Small Forward", "Point Guard"}
	lebron.Height = "6-9"
	lebron.Weight = "250"
	lebron.Teams.Set("2003-04", "CLE")
	lebron.Teams.Set("2018-19", "LAL")
	lebron.GameLogURLs = []string{"https://www.basketball-reference.com/players/j/jamesle01/gamelog/2004"}
	lebron.GameLogURLsBySeason.Set("2003-04", lebron.GameLogURLs[0])

	players := map[string]*entity.Player{
		"LeBron James": lebron,
		"Bill Russell": entity.NewPlayer("Bill Russell", "https://www.basketball-reference.com/players/r/russebi01.html"),
	}
	require.NoError(t, s.SavePlayers(players))

	loaded, err := s.LoadPlayers()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	got := loaded["LeBron James"]
	require.Empty(t, got.Content)
	require.True(t, got.IsPopulated())
	require.Equal(t, lebron.Positions, got.Positions)
	require.Equal(t, "6-9", got.Height)
	require.Equal(t, lebron.Teams.Entries(), got.Teams.Entries())
	require.Equal(t, lebron.GameLogURLs, got.GameLogURLs)

	// the saving process does not touch the live entity
	require.Equal(t, "cached page text", lebron.Content)
}

func TestSave_DoubleEncoded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.json")
	p := entity.NewPlayer("Tim Duncan", "https://www.basketball-reference.com/players/d/duncati01.html")
	require.NoError(t, Save(path, map[string]*entity.Player{"Tim Duncan": p}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var outer map[string]any
	require.NoError(t, sonic.Unmarshal(data, &outer))
	inner, ok := outer["Tim Duncan"].(string)
	require.True(t, ok, "value must be a JSON string, got %T", outer["Tim Duncan"])
	require.True(t, strings.HasPrefix(inner, "{"))
	require.Contains(t, inner, `"overview_url_content":null`)
}

func TestLoad_LegacyArchive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.json")
	legacy := `{
"Kobe Bryant": "{\"name\": \"Kobe Bryant\", \"overview_url\": \"https://www.basketball-reference.com/players/b/bryanko01.html\", \"nicknames\": [], \"positions\": [\"Shooting Guard\"], \"height\": \"6-6\", \"weight\": \"212\", \"teams_dict\": {\"1996-97\": \"LAL\"}, \"overview_url_content\": null, \"gamelog_data\": null, \"gamelog_url_list\": [], \"gamelog_url_dict\": {}}"
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0644))

	players, err := Load[entity.Player](path)
	require.NoError(t, err)
	require.Equal(t, []string{"Shooting Guard"}, players["Kobe Bryant"].Positions)
	require.Equal(t, "6-6", players["Kobe Bryant"].Height)
}

func TestLoad_Missing(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	coaches, err := s.LoadCoaches()
	require.NoError(t, err)
	require.Empty(t, coaches)
}

func TestLoad_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teams.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Atlanta Hawks": "{not json"}`), 0644))

	_, err := Load[entity.Team](path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "Atlanta Hawks")
}

func TestTeamsAndCoaches_RoundTrip(t *testing.T) {
	s, err := New(t.TempDir())
	require.NoError(t, err)

	coach := entity.NewCoach("Gregg Popovich", "https://www.basketball-reference.com/coaches/popovgr99c.html")
	coach.Teams.Set("2023-24", "San Antonio Spurs")
	team := entity.NewTeam("San Antonio Spurs", "https://www.basketball-reference.com/teams/SAS/")
	team.Coach = coach

	require.NoError(t, s.SaveCoaches(map[string]*entity.Coach{coach.Name: coach}))
	require.NoError(t, s.SaveTeams(map[string]*entity.Team{team.Name: team}))

	coaches, err := s.LoadCoaches()
	require.NoError(t, err)
	require.Equal(t, coach.Teams.Entries(), coaches["Gregg Popovich"].Teams.Entries())

	teams, err := s.LoadTeams()
	require.NoError(t, err)
	require.Equal(t, "SAS", teams["San Antonio Spurs"].ID)
	require.Equal(t, "Gregg Popovich", teams["San Antonio Spurs"].Coach.Name)
}
