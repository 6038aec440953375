package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/bbref-crawler/internal/archive"
	"github.com/pfrederiksen/bbref-crawler/internal/directory"
	"github.com/pfrederiksen/bbref-crawler/internal/storage"
)

const fixtures = "../../testdata/fixtures/"

// newSite serves fixture files by request path. Everything else is a 404.
func newSite(t *testing.T, routes map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		data, err := os.ReadFile(fixtures + file)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	}))
	t.Cleanup(server.Close)
	return server
}

var siteRoutes = map[string]string{
	"/players/j/":                       "players_j.html",
	"/players/j/jamesle01.html":         "player_jamesle01.html",
	"/players/j/jamesle01/gamelog/2019": "gamelog_2019.html",
	"/coaches/":                         "coaches.html",
	"/coaches/popovgr99c.html":          "coach_popovgr99c.html",
	"/teams/":                           "teams.html",
	"/teams/ATL/":                       "team_ATL.html",
}

type harness struct {
	t       *testing.T
	baseURL string
	dataDir string
	config  string
}

func newHarness(t *testing.T) *harness {
	return &harness{
		t:       t,
		baseURL: newSite(t, siteRoutes).URL,
		dataDir: t.TempDir(),
		config:  filepath.Join(t.TempDir(), "absent.json5"),
	}
}

// run executes the command line and returns stdout.
func (h *harness) run(args ...string) (string, error) {
	h.t.Helper()
	var stdout, stderr bytes.Buffer

	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{
		"--config", h.config,
		"--base-url", h.baseURL,
		"--data-dir", h.dataDir,
		"--request-delay", "0s",
		"--format", "json",
	}, args...))

	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func (h *harness) mustRun(v interface{}, args ...string) {
	h.t.Helper()
	out, err := h.run(args...)
	require.NoError(h.t, err)
	require.NoError(h.t, json.Unmarshal([]byte(out), v), out)
}

func TestPlayersBuild(t *testing.T) {
	h := newHarness(t)

	var result BuildResult
	h.mustRun(&result, "players", "build")

	// LeBron James, Mike James and Nikola Jokić are active since 2004; only
	// LeBron's page is served.
	require.Equal(t, "players", result.Kind)
	require.Equal(t, 3, result.Requested)
	require.Equal(t, 1, result.Scraped)
	require.Equal(t, 2, result.Failed)
	require.Equal(t, 1, result.Total)

	store, err := storage.New(h.dataDir)
	require.NoError(t, err)
	players, err := store.LoadPlayers()
	require.NoError(t, err)
	require.Contains(t, players, "LeBron James")
	require.Equal(t, h.baseURL+"/players/j/jamesle01.html", players["LeBron James"].OverviewURL)
}

func TestPlayersBuild_SiteDownKeepsCollection(t *testing.T) {
	h := newHarness(t)

	var first BuildResult
	h.mustRun(&first, "players", "build")
	require.Equal(t, 1, first.Total)

	h.baseURL = newSite(t, nil).URL
	_, err := h.run("players", "build")
	require.ErrorIs(t, err, directory.ErrNoIndexPages)

	store, err := storage.New(h.dataDir)
	require.NoError(t, err)
	players, err := store.LoadPlayers()
	require.NoError(t, err)
	require.Len(t, players, 1)
}

func TestPlayersBuild_NothingScrapedKeepsCollection(t *testing.T) {
	h := newHarness(t)

	var first BuildResult
	h.mustRun(&first, "players", "build")

	// the index is still served but every overview page is gone
	h.baseURL = newSite(t, map[string]string{"/players/j/": "players_j.html"}).URL
	var second BuildResult
	h.mustRun(&second, "players", "build")

	require.Equal(t, 0, second.Scraped)
	require.Equal(t, 1, second.Total)
}

func TestPlayersBuild_Resume(t *testing.T) {
	h := newHarness(t)

	var first, second BuildResult
	h.mustRun(&first, "players", "build")
	h.mustRun(&second, "players", "build", "--resume")

	require.Equal(t, 1, second.Known)
	require.Equal(t, 2, second.Requested)
	require.Equal(t, 0, second.Scraped)
	require.Equal(t, 1, second.Total)
}

func TestPlayersBuild_MinYear(t *testing.T) {
	h := newHarness(t)

	var result BuildResult
	h.mustRun(&result, "players", "build", "--min-year", "2015")
	require.Equal(t, 2, result.Requested)
}

func TestPlayersAdd(t *testing.T) {
	h := newHarness(t)

	var result BuildResult
	h.mustRun(&result, "players", "add", "LeBron James=/players/j/jamesle01.html", "Nobody")

	require.Equal(t, 2, result.Requested)
	require.Equal(t, 1, result.Scraped)
	require.Equal(t, 1, result.Total)
}

func TestPlayersAdd_InvalidArg(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("players", "add", "=/players/j/jamesle01.html")
	require.ErrorContains(t, err, "expected NAME=URL")
}

func TestSearch(t *testing.T) {
	h := newHarness(t)
	var built BuildResult
	h.mustRun(&built, "players", "build")

	var result SearchResult
	h.mustRun(&result, "search", "lebron")
	require.Len(t, result.Matches, 1)
	require.Equal(t, "LeBron James", result.Matches[0].Name)
	require.Equal(t, h.baseURL+"/players/j/jamesle01.html", result.Matches[0].URL)

	h.mustRun(&result, "search", "--threshold", "0.9", "Kobe Bryant")
	require.Empty(t, result.Matches)
}

func TestSearch_InvalidKind(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("search", "--kind", "referees", "x")
	require.ErrorContains(t, err, "invalid kind")
}

func TestGameLogs_Season(t *testing.T) {
	h := newHarness(t)
	var built BuildResult
	h.mustRun(&built, "players", "build")

	var result GameLogResult
	h.mustRun(&result, "gamelogs", "LeBron James", "--season", "2018-19")

	// three regular season games plus one playoff game
	require.Equal(t, 4, result.Games)
	require.Len(t, result.Rows, 4)
	require.Contains(t, result.Columns, "HomeAway")
	require.Contains(t, result.Columns, "WinLoss")
}

func TestGameLogs_Filtered(t *testing.T) {
	h := newHarness(t)
	var built BuildResult
	h.mustRun(&built, "players", "build")

	var result GameLogResult
	h.mustRun(&result, "gamelogs", "LeBron James", "--season", "2019", "--venue", "away", "--result", "W")

	require.Equal(t, 1, result.Games)
	require.Equal(t, "PHO", result.Rows[0]["Opp"])
	require.Equal(t, "Away | Wins", result.Filter)

	h.mustRun(&result, "gamelogs", "LeBron James", "--dates", "2019-04", "--opponent", "den")
	require.Equal(t, 1, result.Games)
	require.Equal(t, "2019-04-14", result.Rows[0]["Date"])
}

func TestGameLogs_InvalidFilter(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("gamelogs", "LeBron James", "--venue", "neutral")
	require.ErrorContains(t, err, "invalid venue")
}

func TestGameLogs_AllSeasonsSkipsMissingPages(t *testing.T) {
	h := newHarness(t)
	var built BuildResult
	h.mustRun(&built, "players", "build")

	var result GameLogResult
	h.mustRun(&result, "gamelogs", "LeBron James")
	require.Equal(t, 4, result.Games)
}

func TestGameLogs_UnknownPlayerSuggests(t *testing.T) {
	h := newHarness(t)
	var built BuildResult
	h.mustRun(&built, "players", "build")

	_, err := h.run("gamelogs", "Lebron Jame")
	require.ErrorContains(t, err, "player not found")
	require.ErrorContains(t, err, "did you mean: LeBron James")
}

func TestCoachesAndTeamsBuild_LinksCoach(t *testing.T) {
	h := newHarness(t)

	var coaches, teams BuildResult
	h.mustRun(&coaches, "coaches", "build")
	// Popovich and Jackson are listed; only Popovich's page is served
	require.Equal(t, 2, coaches.Requested)
	require.Equal(t, 1, coaches.Scraped)
	require.Equal(t, 1, coaches.Failed)
	require.Equal(t, 1, coaches.Total)

	h.mustRun(&teams, "teams", "build")
	require.Equal(t, 2, teams.Requested)
	require.Equal(t, 1, teams.Failed)
	require.Equal(t, 1, teams.Total)

	store, err := storage.New(h.dataDir)
	require.NoError(t, err)
	saved, err := store.LoadTeams()
	require.NoError(t, err)
	require.Len(t, saved, 1)
	for _, team := range saved {
		require.NotEmpty(t, team.Location())
	}
}

func TestExport(t *testing.T) {
	h := newHarness(t)
	var built BuildResult
	h.mustRun(&built, "players", "build")

	dbPath := filepath.Join(t.TempDir(), "logs.db")
	var result ExportResult
	h.mustRun(&result, "export", "--db", dbPath)

	require.Equal(t, 1, result.Players)
	require.Equal(t, 1, result.Seasons)
	require.Equal(t, 4, result.Games)
	require.Empty(t, result.Failed)

	store, err := archive.Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer store.Close()

	games, err := store.GameLogs(context.Background(), "LeBron James")
	require.NoError(t, err)
	require.Len(t, games, 4)
}

func TestExport_UnknownPlayer(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("export", "Nobody")
	require.ErrorContains(t, err, "player not found")
}

func TestInvalidFormat(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("search", "--format", "xml", "x")
	require.ErrorContains(t, err, "invalid format")
}

func TestParsePlayerArgs(t *testing.T) {
	urls, err := parsePlayerArgs([]string{"A=http://x/a.html", " B = /b.html ", "C"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"A": "http://x/a.html",
		"B": "/b.html",
		"C": "",
	}, urls)
}
