package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"

	"github.com/pfrederiksen/bbref-crawler/internal/entity"
)

const (
	PlayersFile = "players.json"
	CoachesFile = "coaches.json"
	TeamsFile   = "teams.json"
)

// Record is an entity that encodes itself to and from a JSON record.
type Record interface {
	ToJSON() ([]byte, error)
	FromJSON(data []byte) error
}

// Storage handles persistence of entity collections
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	dataDir, err := ExpandHome(dataDir)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// ExpandHome replaces a leading ~/ with the user's home directory.
func ExpandHome(path string) (string, error) {
	if !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, path[2:]), nil
}

// Dir returns the data directory.
func (s *Storage) Dir() string { return s.dataDir }

// Path returns the path of a file inside the data directory.
func (s *Storage) Path(name string) string {
	return filepath.Join(s.dataDir, name)
}

func (s *Storage) LoadPlayers() (map[string]*entity.Player, error) {
	return Load[entity.Player](s.Path(PlayersFile))
}

func (s *Storage) SavePlayers(players map[string]*entity.Player) error {
	return Save(s.Path(PlayersFile), players)
}

func (s *Storage) LoadCoaches() (map[string]*entity.Coach, error) {
	return Load[entity.Coach](s.Path(CoachesFile))
}

func (s *Storage) SaveCoaches(coaches map[string]*entity.Coach) error {
	return Save(s.Path(CoachesFile), coaches)
}

func (s *Storage) LoadTeams() (map[string]*entity.Team, error) {
	return Load[entity.Team](s.Path(TeamsFile))
}

func (s *Storage) SaveTeams(teams map[string]*entity.Team) error {
	return Save(s.Path(TeamsFile), teams)
}

// Save writes items to path. Each value is stored as a JSON string containing
// the entity's own record.
func Save[T Record](path string, items map[string]T) error {
	outer := make(map[string]string, len(items))
	for name, item := range items {
		data, err := item.ToJSON()
		if err != nil {
			return errors.Wrapf(err, "encoding %q", name)
		}
		outer[name] = string(data)
	}

	data, err := sonic.ConfigStd.MarshalIndent(outer, "", "")
	if err != nil {
		return fmt.Errorf("encoding collection: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing collection: %w", err)
	}
	return nil
}

// Load reads a collection written by Save. A missing file yields an empty
// collection. Loaded entities carry no page content and count as populated.
func Load[T any, P interface {
	*T
	Record
}](path string) (map[string]*T, error) {
	items := make(map[string]*T)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return items, nil
		}
		return nil, fmt.Errorf("reading collection: %w", err)
	}

	var outer map[string]string
	if err := sonic.ConfigStd.Unmarshal(data, &outer); err != nil {
		return nil, fmt.Errorf("parsing collection: %w", err)
	}

	for name, encoded := range outer {
		item := new(T)
		if err := P(item).FromJSON([]byte(encoded)); err != nil {
			return nil, errors.Wrapf(err, "decoding %q", name)
		}
		items[name] = item
	}
	return items, nil
}
