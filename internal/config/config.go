// Package config loads crawler settings from a json5 file with optional local overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/cockroachdb/errors"
	"github.com/titanous/json5"
)

const (
	DefaultFile          = "bbref-crawler.json5"
	DefaultBaseURL       = "https://www.basketball-reference.com"
	DefaultDataDir       = "~/.local/share/bbref-crawler"
	DefaultMinYearActive = 2004
	DefaultUserAgent     = "bbref-crawler/1.0 (github.com/pfrederiksen/bbref-crawler)"
)

// Duration is a time.Duration that reads from json5 as either a Go duration
// string ("1s", "500ms") or a number of seconds.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(data []byte) error {
	raw := strings.Trim(string(data), `"'`)
	if raw == "" || raw == "null" {
		return nil
	}
	if parsed, err := time.ParseDuration(raw); err == nil {
		*d = Duration(parsed)
		return nil
	}
	var secs float64
	if _, err := fmt.Sscanf(raw, "%g", &secs); err != nil {
		return errors.Newf("invalid duration %q", raw)
	}
	*d = Duration(time.Duration(secs * float64(time.Second)))
	return nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds every tunable of a crawl.
type Config struct {
	BaseURL        string   `json:"base_url"`
	DataDir        string   `json:"data_dir"`
	MinYearActive  int      `json:"min_year_active"`
	RequestDelay   Duration `json:"request_delay"`
	RetryBackoff   Duration `json:"retry_backoff"`
	MaxAttempts    int      `json:"max_attempts"`
	Timeout        Duration `json:"timeout"`
	UserAgent      string   `json:"user_agent"`
	LogLevel       string   `json:"log_level"`
	FuzzyThreshold float64  `json:"fuzzy_threshold"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		BaseURL:        DefaultBaseURL,
		DataDir:        DefaultDataDir,
		MinYearActive:  DefaultMinYearActive,
		RequestDelay:   Duration(time.Second),
		RetryBackoff:   Duration(5 * time.Second),
		MaxAttempts:    3,
		Timeout:        Duration(30 * time.Second),
		UserAgent:      DefaultUserAgent,
		LogLevel:       "info",
		FuzzyThreshold: 0.5,
	}
}

func splitExt(f string) (string, string) {
	ext := filepath.Ext(f)
	return strings.TrimSuffix(f, ext), strings.TrimPrefix(ext, ".")
}

// ReadConfig reads name and then <name>.local.<ext>, with the local file taking
// priority. It returns os.ErrNotExist when neither file exists.
func ReadConfig[T any](name string) (T, error) {
	var out T
	allNotFound := true

	data, err := os.ReadFile(name)
	if err != nil && !os.IsNotExist(err) {
		return out, errors.Wrapf(err, "reading %s", name)
	}
	if len(data) > 0 {
		if err := json5.Unmarshal(data, &out); err != nil {
			return out, errors.Wrapf(err, "parsing %s", name)
		}
		allNotFound = false
	}

	prefix, ext := splitExt(name)
	localPath := fmt.Sprintf("%s.local.%s", prefix, ext)
	local, err := os.ReadFile(localPath)
	if err != nil && !os.IsNotExist(err) {
		return out, errors.Wrapf(err, "reading %s", localPath)
	}
	if len(local) > 0 {
		var override T
		if err := json5.Unmarshal(local, &override); err != nil {
			return out, errors.Wrapf(err, "parsing %s", localPath)
		}
		if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
			return out, errors.Wrap(err, "merging local overrides")
		}
		allNotFound = false
	}

	if allNotFound {
		return out, os.ErrNotExist
	}
	return out, nil
}

// Load reads the config file at path and fills unset values from Default.
// A missing file is not an error.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultFile
	}

	cfg, err := ReadConfig[Config](path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, err
	}

	if err := mergo.Merge(&cfg, Default()); err != nil {
		return Config{}, errors.Wrap(err, "applying defaults")
	}
	return cfg, cfg.Validate()
}

// Validate rejects settings that would make a crawl misbehave.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return errors.Newf("base_url must be an http(s) URL, got %q", c.BaseURL)
	}
	if c.MaxAttempts < 1 {
		return errors.Newf("max_attempts must be at least 1, got %d", c.MaxAttempts)
	}
	if c.FuzzyThreshold < 0 || c.FuzzyThreshold > 1 {
		return errors.Newf("fuzzy_threshold must be within [0, 1], got %v", c.FuzzyThreshold)
	}
	if c.RequestDelay < 0 || c.RetryBackoff < 0 {
		return errors.New("delays must not be negative")
	}
	return nil
}
