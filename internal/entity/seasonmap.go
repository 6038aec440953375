package entity

import (
	"bytes"
	"encoding/json"

	"github.com/cockroachdb/errors"
)

// SeasonEntry is one season label and its value.
type SeasonEntry struct {
	Season string
	Value  string
}

// SeasonMap is a season-keyed map that remembers insertion order. It encodes
// as a JSON object with keys in that order.
type SeasonMap struct {
	entries []SeasonEntry
	index   map[string]int
}

// Set stores value for season. An existing season keeps its position.
func (m *SeasonMap) Set(season, value string) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if i, ok := m.index[season]; ok {
		m.entries[i].Value = value
		return
	}
	m.index[season] = len(m.entries)
	m.entries = append(m.entries, SeasonEntry{Season: season, Value: value})
}

// Get returns the value stored for season.
func (m *SeasonMap) Get(season string) (string, bool) {
	i, ok := m.index[season]
	if !ok {
		return "", false
	}
	return m.entries[i].Value, true
}

func (m *SeasonMap) Len() int { return len(m.entries) }

// Entries returns a copy of the entries in insertion order.
func (m *SeasonMap) Entries() []SeasonEntry {
	return append([]SeasonEntry(nil), m.entries...)
}

// Seasons returns the season labels in insertion order.
func (m *SeasonMap) Seasons() []string {
	out := make([]string, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.Season
	}
	return out
}

// Last returns the most recently inserted entry.
func (m *SeasonMap) Last() (SeasonEntry, bool) {
	if len(m.entries) == 0 {
		return SeasonEntry{}, false
	}
	return m.entries[len(m.entries)-1], true
}

// Reset removes every entry.
func (m *SeasonMap) Reset() {
	m.entries = nil
	m.index = nil
}

func (m SeasonMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m.entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Season)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *SeasonMap) UnmarshalJSON(data []byte) error {
	m.Reset()
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return errors.Wrap(err, "decoding season map")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Newf("decoding season map: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return errors.Wrap(err, "decoding season map key")
		}
		key, _ := tok.(string)

		var value *string
		if err := dec.Decode(&value); err != nil {
			return errors.Wrapf(err, "decoding season map value for %q", key)
		}
		if value == nil {
			m.Set(key, "")
			continue
		}
		m.Set(key, *value)
	}

	if _, err := dec.Token(); err != nil {
		return errors.Wrap(err, "decoding season map")
	}
	return nil
}
