package entity

import (
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
)

func TestSeasonMap_SetKeepsPosition(t *testing.T) {
	var m SeasonMap
	m.Set("2003-04", "CLE")
	m.Set("2010-11", "MIA")
	m.Set("2003-04", "TOT")

	require.Equal(t, []SeasonEntry{{"2003-04", "TOT"}, {"2010-11", "MIA"}}, m.Entries())
	v, ok := m.Get("2010-11")
	require.True(t, ok)
	require.Equal(t, "MIA", v)

	_, ok = m.Get("1999-00")
	require.False(t, ok)
}

func TestSeasonMap_JSON(t *testing.T) {
	var m SeasonMap
	m.Set("2019-20", "LAL")
	m.Set("2003-04", "CLE")

	data, err := sonic.Marshal(m)
	require.NoError(t, err)
	require.JSONEq(t, `{"2019-20":"LAL","2003-04":"CLE"}`, string(data))
	require.Equal(t, `{"2019-20":"LAL","2003-04":"CLE"}`, string(data))

	var decoded SeasonMap
	require.NoError(t, sonic.Unmarshal([]byte(`{"b": "2", "a": "1", "c": null}`), &decoded))
	require.Equal(t, []string{"b", "a", "c"}, decoded.Seasons())

	require.NoError(t, decoded.UnmarshalJSON([]byte(`null`)))
	require.Zero(t, decoded.Len())

	require.Error(t, decoded.UnmarshalJSON([]byte(`["not", "an", "object"]`)))
}
