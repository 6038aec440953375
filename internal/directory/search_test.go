package directory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testDirectory() map[string]struct{} {
	return map[string]struct{}{
		"LeBron James":        {},
		"Bronny James":        {},
		"Mike James":          {},
		"Michael Jordan":      {},
		"Nikola Jokić":        {},
		"Kareem Abdul-Jabbar": {},
	}
}

func TestSimilarity(t *testing.T) {
	require.Equal(t, 1.0, Similarity("", ""))
	require.Equal(t, 1.0, Similarity("LeBron James", "lebron james"))
	require.Equal(t, 0.0, Similarity("abc", "xyz"))
	require.InDelta(t, 0.8, Similarity("Jokic", "Jokić"), 1e-9)
}

func TestSearch(t *testing.T) {
	dir := testDirectory()

	tests := []struct {
		name      string
		query     string
		threshold float64
		want      []string
	}{
		{"threshold zero returns everything", "zzz", 0, []string{"Bronny James", "Kareem Abdul-Jabbar", "LeBron James", "Michael Jordan", "Mike James", "Nikola Jokić"}},
		{"threshold one returns exact match", "lebron james", 1, []string{"LeBron James"}},
		{"substring match", "JAMES", 1, []string{"Bronny James", "LeBron James", "Mike James"}},
		{"fuzzy match", "Lebron Jame", 0.8, []string{"LeBron James"}},
		{"typo", "Micheal Jordan", 0.8, []string{"Michael Jordan"}},
		{"nothing close", "Wilt Chamberlain", 0.9, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Search(dir, tt.query, tt.threshold))
		})
	}
}

func TestSearch_Idempotent(t *testing.T) {
	dir := testDirectory()
	first := Search(dir, "jam", DefaultThreshold)
	for i := 0; i < 5; i++ {
		require.Equal(t, first, Search(dir, "jam", DefaultThreshold))
	}
}
