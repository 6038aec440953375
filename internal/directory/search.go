package directory

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/antzucaro/matchr"
)

const DefaultThreshold = 0.5

// Similarity returns 1 minus the Levenshtein distance of the lowercased
// strings divided by the longer length. Two empty strings are identical.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(matchr.Levenshtein(a, b))/float64(longest)
}

// Search returns the names in dir that contain query case-insensitively or
// whose similarity to it is at least threshold. Results are sorted.
func Search[T any](dir map[string]T, query string, threshold float64) []string {
	q := strings.ToLower(query)
	var matches []string
	for name := range dir {
		if strings.Contains(strings.ToLower(name), q) || Similarity(name, q) >= threshold {
			matches = append(matches, name)
		}
	}
	sort.Strings(matches)
	return matches
}
