package cli

import (
	"fmt"
	"sort"
	"strings"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByName       SortOrder = "name"
	SortBySimilarity SortOrder = "similarity"
)

func parseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(s)); order {
	case SortByName, SortBySimilarity:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'name' or 'similarity')", s)
	}
}

// sortMatches sorts search matches based on the specified sort order
func sortMatches(matches []Match, order SortOrder) {
	switch order {
	case SortByName:
		sort.SliceStable(matches, func(i, j int) bool {
			return compareByName(matches[i], matches[j])
		})
	case SortBySimilarity:
		sort.SliceStable(matches, func(i, j int) bool {
			if matches[i].Similarity != matches[j].Similarity {
				return matches[i].Similarity > matches[j].Similarity
			}
			// equal scores fall back to name
			return compareByName(matches[i], matches[j])
		})
	}
}

func compareByName(i, j Match) bool {
	li, lj := strings.ToLower(i.Name), strings.ToLower(j.Name)
	if li != lj {
		return li < lj
	}
	return i.Name < j.Name
}
