package directory

import (
	"sort"
)

// DiffResult splits a set of listings into those already collected and new ones.
type DiffResult struct {
	New   []Listing
	Known int
}

// NewListings returns the listings whose name is not in previous, sorted by
// name. It drives incremental crawls over a saved collection.
func NewListings[T any](previous map[string]T, current []Listing) *DiffResult {
	result := &DiffResult{New: make([]Listing, 0)}

	for _, l := range current {
		if _, exists := previous[l.Name]; exists {
			result.Known++
			continue
		}
		result.New = append(result.New, l)
	}

	sort.Slice(result.New, func(i, j int) bool {
		return result.New[i].Name < result.New[j].Name
	})
	return result
}
