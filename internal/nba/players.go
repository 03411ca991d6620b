package nba

import (
	"fmt"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// maxNameDistance is the largest Levenshtein distance accepted when no
// exact or substring match exists. Keeps "Lebron James" matching while
// rejecting arbitrary strings.
const maxNameDistance = 3

// ResolvePlayer finds the index entry best matching a full name. Exact
// case-insensitive matches win, then substring matches, then the closest
// fuzzy match within maxNameDistance. When several players tie on a
// substring match the most recent career wins.
func ResolvePlayer(index []PlayerIndexEntry, name string) (PlayerIndexEntry, error) {
	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return PlayerIndexEntry{}, fmt.Errorf("%w: empty player name", ErrNotFound)
	}

	var substrBest PlayerIndexEntry
	substrFound := false
	for _, e := range index {
		full := strings.ToLower(e.Name)
		if full == want {
			return e, nil
		}
		if strings.Contains(full, want) {
			if !substrFound || e.ToYear > substrBest.ToYear {
				substrBest = e
				substrFound = true
			}
		}
	}
	if substrFound {
		return substrBest, nil
	}

	best := PlayerIndexEntry{}
	bestDist := maxNameDistance + 1
	for _, e := range index {
		d := fuzzy.LevenshteinDistance(want, strings.ToLower(e.Name))
		if d < bestDist {
			best = e
			bestDist = d
		}
	}
	if bestDist > maxNameDistance {
		return PlayerIndexEntry{}, fmt.Errorf("%w: player %q", ErrNotFound, name)
	}
	return best, nil
}
