package engine

import (
	"iter"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

type SearchMode string

const (
	SearchSubstring SearchMode = "substring"
	SearchFuzzy     SearchMode = "fuzzy"
)

func ParseSearchMode(raw string) (SearchMode, bool) {
	switch SearchMode(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SearchSubstring:
		return SearchSubstring, true
	case SearchFuzzy:
		return SearchFuzzy, true
	default:
		return "", false
	}
}

// FilterAvailable yields the players whose name or team contains query,
// ignoring case. An empty query yields the whole pool in order. The sequence
// reads pool on every iteration and never modifies it.
func FilterAvailable(pool []Player, query string) iter.Seq[Player] {
	q := strings.ToLower(query)
	return func(yield func(Player) bool) {
		for _, p := range pool {
			if q != "" && !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Team), q) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// FilterAvailableFuzzy is FilterAvailable with subsequence matching, so
// "cmccaf" finds "Christian McCaffrey".
func FilterAvailableFuzzy(pool []Player, query string) iter.Seq[Player] {
	q := strings.ReplaceAll(query, " ", "")
	return func(yield func(Player) bool) {
		for _, p := range pool {
			if q != "" && !fuzzy.MatchNormalizedFold(q, p.Name) && !fuzzy.MatchNormalizedFold(q, p.Team) {
				continue
			}
			if !yield(p) {
				return
			}
		}
	}
}

// Filter dispatches on mode; unknown modes fall back to substring.
func Filter(mode SearchMode, pool []Player, query string) iter.Seq[Player] {
	if mode == SearchFuzzy {
		return FilterAvailableFuzzy(pool, query)
	}
	return FilterAvailable(pool, query)
}
