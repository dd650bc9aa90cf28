// Package fuzzy ranks candidate strings against a query by edit distance.
// The dispatch engine uses it to suggest commands for near-miss input.
package fuzzy

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// maxDistanceRatio is the fraction of the longer string's length a
// candidate may differ by and still count as a match.
const maxDistanceRatio = 0.5

// Match is one candidate that survived the distance cutoff.
type Match struct {
	Target   string
	Distance int
}

// Rank returns the candidates within editing distance of the query, best
// first. Ties keep the candidates' original order. Comparison is
// case-insensitive; an empty query or candidate list yields no matches.
func Rank(query string, candidates []string) []Match {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	matches := make([]Match, 0, len(candidates))
	for _, candidate := range candidates {
		distance := levenshtein.ComputeDistance(query, strings.ToLower(candidate))
		if !withinCutoff(distance, len(query), len(candidate)) {
			continue
		}
		matches = append(matches, Match{Target: candidate, Distance: distance})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})
	return matches
}

// Targets returns just the ranked candidate strings.
func Targets(matches []Match) []string {
	if len(matches) == 0 {
		return nil
	}

	targets := make([]string, len(matches))
	for i, m := range matches {
		targets[i] = m.Target
	}
	return targets
}

func withinCutoff(distance, queryLen, candidateLen int) bool {
	longer := queryLen
	if candidateLen > longer {
		longer = candidateLen
	}
	return float64(distance) <= float64(longer)*maxDistanceRatio
}
