package rag

import "math"

// Confidence scoring constants. Result sets with many strongly relevant
// matches earn a capped boost on top of the mean score.
const (
	// relevanceBar is the strict lower bound for a score to count toward
	// the boost. Exactly 0.7 does not count.
	relevanceBar = 0.7

	// relevancePerMatch is the boost contributed per qualifying score.
	relevancePerMatch = 0.1

	// maxBoost caps the total boost contribution.
	maxBoost = 0.3
)

// Confidence maps a result set to a scalar in [0,1]:
// mean score plus min(0.1 * count(score > 0.7), 0.3), capped at 1.0, rounded
// to two decimals. Empty input yields 0. Order-independent and monotonic:
// raising any single score never lowers the output.
func Confidence(results []SearchResult) float64 {
	if len(results) == 0 {
		return 0
	}

	var sum float64
	relevant := 0
	for _, r := range results {
		sum += float64(r.Score)
		if float64(r.Score) > relevanceBar {
			relevant++
		}
	}

	avg := sum / float64(len(results))
	boost := math.Min(relevancePerMatch*float64(relevant), maxBoost)

	return math.Round(math.Min(avg+boost, 1.0)*100) / 100
}
