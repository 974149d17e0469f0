package rag

import (
	"fmt"
	"strings"
)

// NoContextFound is the sentinel returned when retrieval produced nothing.
const NoContextFound = "No relevant information found."

// FormatContext renders a result set as a human-readable context block: one
// numbered section per result, in input order, scores to two decimals.
// Pure and deterministic.
func FormatContext(results []SearchResult) string {
	if len(results) == 0 {
		return NoContextFound
	}

	sections := make([]string, len(results))
	for i, r := range results {
		sections[i] = fmt.Sprintf("[Reference %d]\nQuestion: %s\nAnswer: %s\n(Similarity: %.2f)",
			i+1, r.Question, r.Answer, r.Score)
	}
	return strings.Join(sections, "\n\n")
}
