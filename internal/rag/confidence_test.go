package rag

import (
	"math"
	"testing"
)

func resultsWithScores(scores ...float32) []SearchResult {
	results := make([]SearchResult, len(scores))
	for i, s := range scores {
		results[i] = SearchResult{ID: "r", Score: s}
	}
	return results
}

func TestConfidence(t *testing.T) {
	tests := []struct {
		name   string
		scores []float32
		want   float64
	}{
		{
			name:   "empty results",
			scores: nil,
			want:   0,
		},
		{
			name:   "reference mix",
			scores: []float32{0.9, 0.75, 0.6},
			// avg 0.75, two scores above 0.7, boost 0.2
			want: 0.95,
		},
		{
			name:   "boost capped at 0.3",
			scores: []float32{0.71, 0.71, 0.71, 0.71, 0.71},
			want:   1.0,
		},
		{
			name:   "exactly 0.7 earns no boost",
			scores: []float32{0.7},
			want:   0.7,
		},
		{
			name:   "single low score",
			scores: []float32{0.5},
			want:   0.5,
		},
		{
			name:   "result capped at 1.0",
			scores: []float32{1.0, 1.0, 1.0},
			want:   1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Confidence(resultsWithScores(tt.scores...))
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Confidence(%v) = %v, want %v", tt.scores, got, tt.want)
			}
		})
	}
}

func TestConfidenceRange(t *testing.T) {
	sets := [][]float32{
		{},
		{0},
		{0, 0, 0},
		{1},
		{0.69, 0.7, 0.71},
		{0.99, 0.98, 0.97, 0.96},
	}
	for _, scores := range sets {
		got := Confidence(resultsWithScores(scores...))
		if got < 0 || got > 1 {
			t.Errorf("Confidence(%v) = %v, out of [0,1]", scores, got)
		}
	}
}

// Raising any single score while holding the others fixed must never lower
// the output.
func TestConfidenceMonotonic(t *testing.T) {
	base := []float32{0.2, 0.5, 0.65, 0.7, 0.9}

	for i := range base {
		prev := Confidence(resultsWithScores(base...))
		raised := make([]float32, len(base))
		copy(raised, base)
		for raised[i] < 1.0 {
			raised[i] += 0.05
			if raised[i] > 1.0 {
				raised[i] = 1.0
			}
			next := Confidence(resultsWithScores(raised...))
			if next < prev {
				t.Fatalf("raising score %d to %.2f lowered confidence: %v -> %v",
					i, raised[i], prev, next)
			}
			prev = next
		}
	}
}

func TestConfidenceOrderIndependent(t *testing.T) {
	a := Confidence(resultsWithScores(0.9, 0.75, 0.6))
	b := Confidence(resultsWithScores(0.6, 0.9, 0.75))
	if a != b {
		t.Errorf("confidence depends on order: %v vs %v", a, b)
	}
}
