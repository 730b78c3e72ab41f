// threeset_similarity_test.go
package threesetsimilarity

import (
	"context"
	"math"
	"testing"
)

func TestSimilarityWithDefaults(t *testing.T) {
	comparator, err := New()
	if err != nil {
		t.Fatalf("failed to create comparator: %v", err)
	}

	// Test cases covering identity, reordering, typos and disjoint inputs.
	tests := []struct {
		name     string
		first    string
		second   string
		expected float64
	}{
		{
			name:     "Identical titles",
			first:    "The quick brown fox jumps over the lazy dog",
			second:   "The quick brown fox jumps over the lazy dog",
			expected: 1.0,
		},
		{
			name:     "Reordered words",
			first:    "cat dog",
			second:   "dog cat",
			expected: 1.0,
		},
		{
			name:     "Reordered with punctuation",
			first:    "First phrase here!",
			second:   "Here first phrase",
			expected: 1.0,
		},
		{
			name:     "Case only differs",
			first:    "Hello World",
			second:   "hello world",
			expected: 1.0,
		},
		{
			name:     "Disjoint character sets",
			first:    "cat",
			second:   "xyz",
			expected: 0.0,
		},
		{
			name:     "Both empty",
			first:    "",
			second:   "",
			expected: 1.0,
		},
		{
			name:     "One empty",
			first:    "",
			second:   "Some text here",
			expected: 0.0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			score := comparator.Similarity(tc.first, tc.second)
			if math.Abs(score-tc.expected) > 1e-6 {
				t.Errorf("expected score %v, got %v", tc.expected, score)
			}

			// The metric is symmetric.
			reverse := comparator.Similarity(tc.second, tc.first)
			if score != reverse {
				t.Errorf("asymmetric scores: %v vs %v", score, reverse)
			}
		})
	}
}

func TestComputeResult(t *testing.T) {
	comparator, err := New(WithThreshold(0.8))
	if err != nil {
		t.Fatalf("failed to create comparator: %v", err)
	}

	result := comparator.Compute(context.Background(), "breaking market report", "market report breaking")
	if !result.Passed {
		t.Errorf("expected reordered title to pass threshold 0.8, got score %v", result.Score)
	}
	if result.FirstWordCount != 3 || result.SecondWordCount != 3 {
		t.Errorf("unexpected word counts: %d, %d", result.FirstWordCount, result.SecondWordCount)
	}

	result = comparator.Compute(context.Background(), "breaking market report", "weather forecast tomorrow")
	if result.Passed {
		t.Errorf("expected unrelated titles to fail, got score %v", result.Score)
	}
}

func TestOptionValidation(t *testing.T) {
	if _, err := New(WithThreshold(1.5)); err == nil {
		t.Error("expected error for threshold above 1")
	}
	if _, err := New(WithMinWordLength(0)); err == nil {
		t.Error("expected error for zero minimum word length")
	}
	if _, err := New(WithWordMatchThreshold(-0.2)); err == nil {
		t.Error("expected error for negative word match threshold")
	}
}

func TestTransliteratedInputs(t *testing.T) {
	comparator, err := New()
	if err != nil {
		t.Fatalf("failed to create comparator: %v", err)
	}

	// The default normalizer transliterates, so accented and plain spellings
	// compare as equal words.
	score := comparator.Similarity("Café Crème", "Cafe Creme")
	if math.Abs(score-1.0) > 1e-6 {
		t.Errorf("expected transliterated match to score 1.0, got %v", score)
	}
}
