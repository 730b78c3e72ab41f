package threeset

import (
	"context"
	"errors"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/baditaflorin/go_threeset_similarity/internal/core/domain"
	"github.com/baditaflorin/go_threeset_similarity/internal/ports"
)

// SimilarityConfig holds configuration for the three-set similarity calculator.
type SimilarityConfig struct {
	// Threshold is the final score required for Result.Passed.
	Threshold float64
	// MinWordLength excludes words shorter than this many runes.
	MinWordLength int
	// MaxLengthDelta is the largest rune-length difference at which a
	// containment pair (one word inside the other) still counts as a match.
	MaxLengthDelta int
	// WordMatchThreshold is the per-pair character similarity a non-containment
	// pair must exceed to count as a match.
	WordMatchThreshold float64
}

// DefaultConfig returns a default configuration.
func DefaultConfig() SimilarityConfig {
	return SimilarityConfig{
		Threshold:          0.75,
		MinWordLength:      2,
		MaxLengthDelta:     3,
		WordMatchThreshold: 0.707,
	}
}

// Validate checks if the configuration is valid.
func (c SimilarityConfig) Validate() error {
	if c.Threshold < 0 || c.Threshold > 1 {
		return errors.New("threshold must be between 0 and 1")
	}
	if c.MinWordLength < 1 {
		return errors.New("minWordLength must be at least 1")
	}
	if c.MaxLengthDelta < 0 {
		return errors.New("maxLengthDelta must not be negative")
	}
	if c.WordMatchThreshold < 0 || c.WordMatchThreshold > 1 {
		return errors.New("wordMatchThreshold must be between 0 and 1")
	}
	return nil
}

// Calculator implements the word-order-invariant three-set similarity
// calculation. Instances are immutable after construction and safe for
// concurrent use; per-call scratch state comes from pools.
type Calculator struct {
	config     SimilarityConfig
	logger     ports.Logger
	normalizer ports.Normalizer
}

// NewCalculator creates a new three-set similarity calculator.
func NewCalculator(config SimilarityConfig, logger ports.Logger, normalizer ports.Normalizer) (*Calculator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Calculator{
		config:     config,
		logger:     logger,
		normalizer: normalizer,
	}, nil
}

// word is a tokenized input word with its rune length precomputed.
type word struct {
	text  string
	runes int
}

// Compute calculates the similarity between two texts. The score is the
// ratio of matched word pairs to the average eligible word count, capped at
// 1.0. Two inputs with no eligible words at all score 1.0 by convention
// (nothing contradicts their similarity); if only one side has eligible
// words the score is 0. The function is total: every pair of strings
// produces a score, inputs beyond 255 characters merely lose the cheapness
// guarantee.
func (c *Calculator) Compute(ctx context.Context, first, second string) domain.Result {
	c.logger.Debug("Starting three-set similarity computation",
		"first", first,
		"second", second,
	)

	details := make(map[string]interface{})

	normalizedFirst := c.normalizer.Normalize(first)
	normalizedSecond := c.normalizer.Normalize(second)

	c.logger.Debug("Normalized texts",
		"normalizedFirst", normalizedFirst,
		"normalizedSecond", normalizedSecond,
	)

	// Check for context cancellation.
	select {
	case <-ctx.Done():
		c.logger.Error("Computation cancelled", "error", ctx.Err())
		details["error"] = "computation cancelled"
		return domain.Result{
			Name:    "threeset_similarity",
			Score:   0,
			Passed:  false,
			Details: details,
		}
	default:
		// continue
	}

	firstWords := tokenize(normalizedFirst, c.config.MinWordLength)
	secondWords := tokenize(normalizedSecond, c.config.MinWordLength)

	c.logger.Debug("Computed eligible word counts",
		"first_count", len(firstWords),
		"second_count", len(secondWords),
	)

	matches := c.matchPairs(ctx, firstWords, secondWords)

	pairBase := float64(len(firstWords)+len(secondWords)) / 2.0

	var score float64
	if pairBase == 0 {
		// Neither input carries any eligible word: vacuously similar.
		score = 1.0
		details["note"] = "no eligible words in either input"
	} else {
		score = math.Min(float64(matches)/pairBase, 1.0)
	}

	passed := score >= c.config.Threshold

	details["eligible_first"] = len(firstWords)
	details["eligible_second"] = len(secondWords)
	details["matched_pairs"] = matches
	details["threshold"] = c.config.Threshold

	c.logger.Debug("Computed three-set similarity",
		"score", score,
		"passed", passed,
		"details", details,
	)

	return domain.Result{
		Name:            "threeset_similarity",
		Score:           score,
		Passed:          passed,
		FirstWordCount:  len(firstWords),
		SecondWordCount: len(secondWords),
		MatchedPairs:    matches,
		Threshold:       c.config.Threshold,
		Details:         details,
	}
}

// tokenize splits a normalized text on whitespace and drops words below the
// minimum rune length.
func tokenize(text string, minWordLength int) []word {
	fields := strings.Fields(text)
	words := make([]word, 0, len(fields))
	for _, f := range fields {
		n := utf8.RuneCountInString(f)
		if n < minWordLength {
			continue
		}
		words = append(words, word{text: f, runes: n})
	}
	return words
}

// matchPairs counts the word pairs across the two inputs that qualify as
// matches, either by containment within the length delta or by character
// multiset similarity above the configured threshold.
func (c *Calculator) matchPairs(ctx context.Context, firstWords, secondWords []word) int {
	if len(firstWords) == 0 || len(secondWords) == 0 {
		return 0
	}

	left := getCounts()
	right := getCounts()
	defer putCounts(left)
	defer putCounts(right)

	matches := 0
	for _, w1 := range firstWords {
		select {
		case <-ctx.Done():
			return matches
		default:
		}

		counted := false
		for _, w2 := range secondWords {
			delta := w1.runes - w2.runes
			if delta < 0 {
				delta = -delta
			}

			if strings.Contains(w1.text, w2.text) || strings.Contains(w2.text, w1.text) {
				if delta <= c.config.MaxLengthDelta {
					matches++
				}
				continue
			}

			if !counted {
				left.fill(w1.text)
				counted = true
			}
			right.fill(w2.text)

			if pairSimilarity(left, right) > c.config.WordMatchThreshold {
				matches++
			}
		}
	}
	return matches
}
