// threeset_similarity.go
// Package threesetsimilarity computes a word-order-invariant similarity score
// between two short texts such as titles or headlines. Each input is
// transliterated, lowercased and split into words; every word pair across the
// two inputs is compared through its character multiset, and the ratio of
// matching pairs to the average word count becomes the final score in [0, 1].
// A score of 1 indicates the inputs share the same words (in any order, minor
// misspellings included), lower scores indicate less shared structure.
//
// Inputs are expected to stay at or below 255 characters. Longer inputs still
// compute a valid score, the operation just stops being cheap; the limit is
// advisory, not enforced.
//
// Two empty (or whitespace-only) inputs score 1.0 by convention: with no
// words on either side there is no evidence against similarity. This matches
// the behavior callers relied on in earlier deployments of the metric.
package threesetsimilarity

import (
	"context"

	"github.com/baditaflorin/go_threeset_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_threeset_similarity/internal/adapters/normalizer"
	"github.com/baditaflorin/go_threeset_similarity/internal/core/domain"
	"github.com/baditaflorin/go_threeset_similarity/internal/core/threeset"
	"github.com/baditaflorin/go_threeset_similarity/internal/ports"
	"github.com/baditaflorin/l"
)

// Comparator computes the word-order-invariant similarity metric. A
// Comparator holds no mutable state and is safe for concurrent use.
type Comparator struct {
	calculator ports.SimilarityCalculator
	logger     ports.Logger
}

// Option defines a functional option for configuring the Comparator.
type Option func(*comparatorConfig)

type comparatorConfig struct {
	Threshold          float64
	MinWordLength      int
	MaxLengthDelta     int
	WordMatchThreshold float64
	Logger             ports.Logger
	Normalizer         ports.Normalizer
}

// WithThreshold sets the final score required for a result to pass.
func WithThreshold(th float64) Option {
	return func(cfg *comparatorConfig) {
		cfg.Threshold = th
	}
}

// WithMinWordLength sets the minimum rune length for a word to participate.
func WithMinWordLength(n int) Option {
	return func(cfg *comparatorConfig) {
		cfg.MinWordLength = n
	}
}

// WithMaxLengthDelta sets the largest length difference at which containment
// still counts as a word match.
func WithMaxLengthDelta(delta int) Option {
	return func(cfg *comparatorConfig) {
		cfg.MaxLengthDelta = delta
	}
}

// WithWordMatchThreshold sets the per-pair character similarity required for
// two words to match.
func WithWordMatchThreshold(th float64) Option {
	return func(cfg *comparatorConfig) {
		cfg.WordMatchThreshold = th
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) Option {
	return func(cfg *comparatorConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithNormalizer sets a custom normalizer.
func WithNormalizer(n ports.Normalizer) Option {
	return func(cfg *comparatorConfig) {
		cfg.Normalizer = n
	}
}

// New creates a new Comparator with the provided functional options.
// If no logger is provided, a default logger is created.
func New(opts ...Option) (*Comparator, error) {
	defaultConfig := threeset.DefaultConfig()

	config := &comparatorConfig{
		Threshold:          defaultConfig.Threshold,
		MinWordLength:      defaultConfig.MinWordLength,
		MaxLengthDelta:     defaultConfig.MaxLengthDelta,
		WordMatchThreshold: defaultConfig.WordMatchThreshold,
	}

	for _, opt := range opts {
		opt(config)
	}

	if config.Logger == nil {
		var err error
		config.Logger, err = logger.NewStdLogger()
		if err != nil {
			return nil, err
		}
	}

	if config.Normalizer == nil {
		config.Normalizer = normalizer.NewDefaultNormalizer()
	}

	coreConfig := threeset.SimilarityConfig{
		Threshold:          config.Threshold,
		MinWordLength:      config.MinWordLength,
		MaxLengthDelta:     config.MaxLengthDelta,
		WordMatchThreshold: config.WordMatchThreshold,
	}
	calculator, err := threeset.NewCalculator(coreConfig, config.Logger, config.Normalizer)
	if err != nil {
		return nil, err
	}

	return &Comparator{
		calculator: calculator,
		logger:     config.Logger,
	}, nil
}

// Compute calculates the similarity between two texts and returns the full
// result, including word counts and pass/fail against the threshold.
func (c *Comparator) Compute(ctx context.Context, first, second string) domain.Result {
	return c.calculator.Compute(ctx, first, second)
}

// Similarity returns just the similarity score for two texts.
func (c *Comparator) Similarity(first, second string) float64 {
	return c.calculator.Compute(context.Background(), first, second).Score
}
