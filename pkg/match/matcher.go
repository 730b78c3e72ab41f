// Package match ranks a query title against a list of candidate titles,
// the building block of a title-deduplication pipeline. Scoring uses the
// same word-order-invariant metric as the rest of the library and runs on a
// bounded worker pool.
package match

import (
	"context"

	"github.com/baditaflorin/go_threeset_similarity/internal/adapters/batch"
	"github.com/baditaflorin/go_threeset_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_threeset_similarity/internal/adapters/normalizer"
	"github.com/baditaflorin/go_threeset_similarity/internal/core/domain"
	"github.com/baditaflorin/go_threeset_similarity/internal/core/threeset"
	"github.com/baditaflorin/go_threeset_similarity/internal/ports"
	"github.com/baditaflorin/l"
)

// Matcher ranks candidates against a query. Instances are safe for
// concurrent use.
type Matcher struct {
	matcher ports.Matcher
	logger  ports.Logger
}

// MatcherOption defines a functional option for configuring the Matcher.
type MatcherOption func(*matcherConfig)

type matcherConfig struct {
	Similarity threeset.SimilarityConfig
	Batch      batch.Config
	Logger     ports.Logger
	Normalizer ports.Normalizer
}

// WithThreshold sets the similarity score a candidate needs to be flagged
// as passed.
func WithThreshold(th float64) MatcherOption {
	return func(cfg *matcherConfig) {
		cfg.Similarity.Threshold = th
	}
}

// WithWorkers sets the number of concurrent scoring goroutines (0 = NumCPU).
func WithWorkers(n int) MatcherOption {
	return func(cfg *matcherConfig) {
		cfg.Batch.Workers = n
	}
}

// WithMinScore drops candidates scoring below the given value.
func WithMinScore(min float64) MatcherOption {
	return func(cfg *matcherConfig) {
		cfg.Batch.MinScore = min
	}
}

// WithLimit caps the number of returned matches (0 = no limit).
func WithLimit(n int) MatcherOption {
	return func(cfg *matcherConfig) {
		cfg.Batch.Limit = n
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) MatcherOption {
	return func(cfg *matcherConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithNormalizer sets a custom normalizer.
func WithNormalizer(n ports.Normalizer) MatcherOption {
	return func(cfg *matcherConfig) {
		cfg.Normalizer = n
	}
}

// WithFastNormalizer sets the table-driven normalizer with pooled buffers.
func WithFastNormalizer() MatcherOption {
	return func(cfg *matcherConfig) {
		normFactory := normalizer.NewNormalizerFactory()
		cfg.Normalizer = normFactory.CreateNormalizer(normalizer.FastNormalizerType)
	}
}

// New creates a new Matcher instance.
func New(opts ...MatcherOption) (*Matcher, error) {
	config := &matcherConfig{
		Similarity: threeset.DefaultConfig(),
		Batch:      batch.DefaultConfig(),
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

	calculator, err := threeset.NewCalculator(config.Similarity, config.Logger, config.Normalizer)
	if err != nil {
		return nil, err
	}

	ranker, err := batch.NewMatcher(config.Batch, calculator, config.Logger)
	if err != nil {
		return nil, err
	}

	return &Matcher{
		matcher: ranker,
		logger:  config.Logger,
	}, nil
}

// Rank scores every candidate against the query and returns the matches
// sorted by descending score.
func (m *Matcher) Rank(ctx context.Context, query string, candidates []string) []domain.Match {
	return m.matcher.Rank(ctx, query, candidates)
}

// Best returns the highest-scoring match, if any candidate survived the
// minimum score filter.
func (m *Matcher) Best(ctx context.Context, query string, candidates []string) (domain.Match, bool) {
	matches := m.matcher.Rank(ctx, query, candidates)
	if len(matches) == 0 {
		return domain.Match{}, false
	}
	return matches[0], true
}
