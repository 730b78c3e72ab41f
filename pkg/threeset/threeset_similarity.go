package threeset

import (
	"context"

	"github.com/baditaflorin/go_threeset_similarity/internal/adapters/logger"
	"github.com/baditaflorin/go_threeset_similarity/internal/adapters/normalizer"
	"github.com/baditaflorin/go_threeset_similarity/internal/core/domain"
	coreset "github.com/baditaflorin/go_threeset_similarity/internal/core/threeset"
	"github.com/baditaflorin/go_threeset_similarity/internal/ports"
	"github.com/baditaflorin/go_threeset_similarity/internal/warmup"
	"github.com/baditaflorin/l"
)

// Comparator provides the word-order-invariant similarity metric with the
// performance-oriented options (fast normalizer, warmup) exposed.
type Comparator struct {
	calculator ports.SimilarityCalculator
	logger     ports.Logger
	normalizer ports.Normalizer
	warmed     bool
}

// ComparatorOption defines a functional option for configuring the Comparator.
type ComparatorOption func(*comparatorConfig)

type comparatorConfig struct {
	Threshold          float64
	MinWordLength      int
	MaxLengthDelta     int
	WordMatchThreshold float64
	Logger             ports.Logger
	Normalizer         ports.Normalizer
	WarmUp             bool
	WarmUpConfig       warmup.WarmupConfig
}

// WithThreshold sets the final score required for a result to pass.
func WithThreshold(th float64) ComparatorOption {
	return func(cfg *comparatorConfig) {
		cfg.Threshold = th
	}
}

// WithMinWordLength sets the minimum rune length for a word to participate.
func WithMinWordLength(n int) ComparatorOption {
	return func(cfg *comparatorConfig) {
		cfg.MinWordLength = n
	}
}

// WithMaxLengthDelta sets the largest length difference at which containment
// still counts as a word match.
func WithMaxLengthDelta(delta int) ComparatorOption {
	return func(cfg *comparatorConfig) {
		cfg.MaxLengthDelta = delta
	}
}

// WithWordMatchThreshold sets the per-pair character similarity required for
// two words to match.
func WithWordMatchThreshold(th float64) ComparatorOption {
	return func(cfg *comparatorConfig) {
		cfg.WordMatchThreshold = th
	}
}

// WithLogger sets a custom logger.
func WithLogger(lg l.Logger) ComparatorOption {
	return func(cfg *comparatorConfig) {
		cfg.Logger = logger.FromExisting(lg)
	}
}

// WithNormalizer sets a custom normalizer.
func WithNormalizer(n ports.Normalizer) ComparatorOption {
	return func(cfg *comparatorConfig) {
		cfg.Normalizer = n
	}
}

// WithFastNormalizer sets the table-driven normalizer with pooled buffers.
func WithFastNormalizer() ComparatorOption {
	return func(cfg *comparatorConfig) {
		normFactory := normalizer.NewNormalizerFactory()
		cfg.Normalizer = normFactory.CreateNormalizer(normalizer.FastNormalizerType)
	}
}

// WithWarmUp enables system warm-up on initialization.
func WithWarmUp(enable bool) ComparatorOption {
	return func(cfg *comparatorConfig) {
		cfg.WarmUp = enable
	}
}

// WithWarmUpConfig sets a custom warm-up configuration.
func WithWarmUpConfig(warmupConfig warmup.WarmupConfig) ComparatorOption {
	return func(cfg *comparatorConfig) {
		cfg.WarmUpConfig = warmupConfig
		cfg.WarmUp = true
	}
}

// New creates a new Comparator instance.
func New(opts ...ComparatorOption) (*Comparator, error) {
	defaultConfig := coreset.DefaultConfig()

	config := &comparatorConfig{
		Threshold:          defaultConfig.Threshold,
		MinWordLength:      defaultConfig.MinWordLength,
		MaxLengthDelta:     defaultConfig.MaxLengthDelta,
		WordMatchThreshold: defaultConfig.WordMatchThreshold,
		WarmUpConfig:       warmup.DefaultWarmupConfig(),
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

	coreConfig := coreset.SimilarityConfig{
		Threshold:          config.Threshold,
		MinWordLength:      config.MinWordLength,
		MaxLengthDelta:     config.MaxLengthDelta,
		WordMatchThreshold: config.WordMatchThreshold,
	}
	calculator, err := coreset.NewCalculator(coreConfig, config.Logger, config.Normalizer)
	if err != nil {
		return nil, err
	}

	c := &Comparator{
		calculator: calculator,
		logger:     config.Logger,
		normalizer: config.Normalizer,
	}

	if config.WarmUp {
		manager := warmup.NewManager(config.Logger, config.WarmUpConfig)
		manager.RegisterCalculator(calculator)
		manager.RegisterNormalizer(config.Normalizer)
		manager.WarmUp(context.Background())
		c.warmed = true
	}

	return c, nil
}

// Compute calculates the similarity between two texts.
func (c *Comparator) Compute(ctx context.Context, first, second string) domain.Result {
	return c.calculator.Compute(ctx, first, second)
}

// Warmed reports whether the instance was warmed up during construction.
func (c *Comparator) Warmed() bool {
	return c.warmed
}
