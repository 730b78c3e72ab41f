package warmup

import (
	"context"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/baditaflorin/go_threeset_similarity/internal/ports"
)

// WarmupConfig defines configuration for warming up the system
type WarmupConfig struct {
	// Number of concurrent warmup routines to run
	Concurrency int
	// Number of iterations per routine
	Iterations int
	// Sample text size for warmup
	SampleTextSize int
	// Warmup duration (0 means no time limit)
	Duration time.Duration
	// Whether to perform GC after warmup
	ForceGC bool
}

// DefaultWarmupConfig returns the default warmup configuration
func DefaultWarmupConfig() WarmupConfig {
	return WarmupConfig{
		Concurrency:    runtime.NumCPU(),
		Iterations:     1000,
		SampleTextSize: 255, // the advisory input bound; warm with what production sees
		Duration:       5 * time.Second,
		ForceGC:        true,
	}
}

// Manager handles system warmup operations. Warming up fills the character
// count and buffer pools and gets the transliteration tables paged in before
// the first real request.
type Manager struct {
	logger      ports.Logger
	calculators []ports.SimilarityCalculator
	normalizers []ports.Normalizer
	config      WarmupConfig
}

// NewManager creates a new warmup manager
func NewManager(logger ports.Logger, config WarmupConfig) *Manager {
	return &Manager{
		logger: logger,
		config: config,
	}
}

// RegisterCalculator adds a calculator to be warmed up
func (wm *Manager) RegisterCalculator(calc ports.SimilarityCalculator) {
	wm.calculators = append(wm.calculators, calc)
}

// RegisterNormalizer adds a normalizer to be warmed up
func (wm *Manager) RegisterNormalizer(norm ports.Normalizer) {
	wm.normalizers = append(wm.normalizers, norm)
}

// WarmUp runs the warmup process for all registered components
func (wm *Manager) WarmUp(ctx context.Context) {
	startTime := time.Now()
	wm.logger.Info("Starting system warmup",
		"components", len(wm.calculators)+len(wm.normalizers),
		"concurrency", wm.config.Concurrency,
		"iterations", wm.config.Iterations,
	)

	var warmupCtx context.Context
	var cancel context.CancelFunc
	if wm.config.Duration > 0 {
		warmupCtx, cancel = context.WithTimeout(ctx, wm.config.Duration)
		defer cancel()
	} else {
		warmupCtx = ctx
	}

	wm.warmUpNormalizers(warmupCtx)
	wm.warmUpCalculators(warmupCtx)

	if wm.config.ForceGC {
		wm.logger.Debug("Forcing garbage collection after warmup")
		runtime.GC()
	}

	wm.logger.Info("System warmup completed",
		"duration", time.Since(startTime),
	)
}

// warmUpNormalizers runs warmup for all registered normalizers
func (wm *Manager) warmUpNormalizers(ctx context.Context) {
	if len(wm.normalizers) == 0 {
		return
	}

	wm.logger.Debug("Warming up normalizers", "count", len(wm.normalizers))

	ascii := generateSampleTitle(wm.config.SampleTextSize, false)
	accented := generateSampleTitle(wm.config.SampleTextSize, true)

	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < wm.config.Iterations; j++ {
				select {
				case <-ctx.Done():
					return
				default:
				}

				for _, normalizer := range wm.normalizers {
					_ = normalizer.Normalize(ascii)
					_ = normalizer.Normalize(accented)
				}
			}
		}()
	}

	wg.Wait()
}

// warmUpCalculators runs warmup for all registered calculators
func (wm *Manager) warmUpCalculators(ctx context.Context) {
	if len(wm.calculators) == 0 {
		return
	}

	wm.logger.Debug("Warming up calculators", "count", len(wm.calculators))

	original := generateSampleTitle(wm.config.SampleTextSize, false)
	reordered := reorderWords(original)
	different := generateSampleTitle(wm.config.SampleTextSize, true)

	var wg sync.WaitGroup
	for i := 0; i < wm.config.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < wm.config.Iterations; j++ {
				select {
				case <-ctx.Done():
					return
				default:
				}

				for _, calculator := range wm.calculators {
					// Alternate between identical, reordered and unrelated pairs
					switch j % 3 {
					case 0:
						_ = calculator.Compute(ctx, original, original)
					case 1:
						_ = calculator.Compute(ctx, original, reordered)
					default:
						_ = calculator.Compute(ctx, original, different)
					}
				}
			}
		}()
	}

	wg.Wait()
}

// Helper functions for generating test data

// generateSampleTitle creates a title-like text of the specified size. With
// accented set, the text contains non-ASCII characters so the
// transliteration path gets exercised too.
func generateSampleTitle(size int, accented bool) string {
	words := []string{
		"breaking", "market", "report", "quarterly", "update", "review",
		"launch", "announces", "global", "summit", "record", "results",
	}
	if accented {
		words = []string{
			"café", "naïve", "résumé", "jalapeño", "über", "crème",
			"señor", "fiancée", "cliché", "déjà", "piñata", "façade",
		}
	}

	var sb strings.Builder
	for i := 0; sb.Len() < size; i++ {
		if i > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(words[i%len(words)])
	}

	result := sb.String()
	if len(result) > size {
		return result[:size]
	}
	return result
}

// reorderWords reverses the word order, keeping the word set intact.
func reorderWords(text string) string {
	words := strings.Fields(text)
	for i, j := 0, len(words)-1; i < j; i, j = i+1, j-1 {
		words[i], words[j] = words[j], words[i]
	}
	return strings.Join(words, " ")
}
