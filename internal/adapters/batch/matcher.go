package batch

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"

	"github.com/baditaflorin/go_threeset_similarity/internal/core/domain"
	"github.com/baditaflorin/go_threeset_similarity/internal/ports"
)

// Constants for parallel matching
const (
	// DefaultWorkers is the default number of worker goroutines
	DefaultWorkers = 0 // 0 means use runtime.NumCPU()

	// MaxJobQueueSize limits the number of pending candidate jobs
	MaxJobQueueSize = 32
)

// Config holds configuration for the batch matcher.
type Config struct {
	// Workers is the number of concurrent scoring goroutines (0 = NumCPU).
	Workers int
	// MinScore drops candidates scoring below it from the ranking.
	MinScore float64
	// Limit caps the number of returned matches (0 = no limit).
	Limit int
}

// DefaultConfig returns a default configuration.
func DefaultConfig() Config {
	return Config{
		Workers:  DefaultWorkers,
		MinScore: 0,
		Limit:    0,
	}
}

// Validate checks if the configuration is valid.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return errors.New("minScore must be between 0 and 1")
	}
	if c.Limit < 0 {
		return errors.New("limit must not be negative")
	}
	return nil
}

// Matcher ranks a query against a list of candidate texts using a worker
// pool. The underlying calculator is stateless, so workers share it without
// coordination.
type Matcher struct {
	config     Config
	calculator ports.SimilarityCalculator
	logger     ports.Logger
}

// NewMatcher creates a new batch matcher.
func NewMatcher(config Config, calculator ports.SimilarityCalculator, logger ports.Logger) (*Matcher, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Matcher{
		config:     config,
		calculator: calculator,
		logger:     logger,
	}, nil
}

// Rank scores every candidate against the query and returns the matches
// sorted by descending score. Candidates below MinScore are dropped; ties
// keep their input order. A cancelled context stops scoring early and
// returns whatever was completed.
func (m *Matcher) Rank(ctx context.Context, query string, candidates []string) []domain.Match {
	if len(candidates) == 0 {
		return nil
	}

	workers := m.config.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	m.logger.Debug("Starting batch ranking",
		"candidates", len(candidates),
		"workers", workers,
	)

	jobs := make(chan int, MaxJobQueueSize)
	scored := make([]domain.Match, len(candidates))
	done := make([]bool, len(candidates))

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				select {
				case <-ctx.Done():
					return
				default:
				}

				result := m.calculator.Compute(ctx, query, candidates[idx])
				scored[idx] = domain.Match{
					Index:     idx,
					Candidate: candidates[idx],
					Score:     result.Score,
					Passed:    result.Passed,
				}
				done[idx] = true
			}
		}()
	}

feed:
	for idx := range candidates {
		select {
		case jobs <- idx:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	matches := make([]domain.Match, 0, len(candidates))
	for idx := range scored {
		if !done[idx] {
			continue
		}
		if scored[idx].Score < m.config.MinScore {
			continue
		}
		matches = append(matches, scored[idx])
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if m.config.Limit > 0 && len(matches) > m.config.Limit {
		matches = matches[:m.config.Limit]
	}

	m.logger.Debug("Batch ranking completed",
		"returned", len(matches),
	)

	return matches
}
