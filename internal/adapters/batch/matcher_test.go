package batch

import (
	"context"
	"strings"
	"testing"

	"github.com/baditaflorin/go_threeset_similarity/internal/core/threeset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testNormalizer struct{}

func (testNormalizer) Normalize(text string) string { return strings.ToLower(text) }

type testLogger struct{}

func (testLogger) Debug(msg string, keysAndValues ...interface{}) {}
func (testLogger) Info(msg string, keysAndValues ...interface{})  {}
func (testLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (testLogger) Error(msg string, keysAndValues ...interface{}) {}
func (testLogger) Close() error                                   { return nil }

func newTestMatcher(t *testing.T, config Config) *Matcher {
	t.Helper()
	calc, err := threeset.NewCalculator(threeset.DefaultConfig(), testLogger{}, testNormalizer{})
	require.NoError(t, err)
	m, err := NewMatcher(config, calc, testLogger{})
	require.NoError(t, err)
	return m
}

func TestRankOrdersByScore(t *testing.T) {
	m := newTestMatcher(t, DefaultConfig())

	query := "breaking market report today"
	candidates := []string{
		"weather forecast for tomorrow",
		"market report breaking today",
		"breaking market report",
	}

	matches := m.Rank(context.Background(), query, candidates)
	require.Len(t, matches, 3)

	assert.Equal(t, 1, matches[0].Index, "exact reordered candidate ranks first")
	assert.InDelta(t, 1.0, matches[0].Score, 1e-6)
	for i := 1; i < len(matches); i++ {
		assert.LessOrEqual(t, matches[i].Score, matches[i-1].Score)
	}
}

func TestRankMinScoreFilter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinScore = 0.5
	m := newTestMatcher(t, cfg)

	matches := m.Rank(context.Background(), "breaking market report", []string{
		"breaking market report",
		"completely unrelated words",
	})

	require.Len(t, matches, 1)
	assert.Equal(t, 0, matches[0].Index)
}

func TestRankLimit(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Limit = 2
	m := newTestMatcher(t, cfg)

	matches := m.Rank(context.Background(), "title one", []string{
		"title one", "title two", "title three", "title four",
	})

	assert.Len(t, matches, 2)
}

func TestRankSingleWorker(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Workers = 1
	m := newTestMatcher(t, cfg)

	matches := m.Rank(context.Background(), "cat dog", []string{"dog cat", "xyz abc"})
	require.Len(t, matches, 2)
	assert.Equal(t, 0, matches[0].Index)
}

func TestRankEmptyCandidates(t *testing.T) {
	m := newTestMatcher(t, DefaultConfig())

	assert.Nil(t, m.Rank(context.Background(), "query", nil))
}

func TestRankStableTieOrder(t *testing.T) {
	m := newTestMatcher(t, DefaultConfig())

	// Both candidates score 1.0; input order must be preserved.
	matches := m.Rank(context.Background(), "cat dog", []string{"dog cat", "cat dog"})
	require.Len(t, matches, 2)
	assert.Equal(t, 0, matches[0].Index)
	assert.Equal(t, 1, matches[1].Index)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "Negative workers", mutate: func(c *Config) { c.Workers = -1 }},
		{name: "MinScore above one", mutate: func(c *Config) { c.MinScore = 1.5 }},
		{name: "Negative limit", mutate: func(c *Config) { c.Limit = -2 }},
	}

	calc, err := threeset.NewCalculator(threeset.DefaultConfig(), testLogger{}, testNormalizer{})
	require.NoError(t, err)

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			_, err := NewMatcher(cfg, calc, testLogger{})
			assert.Error(t, err)
		})
	}
}
