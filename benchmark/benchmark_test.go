package benchmark

import (
	"context"
	"strings"
	"testing"

	threesetsimilarity "github.com/baditaflorin/go_threeset_similarity"
	"github.com/baditaflorin/go_threeset_similarity/internal/adapters/normalizer"
	"github.com/baditaflorin/go_threeset_similarity/pkg/match"
	"github.com/baditaflorin/go_threeset_similarity/pkg/threeset"
)

// generateTitle creates a title-like text of roughly the specified size.
func generateTitle(size int) string {
	words := []string{
		"breaking", "market", "report", "quarterly", "update", "review",
		"launch", "announces", "global", "summit", "record", "results",
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

// BenchmarkSimilarity measures the comparator on typical short inputs.
func BenchmarkSimilarity(b *testing.B) {
	comparator, err := threesetsimilarity.New()
	if err != nil {
		b.Fatal(err)
	}

	first := "Comparing two strings with an order invariant metric"
	second := "Comparing two strings with a metric invariant to word reordering"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = comparator.Similarity(first, second)
	}
}

// BenchmarkSimilarityTransliterated measures the comparator on non-ASCII
// input that goes through the transliteration path.
func BenchmarkSimilarityTransliterated(b *testing.B) {
	comparator, err := threesetsimilarity.New()
	if err != nil {
		b.Fatal(err)
	}

	first := "Сравнеие двух строк с помощью инвариантной метрики"
	second := "Сравнеие двух строк с помощью метрики, инвариантной к перестановке слов"

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = comparator.Similarity(first, second)
	}
}

// BenchmarkSimilarityBoundary measures the comparator at the 255-character
// advisory input bound.
func BenchmarkSimilarityBoundary(b *testing.B) {
	comparator, err := threeset.New(threeset.WithFastNormalizer())
	if err != nil {
		b.Fatal(err)
	}

	first := generateTitle(255)
	second := generateTitle(255)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = comparator.Compute(ctx, first, second)
	}
}

// BenchmarkNormalizers compares the normalizer implementations.
func BenchmarkNormalizers(b *testing.B) {
	factory := normalizer.NewNormalizerFactory()
	ascii := generateTitle(255)
	accented := "Café Crème Señor Déjà " + generateTitle(200)

	benchmarks := []struct {
		name string
		typ  normalizer.NormalizerType
	}{
		{name: "Default", typ: normalizer.DefaultNormalizerType},
		{name: "Fast", typ: normalizer.FastNormalizerType},
	}

	for _, bm := range benchmarks {
		n := factory.CreateNormalizer(bm.typ)

		b.Run(bm.name+"/ASCII", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = n.Normalize(ascii)
			}
		})

		b.Run(bm.name+"/Accented", func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				_ = n.Normalize(accented)
			}
		})
	}
}

// BenchmarkMatcherRank measures ranking a query against a candidate list.
func BenchmarkMatcherRank(b *testing.B) {
	m, err := match.New(match.WithFastNormalizer())
	if err != nil {
		b.Fatal(err)
	}

	query := "breaking market report today"
	candidates := make([]string, 100)
	for i := range candidates {
		candidates[i] = generateTitle(60 + i%40)
	}
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = m.Rank(ctx, query, candidates)
	}
}
