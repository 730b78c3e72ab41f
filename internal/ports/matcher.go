package ports

import (
	"context"
	"github.com/baditaflorin/go_threeset_similarity/internal/core/domain"
)

// Matcher defines the interface for ranking a query against candidate texts.
type Matcher interface {
	Rank(ctx context.Context, query string, candidates []string) []domain.Match
}
