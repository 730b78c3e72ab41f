package normalizer

import (
	"strings"

	"github.com/baditaflorin/go_threeset_similarity/internal/ports"
	"github.com/mozillazg/go-unidecode"
)

// DefaultNormalizer implements the default text normalization strategy:
// transliterate to ASCII, then lowercase. Punctuation stays attached to its
// word; tokenization splits on whitespace only, and the containment rule in
// the calculator absorbs trailing punctuation differences.
type DefaultNormalizer struct{}

// NewDefaultNormalizer creates a new default normalizer.
func NewDefaultNormalizer() ports.Normalizer {
	return &DefaultNormalizer{}
}

// Normalize transliterates the input to ASCII and converts it to lower case.
func (n *DefaultNormalizer) Normalize(text string) string {
	return strings.ToLower(unidecode.Unidecode(text))
}
