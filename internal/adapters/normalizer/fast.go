package normalizer

import (
	"github.com/baditaflorin/go_threeset_similarity/internal/pool"
	"github.com/baditaflorin/go_threeset_similarity/internal/ports"
	"github.com/mozillazg/go-unidecode"
)

// FastNormalizer implements an optimized normalization strategy with a
// precomputed lowercase table and pooled output buffers. ASCII-only inputs
// never touch the transliterator.
type FastNormalizer struct {
	// Precomputed lowercase mapping for ASCII characters (0-127)
	asciiTable [128]byte

	bytePool *pool.BufferPool
}

// NewFastNormalizer creates a new fast normalizer.
func NewFastNormalizer() ports.Normalizer {
	n := &FastNormalizer{
		bytePool: pool.NewBufferPool(512), // short titles, one buffer is plenty
	}

	for i := 0; i < 128; i++ {
		b := byte(i)
		if b >= 'A' && b <= 'Z' {
			n.asciiTable[i] = b + ('a' - 'A')
		} else {
			n.asciiTable[i] = b
		}
	}

	return n
}

// Normalize transliterates non-ASCII input and lowercases the result.
func (n *FastNormalizer) Normalize(text string) string {
	if len(text) == 0 {
		return ""
	}

	asciiOnly := true
	for i := 0; i < len(text); i++ {
		if text[i] >= 128 {
			asciiOnly = false
			break
		}
	}

	if !asciiOnly {
		// Transliteration output is plain ASCII, so the fast path below
		// applies to it as well.
		text = unidecode.Unidecode(text)
	}

	buffer := n.bytePool.Get()
	defer n.bytePool.Put(buffer)

	if cap(*buffer) < len(text) {
		*buffer = make([]byte, 0, len(text))
	}
	*buffer = (*buffer)[:0]

	for i := 0; i < len(text); i++ {
		b := text[i]
		if b < 128 {
			*buffer = append(*buffer, n.asciiTable[b])
		} else {
			// Leftover non-ASCII byte from an incomplete transliteration
			// table entry; keep it untouched.
			*buffer = append(*buffer, b)
		}
	}

	return string(*buffer)
}

// NormalizerFactory creates the appropriate normalizer based on performance requirements
type NormalizerFactory struct{}

// NewNormalizerFactory creates a new normalizer factory
func NewNormalizerFactory() *NormalizerFactory {
	return &NormalizerFactory{}
}

// Type of normalizer to create
type NormalizerType int

const (
	// DefaultNormalizerType is the straightforward transliterating normalizer
	DefaultNormalizerType NormalizerType = iota
	// FastNormalizerType uses a precomputed table and pooled buffers
	FastNormalizerType
)

// CreateNormalizer creates a normalizer of the specified type
func (f *NormalizerFactory) CreateNormalizer(normalizerType NormalizerType) ports.Normalizer {
	switch normalizerType {
	case FastNormalizerType:
		return NewFastNormalizer()
	default:
		return NewDefaultNormalizer()
	}
}
