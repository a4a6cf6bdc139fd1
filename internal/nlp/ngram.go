package nlp

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
)

// DefaultNGramDimension is the vector size of the local embedder
const DefaultNGramDimension = 512

// NGramEmbedder hashes character trigrams into a fixed-size vector.
// It needs no model download and is deterministic, which makes it the
// offline default; its notion of similarity is lexical, not semantic.
type NGramEmbedder struct {
	dimension int
}

// NewNGramEmbedder creates an embedder producing vectors of the given size
func NewNGramEmbedder(dimension int) *NGramEmbedder {
	if dimension <= 0 {
		dimension = DefaultNGramDimension
	}
	return &NGramEmbedder{dimension: dimension}
}

// Dimension returns the length of produced vectors
func (e *NGramEmbedder) Dimension() int { return e.dimension }

// Embed returns one L2-normalized vector per text
func (e *NGramEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		vectors[i] = e.embed(text)
	}
	return vectors, nil
}

func (e *NGramEmbedder) embed(text string) []float32 {
	vec := make([]float32, e.dimension)

	for _, word := range strings.Fields(strings.ToLower(text)) {
		runes := []rune("#" + word + "#")
		if len(runes) < 3 {
			continue
		}
		for i := 0; i+3 <= len(runes); i++ {
			h := fnv.New32a()
			h.Write([]byte(string(runes[i : i+3])))
			vec[h.Sum32()%uint32(e.dimension)]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec
}
