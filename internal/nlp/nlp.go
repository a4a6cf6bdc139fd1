// Package nlp defines the entity tagging and text embedding capabilities the
// analysis pipeline consumes, plus local implementations of both.
package nlp

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Annotation labels
const (
	LabelPerson = "PERSON"
	LabelNoun   = "NOUN"
	LabelPropN  = "PROPN"
	LabelOther  = "OTHER"
)

// ErrServiceFailure marks any failure of a tagging or embedding backend
var ErrServiceFailure = errors.New("entity and embedding service failure")

// Annotation is a labelled span of text. Entities and part-of-speech tags
// share the same shape; a token may appear once per label.
type Annotation struct {
	Text  string `json:"text"`
	Label string `json:"label"`
}

// Tagger returns entity and part-of-speech annotations in document order
type Tagger interface {
	Tag(ctx context.Context, text string) ([]Annotation, error)
}

// Embedder returns one fixed-length vector per input text
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Service bundles a Tagger and an Embedder with a shared lifecycle.
// It is built once at startup and injected into the pipeline.
type Service struct {
	Tagger   Tagger
	Embedder Embedder

	closers []func() error
}

// NewService creates a service from the given backends. Closers run in
// reverse order on Close.
func NewService(tagger Tagger, embedder Embedder, closers ...func() error) *Service {
	return &Service{
		Tagger:   tagger,
		Embedder: embedder,
		closers:  closers,
	}
}

// Close releases the resources held by the backends
func (s *Service) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}

// Wrap tags err as a service failure
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w: %w", op, ErrServiceFailure, err)
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Mismatched lengths and zero vectors yield 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, sim))
}
