package nlp

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{name: "Identical", a: []float32{1, 2, 3}, b: []float32{1, 2, 3}, want: 1},
		{name: "Opposite", a: []float32{1, 0}, b: []float32{-1, 0}, want: -1},
		{name: "Orthogonal", a: []float32{1, 0}, b: []float32{0, 1}, want: 0},
		{name: "Zero vector", a: []float32{0, 0}, b: []float32{1, 1}, want: 0},
		{name: "Length mismatch", a: []float32{1, 0, 0}, b: []float32{1, 0}, want: 0},
		{name: "Empty", a: nil, b: nil, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestNGramEmbedderDeterministicAndNormalized(t *testing.T) {
	e := NewNGramEmbedder(0)
	assert.Equal(t, DefaultNGramDimension, e.Dimension())

	first, err := e.Embed(context.Background(), []string{"PostgreSQL", "postgresql"})
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.InDelta(t, 1.0, CosineSimilarity(first[0], first[1]), 1e-6)

	second, err := e.Embed(context.Background(), []string{"PostgreSQL"})
	require.NoError(t, err)
	assert.Equal(t, first[0], second[0])
}

func TestNGramEmbedderRanksCloseSpellingsHigher(t *testing.T) {
	e := NewNGramEmbedder(1024)
	vecs, err := e.Embed(context.Background(), []string{"kubernetes", "kubernetes admin", "accounting"})
	require.NoError(t, err)

	close := CosineSimilarity(vecs[0], vecs[1])
	far := CosineSimilarity(vecs[0], vecs[2])
	assert.Greater(t, close, far)
}

func TestNGramEmbedderEmptyText(t *testing.T) {
	e := NewNGramEmbedder(16)
	vecs, err := e.Embed(context.Background(), []string{""})
	require.NoError(t, err)
	assert.Len(t, vecs[0], 16)
	assert.Zero(t, CosineSimilarity(vecs[0], vecs[0]))
}

func TestNGramEmbedderHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewNGramEmbedder(8).Embed(ctx, []string{"go"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPosLabel(t *testing.T) {
	tests := map[string]string{
		"NN":   LabelNoun,
		"NNS":  LabelNoun,
		"NNP":  LabelPropN,
		"NNPS": LabelPropN,
		"VB":   LabelOther,
		"JJ":   LabelOther,
	}
	for tag, want := range tests {
		t.Run(tag, func(t *testing.T) {
			assert.Equal(t, want, posLabel(tag))
		})
	}
}

func TestProseTaggerTagsNouns(t *testing.T) {
	annotations, err := NewProseTagger().Tag(context.Background(), "She deployed Docker containers with Kubernetes.")
	require.NoError(t, err)

	var nouns []string
	for _, a := range annotations {
		if a.Label == LabelNoun || a.Label == LabelPropN {
			nouns = append(nouns, a.Text)
		}
	}
	assert.Contains(t, nouns, "containers")
}

func TestServiceCloseRunsClosersInReverse(t *testing.T) {
	var order []int
	svc := NewService(nil, nil,
		func() error { order = append(order, 1); return nil },
		func() error { order = append(order, 2); return errors.New("boom") },
	)

	err := svc.Close()
	assert.EqualError(t, err, "boom")
	assert.Equal(t, []int{2, 1}, order)

	// second close is a no-op
	assert.NoError(t, svc.Close())
}

func TestWrapMarksServiceFailure(t *testing.T) {
	cause := errors.New("unavailable")
	err := Wrap("embed", cause)

	assert.ErrorIs(t, err, ErrServiceFailure)
	assert.ErrorIs(t, err, cause)
	assert.Nil(t, Wrap("embed", nil))
}
