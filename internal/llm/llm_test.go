package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ayoubbkt/airecruitaipme/internal/nlp"
)

type fakeGenerator struct {
	response string
	err      error
	prompt   string
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.response, f.err
}

// TestParseAnnotations tests decoding of tagging responses
func TestParseAnnotations(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []nlp.Annotation
		wantErr bool
	}{
		{
			name: "Plain JSON",
			raw:  `{"entities":[{"text":"Jean Dupont","label":"PERSON"},{"text":"Paris","label":"LOC"}],"tokens":[{"text":"Python","label":"PROPN"},{"text":"projects","label":"noun"}]}`,
			want: []nlp.Annotation{
				{Text: "Jean Dupont", Label: nlp.LabelPerson},
				{Text: "Paris", Label: nlp.LabelOther},
				{Text: "Python", Label: nlp.LabelPropN},
				{Text: "projects", Label: nlp.LabelNoun},
			},
		},
		{
			name: "Fenced JSON",
			raw:  "```json\n{\"entities\":[],\"tokens\":[{\"text\":\"Docker\",\"label\":\"VERB\"}]}\n```",
			want: []nlp.Annotation{{Text: "Docker", Label: nlp.LabelOther}},
		},
		{
			name:    "Invalid JSON",
			raw:     "not json",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseAnnotations(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGeminiTaggerWrapsFailures(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	_, err := NewGeminiTagger(gen).Tag(context.Background(), "text")
	assert.ErrorIs(t, err, nlp.ErrServiceFailure)

	gen = &fakeGenerator{response: "{broken"}
	_, err = NewGeminiTagger(gen).Tag(context.Background(), "text")
	assert.ErrorIs(t, err, nlp.ErrServiceFailure)
}

func TestGeminiTaggerSendsText(t *testing.T) {
	gen := &fakeGenerator{response: `{"entities":[{"text":"Marie Curie","label":"PERSON"}],"tokens":[]}`}
	got, err := NewGeminiTagger(gen).Tag(context.Background(), "Marie Curie, physicist")
	require.NoError(t, err)

	assert.Contains(t, gen.prompt, "Marie Curie, physicist")
	assert.Equal(t, []nlp.Annotation{{Text: "Marie Curie", Label: nlp.LabelPerson}}, got)
}

func TestParsePredictions(t *testing.T) {
	pred, err := structpb.NewValue(map[string]any{
		"embeddings": map[string]any{
			"values":     []any{0.5, -0.25, 1.0},
			"statistics": map[string]any{"token_count": 3.0},
		},
	})
	require.NoError(t, err)

	vectors, err := parsePredictions([]*structpb.Value{pred})
	require.NoError(t, err)
	assert.Equal(t, [][]float32{{0.5, -0.25, 1.0}}, vectors)
}

func TestParsePredictionsMissingValues(t *testing.T) {
	pred, err := structpb.NewValue(map[string]any{"other": "field"})
	require.NoError(t, err)

	_, err = parsePredictions([]*structpb.Value{pred})
	assert.Error(t, err)
}

func TestEmbeddingInstances(t *testing.T) {
	instances, err := embeddingInstances([]string{"Go", "Rust"})
	require.NoError(t, err)
	require.Len(t, instances, 2)
	assert.Equal(t, "Rust", instances[1].GetStructValue().GetFields()["content"].GetStringValue())
}
