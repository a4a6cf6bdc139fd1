package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ayoubbkt/airecruitaipme/internal/nlp"
)

// ContentGenerator produces a text completion for a prompt
type ContentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// GeminiTagger asks a Gemini model for entity and part-of-speech annotations
type GeminiTagger struct {
	generator ContentGenerator
}

// NewGeminiTagger creates a tagger backed by the given generator
func NewGeminiTagger(generator ContentGenerator) *GeminiTagger {
	return &GeminiTagger{generator: generator}
}

type taggerResponse struct {
	Entities []nlp.Annotation `json:"entities"`
	Tokens   []nlp.Annotation `json:"tokens"`
}

// Tag returns entities first, then noun tokens, both in document order
func (g *GeminiTagger) Tag(ctx context.Context, text string) ([]nlp.Annotation, error) {
	raw, err := g.generator.GenerateContent(ctx, buildTaggingPrompt(text))
	if err != nil {
		return nil, nlp.Wrap("gemini tagging", err)
	}

	annotations, err := parseAnnotations(raw)
	if err != nil {
		return nil, nlp.Wrap("gemini tagging", err)
	}
	return annotations, nil
}

func buildTaggingPrompt(text string) string {
	return fmt.Sprintf(`You are a named-entity recognizer and part-of-speech tagger for résumés.
The text may be in English or French.

Return ONLY a JSON object with this structure:
{
  "entities": [{"text": "<span>", "label": "PERSON|ORG|LOC|DATE|OTHER"}],
  "tokens":   [{"text": "<word>", "label": "NOUN|PROPN"}]
}

Rules:
- "entities" lists named entities in document order.
- "tokens" lists every common noun (NOUN) and proper noun (PROPN) in document order.
- Copy spans exactly as they appear in the text.

TEXT:
%s`, text)
}

// parseAnnotations decodes a tagging response, tolerating markdown fences
func parseAnnotations(raw string) ([]nlp.Annotation, error) {
	raw = stripCodeFence(raw)

	var resp taggerResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		return nil, fmt.Errorf("failed to parse tagging response: %w", err)
	}

	annotations := make([]nlp.Annotation, 0, len(resp.Entities)+len(resp.Tokens))
	for _, ent := range resp.Entities {
		label := strings.ToUpper(strings.TrimSpace(ent.Label))
		if label != nlp.LabelPerson {
			label = nlp.LabelOther
		}
		annotations = append(annotations, nlp.Annotation{Text: strings.TrimSpace(ent.Text), Label: label})
	}
	for _, tok := range resp.Tokens {
		label := strings.ToUpper(strings.TrimSpace(tok.Label))
		switch label {
		case nlp.LabelNoun, nlp.LabelPropN:
		default:
			label = nlp.LabelOther
		}
		annotations = append(annotations, nlp.Annotation{Text: strings.TrimSpace(tok.Text), Label: label})
	}
	return annotations, nil
}

func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
