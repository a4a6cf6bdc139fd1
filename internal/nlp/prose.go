package nlp

import (
	"context"
	"strings"

	"github.com/jdkato/prose/v2"
)

// ProseTagger tags text locally with the prose statistical models
type ProseTagger struct{}

// NewProseTagger creates a local tagger
func NewProseTagger() *ProseTagger {
	return &ProseTagger{}
}

// Tag returns named entities first, then one annotation per token, each
// group in document order
func (p *ProseTagger) Tag(ctx context.Context, text string) ([]Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil, Wrap("prose tagging", err)
	}

	entities := doc.Entities()
	tokens := doc.Tokens()
	annotations := make([]Annotation, 0, len(entities)+len(tokens))

	for _, ent := range entities {
		label := LabelOther
		if ent.Label == "PERSON" {
			label = LabelPerson
		}
		annotations = append(annotations, Annotation{Text: ent.Text, Label: label})
	}

	for _, tok := range tokens {
		annotations = append(annotations, Annotation{Text: tok.Text, Label: posLabel(tok.Tag)})
	}

	return annotations, nil
}

// posLabel maps Penn Treebank tags to the universal noun labels
func posLabel(tag string) string {
	switch {
	case strings.HasPrefix(tag, "NNP"):
		return LabelPropN
	case strings.HasPrefix(tag, "NN"):
		return LabelNoun
	default:
		return LabelOther
	}
}
