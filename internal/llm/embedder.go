package llm

import (
	"context"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/genai"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/ayoubbkt/airecruitaipme/internal/nlp"
)

// VertexEmbedder calls a Vertex AI text-embedding model
type VertexEmbedder struct {
	client   *aiplatform.PredictionClient
	endpoint string
}

// NewVertexEmbedder creates a prediction client for a publisher embedding model
func NewVertexEmbedder(ctx context.Context, projectID, location, modelName string) (*VertexEmbedder, error) {
	if projectID == "" {
		return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT not set")
	}
	if location == "" {
		location = DefaultLocation
	}

	apiEndpoint := fmt.Sprintf("%s-aiplatform.googleapis.com:443", location)
	client, err := aiplatform.NewPredictionClient(ctx, option.WithEndpoint(apiEndpoint))
	if err != nil {
		return nil, fmt.Errorf("failed to create prediction client: %w", err)
	}

	return &VertexEmbedder{
		client:   client,
		endpoint: fmt.Sprintf("projects/%s/locations/%s/publishers/google/models/%s", projectID, location, modelName),
	}, nil
}

// Embed returns one vector per text
func (v *VertexEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	instances, err := embeddingInstances(texts)
	if err != nil {
		return nil, nlp.Wrap("vertex embedding", err)
	}

	resp, err := v.client.Predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:  v.endpoint,
		Instances: instances,
	})
	if err != nil {
		return nil, nlp.Wrap("vertex embedding", err)
	}

	vectors, err := parsePredictions(resp.GetPredictions())
	if err != nil {
		return nil, nlp.Wrap("vertex embedding", err)
	}
	if len(vectors) != len(texts) {
		return nil, nlp.Wrap("vertex embedding", fmt.Errorf("expected %d embeddings, got %d", len(texts), len(vectors)))
	}
	return vectors, nil
}

// Close closes the prediction client
func (v *VertexEmbedder) Close() error {
	return v.client.Close()
}

func embeddingInstances(texts []string) ([]*structpb.Value, error) {
	instances := make([]*structpb.Value, 0, len(texts))
	for _, text := range texts {
		s, err := structpb.NewStruct(map[string]any{"content": text})
		if err != nil {
			return nil, fmt.Errorf("failed to build instance: %w", err)
		}
		instances = append(instances, structpb.NewStructValue(s))
	}
	return instances, nil
}

// parsePredictions reads embeddings.values from each prediction
func parsePredictions(predictions []*structpb.Value) ([][]float32, error) {
	vectors := make([][]float32, 0, len(predictions))
	for i, pred := range predictions {
		embeddings := pred.GetStructValue().GetFields()["embeddings"]
		values := embeddings.GetStructValue().GetFields()["values"].GetListValue().GetValues()
		if len(values) == 0 {
			return nil, fmt.Errorf("prediction %d has no embedding values", i)
		}

		vec := make([]float32, len(values))
		for j, v := range values {
			vec[j] = float32(v.GetNumberValue())
		}
		vectors = append(vectors, vec)
	}
	return vectors, nil
}

// GenAIEmbedder calls the Gemini API embedding endpoint
type GenAIEmbedder struct {
	client *genai.Client
	model  string
}

// NewGenAIEmbedder creates an embedder for the Gemini API
func NewGenAIEmbedder(ctx context.Context, apiKey, modelName string) (*GenAIEmbedder, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY not set")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GenAIEmbedder{client: client, model: modelName}, nil
}

// Embed returns one vector per text
func (g *GenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	contents := make([]*genai.Content, 0, len(texts))
	for _, text := range texts {
		contents = append(contents, genai.Text(text)...)
	}

	resp, err := g.client.Models.EmbedContent(ctx, g.model, contents, nil)
	if err != nil {
		return nil, nlp.Wrap("gemini embedding", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, nlp.Wrap("gemini embedding", fmt.Errorf("expected %d embeddings, got %d", len(texts), len(resp.Embeddings)))
	}

	vectors := make([][]float32, len(resp.Embeddings))
	for i, emb := range resp.Embeddings {
		vectors[i] = emb.Values
	}
	return vectors, nil
}
