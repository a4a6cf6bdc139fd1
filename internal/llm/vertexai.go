package llm

import (
	"context"
	"fmt"

	"cloud.google.com/go/vertexai/genai"
)

// DefaultLocation is used when no Vertex AI region is configured
const DefaultLocation = "us-central1"

// VertexAIClient wraps the Vertex AI Gemini API
type VertexAIClient struct {
	client    *genai.Client
	model     *genai.GenerativeModel
	projectID string
	location  string
}

// NewVertexAIClient creates a Gemini client that answers in JSON
func NewVertexAIClient(ctx context.Context, projectID, location, modelName string) (*VertexAIClient, error) {
	if projectID == "" {
		return nil, fmt.Errorf("GOOGLE_CLOUD_PROJECT not set")
	}
	if location == "" {
		location = DefaultLocation
	}

	client, err := genai.NewClient(ctx, projectID, location)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}

	model := client.GenerativeModel(modelName)

	// Tagging must be reproducible
	model.SetTemperature(0)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(8192)
	model.ResponseMIMEType = "application/json"

	return &VertexAIClient{
		client:    client,
		model:     model,
		projectID: projectID,
		location:  location,
	}, nil
}

// GenerateContent sends a prompt to the model and returns the response
func (v *VertexAIClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	resp, err := v.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("no response candidates returned")
	}

	var result string
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			result += string(text)
		}
	}

	return result, nil
}

// Close closes the Vertex AI client
func (v *VertexAIClient) Close() error {
	return v.client.Close()
}
