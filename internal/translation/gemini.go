package translation

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GeminiCompleter talks to the Gemini API
type GeminiCompleter struct {
	client      *genai.Client
	model       string
	temperature float32
}

// NewGeminiCompleter creates a Gemini API client
func NewGeminiCompleter(ctx context.Context, cfg EndpointConfig) (*GeminiCompleter, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash"
	}

	return &GeminiCompleter{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

// Complete sends the system prompt as instruction and the user prompt as content
func (c *GeminiCompleter) Complete(ctx context.Context, prompt Prompt) (Completion, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(prompt.System, genai.RoleUser),
	}
	if c.temperature != 0 {
		config.Temperature = genai.Ptr(c.temperature)
	}

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt.User), config)
	if err != nil {
		return Completion{}, fmt.Errorf("gemini generate error: %w", err)
	}

	completion := Completion{Text: resp.Text()}
	if resp.UsageMetadata != nil {
		completion.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		completion.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}

	return completion, nil
}
