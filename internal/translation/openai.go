package translation

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAICompleter talks to an OpenAI-compatible chat completion endpoint
type OpenAICompleter struct {
	client      *openai.Client
	model       string
	temperature float32
}

// NewOpenAICompleter creates a completer for cfg.BaseURL; an empty base URL
// uses the OpenAI default
func NewOpenAICompleter(cfg EndpointConfig) *OpenAICompleter {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}

	return &OpenAICompleter{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		temperature: cfg.Temperature,
	}
}

// Complete sends the prompt as a system and a user message
func (c *OpenAICompleter) Complete(ctx context.Context, prompt Prompt) (Completion, error) {
	req := openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: prompt.System,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt.User,
			},
		},
		Temperature: c.temperature,
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return Completion{}, fmt.Errorf("chat completion error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Completion{}, fmt.Errorf("no completion returned")
	}

	return Completion{
		Text:         resp.Choices[0].Message.Content,
		InputTokens:  resp.Usage.PromptTokens,
		OutputTokens: resp.Usage.CompletionTokens,
	}, nil
}
