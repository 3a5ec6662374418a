package translation

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Providers understood by NewCompleter
const (
	ProviderDeepSeek = "deepseek"
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
)

// Prompt is the two-message request sent to the model
type Prompt struct {
	System string
	User   string
}

// Completion is the model reply with its token usage
type Completion struct {
	Text         string
	InputTokens  int
	OutputTokens int
}

// Completer sends one prompt to a model endpoint
type Completer interface {
	Complete(ctx context.Context, prompt Prompt) (Completion, error)
}

// EndpointConfig holds the remote endpoint settings
type EndpointConfig struct {
	Provider    string
	BaseURL     string
	Model       string
	APIKey      string
	Timeout     time.Duration
	// Temperature of 0 leaves sampling to the provider default
	Temperature float32
}

// DefaultEndpointConfig returns the DeepSeek chat endpoint settings
func DefaultEndpointConfig() EndpointConfig {
	return EndpointConfig{
		Provider: ProviderDeepSeek,
		BaseURL:  "https://api.deepseek.com",
		Model:    "deepseek-chat",
		Timeout:  30 * time.Second,
	}
}

// NewCompleter creates the completer for the configured provider
func NewCompleter(ctx context.Context, cfg EndpointConfig) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case ProviderDeepSeek, ProviderOpenAI, "":
		return NewOpenAICompleter(cfg), nil
	case ProviderGemini:
		return NewGeminiCompleter(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown endpoint provider: %s", cfg.Provider)
	}
}
