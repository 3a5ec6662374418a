package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"

	"codeberg.org/snonux/sheetxlate/internal/translation"
)

// Catalog is the grouped model list of an endpoint
type Catalog struct {
	Chat  []string
	Other []string
}

// Lister handles listing available models
type Lister struct {
	cfg    translation.EndpointConfig
	client *openai.Client
}

// NewLister creates a new model lister for the endpoint
func NewLister(cfg translation.EndpointConfig) *Lister {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}

	return &Lister{
		cfg:    cfg,
		client: openai.NewClientWithConfig(clientConfig),
	}
}

// List fetches and groups the endpoint's models
func (l *Lister) List(ctx context.Context) (Catalog, error) {
	if l.cfg.Provider == translation.ProviderGemini {
		return Catalog{}, fmt.Errorf("model listing needs an OpenAI-compatible endpoint, provider is %s", l.cfg.Provider)
	}
	if l.cfg.APIKey == "" {
		return Catalog{}, fmt.Errorf("API key not found. Set DEEPSEEK_API_KEY (or OPENAI_API_KEY) or endpoint.api_key in .sheetxlate.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to list models: %w", err)
	}

	var catalog Catalog
	for _, model := range models.Models {
		if isChatModel(model.ID) {
			catalog.Chat = append(catalog.Chat, model.ID)
		} else {
			catalog.Other = append(catalog.Other, model.ID)
		}
	}

	sort.Strings(catalog.Chat)
	sort.Strings(catalog.Other)

	return catalog, nil
}

// ListAvailableModels prints the grouped model list to out
func (l *Lister) ListAvailableModels(ctx context.Context, out io.Writer) error {
	catalog, err := l.List(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Available models at %s:\n", l.cfg.BaseURL)

	fmt.Fprintln(out, "\nChat/Translation Models:")
	if len(catalog.Chat) == 0 {
		fmt.Fprintln(out, "  No chat models found")
	}
	for _, model := range catalog.Chat {
		marker := ""
		if model == l.cfg.Model {
			marker = " (configured)"
		}
		fmt.Fprintf(out, "  %s%s\n", model, marker)
	}

	if len(catalog.Other) > 0 {
		fmt.Fprintln(out, "\nOther Models:")
		for _, model := range catalog.Other {
			fmt.Fprintf(out, "  %s\n", model)
		}
	}

	return nil
}

func isChatModel(id string) bool {
	for _, hint := range []string{"chat", "gpt", "deepseek", "reasoner", "gemini"} {
		if strings.Contains(id, hint) {
			return !strings.Contains(id, "tts") && !strings.Contains(id, "audio") && !strings.Contains(id, "embedding")
		}
	}
	return false
}
