package translation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"codeberg.org/snonux/sheetxlate/internal/langs"
)

const systemPromptFormat = "You are a professional technical translator. Translate to %s. Return ONLY the translation."

// Result is one translated segment with its usage and validation verdict
type Result struct {
	Text         string
	InputTokens  int
	OutputTokens int
	Verdict      langs.Verdict
}

// Translator translates segments into registry languages
type Translator struct {
	completer Completer
	registry  *langs.Registry
	timeout   time.Duration
}

// NewTranslator creates a new translator. A zero timeout means no per-call limit.
func NewTranslator(completer Completer, registry *langs.Registry, timeout time.Duration) *Translator {
	return &Translator{
		completer: completer,
		registry:  registry,
		timeout:   timeout,
	}
}

// SystemPrompt returns the instruction naming the target language
func SystemPrompt(e langs.Entry) string {
	return fmt.Sprintf(systemPromptFormat, e.PromptName)
}

// Translate sends text to the endpoint for the labelled language. A reply in
// the wrong script is returned with a rejected verdict, not an error.
func (t *Translator) Translate(ctx context.Context, text, label string) (Result, error) {
	entry, err := t.registry.Lookup(label)
	if err != nil {
		return Result{}, err
	}

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	completion, err := t.completer.Complete(ctx, Prompt{
		System: SystemPrompt(entry),
		User:   text,
	})
	if err != nil {
		return Result{}, fmt.Errorf("translate to %s: %w", entry.PromptName, err)
	}

	translated := strings.TrimSpace(completion.Text)
	return Result{
		Text:         translated,
		InputTokens:  completion.InputTokens,
		OutputTokens: completion.OutputTokens,
		Verdict:      langs.Check(entry, translated),
	}, nil
}
