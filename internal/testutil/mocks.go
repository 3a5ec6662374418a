package testutil

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"codeberg.org/snonux/sheetxlate/internal/translation"
)

// MockCompleter is a concurrency-safe translation.Completer for tests
type MockCompleter struct {
	// Respond builds the reply for a prompt; nil returns a canned reply
	Respond func(prompt translation.Prompt) (translation.Completion, error)

	mu    sync.Mutex
	calls []translation.Prompt
}

// Complete records the prompt and returns Respond's reply
func (m *MockCompleter) Complete(ctx context.Context, prompt translation.Prompt) (translation.Completion, error) {
	m.mu.Lock()
	m.calls = append(m.calls, prompt)
	m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return translation.Completion{}, err
	}

	if m.Respond != nil {
		return m.Respond(prompt)
	}

	return translation.Completion{
		Text:         fmt.Sprintf("mock translation of %s", prompt.User),
		InputTokens:  10,
		OutputTokens: 5,
	}, nil
}

// Calls returns a copy of the recorded prompts
func (m *MockCompleter) Calls() []translation.Prompt {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]translation.Prompt, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many prompts were sent
func (m *MockCompleter) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// CallsFor counts prompts whose text and target language match
func (m *MockCompleter) CallsFor(text, promptName string) int {
	count := 0
	for _, p := range m.Calls() {
		if p.User == text && strings.Contains(p.System, "Translate to "+promptName+".") {
			count++
		}
	}
	return count
}

// TargetOf extracts the prompt name of the target language from a system prompt
func TargetOf(prompt translation.Prompt) string {
	const marker = "Translate to "
	i := strings.Index(prompt.System, marker)
	if i < 0 {
		return ""
	}
	rest := prompt.System[i+len(marker):]
	if j := strings.Index(rest, "."); j >= 0 {
		return rest[:j]
	}
	return rest
}

// ScriptedReplies maps target prompt names to fixed replies; unknown targets get
// a Latin-script reply with the given token counts
func ScriptedReplies(replies map[string]string, in, out int) func(translation.Prompt) (translation.Completion, error) {
	return func(p translation.Prompt) (translation.Completion, error) {
		text, ok := replies[TargetOf(p)]
		if !ok {
			text = fmt.Sprintf("%s [%s]", p.User, TargetOf(p))
		}
		return translation.Completion{Text: text, InputTokens: in, OutputTokens: out}, nil
	}
}
