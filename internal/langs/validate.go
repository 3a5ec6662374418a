package langs

import (
	"fmt"
	"strings"
	"unicode"
)

// Verdict is the outcome of checking a candidate translation
type Verdict struct {
	Accepted bool
	Reason   string
}

// Accept is the verdict for acceptable text
func Accept() Verdict {
	return Verdict{Accepted: true}
}

// Reject builds a rejected verdict with a reason
func Reject(format string, args ...any) Verdict {
	return Verdict{Reason: fmt.Sprintf(format, args...)}
}

// Check decides whether text plausibly belongs to the entry's script family.
// It catches gross mismatches only; fluent output in the wrong Latin-script
// language passes.
func Check(e Entry, text string) Verdict {
	if strings.TrimSpace(text) == "" {
		return Accept()
	}

	switch e.Script {
	case ScriptCJK:
		return Accept()
	case ScriptArabic:
		if containsScript(text, unicode.Han) {
			return Reject("expected %s, output contains Han ideographs", e.PromptName)
		}
		if !containsScript(text, unicode.Arabic) {
			return Reject("expected %s, output has no Arabic script", e.PromptName)
		}
	case ScriptCyrillic:
		if containsScript(text, unicode.Han) {
			return Reject("expected %s, output contains Han ideographs", e.PromptName)
		}
		if !containsScript(text, unicode.Cyrillic) {
			return Reject("expected %s, output has no Cyrillic script", e.PromptName)
		}
	default:
		if containsScript(text, unicode.Han) {
			return Reject("expected %s, output contains Han ideographs", e.PromptName)
		}
	}

	return Accept()
}

func containsScript(text string, table *unicode.RangeTable) bool {
	for _, r := range text {
		if unicode.In(r, table) {
			return true
		}
	}
	return false
}
