package langs

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// ErrUnknownLanguage is returned when a display label is not configured
var ErrUnknownLanguage = errors.New("unknown language")

// ScriptRule selects the script-family check applied to a language's output
type ScriptRule int

const (
	// ScriptAny has no positive signature; only Han ideographs are rejected
	ScriptAny ScriptRule = iota
	// ScriptArabic requires at least one Arabic-range character
	ScriptArabic
	// ScriptCyrillic requires at least one Cyrillic character
	ScriptCyrillic
	// ScriptCJK tolerates Han, kana and Latin mixed together
	ScriptCJK
)

// String returns a readable name for the rule
func (s ScriptRule) String() string {
	switch s {
	case ScriptArabic:
		return "arabic"
	case ScriptCyrillic:
		return "cyrillic"
	case ScriptCJK:
		return "cjk"
	default:
		return "any"
	}
}

// Entry describes one target language
type Entry struct {
	// Label is the column header shown to operators
	Label string
	// PromptName is the canonical English name used inside model instructions
	PromptName string
	// Tag is the BCP-47 tag of the language
	Tag    language.Tag
	Script ScriptRule
	// PassThrough marks the source text's own language; it is copied, never translated
	PassThrough bool
}

var catalog = []Entry{
	{Label: "English", PromptName: "English", Tag: language.English, PassThrough: true},
	{Label: "French", PromptName: "French", Tag: language.French},
	{Label: "German", PromptName: "German", Tag: language.German},
	{Label: "Italian", PromptName: "Italian", Tag: language.Italian},
	{Label: "Spanish", PromptName: "Spanish", Tag: language.Spanish},
	{Label: "Russian", PromptName: "Russian", Tag: language.Russian, Script: ScriptCyrillic},
	{Label: "Portuguese", PromptName: "Portuguese", Tag: language.Portuguese},
	{Label: "Czech", PromptName: "Czech", Tag: language.Czech},
	{Label: "Japanese", PromptName: "Japanese", Tag: language.Japanese, Script: ScriptCJK},
	{Label: "Slovak", PromptName: "Slovak", Tag: language.Slovak},
	{Label: "Polish", PromptName: "Polish", Tag: language.Polish},
	{Label: "Hungarian", PromptName: "Hungarian", Tag: language.Hungarian},
	{Label: "Dutch", PromptName: "Dutch", Tag: language.Dutch},
	{Label: "Ukrainian", PromptName: "Ukrainian", Tag: language.Ukrainian, Script: ScriptCyrillic},
	{Label: "Arabic", PromptName: "Arabic", Tag: language.Arabic, Script: ScriptArabic},
}

// Catalog returns the built-in language entries in their default order
func Catalog() []Entry {
	out := make([]Entry, len(catalog))
	copy(out, catalog)
	return out
}

// Registry is the immutable, ordered set of languages configured for a run
type Registry struct {
	entries []Entry
	byLabel map[string]int
}

// NewRegistry selects the given labels from the catalog, keeping their order.
// An empty list selects the whole catalog.
func NewRegistry(labels []string) (*Registry, error) {
	if len(labels) == 0 {
		return newRegistry(Catalog())
	}

	known := make(map[string]Entry, len(catalog))
	for _, e := range catalog {
		known[strings.ToLower(e.Label)] = e
	}

	entries := make([]Entry, 0, len(labels))
	for _, label := range labels {
		e, ok := known[strings.ToLower(strings.TrimSpace(label))]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, label)
		}
		entries = append(entries, e)
	}

	return newRegistry(entries)
}

// NewRegistryFromEntries builds a registry from custom entries
func NewRegistryFromEntries(entries []Entry) (*Registry, error) {
	out := make([]Entry, len(entries))
	copy(out, entries)
	return newRegistry(out)
}

func newRegistry(entries []Entry) (*Registry, error) {
	r := &Registry{
		entries: entries,
		byLabel: make(map[string]int, len(entries)),
	}

	passThrough := 0
	for i, e := range entries {
		if e.Label == "" {
			return nil, fmt.Errorf("language entry %d has no label", i)
		}
		if _, dup := r.byLabel[e.Label]; dup {
			return nil, fmt.Errorf("language %q configured twice", e.Label)
		}
		if e.PassThrough {
			passThrough++
		}
		r.byLabel[e.Label] = i
	}
	if passThrough > 1 {
		return nil, fmt.Errorf("only one pass-through language allowed, got %d", passThrough)
	}

	return r, nil
}

// Lookup returns the entry for a display label
func (r *Registry) Lookup(label string) (Entry, error) {
	i, ok := r.byLabel[label]
	if !ok {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, label)
	}
	return r.entries[i], nil
}

// Entries returns the configured entries in order
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Labels returns the configured display labels in order
func (r *Registry) Labels() []string {
	labels := make([]string, len(r.entries))
	for i, e := range r.entries {
		labels[i] = e.Label
	}
	return labels
}

// Len returns the number of configured languages
func (r *Registry) Len() int {
	return len(r.entries)
}

// IsAcceptable reports whether text plausibly belongs to the labelled language.
// Unknown labels are never acceptable.
func (r *Registry) IsAcceptable(label, text string) bool {
	e, err := r.Lookup(label)
	if err != nil {
		return false
	}
	return Check(e, text).Accepted
}
