package internal

import "testing"

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Translated", "Translated"},
		{"my run/2", "my_run_2"},
		{"../escape", "___escape"},
		{"Übersetzt-v2", "Übersetzt-v2"},
		{"翻译", "翻译"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
