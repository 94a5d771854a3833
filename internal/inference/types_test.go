package inference

import (
	"strings"
	"testing"
)

func TestResolvePrompt(t *testing.T) {
	tests := []struct {
		name      string
		selection string
		want      string
	}{
		{"empty resolves to default", "", prompts["default"]},
		{"registered name resolves to its text", "detailed", prompts["detailed"]},
		{"brief resolves", "brief", prompts["brief"]},
		{"free text passes through verbatim", "Describe only the animals.", "Describe only the animals."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ResolvePrompt(tt.selection); got != tt.want {
				t.Errorf("ResolvePrompt(%q) = %q, want %q", tt.selection, got, tt.want)
			}
		})
	}
}

func TestPromptNames(t *testing.T) {
	names := PromptNames()
	if len(names) != 3 {
		t.Fatalf("expected 3 registered prompts, got %d", len(names))
	}
	joined := strings.Join(names, ",")
	for _, want := range []string{"default", "detailed", "brief"} {
		if !strings.Contains(joined, want) {
			t.Errorf("expected %s to be registered, got %v", want, names)
		}
	}
}
