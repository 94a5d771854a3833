package inference

import "time"

type Config struct {
	BaseURL string
	Token   string

	// Model is the provider's model version identifier used when a request
	// does not name one.
	Model string

	MaxTokens   int
	Temperature float64

	// PollInterval controls how often a pending prediction is re-fetched.
	// There is deliberately no overall timeout: an unresponsive provider
	// stalls the single request, bounded only by the caller's context.
	PollInterval time.Duration
}

type Request struct {
	ImageURL string
	Model    string
	Prompt   string
}

const defaultPromptName = "default"

// prompt registry; selections resolve per request, never through mutable
// process state.
var prompts = map[string]string{
	"default": "Write out your thought process for a bit about all the things happening in this scene, and then state the most important or interesting thing happening in this scene in one concise sentence without explaining why it's important or interesting.",
	"detailed": "Analyze this image in detail. First, describe everything you see as internal thoughts. Then provide one clear, concise observation that captures the most important or interesting element.",
	"brief": "Quickly analyze this image and provide a brief thought process followed by one key observation.",
}

// ResolvePrompt maps a request's prompt selection to prompt text. An empty
// selection resolves to the default prompt, a registered name to its text,
// and anything else is used verbatim as free-text prompt.
func ResolvePrompt(selection string) string {
	if selection == "" {
		return prompts[defaultPromptName]
	}
	if text, ok := prompts[selection]; ok {
		return text
	}
	return selection
}

// PromptNames lists the registered prompt selections.
func PromptNames() []string {
	names := make([]string, 0, len(prompts))
	for name := range prompts {
		names = append(names, name)
	}
	return names
}
