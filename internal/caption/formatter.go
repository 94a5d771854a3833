package caption

import "strings"

const (
	thoughtsPrefix     = "Thoughts: "
	observationsPrefix = "Observations: "
	segmentSeparator   = "\n\n"
)

// Formatted is the structured form of a model caption: an optional train of
// thought followed by a single closing observation. It is persisted as-is so
// consumers never re-derive structure from the rendered prose.
type Formatted struct {
	Thoughts     string `json:"thoughts,omitempty"`
	Observations string `json:"observations"`
}

func isSentenceTerminal(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// SplitSentences splits raw model output into sentences. A boundary is
// sentence-terminal punctuation followed by whitespace; the punctuation
// stays with its sentence.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var sentences []string
	runes := []rune(text)
	start := 0
	for i := 0; i < len(runes); i++ {
		if !isSentenceTerminal(runes[i]) {
			continue
		}
		if i+1 < len(runes) && !isSpace(runes[i+1]) {
			continue
		}

		sentence := strings.TrimSpace(string(runes[start : i+1]))
		if sentence != "" {
			sentences = append(sentences, sentence)
		}

		i++
		for i < len(runes) && isSpace(runes[i]) {
			i++
		}
		start = i
		i--
	}

	if start < len(runes) {
		tail := strings.TrimSpace(string(runes[start:]))
		if tail != "" {
			sentences = append(sentences, tail)
		}
	}

	return sentences
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

// Format applies the canonical formatting policy: the final sentence is the
// observation, everything before it (rejoined with single spaces) is the
// thought process. A single-sentence caption has no thoughts segment.
func Format(raw string) Formatted {
	sentences := SplitSentences(raw)

	if len(sentences) <= 1 {
		return Formatted{Observations: strings.TrimSpace(raw)}
	}

	last := sentences[len(sentences)-1]
	return Formatted{
		Thoughts:     strings.Join(sentences[:len(sentences)-1], " "),
		Observations: last,
	}
}

// Render produces the display text stored alongside the structured record.
func (f Formatted) Render() string {
	if f.Thoughts == "" {
		return observationsPrefix + f.Observations
	}
	return thoughtsPrefix + f.Thoughts + segmentSeparator + observationsPrefix + f.Observations
}

// ParseRendered recovers the structured segments from rendered text. It is
// the inverse of Render up to whitespace normalization.
func ParseRendered(text string) Formatted {
	if rest, ok := strings.CutPrefix(text, thoughtsPrefix); ok {
		thoughts, obs, found := strings.Cut(rest, segmentSeparator+observationsPrefix)
		if found {
			return Formatted{Thoughts: thoughts, Observations: obs}
		}
		return Formatted{Thoughts: rest}
	}
	if obs, ok := strings.CutPrefix(text, observationsPrefix); ok {
		return Formatted{Observations: obs}
	}
	return Formatted{Observations: text}
}
