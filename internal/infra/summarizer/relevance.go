package summarizer

import (
	"fmt"
	"strings"
)

// RelevanceHeuristic post-processes generated text before it is returned.
// It is a best-effort presentation step, not a correctness check.
type RelevanceHeuristic func(topic, text string) string

// AppendTopicNote is the default heuristic. When the generated text never
// mentions the topic it appends a short provenance note so the reader knows
// what the articles were about. It never rewrites the generated text itself.
func AppendTopicNote(topic, text string) string {
	if topic == "" || text == "" {
		return text
	}
	if strings.Contains(strings.ToLower(text), strings.ToLower(topic)) {
		return text
	}
	return text + fmt.Sprintf("\n\nNote: this summary is based on articles about %s.", topic)
}

// KeepVerbatim is a heuristic that returns the generated text unchanged.
func KeepVerbatim(_, text string) string {
	return text
}
