package summarizer

import (
	"fmt"
	"strings"

	"newsdigest/internal/domain/entity"
)

// maxFallbackTitles caps how many article titles the fallback text lists.
const maxFallbackTitles = 3

// fallbackText builds a deterministic summary from article titles. It is used
// whenever the generation backend fails or is not configured.
func fallbackText(topic string, articles []entity.Article) string {
	var titles []string
	for _, a := range articles {
		if a.Title != "" {
			titles = append(titles, a.Title)
		}
		if len(titles) == maxFallbackTitles {
			break
		}
	}

	subject := topic
	if subject == "" {
		subject = "this topic"
	}

	if len(titles) == 0 {
		return fmt.Sprintf("Recent news about %s.", subject)
	}

	return fmt.Sprintf("Recent news about %s: %s.", subject, strings.Join(titles, "; "))
}
