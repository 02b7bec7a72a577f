// Package topic normalizes free-text topic strings into storage-safe
// collection identifiers. The indexer and the query path must agree on the
// identifier, so sanitization is a pure function of the input.
package topic

import "strings"

const (
	minLength = 3
	maxLength = 63
)

// Sanitize converts a free-text topic into a collection identifier.
//
// The result is non-empty, starts with a letter, contains only
// [A-Za-z0-9_-], and is between 3 and 63 characters long. The same input
// always yields the same identifier.
func Sanitize(topic string) string {
	var b strings.Builder
	b.Grow(len(topic))
	for _, r := range topic {
		if isAllowed(r) {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}

	id := strings.Trim(b.String(), "_")

	if id == "" || !isLetter(rune(id[0])) {
		id = "topic_" + id
	}

	if len(id) < minLength {
		id += "_collection"
	}

	if len(id) > maxLength {
		id = id[:maxLength]
	}

	return id
}

func isAllowed(r rune) bool {
	return isLetter(r) || (r >= '0' && r <= '9') || r == '_' || r == '-'
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
