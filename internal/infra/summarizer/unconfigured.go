package summarizer

import (
	"context"
	"errors"
)

// ErrNotConfigured indicates no generation backend was configured.
var ErrNotConfigured = errors.New("text generation is not configured")

// Unconfigured is a Generator used when no API credential is available.
// Every call fails, which makes the Service fall back to a titles-based
// summary with an explicit reason instead of silently producing model-free
// text that looks generated.
type Unconfigured struct{}

// NewUnconfigured returns a Generator that always fails with ErrNotConfigured.
func NewUnconfigured() *Unconfigured {
	return &Unconfigured{}
}

// Generate always returns ErrNotConfigured.
func (u *Unconfigured) Generate(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}
