// Package ai drafts and rewrites blog content with a generative language model.
package ai

import (
	"context"
	"errors"
	"fmt"
)

// Model produces text for a prompt.
type Model interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderError is a failure reported by the model provider with its HTTP code and
// canonical status (e.g. RESOURCE_EXHAUSTED).
type ProviderError struct {
	Code    int
	Status  string
	Message string
}

func (e *ProviderError) Error() string {
	if e.Status == "" {
		return fmt.Sprintf("model provider error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("model provider error %d %s: %s", e.Code, e.Status, e.Message)
}

var ErrMissingAPIKey = errors.New("API key is not configured")

// unconfiguredModel stands in when no API key is set.
type unconfiguredModel struct{}

func (unconfiguredModel) Generate(context.Context, string) (string, error) {
	return "", ErrMissingAPIKey
}
