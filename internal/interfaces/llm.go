package interfaces

import (
	"context"
	"errors"
)

// ErrGatewayUnavailable is returned when no language-model provider is
// configured, or when every configured provider has failed for a call.
// Callers are expected to catch it and degrade to placeholder content.
var ErrGatewayUnavailable = errors.New("language model gateway unavailable")

// GenerateResult is the provider-agnostic outcome of a text generation
// call, including which backend actually produced the text.
type GenerateResult struct {
	Text     string
	Provider string
	Model    string
}

// TextGenerator produces free-form analysis text from a prompt.
// Implementations apply the primary/secondary provider policy: one
// failover, no retries.
type TextGenerator interface {
	// GenerateText sends the prompt to the preferred provider and falls
	// back once to the secondary provider on failure. Returns
	// ErrGatewayUnavailable when no provider is configured or all
	// configured providers failed.
	GenerateText(ctx context.Context, prompt string) (*GenerateResult, error)

	// Configured reports whether at least one provider has credentials.
	Configured() bool
}
