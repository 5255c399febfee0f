package llm

import "context"

// Provider is the completion capability used for query classification,
// answer synthesis and follow-up suggestion generation.
type Provider interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
	// Name returns the name of this provider.
	Name() string
}
