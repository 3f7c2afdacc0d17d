package repository

import "context"

// ReasoningRepository defines the interface to the generative reasoning
// provider. Infer makes a single synchronous call and returns the raw
// response text; failures surface as *types.ProviderError and are never
// fatal to a workflow.
type ReasoningRepository interface {
	Infer(ctx context.Context, prompt string) (string, error)
}
