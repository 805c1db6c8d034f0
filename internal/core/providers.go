package core

import "context"

// Usage is the token accounting reported by a provider.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// CompletionRequest is a single flattened request to an LLM backend.
type CompletionRequest struct {
	Model     string
	Prompt    string
	System    string
	MaxTokens int
	// Routing carries the resolved routing map so adapters can honor
	// provider-specific extras (temperature, virtual keys).
	Routing map[string]any
}

type Completion struct {
	Content string
	Usage   Usage
}

// Provider is the boundary to an actual LLM backend. Implementations make
// one blocking network call and surface failures verbatim.
type Provider interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}
