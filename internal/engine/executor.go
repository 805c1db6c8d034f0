package engine

import (
	gocontext "context"
	"strings"
	"time"

	"github.com/sandevgo/ctxrun/internal/core"
)

// Fallback routing when the context carries none.
const (
	DefaultModel    = "gpt-3.5-turbo"
	DefaultProvider = "openai"
)

// ProviderResolver maps a provider name to a concrete adapter.
type ProviderResolver func(provider string) (core.Provider, error)

// Executor assembles a flattened prompt from a context plus a task and
// delegates to the external provider adapter. Provider failures propagate
// to the caller untouched; there are no retries.
type Executor struct {
	resolve ProviderResolver
}

func NewExecutor(resolve ProviderResolver) *Executor {
	return &Executor{resolve: resolve}
}

func (e *Executor) Execute(ctx gocontext.Context, c *Context, req ExecuteRequest) (*core.Response, error) {
	if e.resolve == nil {
		return nil, ErrNoResolver
	}

	routing := deepCopyMap(c.Routing)
	for k, v := range req.OverrideRouting {
		routing[k] = v
	}

	model := stringValue(routing, "model", DefaultModel)
	provider := stringValue(routing, "provider", DefaultProvider)
	maxTokens, _ := intValue(routing, "max_tokens")

	prompt := renderPrompt(c, req)

	adapter, err := e.resolve(provider)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	completion, err := adapter.Complete(ctx, core.CompletionRequest{
		Model:     model,
		Prompt:    prompt,
		MaxTokens: maxTokens,
		Routing:   routing,
	})
	if err != nil {
		return nil, err
	}
	duration := time.Since(start)

	return &core.Response{
		Result:    completion.Content,
		ContextID: c.ID,
		Model:     model,
		Provider:  provider,
		Duration:  duration,
		Usage:     completion.Usage,
		Metadata: core.ResponseMeta{
			Intent:           c.Intent,
			InputCount:       len(c.Inputs),
			TotalInputTokens: c.TotalTokens(),
		},
	}, nil
}

// renderPrompt flattens a context into a single prompt: optional system
// line, a Context section listing every input in current order, then the
// task text.
func renderPrompt(c *Context, req ExecuteRequest) string {
	var parts []string

	if req.SystemPrompt != "" {
		parts = append(parts, "System: "+req.SystemPrompt+"\n")
	}

	if len(c.Inputs) > 0 {
		parts = append(parts, "Context:\n")
		for _, in := range c.Inputs {
			parts = append(parts, core.Stringify(in.Data), "\n")
		}
	}

	parts = append(parts, "\nTask: "+req.Task)

	return strings.Join(parts, "\n")
}

func stringValue(m map[string]any, key, fallback string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return fallback
}
