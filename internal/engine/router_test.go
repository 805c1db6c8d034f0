package engine

import (
	"testing"

	"github.com/sandevgo/ctxrun/internal/core"
	"github.com/stretchr/testify/assert"
)

func defaultRouter() *Router {
	return NewRouter(core.DefaultModelSpecs())
}

func TestRouteExplicitModelSetsProviderFromTable(t *testing.T) {
	r := defaultRouter()

	routing := r.Route(map[string]any{}, "claude-3-opus", "", "")

	assert.Equal(t, "claude-3-opus", routing["model"])
	assert.Equal(t, "anthropic", routing["provider"])
}

func TestRouteUnknownModelPassesThrough(t *testing.T) {
	r := defaultRouter()

	routing := r.Route(map[string]any{}, "my-local-model", "", "")

	assert.Equal(t, "my-local-model", routing["model"])
	_, hasProvider := routing["provider"]
	assert.False(t, hasProvider)
}

func TestRouteExplicitProviderWins(t *testing.T) {
	r := defaultRouter()

	// table would pick openai for gpt-4; explicit provider overrides
	routing := r.Route(map[string]any{}, "gpt-4", "litellm", "")

	assert.Equal(t, "gpt-4", routing["model"])
	assert.Equal(t, "litellm", routing["provider"])
}

func TestRouteStrategies(t *testing.T) {
	tests := []struct {
		strategy     string
		wantModel    string
		wantProvider string
	}{
		{StrategyCostOptimized, "gpt-3.5-turbo", "openai"},
		{StrategyQualityOptimized, "gpt-4", "openai"}, // ties on quality resolve to the first table entry
		{StrategySpeedOptimized, "gpt-3.5-turbo", "openai"},
		{"something_else", "gpt-3.5-turbo", "openai"}, // balanced default
	}

	r := defaultRouter()
	for _, tt := range tests {
		t.Run(tt.strategy, func(t *testing.T) {
			routing := r.Route(map[string]any{}, "", "", tt.strategy)
			assert.Equal(t, tt.wantModel, routing["model"])
			assert.Equal(t, tt.wantProvider, routing["provider"])
		})
	}
}

func TestRouteStrategyIgnoredWhenModelPresent(t *testing.T) {
	r := defaultRouter()

	routing := r.Route(map[string]any{"model": "gpt-4"}, "", "", StrategyCostOptimized)

	assert.Equal(t, "gpt-4", routing["model"])
}

func TestRouteDoesNotMutateCurrent(t *testing.T) {
	r := defaultRouter()
	current := map[string]any{"temperature": 0.3}

	routing := r.Route(current, "gpt-4", "", "")

	assert.Equal(t, map[string]any{"temperature": 0.3}, current)
	assert.Equal(t, 0.3, routing["temperature"])
}

func TestRouteInjectedTable(t *testing.T) {
	r := NewRouter([]core.ModelSpec{
		{Name: "x", Provider: "acme", CostPer1kInput: 0.5, Quality: 0.1, Speed: 0.99},
		{Name: "y", Provider: "acme", CostPer1kInput: 0.1, Quality: 0.9, Speed: 0.2},
	})

	routing := r.Route(map[string]any{}, "", "", StrategySpeedOptimized)
	assert.Equal(t, "x", routing["model"])
	assert.Equal(t, "acme", routing["provider"])

	routing = r.Route(map[string]any{}, "", "", StrategyCostOptimized)
	assert.Equal(t, "y", routing["model"])
}

func TestRouterSpecLookup(t *testing.T) {
	r := defaultRouter()

	spec, ok := r.Spec("gpt-4")
	assert.True(t, ok)
	assert.Equal(t, 8192, spec.MaxTokens)

	_, ok = r.Spec("nope")
	assert.False(t, ok)
}
