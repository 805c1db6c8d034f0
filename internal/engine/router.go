package engine

import "github.com/sandevgo/ctxrun/internal/core"

// Routing strategies for automatic model selection.
const (
	StrategyCostOptimized    = "cost_optimized"
	StrategyQualityOptimized = "quality_optimized"
	StrategySpeedOptimized   = "speed_optimized"
)

// balancedModel is the fallback for unrecognized strategies.
const balancedModel = "gpt-3.5-turbo"

// Router resolves a routing intent into a concrete model/provider pair
// using an injected capability table. Unknown models and providers pass
// through without enrichment.
type Router struct {
	specs []core.ModelSpec
	index map[string]core.ModelSpec
}

// NewRouter builds a router over the given capability table. Table order is
// preserved; strategy ties resolve to the earliest entry.
func NewRouter(specs []core.ModelSpec) *Router {
	r := &Router{
		specs: make([]core.ModelSpec, len(specs)),
		index: make(map[string]core.ModelSpec, len(specs)),
	}
	copy(r.specs, specs)
	for _, s := range specs {
		r.index[s.Name] = s
	}
	return r
}

// Spec looks up a model in the capability table.
func (r *Router) Spec(model string) (core.ModelSpec, bool) {
	s, ok := r.index[model]
	return s, ok
}

// Route merges the requested model/provider/strategy into a copy of the
// current routing. Empty arguments are ignored. An explicit model wins over
// a strategy; an explicit provider wins over the table's provider.
func (r *Router) Route(current map[string]any, model, provider, strategy string) map[string]any {
	routing := make(map[string]any, len(current)+2)
	for k, v := range current {
		routing[k] = v
	}

	if model != "" {
		routing["model"] = model
		if spec, ok := r.index[model]; ok {
			routing["provider"] = spec.Provider
		}
	}

	if provider != "" {
		routing["provider"] = provider
	}

	if _, hasModel := routing["model"]; !hasModel && strategy != "" {
		selected := r.selectByStrategy(strategy)
		routing["model"] = selected
		if spec, ok := r.index[selected]; ok {
			routing["provider"] = spec.Provider
		}
	}

	return routing
}

func (r *Router) selectByStrategy(strategy string) string {
	if len(r.specs) == 0 {
		return balancedModel
	}

	switch strategy {
	case StrategyCostOptimized:
		best := r.specs[0]
		for _, s := range r.specs[1:] {
			if s.CostPer1kInput < best.CostPer1kInput {
				best = s
			}
		}
		return best.Name
	case StrategyQualityOptimized:
		best := r.specs[0]
		for _, s := range r.specs[1:] {
			if s.Quality > best.Quality {
				best = s
			}
		}
		return best.Name
	case StrategySpeedOptimized:
		best := r.specs[0]
		for _, s := range r.specs[1:] {
			if s.Speed > best.Speed {
				best = s
			}
		}
		return best.Name
	default:
		return balancedModel
	}
}
