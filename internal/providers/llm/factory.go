package llm

import (
	"fmt"

	"github.com/sandevgo/ctxrun/internal/config"
	"github.com/sandevgo/ctxrun/internal/core"
	"github.com/sandevgo/ctxrun/internal/engine"
)

// NewResolver maps provider names from routing state to concrete adapters.
// Unknown names are an error at dispatch time, not at construction.
func NewResolver(cfg *config.LLMConfig) engine.ProviderResolver {
	return func(provider string) (core.Provider, error) {
		switch provider {
		case "openai":
			return NewOpenAI(cfg.OpenAIAPIKey), nil
		case "anthropic":
			return NewAnthropic(cfg.AnthropicAPIKey), nil
		case "litellm":
			return NewLiteLLM(cfg.ProxyURL, cfg.VirtualKey), nil
		default:
			return nil, fmt.Errorf("unknown llm provider: %s", provider)
		}
	}
}
