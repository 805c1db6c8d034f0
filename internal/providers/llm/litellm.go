package llm

// LiteLLM routes completions through a LiteLLM proxy. The proxy speaks the
// OpenAI dialect and authenticates callers with per-user virtual keys.
type LiteLLM struct {
	*OpenAICompatible
}

// NewLiteLLM creates a provider against a LiteLLM proxy URL. virtualKey is
// the caller's proxy credential, not an upstream API key.
func NewLiteLLM(proxyURL, virtualKey string) *LiteLLM {
	return &LiteLLM{
		OpenAICompatible: NewOpenAICompatible(OpenAICompatibleConfig{
			BaseURL:    proxyURL,
			APIKey:     virtualKey,
			AuthHeader: "Authorization",
			AuthPrefix: "Bearer ",
		}),
	}
}
