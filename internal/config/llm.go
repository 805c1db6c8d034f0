package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/ctxrun/pkg/log"
)

type LLMConfig struct {
	OpenAIAPIKey    string `env:"OPENAI_API_KEY"`
	AnthropicAPIKey string `env:"ANTHROPIC_API_KEY"`

	// ProxyURL is the LiteLLM gateway used for copilot runs.
	ProxyURL string `env:"LITELLM_PROXY_URL" envDefault:"http://localhost:4000"`

	// VirtualKey is the per-user proxy credential, resolved by
	// ResolveVirtualKey before dispatch.
	VirtualKey string `env:"-"`
}

func NewLLMConfig(ctx context.Context) *LLMConfig {
	c := &LLMConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse LLM config")
	}
	return c
}

// ResolveVirtualKey loads the proxy credential for a user from
// CTXRUN_VIRTUAL_KEY_<USER>.
func (c *LLMConfig) ResolveVirtualKey(user string) error {
	envName := "CTXRUN_VIRTUAL_KEY_" + strings.ToUpper(user)
	key := os.Getenv(envName)
	if key == "" {
		return fmt.Errorf("virtual key not found: set the %s environment variable", envName)
	}
	c.VirtualKey = key
	return nil
}
