package config

import (
	"context"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/ctxrun/pkg/log"
)

type AppConfig struct {
	RuntimePath string `env:"CTXRUN_RUNTIME_PATH" envDefault:".ctxrun"`

	// Model used by copilot runs unless routing overrides it.
	Model string `env:"CTXRUN_MODEL" envDefault:"gpt-4o-mini"`

	// HistoryLimit is the default page size for `ctxrun history`.
	HistoryLimit int `env:"CTXRUN_HISTORY_LIMIT" envDefault:"20"`
}

func NewAppConfig(ctx context.Context) *AppConfig {
	c := &AppConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse App config")
	}
	return c
}

func (c AppConfig) GetDatabasePath() string {
	return filepath.Join(c.RuntimePath, "ctxrun.db")
}

func (c AppConfig) GetCopilotPath() string {
	return filepath.Join(c.RuntimePath, "copilot")
}
