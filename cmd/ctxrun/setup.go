package main

import (
	"os"
	"path/filepath"

	"github.com/sandevgo/ctxrun/internal/config"
	"github.com/sandevgo/ctxrun/internal/storage/sqlite"
	"github.com/sandevgo/ctxrun/pkg/env"
	"github.com/sandevgo/ctxrun/pkg/log"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Create the runtime directory, starter .env, and run database",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()
		logger := log.FromCtx(ctx)

		appCfg := config.NewAppConfig(ctx)
		llmCfg := config.NewLLMConfig(ctx)

		if err := os.MkdirAll(appCfg.RuntimePath, 0755); err != nil {
			return err
		}

		envPath := filepath.Join(appCfg.RuntimePath, ".env")
		if _, err := os.Stat(envPath); err == nil {
			logger.Info().Str("path", envPath).Msg(".env already exists, leaving it alone")
		} else {
			appEnv, err := env.MarshalEnv(appCfg)
			if err != nil {
				return err
			}
			llmEnv, err := env.MarshalEnv(llmCfg)
			if err != nil {
				return err
			}
			if err := os.WriteFile(envPath, []byte(appEnv+llmEnv), 0600); err != nil {
				return err
			}
			logger.Info().Str("path", envPath).Msg("wrote starter .env")
		}

		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			return err
		}
		defer db.Close()

		cmd.Printf("runtime ready at %s\n", appCfg.RuntimePath)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
