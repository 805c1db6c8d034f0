package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/sandevgo/ctxrun/internal/config"
	"github.com/sandevgo/ctxrun/internal/dashboard"
	"github.com/sandevgo/ctxrun/internal/engine"
	"github.com/sandevgo/ctxrun/internal/hints"
	"github.com/sandevgo/ctxrun/internal/pricing"
	"github.com/sandevgo/ctxrun/internal/providers/llm"
	"github.com/sandevgo/ctxrun/internal/service/ui"
	"github.com/sandevgo/ctxrun/internal/storage/sqlite"
	"github.com/sandevgo/ctxrun/internal/tokens"
	"github.com/sandevgo/ctxrun/pkg/log"
	"github.com/spf13/cobra"
)

const previewLimit = 500

var (
	runPrompt           string
	runUser             string
	runBudget           float64
	runInstructions     string
	runInstructionsFile string
	runHTML             bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute a one-off copilot run within a USD budget",
	Long: `Builds a bounded execution context from the prompt, converts the budget
into a token ceiling, routes through the LiteLLM proxy, and writes a
markdown dashboard with the result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()
		logger := log.FromCtx(ctx)

		if runBudget <= 0 {
			return errors.New("budget must be greater than 0")
		}
		if runInstructions != "" && runInstructionsFile != "" {
			return errors.New("cannot specify both --instructions and --instructions-file")
		}

		instructions := runInstructions
		if runInstructionsFile != "" {
			data, err := os.ReadFile(runInstructionsFile)
			if err != nil {
				logger.Warn().Err(err).Msg("instructions file unreadable, continuing without it")
			} else {
				instructions = string(data)
			}
		}

		appCfg := config.NewAppConfig(ctx)
		llmCfg := config.NewLLMConfig(ctx)
		if err := llmCfg.ResolveVirtualKey(runUser); err != nil {
			return err
		}

		model := appCfg.Model
		if envModel := os.Getenv("COPILOT_MODEL"); envModel != "" {
			model = envModel
		}

		h := hints.Parse(runPrompt)
		maxTokens := pricing.BudgetToMaxTokens(runBudget, model)

		logger.Info().
			Str("user", runUser).
			Str("model", model).
			Str("task_type", h.TaskType).
			Float64("budget_usd", runBudget).
			Int("max_tokens", maxTokens).
			Msg("starting copilot run")

		execCtx, err := engine.New(h.TaskType,
			engine.WithCategory("copilot"),
			engine.WithConstraints(map[string]any{"max_tokens": maxTokens}),
			engine.WithMetadata(map[string]any{
				"user": runUser,
				"mode": "one_off",
			}),
			engine.WithExecutor(engine.NewExecutor(llm.NewResolver(llmCfg))),
		)
		if err != nil {
			return err
		}

		execCtx.Route(model, "litellm", "")
		if instructions != "" {
			execCtx.AddInput("Instructions: "+instructions, 1.0)
		}
		execCtx.Prune(engine.NoTokenLimit, 0)

		resp, err := execCtx.Execute(ctx, engine.ExecuteRequest{
			Task:            runPrompt,
			SystemPrompt:    "You are a helpful assistant.",
			OverrideRouting: map[string]any{"max_tokens": maxTokens},
		})
		if err != nil {
			return fmt.Errorf("llm call failed: %w", err)
		}

		cost := pricing.Cost(resp.Usage, model)
		exactPromptTokens := tokens.Count(runPrompt)

		cmd.Println(ui.TitleStyle.Render("RUN COMPLETE"))
		cmd.Printf("  Tokens used:   %s\n", ui.ValueStyle.Render(fmt.Sprint(resp.Usage.TotalTokens)))
		cmd.Printf("  Prompt tokens: %s exact / %s reported\n",
			ui.ValueStyle.Render(fmt.Sprint(exactPromptTokens)),
			ui.ValueStyle.Render(fmt.Sprint(resp.Usage.PromptTokens)))
		cmd.Printf("  Cost:          %s\n", ui.ValueStyle.Render(fmt.Sprintf("$%.6f", cost)))
		cmd.Printf("  Duration:      %s\n", ui.ValueStyle.Render(resp.Duration.Round(time.Millisecond).String()))

		dashPath := filepath.Join(appCfg.GetCopilotPath(), execCtx.ID+".md")
		if err := dashboard.Write(dashPath, dashboard.Run{
			Prompt:   runPrompt,
			Content:  resp.Result,
			TaskType: h.TaskType,
		}, runHTML); err != nil {
			return err
		}
		cmd.Printf("  Dashboard:     %s\n", dashPath)

		if err := saveRun(ctx, execCtx, resp.Result, resp.Model, resp.Provider, cost, resp.Duration, resp.Usage.TotalTokens, appCfg); err != nil {
			// History is best effort; the run already succeeded.
			logger.Error().Err(err).Msg("failed to persist run history")
		}

		cmd.Println()
		cmd.Println("Response preview:")
		cmd.Println(ui.DescStyle.Render("------------------------------------------------------------"))
		preview := resp.Result
		if len(preview) > previewLimit {
			preview = preview[:previewLimit] + "..."
		}
		cmd.Println(preview)
		cmd.Println(ui.DescStyle.Render("------------------------------------------------------------"))

		return nil
	},
}

func saveRun(ctx context.Context, execCtx *engine.Context, result, model, provider string, cost float64, duration time.Duration, totalTokens int, appCfg *config.AppConfig) error {
	db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
	if err != nil {
		return err
	}
	defer db.Close()

	ctxJSON, err := execCtx.ToJSON()
	if err != nil {
		return err
	}

	return sqlite.NewRuns(db).Save(ctx, sqlite.Run{
		ID:          execCtx.ID,
		User:        runUser,
		Intent:      execCtx.Intent,
		Model:       model,
		Provider:    provider,
		CostUSD:     cost,
		Duration:    duration,
		TotalTokens: totalTokens,
		ContextJSON: string(ctxJSON),
		Result:      result,
		CreatedAt:   time.Now().UTC(),
	})
}

func init() {
	runCmd.Flags().StringVar(&runPrompt, "prompt", "", "natural language prompt describing the task")
	runCmd.Flags().StringVar(&runUser, "user", "", "username for this run")
	runCmd.Flags().Float64Var(&runBudget, "budget", 0, "USD budget cap for this run")
	runCmd.Flags().StringVar(&runInstructions, "instructions", "", "custom instructions")
	runCmd.Flags().StringVar(&runInstructionsFile, "instructions-file", "", "path to instructions file")
	runCmd.Flags().BoolVar(&runHTML, "html", false, "also write an HTML dashboard")
	_ = runCmd.MarkFlagRequired("prompt")
	_ = runCmd.MarkFlagRequired("user")
	_ = runCmd.MarkFlagRequired("budget")

	rootCmd.AddCommand(runCmd)
}
