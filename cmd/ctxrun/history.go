package main

import (
	"time"

	"github.com/sandevgo/ctxrun/internal/config"
	"github.com/sandevgo/ctxrun/internal/service/ui"
	"github.com/sandevgo/ctxrun/internal/storage/sqlite"
	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved copilot runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		appCfg := config.NewAppConfig(ctx)
		if historyLimit <= 0 {
			historyLimit = appCfg.HistoryLimit
		}

		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := sqlite.NewRuns(db).List(ctx, historyLimit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			cmd.Println("no runs recorded yet")
			return nil
		}

		cmd.Println(ui.TitleStyle.Render("RUN HISTORY"))
		for _, run := range runs {
			cmd.Printf("%s  %s  %s  %s/%s  $%.6f  %s\n",
				run.CreatedAt.Format(time.DateTime),
				ui.ValueStyle.Render(run.ID[:8]),
				run.User,
				run.Provider, run.Model,
				run.CostUSD,
				run.Intent,
			)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one saved run with its serialized context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		appCfg := config.NewAppConfig(ctx)

		db, err := sqlite.NewDB(ctx, appCfg.GetDatabasePath())
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := sqlite.NewRuns(db).Get(ctx, args[0])
		if err != nil {
			return err
		}

		cmd.Println(ui.TitleStyle.Render("RUN " + run.ID))
		cmd.Printf("User:     %s\n", run.User)
		cmd.Printf("Intent:   %s\n", run.Intent)
		cmd.Printf("Routing:  %s/%s\n", run.Provider, run.Model)
		cmd.Printf("Cost:     $%.6f\n", run.CostUSD)
		cmd.Printf("Duration: %s\n", run.Duration)
		cmd.Printf("Tokens:   %d\n", run.TotalTokens)
		cmd.Println()
		cmd.Println(ui.UsageStyle.Render("Context:"))
		cmd.Println(run.ContextJSON)
		cmd.Println()
		cmd.Println(ui.UsageStyle.Render("Result:"))
		cmd.Println(run.Result)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 0, "maximum number of runs to list")
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(showCmd)
}
