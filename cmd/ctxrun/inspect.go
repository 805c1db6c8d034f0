package main

import (
	"fmt"
	"os"
	"time"

	"github.com/sandevgo/ctxrun/internal/core"
	"github.com/sandevgo/ctxrun/internal/engine"
	"github.com/sandevgo/ctxrun/internal/service/ui"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <context.json>",
	Short: "Summarize a serialized context file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read context file: %w", err)
		}

		c, err := engine.FromJSON(data)
		if err != nil {
			return err
		}

		cmd.Println(ui.TitleStyle.Render("CONTEXT " + c.ID))
		cmd.Printf("Intent:    %s\n", c.Intent)
		if c.Category != "" {
			cmd.Printf("Category:  %s\n", c.Category)
		}
		if c.ParentID != "" {
			cmd.Printf("Parent:    %s\n", c.ParentID)
		}
		cmd.Printf("Created:   %s\n", c.CreatedAt.Format(time.RFC3339))
		cmd.Printf("Inputs:    %d (%d tokens estimated)\n", len(c.Inputs), c.TotalTokens())
		for i, in := range c.Inputs {
			preview := core.Stringify(in.Data)
			if len(preview) > 60 {
				preview = preview[:60] + "..."
			}
			cmd.Printf("  %2d. relevance=%.2f tokens=%d  %s\n", i+1, in.Relevance, in.Tokens, ui.DescStyle.Render(preview))
		}
		if model, ok := c.Routing["model"]; ok {
			cmd.Printf("Routing:   %v/%v\n", c.Routing["provider"], model)
		}
		if len(c.Constraints) > 0 {
			cmd.Printf("Constraints: %v\n", c.Constraints)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}
