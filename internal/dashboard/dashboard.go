// Package dashboard renders a markdown report for a completed copilot run
// and can mirror it as HTML.
package dashboard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/sandevgo/ctxrun/internal/hints"
)

type Run struct {
	Prompt   string
	Content  string
	TaskType string
}

// Render builds the markdown dashboard body. Planner runs get a dedicated
// layout; everything else uses the generic one.
func Render(r Run) string {
	if r.TaskType == "" {
		r.TaskType = hints.TaskGeneral
	}
	if r.TaskType == hints.TaskPlanner {
		return fmt.Sprintf(`# Weekend Planning Tool

## Request
%s

## Activities
%s

## Notes
- Generated by ctxrun copilot
- Budget estimate based on LLM usage
`, r.Prompt, r.Content)
	}

	title := strings.ToUpper(r.TaskType[:1]) + r.TaskType[1:]
	return fmt.Sprintf(`# Task: %s

## Request
%s

## Response
%s

## Metadata
- Task Type: %s
- Generated by ctxrun copilot
`, title, r.Prompt, r.Content, r.TaskType)
}

// Write renders the dashboard to path, creating parent directories. When
// alsoHTML is set, an .html sibling is written next to the markdown file.
func Write(path string, r Run, alsoHTML bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create dashboard directory: %w", err)
	}

	md := Render(r)
	if err := os.WriteFile(path, []byte(md), 0644); err != nil {
		return fmt.Errorf("write dashboard: %w", err)
	}

	if alsoHTML {
		htmlPath := strings.TrimSuffix(path, filepath.Ext(path)) + ".html"
		if err := os.WriteFile(htmlPath, toHTML(md), 0644); err != nil {
			return fmt.Errorf("write dashboard html: %w", err)
		}
	}

	return nil
}

func toHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}
