// Package hints extracts high-level task hints from natural-language
// prompts with simple keyword patterns.
package hints

import "regexp"

const (
	TaskGeneral       = "general"
	TaskPlanner       = "planner"
	TaskAnalysis      = "analysis"
	TaskGeneration    = "generation"
	TaskSummarization = "summarization"
)

var (
	plannerRe       = regexp.MustCompile(`(?i)\b(plan|planner|planning|schedule|agenda)\b`)
	analysisRe      = regexp.MustCompile(`(?i)\b(analyz[e]?|analysis|examine|inspect|investigate)\b`)
	generationRe    = regexp.MustCompile(`(?i)\b(build|create|generate|make|develop)\b`)
	summarizationRe = regexp.MustCompile(`(?i)\b(summariz[e]?|summary|brief|overview)\b`)
)

type Hints struct {
	TaskType string
	Keywords []string
}

// Parse detects the task type of a prompt. Patterns are checked in a fixed
// order; the first match wins.
func Parse(prompt string) Hints {
	switch {
	case plannerRe.MatchString(prompt):
		return Hints{TaskType: TaskPlanner, Keywords: []string{"planning"}}
	case analysisRe.MatchString(prompt):
		return Hints{TaskType: TaskAnalysis, Keywords: []string{"analysis"}}
	case generationRe.MatchString(prompt):
		return Hints{TaskType: TaskGeneration, Keywords: []string{"generation"}}
	case summarizationRe.MatchString(prompt):
		return Hints{TaskType: TaskSummarization, Keywords: []string{"summarization"}}
	default:
		return Hints{TaskType: TaskGeneral}
	}
}
