package engine

import (
	"sort"

	"github.com/sandevgo/ctxrun/internal/core"
)

// NoTokenLimit disables the token ceiling when passed as maxTokens.
const NoTokenLimit = -1

// minPartialTokens is the smallest remaining budget worth spending on a
// truncated copy of a textual input.
const minPartialTokens = 100

// Pruner selects a subset of inputs that honors a relevance floor and a
// token ceiling. At most one input is ever partially truncated per call.
type Pruner struct{}

func NewPruner() *Pruner {
	return &Pruner{}
}

// Prune filters inputs below relevanceThreshold, sorts the survivors by
// descending relevance (stable on ties), and greedily packs them against
// maxTokens. The first input that would exceed the budget is kept as a
// truncated copy when it is textual and the remaining budget exceeds the
// usability floor; everything after it is dropped.
func (p *Pruner) Prune(inputs []core.Input, maxTokens int, relevanceThreshold float64) []core.Input {
	filtered := make([]core.Input, 0, len(inputs))
	for _, in := range inputs {
		if in.Relevance >= relevanceThreshold {
			filtered = append(filtered, in)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Relevance > filtered[j].Relevance
	})

	if maxTokens < 0 {
		return filtered
	}

	pruned := make([]core.Input, 0, len(filtered))
	total := 0

	for _, in := range filtered {
		if total+in.Tokens <= maxTokens {
			pruned = append(pruned, in)
			total += in.Tokens
			continue
		}

		// Over budget: try to fit a partial copy if the input is text.
		// Truncation counts characters, not bytes, so multibyte text keeps
		// the same prefix length and never splits a rune.
		if text, ok := in.Data.(string); ok {
			remaining := maxTokens - total
			if remaining > minPartialTokens {
				runes := []rune(text)
				keep := remaining * core.CharsPerToken
				if keep > len(runes) {
					keep = len(runes)
				}
				pruned = append(pruned, core.Input{
					Data:      string(runes[:keep]),
					Relevance: in.Relevance,
					Tokens:    remaining,
				})
			}
		}
		break
	}

	return pruned
}
