// Package tokens counts prompt tokens for cost reporting. Counts here are
// informational only; pruning always uses the fixed chars-per-token
// estimate in core.
package tokens

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
	"github.com/sandevgo/ctxrun/internal/core"
)

var (
	tk     *tiktoken.Tiktoken
	tkOnce sync.Once
)

// Count returns the cl100k_base token count of text, falling back to the
// length heuristic when the encoding is unavailable (e.g. offline).
func Count(text string) int {
	tkOnce.Do(func() {
		enc, err := tiktoken.GetEncoding("cl100k_base")
		if err == nil {
			tk = enc
		}
	})

	if tk == nil {
		return core.EstimateTokens(text)
	}
	return len(tk.Encode(text, nil, nil))
}
