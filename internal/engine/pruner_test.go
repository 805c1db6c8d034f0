package engine

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/sandevgo/ctxrun/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPruneRelevanceThreshold(t *testing.T) {
	p := NewPruner()
	inputs := []core.Input{
		core.NewSizedInput("a", 0.9, 10),
		core.NewSizedInput("b", 0.4, 10),
		core.NewSizedInput("c", 0.6, 10),
	}

	got := p.Prune(inputs, NoTokenLimit, 0.5)

	require.Len(t, got, 2)
	for _, in := range got {
		assert.GreaterOrEqual(t, in.Relevance, 0.5)
	}
}

func TestPruneSortsByRelevanceStable(t *testing.T) {
	p := NewPruner()
	inputs := []core.Input{
		core.NewSizedInput("low", 0.2, 10),
		core.NewSizedInput("tie-first", 0.8, 10),
		core.NewSizedInput("tie-second", 0.8, 10),
		core.NewSizedInput("high", 0.9, 10),
	}

	got := p.Prune(inputs, NoTokenLimit, 0)

	require.Len(t, got, 4)
	assert.Equal(t, "high", got[0].Data)
	// equal relevance keeps original relative order
	assert.Equal(t, "tie-first", got[1].Data)
	assert.Equal(t, "tie-second", got[2].Data)
	assert.Equal(t, "low", got[3].Data)
}

func TestPruneTokenBudgetNeverExceeded(t *testing.T) {
	p := NewPruner()
	inputs := []core.Input{
		core.NewSizedInput(strings.Repeat("a", 800), 0.9, 200),
		core.NewSizedInput(strings.Repeat("b", 800), 0.8, 200),
		core.NewSizedInput(strings.Repeat("c", 800), 0.7, 200),
	}

	for _, budget := range []int{0, 50, 150, 200, 350, 600, 1000} {
		got := p.Prune(inputs, budget, 0)
		total := 0
		for _, in := range got {
			total += in.Tokens
		}
		assert.LessOrEqual(t, total, budget, "budget %d", budget)
	}
}

func TestPrunePartialTruncation(t *testing.T) {
	p := NewPruner()
	inputs := []core.Input{
		core.NewSizedInput(strings.Repeat("a", 600), 0.9, 150),
		core.NewSizedInput(strings.Repeat("b", 800), 0.7, 200),
	}

	got := p.Prune(inputs, 300, 0)

	require.Len(t, got, 2)
	assert.Equal(t, 150, got[0].Tokens)
	// second input truncated to the remaining 150-token budget
	assert.Equal(t, 150, got[1].Tokens)
	assert.Equal(t, strings.Repeat("b", 600), got[1].Data)
	assert.Equal(t, 0.7, got[1].Relevance)
}

func TestPrunePartialTruncationMultibyte(t *testing.T) {
	p := NewPruner()
	inputs := []core.Input{
		core.NewSizedInput(strings.Repeat("a", 600), 0.9, 150),
		core.NewInput(strings.Repeat("世", 1000), 0.5), // 3000 bytes, 750 tokens
	}

	got := p.Prune(inputs, 301, 0)

	require.Len(t, got, 2)
	text, ok := got[1].Data.(string)
	require.True(t, ok)
	// 151 remaining tokens keep 604 characters, counted in runes
	assert.True(t, utf8.ValidString(text))
	assert.Equal(t, strings.Repeat("世", 604), text)
	assert.Equal(t, 151, got[1].Tokens)
}

func TestPrunePartialSkippedBelowFloor(t *testing.T) {
	p := NewPruner()
	inputs := []core.Input{
		core.NewSizedInput(strings.Repeat("a", 240), 0.9, 60),
		core.NewSizedInput(strings.Repeat("b", 240), 0.7, 60),
	}

	// remaining budget after the first input is 40, below the 100-token floor
	got := p.Prune(inputs, 100, 0)

	require.Len(t, got, 1)
	assert.Equal(t, 0.9, got[0].Relevance)
}

func TestPruneNonTextNeverTruncated(t *testing.T) {
	p := NewPruner()
	inputs := []core.Input{
		core.NewSizedInput("text", 0.9, 50),
		core.NewSizedInput(map[string]any{"big": "payload"}, 0.7, 500),
	}

	got := p.Prune(inputs, 200, 0)

	require.Len(t, got, 1)
	assert.Equal(t, "text", got[0].Data)
}

func TestPruneDropsEverythingAfterTruncation(t *testing.T) {
	p := NewPruner()
	inputs := []core.Input{
		core.NewSizedInput(strings.Repeat("a", 600), 0.9, 150),
		core.NewSizedInput(strings.Repeat("b", 800), 0.8, 200),
		core.NewSizedInput(strings.Repeat("c", 400), 0.7, 100),
	}

	got := p.Prune(inputs, 300, 0)

	// at most one partial copy per call; the 0.7 input is dropped even
	// though it is smaller than the truncated one
	require.Len(t, got, 2)
	assert.Equal(t, 0.9, got[0].Relevance)
	assert.Equal(t, 0.8, got[1].Relevance)
}

func TestPruneIdempotentWithoutBudget(t *testing.T) {
	p := NewPruner()
	inputs := []core.Input{
		core.NewSizedInput("c", 0.5, 10),
		core.NewSizedInput("a", 0.9, 10),
		core.NewSizedInput("b", 0.7, 10),
	}

	once := p.Prune(inputs, NoTokenLimit, 0)
	twice := p.Prune(once, NoTokenLimit, 0)

	assert.Equal(t, once, twice)
}
