package engine

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequiresIntent(t *testing.T) {
	_, err := New("")
	assert.ErrorIs(t, err, ErrEmptyIntent)

	c, err := New("analyze")
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, c.CreatedAt.Location())
}

func TestAddInputEstimatesTokens(t *testing.T) {
	c, err := New("analyze")
	require.NoError(t, err)

	c.AddInput(strings.Repeat("x", 400), 0.9).
		AddSizedInput("pre-counted", 0.5, 42)

	require.Len(t, c.Inputs, 2)
	assert.Equal(t, 100, c.Inputs[0].Tokens)
	assert.Equal(t, 42, c.Inputs[1].Tokens)
	assert.Equal(t, 142, c.TotalTokens())
}

func TestPruneUsesConstraintWhenUnspecified(t *testing.T) {
	c, err := New("analyze", WithConstraints(map[string]any{"max_tokens": 100}))
	require.NoError(t, err)

	c.AddSizedInput(strings.Repeat("a", 200), 0.9, 50).
		AddSizedInput(strings.Repeat("b", 200), 0.7, 50).
		AddSizedInput(strings.Repeat("c", 200), 0.5, 50)

	c.Prune(NoTokenLimit, 0)

	assert.LessOrEqual(t, c.TotalTokens(), 100)
	require.Len(t, c.Inputs, 2)
	assert.Equal(t, 0.9, c.Inputs[0].Relevance)
	assert.Equal(t, 0.7, c.Inputs[1].Relevance)
}

func TestRouteMergesIntoRouting(t *testing.T) {
	c, err := New("analyze", WithRouting(map[string]any{"temperature": 0.2}))
	require.NoError(t, err)

	c.Route("", "", StrategyQualityOptimized)

	assert.Equal(t, "gpt-4", c.Routing["model"])
	assert.Equal(t, "openai", c.Routing["provider"])
	assert.Equal(t, 0.2, c.Routing["temperature"])
}

func TestExtend(t *testing.T) {
	parent, err := New("analyze",
		WithConstraints(map[string]any{"max_tokens": 2000}),
		WithMetadata(map[string]any{"team": "data"}),
	)
	require.NoError(t, err)
	parent.AddInput("first", 0.9).AddInput("second", 0.8)

	child := parent.Extend("summarize")

	assert.Equal(t, parent.ID, child.ParentID)
	assert.Equal(t, "summarize", child.Intent)
	assert.NotEqual(t, parent.ID, child.ID)
	assert.Len(t, child.Inputs, 2)
	assert.Equal(t, 2000, child.Constraints["max_tokens"])

	// child is fully independent of the parent
	child.Metadata["team"] = "ops"
	child.AddInput("third", 0.5)
	assert.Equal(t, "data", parent.Metadata["team"])
	assert.Len(t, parent.Inputs, 2)
}

func TestExtendInheritsIntent(t *testing.T) {
	parent, err := New("analyze")
	require.NoError(t, err)

	child := parent.Extend("")
	assert.Equal(t, "analyze", child.Intent)
}

func TestMergeConstraintsMostRestrictive(t *testing.T) {
	a, err := New("analyze", WithConstraints(map[string]any{"max_tokens": 4000}))
	require.NoError(t, err)
	b, err := New("extract", WithConstraints(map[string]any{"max_tokens": 1000}))
	require.NoError(t, err)

	assert.Equal(t, 1000, a.Merge(b).Constraints["max_tokens"])
	assert.Equal(t, 1000, b.Merge(a).Constraints["max_tokens"])
}

func TestMergeConstraintSingleSided(t *testing.T) {
	a, err := New("analyze")
	require.NoError(t, err)
	b, err := New("extract", WithConstraints(map[string]any{"max_tokens": 1000}))
	require.NoError(t, err)

	assert.Equal(t, 1000, a.Merge(b).Constraints["max_tokens"])
	assert.Equal(t, 1000, b.Merge(a).Constraints["max_tokens"])
}

func TestMergeInputsAndOverlays(t *testing.T) {
	a, err := New("analyze",
		WithRouting(map[string]any{"model": "gpt-4", "temperature": 0.1}),
		WithMetadata(map[string]any{"owner": "a", "shared": "a"}),
	)
	require.NoError(t, err)
	a.AddInput("a1", 0.9).AddInput("a2", 0.8)

	b, err := New("extract",
		WithRouting(map[string]any{"model": "claude-3-opus"}),
		WithMetadata(map[string]any{"shared": "b"}),
	)
	require.NoError(t, err)
	b.AddInput("b1", 0.7)

	merged := a.Merge(b)

	// self's inputs first, then other's, no deduplication
	require.Len(t, merged.Inputs, 3)
	assert.Equal(t, "a1", merged.Inputs[0].Data)
	assert.Equal(t, "b1", merged.Inputs[2].Data)

	// other wins on conflicts, unrelated keys survive
	assert.Equal(t, "claude-3-opus", merged.Routing["model"])
	assert.Equal(t, 0.1, merged.Routing["temperature"])
	assert.Equal(t, "b", merged.Metadata["shared"])
	assert.Equal(t, "a", merged.Metadata["owner"])

	assert.Equal(t, "analyze", merged.Intent)
	assert.Empty(t, merged.ParentID)
	assert.NotEqual(t, a.ID, merged.ID)
	assert.NotEqual(t, b.ID, merged.ID)

	// sources untouched
	assert.Len(t, a.Inputs, 2)
	assert.Len(t, b.Inputs, 1)
	assert.Equal(t, "gpt-4", a.Routing["model"])
}

func TestJSONRoundTrip(t *testing.T) {
	c, err := New("analyze",
		WithCategory("reports"),
		WithConstraints(map[string]any{"max_tokens": 4000, "max_cost": 0.5}),
		WithRouting(map[string]any{"model": "gpt-4", "provider": "openai"}),
		WithOutput(map[string]any{"format": "json"}),
		WithMetadata(map[string]any{"user": "dana"}),
		WithParentID("parent-123"),
	)
	require.NoError(t, err)
	c.AddInput("some text", 0.9)
	c.AddSizedInput(map[string]any{"key": "value"}, 0.5, 77)

	data, err := c.ToJSON()
	require.NoError(t, err)

	restored, err := FromJSON(data)
	require.NoError(t, err)

	assert.Equal(t, c.ID, restored.ID)
	assert.Equal(t, c.Intent, restored.Intent)
	assert.Equal(t, c.Category, restored.Category)
	assert.Equal(t, c.ParentID, restored.ParentID)
	assert.True(t, c.CreatedAt.Equal(restored.CreatedAt))

	require.Len(t, restored.Inputs, 2)
	assert.Equal(t, "some text", restored.Inputs[0].Data)
	assert.Equal(t, 0.9, restored.Inputs[0].Relevance)
	assert.Equal(t, c.Inputs[0].Tokens, restored.Inputs[0].Tokens)
	assert.Equal(t, map[string]any{"key": "value"}, restored.Inputs[1].Data)
	assert.Equal(t, 77, restored.Inputs[1].Tokens)

	assert.Equal(t, "gpt-4", restored.Routing["model"])
	assert.Equal(t, "json", restored.Output["format"])
	assert.Equal(t, "dana", restored.Metadata["user"])

	maxTokens, ok := restored.Constraints["max_tokens"].(float64)
	require.True(t, ok)
	assert.Equal(t, 4000, int(maxTokens))
}

func TestFromJSONAcceptsZSuffix(t *testing.T) {
	data := []byte(`{
		"id": "ctx-1",
		"intent": "analyze",
		"inputs": [],
		"constraints": {},
		"routing": {},
		"output": {},
		"metadata": {},
		"created_at": "2026-08-24T10:30:00Z"
	}`)

	c, err := FromJSON(data)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 8, 24, 10, 30, 0, 0, time.UTC), c.CreatedAt)

	// offset form is equivalent
	data = []byte(`{"id":"ctx-1","intent":"analyze","created_at":"2026-08-24T10:30:00+00:00"}`)
	c2, err := FromJSON(data)
	require.NoError(t, err)
	assert.True(t, c.CreatedAt.Equal(c2.CreatedAt))
}

func TestFromJSONDefaultsSparseInputs(t *testing.T) {
	data := []byte(`{
		"id": "ctx-1",
		"intent": "analyze",
		"inputs": [{"data": "abcdefghijklmnopqrst"}],
		"created_at": "2026-01-02T15:04:05Z"
	}`)

	c, err := FromJSON(data)
	require.NoError(t, err)
	require.Len(t, c.Inputs, 1)
	assert.Equal(t, 1.0, c.Inputs[0].Relevance)
	assert.Equal(t, 5, c.Inputs[0].Tokens)
}

func TestFromJSONFailsFast(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not json", `{{{`},
		{"missing id", `{"intent":"analyze","created_at":"2026-08-24T10:30:00Z"}`},
		{"missing intent", `{"id":"ctx-1","created_at":"2026-08-24T10:30:00Z"}`},
		{"missing created_at", `{"id":"ctx-1","intent":"analyze"}`},
		{"bad created_at", `{"id":"ctx-1","intent":"analyze","created_at":"yesterday"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := FromJSON([]byte(tt.data))
			assert.Error(t, err)
			assert.Nil(t, c)
		})
	}
}

func TestPrunedContextRoundTrip(t *testing.T) {
	c, err := New("analyze", WithConstraints(map[string]any{"max_tokens": 100}))
	require.NoError(t, err)
	c.AddSizedInput("keep", 0.9, 50).AddSizedInput("drop", 0.1, 500)
	c.Prune(NoTokenLimit, 0.5)

	data, err := c.ToJSON()
	require.NoError(t, err)
	restored, err := FromJSON(data)
	require.NoError(t, err)

	require.Len(t, restored.Inputs, 1)
	assert.Equal(t, "keep", restored.Inputs[0].Data)
	assert.Equal(t, 50, restored.TotalTokens())
}
