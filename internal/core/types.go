package core

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	AppName       = "ctxrun"
	AppUserAgent  = "ctxrun/0.1"
	AppRepository = "https://github.com/sandevgo/ctxrun"
	AppVersion    = "0.1.0"
)

// CharsPerToken is the fixed ratio used for token estimation. It is a
// deliberate approximation; pruning decisions depend on this exact value.
const CharsPerToken = 4

// Input is a single piece of content contributed to a context, weighted by
// relevance and carrying a token cost estimate. Immutable after creation
// except when the pruner builds a truncated copy.
type Input struct {
	Data      any     `json:"data"`
	Relevance float64 `json:"relevance"`
	Tokens    int     `json:"tokens"`
}

// NewInput builds an input with an estimated token count.
func NewInput(data any, relevance float64) Input {
	return Input{
		Data:      data,
		Relevance: relevance,
		Tokens:    EstimateTokens(data),
	}
}

// NewSizedInput builds an input with an explicit token count. A count of
// zero or less falls back to the estimate.
func NewSizedInput(data any, relevance float64, tokens int) Input {
	if tokens <= 0 {
		tokens = EstimateTokens(data)
	}
	return Input{
		Data:      data,
		Relevance: relevance,
		Tokens:    tokens,
	}
}

// UnmarshalJSON applies the construction defaults to the wire form: an
// absent relevance means fully relevant (1.0), and an absent or
// non-positive token count is re-estimated from the data.
func (in *Input) UnmarshalJSON(data []byte) error {
	var wire struct {
		Data      any      `json:"data"`
		Relevance *float64 `json:"relevance"`
		Tokens    *int     `json:"tokens"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	in.Data = wire.Data
	in.Relevance = 1.0
	if wire.Relevance != nil {
		in.Relevance = *wire.Relevance
	}
	if wire.Tokens != nil && *wire.Tokens > 0 {
		in.Tokens = *wire.Tokens
	} else {
		in.Tokens = EstimateTokens(wire.Data)
	}
	return nil
}

// EstimateTokens approximates the token cost of a value from the length of
// its serialized form.
func EstimateTokens(data any) int {
	return len(Stringify(data)) / CharsPerToken
}

// Stringify renders a value the way it would appear in a prompt: strings
// pass through, everything else is JSON-encoded.
func Stringify(data any) string {
	switch v := data.(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(b)
	}
}

// ResponseMeta summarizes the executed context.
type ResponseMeta struct {
	Intent           string `json:"intent"`
	InputCount       int    `json:"input_count"`
	TotalInputTokens int    `json:"total_input_tokens"`
}

// Response is the envelope returned from executing a context.
type Response struct {
	Result    string        `json:"result"`
	ContextID string        `json:"context_id"`
	Model     string        `json:"model_used"`
	Provider  string        `json:"provider_used"`
	Duration  time.Duration `json:"duration"`
	Usage     Usage         `json:"usage"`
	Metadata  ResponseMeta  `json:"metadata"`
}
