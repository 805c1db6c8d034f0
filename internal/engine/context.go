package engine

import (
	gocontext "context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sandevgo/ctxrun/internal/core"
)

var (
	ErrEmptyIntent = errors.New("context intent must not be empty")
	ErrNoResolver  = errors.New("no provider resolver configured")
)

// Context is a bounded execution unit for one logical LLM task: ordered
// inputs, constraints, routing state, output hints, and metadata. Mutating
// operations (AddInput, Prune, Route) are not safe for concurrent use on
// the same instance; Extend and Merge never touch their sources.
type Context struct {
	ID          string
	Intent      string
	Category    string
	Inputs      []core.Input
	Constraints map[string]any
	Routing     map[string]any
	Output      map[string]any
	Metadata    map[string]any
	ParentID    string
	CreatedAt   time.Time

	pruner   *Pruner
	router   *Router
	executor *Executor
}

type Option func(*Context)

func WithID(id string) Option {
	return func(c *Context) { c.ID = id }
}

func WithCategory(category string) Option {
	return func(c *Context) { c.Category = category }
}

func WithConstraints(constraints map[string]any) Option {
	return func(c *Context) { c.Constraints = deepCopyMap(constraints) }
}

func WithRouting(routing map[string]any) Option {
	return func(c *Context) { c.Routing = deepCopyMap(routing) }
}

func WithOutput(output map[string]any) Option {
	return func(c *Context) { c.Output = deepCopyMap(output) }
}

func WithMetadata(metadata map[string]any) Option {
	return func(c *Context) { c.Metadata = deepCopyMap(metadata) }
}

func WithParentID(id string) Option {
	return func(c *Context) { c.ParentID = id }
}

// WithRouter substitutes the capability table used by Route.
func WithRouter(r *Router) Option {
	return func(c *Context) { c.router = r }
}

// WithExecutor substitutes the executor used by Execute.
func WithExecutor(e *Executor) Option {
	return func(c *Context) { c.executor = e }
}

// New creates a context with a generated id and creation timestamp.
// Collaborators are constructed up front and replaceable via options.
func New(intent string, opts ...Option) (*Context, error) {
	if intent == "" {
		return nil, ErrEmptyIntent
	}

	c := &Context{
		ID:          uuid.NewString(),
		Intent:      intent,
		Inputs:      []core.Input{},
		Constraints: map[string]any{},
		Routing:     map[string]any{},
		Output:      map[string]any{},
		Metadata:    map[string]any{},
		CreatedAt:   time.Now().UTC(),
		pruner:      NewPruner(),
		router:      NewRouter(core.DefaultModelSpecs()),
		executor:    NewExecutor(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// AddInput appends an input with an estimated token count. Returns the
// context for chaining.
func (c *Context) AddInput(data any, relevance float64) *Context {
	c.Inputs = append(c.Inputs, core.NewInput(data, relevance))
	return c
}

// AddSizedInput appends an input with an explicit token count.
func (c *Context) AddSizedInput(data any, relevance float64, tokens int) *Context {
	c.Inputs = append(c.Inputs, core.NewSizedInput(data, relevance, tokens))
	return c
}

// Prune replaces the input set with the pruner's selection. Pass
// NoTokenLimit to fall back to the max_tokens constraint; if neither is
// set, only the relevance filter applies.
func (c *Context) Prune(maxTokens int, relevanceThreshold float64) *Context {
	if maxTokens < 0 {
		maxTokens = c.maxTokensConstraint()
	}
	c.Inputs = c.pruner.Prune(c.Inputs, maxTokens, relevanceThreshold)
	return c
}

// Route resolves the requested model/provider/strategy against the current
// routing and merges the result in.
func (c *Context) Route(model, provider, strategy string) *Context {
	resolved := c.router.Route(c.Routing, model, provider, strategy)
	for k, v := range resolved {
		c.Routing[k] = v
	}
	return c
}

// ExecuteRequest is one dispatch of a context against a task.
type ExecuteRequest struct {
	Task            string
	SystemPrompt    string
	OverrideRouting map[string]any
}

// Execute dispatches the context through its executor.
func (c *Context) Execute(ctx gocontext.Context, req ExecuteRequest) (*core.Response, error) {
	return c.executor.Execute(ctx, c, req)
}

// Extend creates an independent child context. The child deep-copies
// inputs, constraints, routing, output, and metadata, inherits the intent
// when none is given, gets a fresh id and timestamp, and points back at
// this context via ParentID. Options may override the copied fields.
func (c *Context) Extend(intent string, opts ...Option) *Context {
	if intent == "" {
		intent = c.Intent
	}

	child := &Context{
		ID:          uuid.NewString(),
		Intent:      intent,
		Category:    c.Category,
		Inputs:      deepCopyInputs(c.Inputs),
		Constraints: deepCopyMap(c.Constraints),
		Routing:     deepCopyMap(c.Routing),
		Output:      deepCopyMap(c.Output),
		Metadata:    deepCopyMap(c.Metadata),
		ParentID:    c.ID,
		CreatedAt:   time.Now().UTC(),
		pruner:      c.pruner,
		router:      c.router,
		executor:    c.executor,
	}
	for _, opt := range opts {
		opt(child)
	}
	return child
}

// Merge combines this context with another into a new one. Inputs
// concatenate (self first, no deduplication), the max_tokens constraint
// resolves to the most restrictive value, and the other context wins on
// routing and metadata key conflicts. The result has a fresh id and no
// parent.
func (c *Context) Merge(other *Context) *Context {
	merged := &Context{
		ID:          uuid.NewString(),
		Intent:      c.Intent,
		Category:    c.Category,
		Inputs:      append(deepCopyInputs(c.Inputs), deepCopyInputs(other.Inputs)...),
		Constraints: deepCopyMap(c.Constraints),
		Routing:     deepCopyMap(c.Routing),
		Output:      deepCopyMap(c.Output),
		Metadata:    deepCopyMap(c.Metadata),
		CreatedAt:   time.Now().UTC(),
		pruner:      c.pruner,
		router:      c.router,
		executor:    c.executor,
	}

	if otherMax, ok := intValue(other.Constraints, "max_tokens"); ok {
		if selfMax, ok := intValue(merged.Constraints, "max_tokens"); ok && selfMax < otherMax {
			merged.Constraints["max_tokens"] = selfMax
		} else {
			merged.Constraints["max_tokens"] = otherMax
		}
	}

	for k, v := range deepCopyMap(other.Routing) {
		merged.Routing[k] = v
	}
	for k, v := range deepCopyMap(other.Metadata) {
		merged.Metadata[k] = v
	}

	return merged
}

// TotalTokens sums the token estimates of the current inputs.
func (c *Context) TotalTokens() int {
	total := 0
	for _, in := range c.Inputs {
		total += in.Tokens
	}
	return total
}

func (c *Context) maxTokensConstraint() int {
	if v, ok := intValue(c.Constraints, "max_tokens"); ok {
		return v
	}
	return NoTokenLimit
}

func (c *Context) String() string {
	return fmt.Sprintf("Context(id=%.8s, intent=%s, inputs=%d, tokens=%d)",
		c.ID, c.Intent, len(c.Inputs), c.TotalTokens())
}

// contextJSON is the wire form shared with other runtimes.
type contextJSON struct {
	ID          string         `json:"id"`
	Intent      string         `json:"intent"`
	Category    string         `json:"category,omitempty"`
	Inputs      []core.Input   `json:"inputs"`
	Constraints map[string]any `json:"constraints"`
	Routing     map[string]any `json:"routing"`
	Output      map[string]any `json:"output"`
	Metadata    map[string]any `json:"metadata"`
	ParentID    string         `json:"parent_id,omitempty"`
	CreatedAt   string         `json:"created_at"`
}

func (c *Context) MarshalJSON() ([]byte, error) {
	return json.Marshal(contextJSON{
		ID:          c.ID,
		Intent:      c.Intent,
		Category:    c.Category,
		Inputs:      c.Inputs,
		Constraints: c.Constraints,
		Routing:     c.Routing,
		Output:      c.Output,
		Metadata:    c.Metadata,
		ParentID:    c.ParentID,
		CreatedAt:   c.CreatedAt.UTC().Format(time.RFC3339Nano),
	})
}

// ToJSON serializes the context for handoff or replay.
func (c *Context) ToJSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}

// FromJSON restores a context. Missing id/intent/created_at or a malformed
// timestamp fail with a descriptive error; no partial context is returned.
func FromJSON(data []byte, opts ...Option) (*Context, error) {
	var wire contextJSON
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("decode context: %w", err)
	}

	if wire.ID == "" {
		return nil, errors.New("decode context: missing id")
	}
	if wire.Intent == "" {
		return nil, errors.New("decode context: missing intent")
	}
	if wire.CreatedAt == "" {
		return nil, errors.New("decode context: missing created_at")
	}
	createdAt, err := time.Parse(time.RFC3339Nano, wire.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("decode context: bad created_at %q: %w", wire.CreatedAt, err)
	}

	c, err := New(wire.Intent, opts...)
	if err != nil {
		return nil, err
	}
	c.ID = wire.ID
	c.Category = wire.Category
	c.ParentID = wire.ParentID
	c.CreatedAt = createdAt.UTC()
	if wire.Inputs != nil {
		c.Inputs = wire.Inputs
	}
	if wire.Constraints != nil {
		c.Constraints = wire.Constraints
	}
	if wire.Routing != nil {
		c.Routing = wire.Routing
	}
	if wire.Output != nil {
		c.Output = wire.Output
	}
	if wire.Metadata != nil {
		c.Metadata = wire.Metadata
	}
	return c, nil
}

// deepCopyMap clones a JSON-shaped map: nested maps and slices are copied
// structurally, scalars as values.
func deepCopyMap(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopyValue(v)
	}
	return out
}

func deepCopyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return deepCopyMap(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = deepCopyValue(item)
		}
		return out
	default:
		return val
	}
}

func deepCopyInputs(inputs []core.Input) []core.Input {
	out := make([]core.Input, len(inputs))
	for i, in := range inputs {
		out[i] = core.Input{
			Data:      deepCopyValue(in.Data),
			Relevance: in.Relevance,
			Tokens:    in.Tokens,
		}
	}
	return out
}

// intValue reads an integer out of a JSON-shaped map, tolerating the
// numeric types a decoder may produce.
func intValue(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
