package core

// ModelSpec describes one entry in the model capability table.
type ModelSpec struct {
	Name            string
	Provider        string
	MaxTokens       int
	CostPer1kInput  float64
	CostPer1kOutput float64
	Quality         float64
	Speed           float64
}

// DefaultModelSpecs returns the built-in capability table. Order matters:
// strategy ties resolve to the earliest entry.
func DefaultModelSpecs() []ModelSpec {
	return []ModelSpec{
		{
			Name:            "gpt-4",
			Provider:        "openai",
			MaxTokens:       8192,
			CostPer1kInput:  0.03,
			CostPer1kOutput: 0.06,
			Quality:         0.95,
			Speed:           0.6,
		},
		{
			Name:            "gpt-3.5-turbo",
			Provider:        "openai",
			MaxTokens:       4096,
			CostPer1kInput:  0.0015,
			CostPer1kOutput: 0.002,
			Quality:         0.75,
			Speed:           0.9,
		},
		{
			Name:            "claude-3-opus",
			Provider:        "anthropic",
			MaxTokens:       4096,
			CostPer1kInput:  0.015,
			CostPer1kOutput: 0.075,
			Quality:         0.95,
			Speed:           0.7,
		},
		{
			Name:            "claude-3-sonnet",
			Provider:        "anthropic",
			MaxTokens:       4096,
			CostPer1kInput:  0.003,
			CostPer1kOutput: 0.015,
			Quality:         0.85,
			Speed:           0.85,
		},
	}
}
