// Package pricing converts USD budgets into token ceilings and token usage
// back into USD costs. Rates are USD per single token.
package pricing

import "github.com/sandevgo/ctxrun/internal/core"

type Rate struct {
	Input  float64
	Output float64
}

// fallbackModel is used when a model has no pricing entry.
const fallbackModel = "gpt-4o-mini"

var rates = map[string]Rate{
	"gpt-4o-mini": {
		Input:  0.00000015, // $0.15 per 1M tokens
		Output: 0.0000006,  // $0.60 per 1M tokens
	},
	"gpt-4o": {
		Input:  0.0000025, // $2.50 per 1M tokens
		Output: 0.00001,   // $10.00 per 1M tokens
	},
	"gpt-4": {
		Input:  0.00003, // $30 per 1M tokens
		Output: 0.00006, // $60 per 1M tokens
	},
}

func rateFor(model string) Rate {
	if r, ok := rates[model]; ok {
		return r
	}
	return rates[fallbackModel]
}

// BudgetToMaxTokens converts a USD budget into an approximate token
// ceiling. Assumes a 30/70 input/output token split and keeps a 20% safety
// margin so runs stay under budget.
func BudgetToMaxTokens(budgetUSD float64, model string) int {
	r := rateFor(model)
	avgPricePerToken := 0.3*r.Input + 0.7*r.Output
	return int((budgetUSD * 0.8) / avgPricePerToken)
}

// Cost calculates the USD cost of reported usage.
func Cost(usage core.Usage, model string) float64 {
	r := rateFor(model)
	return float64(usage.PromptTokens)*r.Input + float64(usage.CompletionTokens)*r.Output
}
