package report

import (
	"codeberg.org/snonux/sheetxlate/internal/batch"
)

// Pricing is the endpoint tariff per million tokens
type Pricing struct {
	InputPerMillion  float64
	OutputPerMillion float64
	Currency         string
}

// DefaultPricing returns the DeepSeek chat tariff in CNY
func DefaultPricing() Pricing {
	return Pricing{
		InputPerMillion:  2.0,
		OutputPerMillion: 8.0,
		Currency:         "¥",
	}
}

// Bill is the cost of a run
type Bill struct {
	Input    float64
	Output   float64
	Total    float64
	Currency string
}

// Cost prices the token totals of a run
func Cost(totals batch.Totals, p Pricing) Bill {
	in := float64(totals.InputTokens) / 1e6 * p.InputPerMillion
	out := float64(totals.OutputTokens) / 1e6 * p.OutputPerMillion
	return Bill{
		Input:    in,
		Output:   out,
		Total:    in + out,
		Currency: p.Currency,
	}
}
