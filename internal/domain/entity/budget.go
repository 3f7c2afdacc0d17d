package entity

// BudgetInfo is one AWS budget with its actual and forecasted spend. It is
// fetched best-effort as context for the reasoning prompt; a run without
// budgets is still valid.
type BudgetInfo struct {
	Name     string  `json:"name"`
	Limit    float64 `json:"limit"`
	Actual   float64 `json:"actual"`
	Forecast float64 `json:"forecast,omitempty"`
	Currency string  `json:"currency,omitempty"`
}
