package entity

import "github.com/shopspring/decimal"

// CostLineItem is one grouped cost row returned by the cost data provider
// for the reporting window. Amount is always in the provider's native
// currency (USD); converted values are derived at presentation time.
type CostLineItem struct {
	GroupKey string          `json:"group_key"`
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// CostContributor is one entry of the top-N cost ranking.
type CostContributor struct {
	GroupKey string          `json:"group_key"`
	Amount   decimal.Decimal `json:"amount"`
}

// CostSummary is the aggregated view of a cost workflow run. It is built
// once per run and never mutated afterwards. Total is the exact sum of all
// line items; ForecastTotal is present only in month-to-date mode.
type CostSummary struct {
	Total           decimal.Decimal   `json:"total"`
	TopContributors []CostContributor `json:"top_contributors"`
	ForecastTotal   *decimal.Decimal  `json:"forecast_total,omitempty"`
}

// GroupBySpec selects the Cost Explorer grouping dimension for a run. When
// a tag key is configured it takes precedence over the dimension key.
type GroupBySpec struct {
	DimensionKey string
	TagKey       string
}

// IsTag reports whether the grouping resolves to a cost allocation tag.
func (g GroupBySpec) IsTag() bool {
	return g.TagKey != ""
}

// Key returns the grouping key actually queried.
func (g GroupBySpec) Key() string {
	if g.IsTag() {
		return g.TagKey
	}
	return g.DimensionKey
}
