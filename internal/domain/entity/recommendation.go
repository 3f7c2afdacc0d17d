package entity

import "github.com/shopspring/decimal"

// ImplementationEffort is the provider's estimate of how much work a
// recommendation takes to apply.
type ImplementationEffort string

const (
	EffortLow    ImplementationEffort = "Low"
	EffortMedium ImplementationEffort = "Medium"
	EffortHigh   ImplementationEffort = "High"
)

// Recommendation is a single savings recommendation from the optimization
// provider.
type Recommendation struct {
	RecommendationID           string               `json:"recommendation_id"`
	ResourceID                 string               `json:"resource_id"`
	ResourceARN                string               `json:"resource_arn,omitempty"`
	ResourceType               string               `json:"resource_type"`
	Region                     string               `json:"region,omitempty"`
	ActionType                 string               `json:"action_type,omitempty"`
	ImplementationEffort       ImplementationEffort `json:"implementation_effort"`
	EstimatedMonthlySavings    decimal.Decimal      `json:"estimated_monthly_savings"`
	EstimatedSavingsPercentage float64              `json:"estimated_savings_percentage,omitempty"`
	CurrentSummary             string               `json:"current_summary,omitempty"`
	RecommendedSummary         string               `json:"recommended_summary,omitempty"`
	Source                     string               `json:"source,omitempty"`
}

// RecommendationSummary aggregates the full recommendation list for one
// run. Count always equals the number of raw recommendations, including
// zero.
type RecommendationSummary struct {
	Count                 int             `json:"count"`
	TotalEstimatedSavings decimal.Decimal `json:"total_estimated_savings"`
	CountByType           map[string]int  `json:"count_by_type"`
}
