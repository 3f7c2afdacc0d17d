package analysis

import (
	"encoding/json"
	"fmt"

	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Prompt builders are pure functions: identical inputs always produce the
// identical prompt string. They embed only aggregated figures, never raw
// line items, so a prompt stays small regardless of account size.

// CostPromptInput carries everything the cost prompt embeds.
type CostPromptInput struct {
	AccountID    string
	Window       entity.ReportingWindow
	Costs        entity.CostSummary
	Budgets      []entity.BudgetInfo
	ExchangeRate decimal.Decimal
}

// ActionPlanPromptInput carries everything the action-plan prompt embeds.
type ActionPlanPromptInput struct {
	Summary         entity.RecommendationSummary
	Recommendations []entity.Recommendation
	ExchangeRate    decimal.Decimal
}

type costPromptPayload struct {
	AccountID          string              `json:"aws_account_id"`
	PeriodStart        string              `json:"period_start"`
	PeriodEnd          string              `json:"period_end"`
	TotalUnblendedUSD  float64             `json:"total_unblended_usd"`
	TotalUnblendedJPY  float64             `json:"total_unblended_jpy"`
	MonthlyForecastUSD float64             `json:"monthly_forecast_usd"`
	MonthlyForecastJPY float64             `json:"monthly_forecast_jpy"`
	TopCostDrivers     []costDriverPayload `json:"top_cost_drivers"`
	Budgets            []budgetPayload     `json:"budgets,omitempty"`
}

type costDriverPayload struct {
	Group   string  `json:"group"`
	CostUSD float64 `json:"cost_usd"`
	CostJPY float64 `json:"cost_jpy"`
}

type budgetPayload struct {
	Name        string  `json:"name"`
	LimitUSD    float64 `json:"limit_usd"`
	ActualUSD   float64 `json:"actual_usd"`
	ForecastUSD float64 `json:"forecast_usd,omitempty"`
}

type actionPlanPayload struct {
	TotalRecommendations     int                     `json:"total_recommendations"`
	TotalEstimatedSavingsUSD float64                 `json:"total_estimated_savings_usd"`
	TotalEstimatedSavingsJPY float64                 `json:"total_estimated_savings_jpy"`
	CountByResourceType      map[string]int          `json:"count_by_resource_type"`
	Recommendations          []recommendationPayload `json:"recommendations"`
}

type recommendationPayload struct {
	ResourceType         string  `json:"resource_type"`
	Action               string  `json:"action"`
	EstimatedSavingsUSD  float64 `json:"estimated_savings_usd"`
	EstimatedSavingsJPY  float64 `json:"estimated_savings_jpy"`
	ImplementationEffort string  `json:"implementation_effort"`
}

const costPromptInstructions = `You are an experienced FinOps specialist. Analyze the AWS monthly cost
data below and write a report for IT administrators.

Your tasks:
1. Compare actual spend (and the monthly forecast when it is greater than
   zero) against any budgets provided, and assess the risk of overrun.
2. Identify the services or groups driving the cost from top_cost_drivers.
3. When you mention an amount, state both the USD and JPY values.

Respond with a single JSON object and nothing else, using exactly these
fields:
{
  "summary": "<one-paragraph summary of spend for the period>",
  "risk_assessment": "<budget overrun risk and main cost drivers>",
  "recommended_actions": ["<concrete action>", "..."]
}`

const actionPlanPromptInstructions = `You are an experienced cloud cost optimization consultant. Analyze the
AWS savings recommendations below and produce an actionable plan for IT
administrators.

Your tasks:
1. Review all recommendations and establish the total savings potential.
2. Prioritize by estimated savings versus implementation_effort; savings
   that are large and easy to implement come first.
3. When you mention an amount, state both the USD and JPY values.

Respond with a single JSON object and nothing else, using exactly these
fields:
{
  "overall_assessment": "<overall savings potential and pattern>",
  "immediate_actions": ["<highest priority action with amounts>", "..."],
  "strategic_recommendation": "<longer-term recommendation>"
}`

// BuildCostPrompt renders the cost-analysis prompt from the aggregates.
func BuildCostPrompt(in CostPromptInput) string {
	payload := costPromptPayload{
		AccountID:         in.AccountID,
		PeriodStart:       in.Window.Start.Format("2006-01-02"),
		PeriodEnd:         in.Window.End.Format("2006-01-02"),
		TotalUnblendedUSD: in.Costs.Total.InexactFloat64(),
		TotalUnblendedJPY: toJPY(in.Costs.Total, in.ExchangeRate),
		TopCostDrivers:    []costDriverPayload{},
	}
	if in.Costs.ForecastTotal != nil {
		payload.MonthlyForecastUSD = in.Costs.ForecastTotal.InexactFloat64()
		payload.MonthlyForecastJPY = toJPY(*in.Costs.ForecastTotal, in.ExchangeRate)
	}
	for _, c := range in.Costs.TopContributors {
		payload.TopCostDrivers = append(payload.TopCostDrivers, costDriverPayload{
			Group:   c.GroupKey,
			CostUSD: c.Amount.InexactFloat64(),
			CostJPY: toJPY(c.Amount, in.ExchangeRate),
		})
	}
	for _, b := range in.Budgets {
		payload.Budgets = append(payload.Budgets, budgetPayload{
			Name:        b.Name,
			LimitUSD:    b.Limit,
			ActualUSD:   b.Actual,
			ForecastUSD: b.Forecast,
		})
	}

	return renderPrompt(costPromptInstructions, payload)
}

// BuildActionPlanPrompt renders the recommendation prompt from the
// aggregates plus a per-recommendation digest.
func BuildActionPlanPrompt(in ActionPlanPromptInput) string {
	payload := actionPlanPayload{
		TotalRecommendations:     in.Summary.Count,
		TotalEstimatedSavingsUSD: in.Summary.TotalEstimatedSavings.InexactFloat64(),
		TotalEstimatedSavingsJPY: toJPY(in.Summary.TotalEstimatedSavings, in.ExchangeRate),
		CountByResourceType:      in.Summary.CountByType,
		Recommendations:          []recommendationPayload{},
	}
	for _, r := range in.Recommendations {
		payload.Recommendations = append(payload.Recommendations, recommendationPayload{
			ResourceType:         r.ResourceType,
			Action:               r.ActionType,
			EstimatedSavingsUSD:  r.EstimatedMonthlySavings.InexactFloat64(),
			EstimatedSavingsJPY:  toJPY(r.EstimatedMonthlySavings, in.ExchangeRate),
			ImplementationEffort: string(r.ImplementationEffort),
		})
	}

	return renderPrompt(actionPlanPromptInstructions, payload)
}

func renderPrompt(instructions string, payload any) string {
	// Struct fields marshal in declaration order and map keys sort, so
	// the rendered data block is deterministic.
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		data = []byte("{}")
	}
	return fmt.Sprintf("%s\n\n[DATA]\n%s", instructions, data)
}

func toJPY(usd, rate decimal.Decimal) float64 {
	return usd.Mul(rate).Round(0).InexactFloat64()
}
