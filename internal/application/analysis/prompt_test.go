package analysis

import (
	"strings"
	"testing"
	"time"

	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleCostInput() CostPromptInput {
	forecast := decimal.NewFromInt(450)
	return CostPromptInput{
		AccountID: "123456789012",
		Window: entity.ReportingWindow{
			Mode:  entity.ModeMonthToDate,
			Start: time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		},
		Costs: entity.CostSummary{
			Total: decimal.NewFromInt(150),
			TopContributors: []entity.CostContributor{
				{GroupKey: "AmazonEC2", Amount: decimal.NewFromInt(100)},
				{GroupKey: "AmazonS3", Amount: decimal.NewFromInt(50)},
			},
			ForecastTotal: &forecast,
		},
		Budgets: []entity.BudgetInfo{
			{Name: "monthly", Limit: 500, Actual: 150, Currency: "USD"},
		},
		ExchangeRate: decimal.NewFromInt(150),
	}
}

func TestBuildCostPromptIsDeterministic(t *testing.T) {
	in := sampleCostInput()
	assert.Equal(t, BuildCostPrompt(in), BuildCostPrompt(in))
}

func TestBuildCostPromptContent(t *testing.T) {
	prompt := BuildCostPrompt(sampleCostInput())

	parts := strings.SplitN(prompt, "[DATA]\n", 2)
	require.Len(t, parts, 2, "prompt must carry a data block")

	assert.Contains(t, parts[0], `"summary"`)
	assert.Contains(t, parts[0], `"risk_assessment"`)
	assert.Contains(t, parts[0], `"recommended_actions"`)

	assert.Contains(t, parts[1], `"aws_account_id": "123456789012"`)
	assert.Contains(t, parts[1], `"period_start": "2025-03-01"`)
	assert.Contains(t, parts[1], `"period_end": "2025-03-14"`)
	assert.Contains(t, parts[1], `"total_unblended_usd": 150`)
	// 150 USD at rate 150 is 22500 JPY.
	assert.Contains(t, parts[1], `"total_unblended_jpy": 22500`)
	assert.Contains(t, parts[1], `"monthly_forecast_usd": 450`)
	assert.Contains(t, parts[1], `"AmazonEC2"`)
	assert.Contains(t, parts[1], `"monthly"`)
}

func TestBuildCostPromptOmitsMissingForecast(t *testing.T) {
	in := sampleCostInput()
	in.Costs.ForecastTotal = nil
	prompt := BuildCostPrompt(in)

	assert.Contains(t, prompt, `"monthly_forecast_usd": 0`)
}

func TestBuildActionPlanPrompt(t *testing.T) {
	in := ActionPlanPromptInput{
		Summary: entity.RecommendationSummary{
			Count:                 2,
			TotalEstimatedSavings: decimal.NewFromInt(200),
			CountByType:           map[string]int{"Ec2Instance": 2},
		},
		Recommendations: []entity.Recommendation{
			{
				ResourceType:            "Ec2Instance",
				ActionType:              "Rightsize",
				EstimatedMonthlySavings: decimal.NewFromInt(150),
				ImplementationEffort:    entity.EffortLow,
			},
			{
				ResourceType:            "Ec2Instance",
				ActionType:              "Stop",
				EstimatedMonthlySavings: decimal.NewFromInt(50),
				ImplementationEffort:    entity.EffortMedium,
			},
		},
		ExchangeRate: decimal.NewFromInt(150),
	}

	prompt := BuildActionPlanPrompt(in)

	assert.Equal(t, prompt, BuildActionPlanPrompt(in), "prompt must be deterministic")
	assert.Contains(t, prompt, `"overall_assessment"`)
	assert.Contains(t, prompt, `"immediate_actions"`)
	assert.Contains(t, prompt, `"strategic_recommendation"`)
	assert.Contains(t, prompt, `"total_recommendations": 2`)
	assert.Contains(t, prompt, `"total_estimated_savings_usd": 200`)
	assert.Contains(t, prompt, `"total_estimated_savings_jpy": 30000`)
	assert.Contains(t, prompt, `"Rightsize"`)
	assert.Contains(t, prompt, `"implementation_effort": "Low"`)
}

func TestBuildActionPlanPromptEmpty(t *testing.T) {
	in := ActionPlanPromptInput{
		Summary: entity.RecommendationSummary{
			Count:                 0,
			TotalEstimatedSavings: decimal.Zero,
			CountByType:           map[string]int{},
		},
		ExchangeRate: decimal.NewFromInt(150),
	}

	prompt := BuildActionPlanPrompt(in)

	assert.Contains(t, prompt, `"total_recommendations": 0`)
	assert.Contains(t, prompt, `"recommendations": []`)
}
