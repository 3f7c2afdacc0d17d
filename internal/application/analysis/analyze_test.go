package analysis

import (
	"context"
	"testing"

	"github.com/diillson/aws-finops-reporter-go/internal/shared/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReasoner returns a canned reply or error and records the prompt.
type fakeReasoner struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeReasoner) Infer(ctx context.Context, prompt string) (string, error) {
	f.prompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

func TestAnalyzeCostsSuccess(t *testing.T) {
	reasoner := &fakeReasoner{
		reply: `{"summary":"spend is stable","risk_assessment":"low","recommended_actions":["review S3 lifecycle"]}`,
	}

	result := AnalyzeCosts(context.Background(), reasoner, sampleCostInput())

	require.False(t, result.Degraded)
	assert.Empty(t, result.Reason)
	assert.Equal(t, "spend is stable", result.Analysis.Summary)
	assert.Equal(t, []string{"review S3 lifecycle"}, result.Analysis.RecommendedActions)
	assert.NotEmpty(t, reasoner.prompt, "the prompt must reach the provider")
}

func TestAnalyzeCostsProviderFailureDegrades(t *testing.T) {
	reasoner := &fakeReasoner{err: &types.ProviderError{Err: assert.AnError}}

	result := AnalyzeCosts(context.Background(), reasoner, sampleCostInput())

	require.True(t, result.Degraded)
	assert.NotEmpty(t, result.Reason)
	assert.Equal(t, FallbackMessage, result.Analysis.Summary)
	assert.Equal(t, FallbackMessage, result.Analysis.RiskAssessment)
	assert.Empty(t, result.Analysis.RecommendedActions)
}

func TestAnalyzeCostsMalformedReplyDegrades(t *testing.T) {
	reasoner := &fakeReasoner{reply: "sorry, I cannot help with that"}

	result := AnalyzeCosts(context.Background(), reasoner, sampleCostInput())

	require.True(t, result.Degraded)
	assert.Equal(t, FallbackMessage, result.Analysis.Summary)
}

func TestBuildActionPlanSuccess(t *testing.T) {
	reasoner := &fakeReasoner{
		reply: `{"overall_assessment":"good savings potential","immediate_actions":["rightsize EC2"],"strategic_recommendation":"adopt savings plans"}`,
	}

	result := BuildActionPlan(context.Background(), reasoner, ActionPlanPromptInput{
		ExchangeRate: decimal.NewFromInt(150),
	})

	require.False(t, result.Degraded)
	assert.Equal(t, "good savings potential", result.Plan.OverallAssessment)
	assert.Equal(t, "adopt savings plans", result.Plan.StrategicRecommendation)
}

func TestBuildActionPlanFailureDegrades(t *testing.T) {
	reasoner := &fakeReasoner{reply: `{"overall_assessment":"o"}`}

	result := BuildActionPlan(context.Background(), reasoner, ActionPlanPromptInput{
		ExchangeRate: decimal.NewFromInt(150),
	})

	require.True(t, result.Degraded)
	assert.Equal(t, FallbackMessage, result.Plan.OverallAssessment)
	assert.Empty(t, result.Plan.ImmediateActions)
}
