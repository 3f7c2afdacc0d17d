package analysis

import (
	"context"

	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
	"github.com/diillson/aws-finops-reporter-go/internal/domain/repository"
)

// FallbackMessage is the fixed text used when the reasoning step cannot
// produce a usable analysis. AI unavailability must never block telemetry
// emission of the numeric data.
const FallbackMessage = "AI analysis unavailable"

// FallbackAnalysis is the degraded cost analysis, tagged with the reason.
func FallbackAnalysis(reason string) entity.CostAnalysisResult {
	return entity.CostAnalysisResult{
		Analysis: entity.AiAnalysis{
			Summary:            FallbackMessage,
			RiskAssessment:     FallbackMessage,
			RecommendedActions: []string{},
		},
		Degraded: true,
		Reason:   reason,
	}
}

// FallbackActionPlan is the degraded action plan, tagged with the reason.
func FallbackActionPlan(reason string) entity.ActionPlanResult {
	return entity.ActionPlanResult{
		Plan: entity.AiActionPlan{
			OverallAssessment:       FallbackMessage,
			ImmediateActions:        []string{},
			StrategicRecommendation: FallbackMessage,
		},
		Degraded: true,
		Reason:   reason,
	}
}

// AnalyzeCosts builds the cost prompt, makes one synchronous reasoning
// call, and strictly validates the reply. Any provider or parse failure
// downgrades to the fallback; this function never returns an error.
func AnalyzeCosts(ctx context.Context, reasoner repository.ReasoningRepository, in CostPromptInput) entity.CostAnalysisResult {
	raw, err := reasoner.Infer(ctx, BuildCostPrompt(in))
	if err != nil {
		return FallbackAnalysis(err.Error())
	}

	parsed, err := ParseCostAnalysis(raw)
	if err != nil {
		return FallbackAnalysis(err.Error())
	}

	return entity.CostAnalysisResult{Analysis: parsed}
}

// BuildActionPlan is the recommendation-workflow counterpart of
// AnalyzeCosts.
func BuildActionPlan(ctx context.Context, reasoner repository.ReasoningRepository, in ActionPlanPromptInput) entity.ActionPlanResult {
	raw, err := reasoner.Infer(ctx, BuildActionPlanPrompt(in))
	if err != nil {
		return FallbackActionPlan(err.Error())
	}

	parsed, err := ParseActionPlan(raw)
	if err != nil {
		return FallbackActionPlan(err.Error())
	}

	return entity.ActionPlanResult{Plan: parsed}
}
