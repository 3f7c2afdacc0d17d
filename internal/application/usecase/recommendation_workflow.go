package usecase

import (
	"context"

	"github.com/diillson/aws-finops-reporter-go/internal/application/analysis"
	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
)

// recommendationWorkflowResult carries everything the recommendation
// workflow produced for the run report and the telemetry batch.
type recommendationWorkflowResult struct {
	Summary entity.RecommendationSummary
	Plan    entity.ActionPlanResult
	Events  []entity.EventRecord
}

// runRecommendationWorkflow executes the savings-recommendation pipeline.
// The provider is paginated internally; a fetch failure aborts this
// workflow only. An empty recommendation list is a valid result and still
// emits a summary record.
func (uc *ReportUseCase) runRecommendationWorkflow(ctx context.Context, meta eventMeta) (*recommendationWorkflowResult, error) {
	uc.logger.Info("running recommendation workflow")

	recs, err := uc.recRepo.ListRecommendations(ctx, meta.AccountID)
	if err != nil {
		return nil, err
	}

	summary := BuildRecommendationSummary(recs)

	plan := analysis.BuildActionPlan(ctx, uc.reasoner, analysis.ActionPlanPromptInput{
		Summary:         summary,
		Recommendations: recs,
		ExchangeRate:    uc.cfg.JPYExchangeRate,
	})
	if plan.Degraded {
		uc.logger.WithField("reason", plan.Reason).Warn("action plan degraded to fallback")
	}

	events := shapeRecommendationEvents(meta, recs, summary, plan, uc.cfg.JPYExchangeRate)
	uc.logger.WithField("events", len(events)).Info("recommendation workflow finished")

	return &recommendationWorkflowResult{
		Summary: summary,
		Plan:    plan,
		Events:  events,
	}, nil
}
