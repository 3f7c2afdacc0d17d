package usecase

import (
	"context"
	"time"

	"github.com/diillson/aws-finops-reporter-go/internal/application/analysis"
	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
	"github.com/sirupsen/logrus"
)

// costWorkflowResult carries everything the cost workflow produced for the
// run report and the telemetry batch.
type costWorkflowResult struct {
	Window   entity.ReportingWindow
	Summary  entity.CostSummary
	Analysis entity.CostAnalysisResult
	Events   []entity.EventRecord
}

// runCostWorkflow executes the cost-reporting pipeline: window selection,
// cost aggregation, AI analysis, event shaping. A data fetch failure
// aborts this workflow only; an AI failure only degrades the analysis.
func (uc *ReportUseCase) runCostWorkflow(ctx context.Context, now time.Time, meta eventMeta) (*costWorkflowResult, error) {
	window := entity.NewReportingWindow(now)
	uc.logger.WithFields(logrus.Fields{
		"mode":  window.Mode,
		"start": window.Start.Format("2006-01-02"),
		"end":   window.End.Format("2006-01-02"),
	}).Info("running cost workflow")

	groupBy := entity.GroupBySpec{
		DimensionKey: uc.cfg.GroupByDimensionKey,
		TagKey:       uc.cfg.GroupByTagKey,
	}

	lines, err := uc.costRepo.GetCostsByGroup(ctx, window, groupBy)
	if err != nil {
		return nil, err
	}

	summary := BuildCostSummary(lines, uc.cfg.TopContributors)

	if window.Mode == entity.ModeMonthToDate {
		forecast, err := uc.costRepo.GetForecast(ctx, window)
		if err != nil {
			// The forecast is an enrichment; a provider hiccup here
			// must not lose the actuals.
			uc.logger.WithError(err).Warn("could not retrieve cost forecast")
		} else {
			summary.ForecastTotal = &forecast
		}
	}

	budgets, err := uc.costRepo.GetBudgets(ctx)
	if err != nil {
		uc.logger.WithError(err).Warn("could not retrieve budgets for prompt context")
		budgets = nil
	}

	result := analysis.AnalyzeCosts(ctx, uc.reasoner, analysis.CostPromptInput{
		AccountID:    meta.AccountID,
		Window:       window,
		Costs:        summary,
		Budgets:      budgets,
		ExchangeRate: uc.cfg.JPYExchangeRate,
	})
	if result.Degraded {
		uc.logger.WithField("reason", result.Reason).Warn("cost analysis degraded to fallback")
	}

	events := shapeCostEvents(meta, window, lines, summary, result, groupBy, uc.cfg.JPYExchangeRate)
	uc.logger.WithField("events", len(events)).Info("cost workflow finished")

	return &costWorkflowResult{
		Window:   window,
		Summary:  summary,
		Analysis: result,
		Events:   events,
	}, nil
}
