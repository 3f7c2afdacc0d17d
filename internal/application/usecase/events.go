package usecase

import (
	"encoding/json"
	"strings"

	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// eventMeta is the per-run identity stamped on every event.
type eventMeta struct {
	RunID     string
	AccountID string
	Region    string
}

func (m eventMeta) apply(ev *entity.EventRecord) {
	ev.Attributes["report.runId"] = m.RunID
	ev.Attributes["aws.accountId"] = m.AccountID
	ev.Attributes["aws.targetRegion"] = m.Region
}

// shapeCostEvents emits one detail record per cost group plus exactly one
// summary record. USD amounts are the source of truth; JPY values are
// derived once with the run's exchange rate.
func shapeCostEvents(
	meta eventMeta,
	window entity.ReportingWindow,
	lines []entity.CostLineItem,
	summary entity.CostSummary,
	analysis entity.CostAnalysisResult,
	groupBy entity.GroupBySpec,
	rate decimal.Decimal,
) []entity.EventRecord {
	events := make([]entity.EventRecord, 0, len(lines)+1)
	groupAttr := groupAttributeName(groupBy)

	for _, line := range lines {
		ev := entity.NewEventRecord(entity.EventTypeCostReport, entity.RecordTypeDetail)
		meta.apply(&ev)
		ev.Attributes["report.mode"] = string(window.Mode)
		ev.Attributes["period.start"] = window.Start.Format("2006-01-02")
		ev.Attributes["period.end"] = window.End.Format("2006-01-02")
		ev.Attributes[groupAttr] = line.GroupKey
		ev.Attributes["cost.unblended"] = line.Amount.InexactFloat64()
		ev.Attributes["cost.unblendedJPY"] = toJPY(line.Amount, rate)
		ev.Attributes["cost.currency"] = line.Currency
		events = append(events, ev)
	}

	sum := entity.NewEventRecord(entity.EventTypeCostReport, entity.RecordTypeSummary)
	meta.apply(&sum)
	sum.Attributes["report.mode"] = string(window.Mode)
	sum.Attributes["period.start"] = window.Start.Format("2006-01-02")
	sum.Attributes["period.end"] = window.End.Format("2006-01-02")
	sum.Attributes["cost.totalUnblended"] = summary.Total.InexactFloat64()
	sum.Attributes["cost.totalUnblendedJPY"] = toJPY(summary.Total, rate)
	if summary.ForecastTotal != nil {
		sum.Attributes["cost.monthlyForecast"] = summary.ForecastTotal.InexactFloat64()
		sum.Attributes["cost.monthlyForecastJPY"] = toJPY(*summary.ForecastTotal, rate)
	}
	sum.Attributes["analysis.summary"] = analysis.Analysis.Summary
	sum.Attributes["analysis.riskAssessment"] = analysis.Analysis.RiskAssessment
	sum.Attributes["analysis.recommendedActions"] = strings.Join(analysis.Analysis.RecommendedActions, "; ")
	if analysis.Degraded {
		sum.Attributes["analysis.degraded"] = true
		sum.Attributes["analysis.error"] = analysis.Reason
	}
	events = append(events, sum)

	return events
}

// shapeRecommendationEvents emits one detail record per recommendation
// plus exactly one summary record. The summary's totalCount equals the
// number of detail records by construction.
func shapeRecommendationEvents(
	meta eventMeta,
	recs []entity.Recommendation,
	summary entity.RecommendationSummary,
	plan entity.ActionPlanResult,
	rate decimal.Decimal,
) []entity.EventRecord {
	events := make([]entity.EventRecord, 0, len(recs)+1)

	for _, rec := range recs {
		ev := entity.NewEventRecord(entity.EventTypeOptimizationReport, entity.RecordTypeDetail)
		meta.apply(&ev)
		ev.Attributes["aws.region"] = rec.Region
		ev.Attributes["aws.recommendationId"] = rec.RecommendationID
		ev.Attributes["aws.currentResourceType"] = rec.ResourceType
		ev.Attributes["aws.currentResourceId"] = rec.ResourceID
		ev.Attributes["aws.currentResourceArn"] = rec.ResourceARN
		ev.Attributes["aws.currentResourceSummary"] = rec.CurrentSummary
		ev.Attributes["aws.recommendedResourceSummary"] = rec.RecommendedSummary
		ev.Attributes["aws.implementationActionType"] = rec.ActionType
		ev.Attributes["aws.implementationEffort"] = string(rec.ImplementationEffort)
		ev.Attributes["aws.analysisSource"] = rec.Source
		ev.Attributes["cost.estimatedMonthlySavings"] = rec.EstimatedMonthlySavings.InexactFloat64()
		ev.Attributes["cost.estimatedMonthlySavingsJpy"] = toJPY(rec.EstimatedMonthlySavings, rate)
		ev.Attributes["cost.estimatedSavingsPercentage"] = rec.EstimatedSavingsPercentage
		events = append(events, ev)
	}

	sum := entity.NewEventRecord(entity.EventTypeOptimizationReport, entity.RecordTypeSummary)
	meta.apply(&sum)
	sum.Attributes["recommendation.totalCount"] = summary.Count
	sum.Attributes["cost.totalEstimatedSavings"] = summary.TotalEstimatedSavings.InexactFloat64()
	sum.Attributes["cost.totalEstimatedSavingsJpy"] = toJPY(summary.TotalEstimatedSavings, rate)
	sum.Attributes["recommendation.countByType"] = marshalCountByType(summary.CountByType)
	sum.Attributes["analysis.overallAssessment"] = plan.Plan.OverallAssessment
	sum.Attributes["analysis.immediateActions"] = strings.Join(plan.Plan.ImmediateActions, "; ")
	sum.Attributes["analysis.strategicRecommendation"] = plan.Plan.StrategicRecommendation
	if plan.Degraded {
		sum.Attributes["analysis.degraded"] = true
		sum.Attributes["analysis.error"] = plan.Reason
	}
	events = append(events, sum)

	return events
}

// groupAttributeName maps the grouping spec to the dotted attribute that
// carries the group key on detail records, e.g. SERVICE -> aws.service,
// LINKED_ACCOUNT -> aws.linkedAccount, tag keys -> aws.tag.<key>.
func groupAttributeName(groupBy entity.GroupBySpec) string {
	if groupBy.IsTag() {
		sanitized := strings.NewReplacer("$", "_", ":", "_").Replace(groupBy.TagKey)
		return "aws.tag." + sanitized
	}
	return "aws." + toCamelCase(groupBy.DimensionKey)
}

func toCamelCase(snake string) string {
	parts := strings.Split(strings.ToLower(snake), "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}

// marshalCountByType stores the per-type breakdown as a JSON string, since
// event attributes only carry scalars. Map keys marshal sorted, so the
// attribute is stable.
func marshalCountByType(counts map[string]int) string {
	data, err := json.Marshal(counts)
	if err != nil {
		return "{}"
	}
	return string(data)
}

func toJPY(usd, rate decimal.Decimal) float64 {
	return usd.Mul(rate).Round(0).InexactFloat64()
}
