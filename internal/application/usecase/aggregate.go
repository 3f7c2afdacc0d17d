package usecase

import (
	"sort"

	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// BuildCostSummary folds raw line items into a CostSummary. Total is the
// exact decimal sum of every line item, so it always equals the sum of the
// detail events later emitted; nothing is silently dropped. The top-N
// ranking orders by descending amount with ties broken by ascending group
// key, which keeps the output stable across runs.
func BuildCostSummary(lines []entity.CostLineItem, topN int) entity.CostSummary {
	total := decimal.Zero
	contributors := make([]entity.CostContributor, 0, len(lines))
	for _, line := range lines {
		total = total.Add(line.Amount)
		contributors = append(contributors, entity.CostContributor{
			GroupKey: line.GroupKey,
			Amount:   line.Amount,
		})
	}

	sort.SliceStable(contributors, func(i, j int) bool {
		if cmp := contributors[i].Amount.Cmp(contributors[j].Amount); cmp != 0 {
			return cmp > 0
		}
		return contributors[i].GroupKey < contributors[j].GroupKey
	})

	if topN >= 0 && len(contributors) > topN {
		contributors = contributors[:topN]
	}

	return entity.CostSummary{
		Total:           total,
		TopContributors: contributors,
	}
}

// BuildRecommendationSummary folds the raw recommendation list into a
// RecommendationSummary. Count always equals len(recs), including zero.
func BuildRecommendationSummary(recs []entity.Recommendation) entity.RecommendationSummary {
	summary := entity.RecommendationSummary{
		Count:                 len(recs),
		TotalEstimatedSavings: decimal.Zero,
		CountByType:           make(map[string]int),
	}
	for _, rec := range recs {
		summary.TotalEstimatedSavings = summary.TotalEstimatedSavings.Add(rec.EstimatedMonthlySavings)
		summary.CountByType[rec.ResourceType]++
	}
	return summary
}
