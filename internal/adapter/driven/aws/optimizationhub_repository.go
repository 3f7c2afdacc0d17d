package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/costoptimizationhub"
	cohTypes "github.com/aws/aws-sdk-go-v2/service/costoptimizationhub/types"
	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
	"github.com/diillson/aws-finops-reporter-go/internal/domain/repository"
	"github.com/diillson/aws-finops-reporter-go/internal/shared/types"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const recommendationPageSize = 100

// RecommendationRepositoryImpl implements RecommendationRepository on top
// of AWS Cost Optimization Hub.
type RecommendationRepositoryImpl struct {
	factory *clientFactory
	region  string
	logger  *logrus.Logger
}

// NewRecommendationRepository creates a new RecommendationRepository
// implementation.
func NewRecommendationRepository(region string, logger *logrus.Logger) repository.RecommendationRepository {
	return &RecommendationRepositoryImpl{
		factory: newClientFactory(),
		region:  region,
		logger:  logger,
	}
}

// ListRecommendations fetches every recommendation page for the given
// account before returning. The caller never sees partial results: a
// failure on any page fails the whole listing.
func (r *RecommendationRepositoryImpl) ListRecommendations(ctx context.Context, accountID string) ([]entity.Recommendation, error) {
	cfg, err := r.factory.configFor(ctx, r.region)
	if err != nil {
		return nil, types.NewDataFetchError("cost optimization hub", err)
	}
	client := costoptimizationhub.NewFromConfig(cfg)

	recs, err := listAllRecommendations(ctx, client, accountID)
	if err != nil {
		return nil, err
	}

	r.logger.WithField("recommendations", len(recs)).Debug("fetched recommendations")
	return recs, nil
}

// listAllRecommendations drains the paginator. The account filter matters
// in Organizations management accounts, where an unscoped listing would
// also return member-account recommendations.
func listAllRecommendations(ctx context.Context, client costoptimizationhub.ListRecommendationsAPIClient, accountID string) ([]entity.Recommendation, error) {
	recs := []entity.Recommendation{}
	paginator := costoptimizationhub.NewListRecommendationsPaginator(client, &costoptimizationhub.ListRecommendationsInput{
		MaxResults: aws.Int32(recommendationPageSize),
		Filter: &cohTypes.Filter{
			AccountIds: []string{accountID},
		},
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, types.NewDataFetchError("cost optimization hub", err)
		}
		for _, item := range page.Items {
			recs = append(recs, recommendationFromItem(item))
		}
	}

	return recs, nil
}

func recommendationFromItem(item cohTypes.Recommendation) entity.Recommendation {
	savings := decimal.Zero
	if item.EstimatedMonthlySavings != nil {
		savings = decimal.NewFromFloat(*item.EstimatedMonthlySavings)
	}

	rec := entity.Recommendation{
		RecommendationID:        aws.ToString(item.RecommendationId),
		ResourceID:              aws.ToString(item.ResourceId),
		ResourceARN:             aws.ToString(item.ResourceArn),
		ResourceType:            aws.ToString(item.CurrentResourceType),
		Region:                  aws.ToString(item.Region),
		ActionType:              aws.ToString(item.ActionType),
		ImplementationEffort:    entity.ImplementationEffort(aws.ToString(item.ImplementationEffort)),
		EstimatedMonthlySavings: savings,
		CurrentSummary:          aws.ToString(item.CurrentResourceSummary),
		RecommendedSummary:      aws.ToString(item.RecommendedResourceSummary),
		Source:                  string(item.Source),
	}
	if item.EstimatedSavingsPercentage != nil {
		rec.EstimatedSavingsPercentage = *item.EstimatedSavingsPercentage
	}
	if rec.ResourceType == "" {
		rec.ResourceType = "Unknown"
	}
	return rec
}
