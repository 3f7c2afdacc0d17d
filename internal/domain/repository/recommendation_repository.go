package repository

import (
	"context"

	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
)

// RecommendationRepository defines the interface to the savings
// recommendation provider. ListRecommendations returns only the given
// account's recommendations and keeps requesting continuation pages until
// the provider signals completion.
type RecommendationRepository interface {
	ListRecommendations(ctx context.Context, accountID string) ([]entity.Recommendation, error)
}
