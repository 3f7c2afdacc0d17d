package aws

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/budgets"
	"github.com/aws/aws-sdk-go-v2/service/costexplorer"
	ceTypes "github.com/aws/aws-sdk-go-v2/service/costexplorer/types"
	"github.com/aws/aws-sdk-go-v2/service/sts"
	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
	"github.com/diillson/aws-finops-reporter-go/internal/domain/repository"
	"github.com/diillson/aws-finops-reporter-go/internal/shared/types"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const unblendedCostMetric = "UnblendedCost"

// CostDataRepositoryImpl implements CostDataRepository on top of Cost
// Explorer, Budgets and STS. Cost Explorer and Budgets only serve the
// us-east-1 endpoint regardless of the target region.
type CostDataRepositoryImpl struct {
	factory *clientFactory
	region  string
	logger  *logrus.Logger

	mu        sync.Mutex
	accountID string
}

// NewCostDataRepository creates a new CostDataRepository implementation.
func NewCostDataRepository(region string, logger *logrus.Logger) repository.CostDataRepository {
	return &CostDataRepositoryImpl{
		factory: newClientFactory(),
		region:  region,
		logger:  logger,
	}
}

func (r *CostDataRepositoryImpl) ceClient(ctx context.Context) (*costexplorer.Client, error) {
	cfg, err := r.factory.configFor(ctx, "us-east-1")
	if err != nil {
		return nil, err
	}
	return costexplorer.NewFromConfig(cfg), nil
}

// GetAccountID resolves and caches the caller's account ID.
func (r *CostDataRepositoryImpl) GetAccountID(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.accountID != "" {
		return r.accountID, nil
	}

	cfg, err := r.factory.configFor(ctx, r.region)
	if err != nil {
		return "", types.NewDataFetchError("sts", err)
	}

	identity, err := sts.NewFromConfig(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", types.NewDataFetchError("sts", err)
	}

	r.accountID = aws.ToString(identity.Account)
	return r.accountID, nil
}

// GetCostsByGroup fetches one line item per group for the window,
// exhausting Cost Explorer pagination. The window's End is inclusive; the
// API end date is exclusive, so one day is added.
func (r *CostDataRepositoryImpl) GetCostsByGroup(ctx context.Context, window entity.ReportingWindow, groupBy entity.GroupBySpec) ([]entity.CostLineItem, error) {
	client, err := r.ceClient(ctx)
	if err != nil {
		return nil, types.NewDataFetchError("cost explorer", err)
	}

	groupDef := ceTypes.GroupDefinition{
		Type: ceTypes.GroupDefinitionTypeDimension,
		Key:  aws.String(groupBy.DimensionKey),
	}
	if groupBy.IsTag() {
		groupDef = ceTypes.GroupDefinition{
			Type: ceTypes.GroupDefinitionTypeTag,
			Key:  aws.String(groupBy.TagKey),
		}
	}

	input := &costexplorer.GetCostAndUsageInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(window.Start.Format("2006-01-02")),
			End:   aws.String(window.End.AddDate(0, 0, 1).Format("2006-01-02")),
		},
		Granularity: ceTypes.GranularityMonthly,
		Metrics:     []string{unblendedCostMetric},
		GroupBy:     []ceTypes.GroupDefinition{groupDef},
	}

	var lines []entity.CostLineItem
	for {
		result, err := client.GetCostAndUsage(ctx, input)
		if err != nil {
			return nil, types.NewDataFetchError("cost explorer", err)
		}

		for _, period := range result.ResultsByTime {
			for _, group := range period.Groups {
				line, err := lineItemFromGroup(group)
				if err != nil {
					return nil, types.NewDataFetchError("cost explorer", err)
				}
				lines = append(lines, line)
			}
		}

		if aws.ToString(result.NextPageToken) == "" {
			break
		}
		input.NextPageToken = result.NextPageToken
	}

	r.logger.WithField("groups", len(lines)).Debug("fetched cost line items")
	return lines, nil
}

func lineItemFromGroup(group ceTypes.Group) (entity.CostLineItem, error) {
	metric, ok := group.Metrics[unblendedCostMetric]
	if !ok || metric.Amount == nil {
		return entity.CostLineItem{}, fmt.Errorf("group %v has no %s metric", group.Keys, unblendedCostMetric)
	}

	amount, err := decimal.NewFromString(aws.ToString(metric.Amount))
	if err != nil {
		return entity.CostLineItem{}, fmt.Errorf("malformed amount %q: %w", aws.ToString(metric.Amount), err)
	}

	key := ""
	if len(group.Keys) > 0 {
		key = group.Keys[0]
	}

	currency := aws.ToString(metric.Unit)
	if currency == "" {
		currency = "USD"
	}

	return entity.CostLineItem{GroupKey: key, Amount: amount, Currency: currency}, nil
}

// GetForecast fetches the forecasted total for the rest of the month. The
// forecast period starts the day after the window ends (the run date) and
// covers through the window's forecast end.
func (r *CostDataRepositoryImpl) GetForecast(ctx context.Context, window entity.ReportingWindow) (decimal.Decimal, error) {
	if window.ForecastEnd == nil {
		return decimal.Zero, types.NewDataFetchError("cost explorer", fmt.Errorf("window mode %s has no forecast period", window.Mode))
	}

	client, err := r.ceClient(ctx)
	if err != nil {
		return decimal.Zero, types.NewDataFetchError("cost explorer", err)
	}

	result, err := client.GetCostForecast(ctx, &costexplorer.GetCostForecastInput{
		TimePeriod: &ceTypes.DateInterval{
			Start: aws.String(window.End.AddDate(0, 0, 1).Format("2006-01-02")),
			End:   aws.String(window.ForecastEnd.AddDate(0, 0, 1).Format("2006-01-02")),
		},
		Metric:      ceTypes.MetricUnblendedCost,
		Granularity: ceTypes.GranularityMonthly,
	})
	if err != nil {
		return decimal.Zero, types.NewDataFetchError("cost explorer", err)
	}

	if result.Total == nil || result.Total.Amount == nil {
		return decimal.Zero, types.NewDataFetchError("cost explorer", fmt.Errorf("forecast response has no total"))
	}

	forecast, err := decimal.NewFromString(aws.ToString(result.Total.Amount))
	if err != nil {
		return decimal.Zero, types.NewDataFetchError("cost explorer", fmt.Errorf("malformed forecast amount: %w", err))
	}

	return forecast, nil
}

// GetBudgets fetches the account's budgets as prompt context.
func (r *CostDataRepositoryImpl) GetBudgets(ctx context.Context) ([]entity.BudgetInfo, error) {
	accountID, err := r.GetAccountID(ctx)
	if err != nil {
		return nil, err
	}

	cfg, err := r.factory.configFor(ctx, "us-east-1")
	if err != nil {
		return nil, types.NewDataFetchError("budgets", err)
	}

	result, err := budgets.NewFromConfig(cfg).DescribeBudgets(ctx, &budgets.DescribeBudgetsInput{
		AccountId: aws.String(accountID),
	})
	if err != nil {
		return nil, types.NewDataFetchError("budgets", err)
	}

	infos := make([]entity.BudgetInfo, 0, len(result.Budgets))
	for _, budget := range result.Budgets {
		info := entity.BudgetInfo{Name: aws.ToString(budget.BudgetName)}
		if budget.BudgetLimit != nil {
			info.Limit = parseFloat(budget.BudgetLimit.Amount)
			info.Currency = aws.ToString(budget.BudgetLimit.Unit)
		}
		if budget.CalculatedSpend != nil {
			if budget.CalculatedSpend.ActualSpend != nil {
				info.Actual = parseFloat(budget.CalculatedSpend.ActualSpend.Amount)
			}
			if budget.CalculatedSpend.ForecastedSpend != nil {
				info.Forecast = parseFloat(budget.CalculatedSpend.ForecastedSpend.Amount)
			}
		}
		infos = append(infos, info)
	}

	return infos, nil
}

func parseFloat(s *string) float64 {
	d, err := decimal.NewFromString(aws.ToString(s))
	if err != nil {
		return 0
	}
	return d.InexactFloat64()
}
