package repository

import (
	"context"

	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CostDataRepository defines the interface to the cost data provider. All
// failures surface as *types.DataFetchError so the workflow engine can
// abort only the cost workflow.
type CostDataRepository interface {
	// GetAccountID resolves the account the run reports on.
	GetAccountID(ctx context.Context) (string, error)

	// GetCostsByGroup returns one line item per group for the window.
	// Pagination against the provider is exhausted internally.
	GetCostsByGroup(ctx context.Context, window entity.ReportingWindow, groupBy entity.GroupBySpec) ([]entity.CostLineItem, error)

	// GetForecast returns the forecasted total for the window's forecast
	// period. Only meaningful in month-to-date mode.
	GetForecast(ctx context.Context, window entity.ReportingWindow) (decimal.Decimal, error)

	// GetBudgets returns configured budgets as prompt context. Best
	// effort: an empty slice is a valid answer.
	GetBudgets(ctx context.Context) ([]entity.BudgetInfo, error)
}
