package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
	"github.com/diillson/aws-finops-reporter-go/internal/shared/types"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCostRepo struct {
	accountID   string
	accountErr  error
	lines       []entity.CostLineItem
	linesErr    error
	forecast    decimal.Decimal
	forecastErr error
	budgets     []entity.BudgetInfo
	budgetsErr  error
}

func (f *fakeCostRepo) GetAccountID(ctx context.Context) (string, error) {
	return f.accountID, f.accountErr
}

func (f *fakeCostRepo) GetCostsByGroup(ctx context.Context, window entity.ReportingWindow, groupBy entity.GroupBySpec) ([]entity.CostLineItem, error) {
	return f.lines, f.linesErr
}

func (f *fakeCostRepo) GetForecast(ctx context.Context, window entity.ReportingWindow) (decimal.Decimal, error) {
	return f.forecast, f.forecastErr
}

func (f *fakeCostRepo) GetBudgets(ctx context.Context) ([]entity.BudgetInfo, error) {
	return f.budgets, f.budgetsErr
}

type fakeRecRepo struct {
	recs         []entity.Recommendation
	err          error
	gotAccountID string
}

func (f *fakeRecRepo) ListRecommendations(ctx context.Context, accountID string) ([]entity.Recommendation, error) {
	f.gotAccountID = accountID
	if f.err != nil {
		return nil, f.err
	}
	return f.recs, nil
}

type stubReasoner struct {
	costReply string
	planReply string
}

func (s *stubReasoner) Infer(ctx context.Context, prompt string) (string, error) {
	// The two prompts are distinguished by the fields they ask for.
	if strings.Contains(prompt, `"overall_assessment"`) {
		return s.planReply, nil
	}
	return s.costReply, nil
}

type fakeTelemetry struct {
	sent [][]entity.EventRecord
	err  error
}

func (f *fakeTelemetry) Send(ctx context.Context, events []entity.EventRecord) error {
	f.sent = append(f.sent, events)
	return f.err
}

type fakeExport struct {
	csvCalls int
}

func (f *fakeExport) ExportToCSV(report entity.RunReport, filename, outputDir string) (string, error) {
	f.csvCalls++
	return "/tmp/report.csv", nil
}

func (f *fakeExport) ExportToJSON(report entity.RunReport, filename, outputDir string) (string, error) {
	return "/tmp/report.json", nil
}

func (f *fakeExport) ExportToPDF(report entity.RunReport, filename, outputDir string) (string, error) {
	return "/tmp/report.pdf", nil
}

type nopConsole struct{}

func (nopConsole) Print(a ...interface{})                   {}
func (nopConsole) Printf(format string, a ...interface{})   {}
func (nopConsole) Println(a ...interface{})                 {}
func (nopConsole) LogInfo(format string, a ...interface{})  {}
func (nopConsole) LogWarning(f string, a ...interface{})    {}
func (nopConsole) LogError(f string, a ...interface{})      {}
func (nopConsole) LogSuccess(f string, a ...interface{})    {}
func (nopConsole) Status(message string) types.StatusHandle { return nopStatus{} }
func (nopConsole) CreateTable() types.TableInterface        { return &nopTable{} }

type nopStatus struct{}

func (nopStatus) Update(string) {}
func (nopStatus) Stop()         {}

type nopTable struct{}

func (*nopTable) AddColumn(name string, options ...interface{}) {}
func (*nopTable) AddRow(cells ...interface{})                   {}
func (*nopTable) Render() string                                { return "" }

// recordingConsole tracks the status spinner lifecycle.
type recordingConsole struct {
	nopConsole
	statusMessages []string
	statusStops    int
}

func (c *recordingConsole) Status(message string) types.StatusHandle {
	c.statusMessages = append(c.statusMessages, message)
	return &recordingStatus{console: c}
}

type recordingStatus struct {
	console *recordingConsole
}

func (s *recordingStatus) Update(message string) {
	s.console.statusMessages = append(s.console.statusMessages, message)
}

func (s *recordingStatus) Stop() {
	s.console.statusStops++
}

func testConfig() *types.Config {
	cfg := types.NewConfig()
	cfg.NewRelicLicenseKey = "test-license"
	cfg.NewRelicAccountID = "1234567"
	return cfg
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func newTestUseCase(cost *fakeCostRepo, rec *fakeRecRepo, sink *fakeTelemetry, exp *fakeExport) *ReportUseCase {
	reasoner := &stubReasoner{
		costReply: `{"summary":"ok","risk_assessment":"low","recommended_actions":[]}`,
		planReply: `{"overall_assessment":"ok","immediate_actions":[],"strategic_recommendation":"none"}`,
	}
	return NewReportUseCase(cost, rec, reasoner, sink, exp, nopConsole{}, quietLogger(), testConfig())
}

func TestRunHappyPath(t *testing.T) {
	cost := &fakeCostRepo{
		accountID: "123456789012",
		lines: []entity.CostLineItem{
			line("AmazonEC2", "100"),
			line("AmazonS3", "50"),
		},
		forecast: decimal.NewFromInt(300),
	}
	rec := &fakeRecRepo{
		recs: []entity.Recommendation{
			{RecommendationID: "rec-1", ResourceType: "Ec2Instance", EstimatedMonthlySavings: decimal.NewFromInt(40)},
		},
	}
	sink := &fakeTelemetry{}

	uc := newTestUseCase(cost, rec, sink, &fakeExport{})
	report, err := uc.Run(context.Background(), time.Date(2025, time.March, 15, 3, 0, 0, 0, time.UTC), false)

	require.NoError(t, err)
	require.NotNil(t, report)
	assert.Equal(t, "123456789012", report.AccountID)
	assert.NotEmpty(t, report.RunID)
	assert.True(t, report.CostWorkflow.Ran)
	assert.True(t, report.RecommendationWorkflow.Ran)
	assert.False(t, report.CostWorkflow.Degraded)

	// 2 cost details + 1 cost summary + 1 rec detail + 1 rec summary.
	require.Len(t, report.Events, 5)
	require.Len(t, sink.sent, 1)
	assert.Len(t, sink.sent[0], 5)

	require.NotNil(t, report.Costs)
	assert.True(t, report.Costs.Total.Equal(decimal.NewFromInt(150)))
	require.NotNil(t, report.Costs.ForecastTotal)
	assert.True(t, report.Costs.ForecastTotal.Equal(decimal.NewFromInt(300)))

	assert.Equal(t, "123456789012", rec.gotAccountID,
		"the recommendation listing must be scoped to the resolved account")
}

func TestRunCostWorkflowFailureDoesNotStopRecommendations(t *testing.T) {
	cost := &fakeCostRepo{
		accountID: "123456789012",
		linesErr:  types.NewDataFetchError("cost explorer", assert.AnError),
	}
	rec := &fakeRecRepo{
		recs: []entity.Recommendation{
			{RecommendationID: "rec-1", ResourceType: "Ec2Instance", EstimatedMonthlySavings: decimal.NewFromInt(40)},
		},
	}
	sink := &fakeTelemetry{}

	uc := newTestUseCase(cost, rec, sink, &fakeExport{})
	report, err := uc.Run(context.Background(), time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), false)

	require.NoError(t, err, "one failing workflow must not fail the run")
	assert.False(t, report.CostWorkflow.Ran)
	assert.NotEmpty(t, report.CostWorkflow.FailureNote)
	assert.True(t, report.RecommendationWorkflow.Ran)

	// Only the recommendation events go out: 1 detail + 1 summary.
	require.Len(t, sink.sent, 1)
	assert.Len(t, sink.sent[0], 2)
	for _, ev := range sink.sent[0] {
		assert.Equal(t, entity.EventTypeOptimizationReport, ev.EventType)
	}
}

func TestRunRecommendationFailureDoesNotStopCosts(t *testing.T) {
	cost := &fakeCostRepo{
		accountID: "123456789012",
		lines:     []entity.CostLineItem{line("AmazonEC2", "100")},
		forecast:  decimal.NewFromInt(300),
	}
	rec := &fakeRecRepo{err: types.NewDataFetchError("cost optimization hub", assert.AnError)}
	sink := &fakeTelemetry{}

	uc := newTestUseCase(cost, rec, sink, &fakeExport{})
	report, err := uc.Run(context.Background(), time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), false)

	require.NoError(t, err)
	assert.True(t, report.CostWorkflow.Ran)
	assert.False(t, report.RecommendationWorkflow.Ran)
	require.Len(t, sink.sent, 1)
	assert.Len(t, sink.sent[0], 2)
}

func TestRunBothWorkflowsFailing(t *testing.T) {
	cost := &fakeCostRepo{
		accountID: "123456789012",
		linesErr:  types.NewDataFetchError("cost explorer", assert.AnError),
	}
	rec := &fakeRecRepo{err: types.NewDataFetchError("cost optimization hub", assert.AnError)}
	sink := &fakeTelemetry{}

	uc := newTestUseCase(cost, rec, sink, &fakeExport{})
	_, err := uc.Run(context.Background(), time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), false)

	require.Error(t, err)
	assert.Empty(t, sink.sent)
}

func TestRunAccountResolutionFailureIsFatal(t *testing.T) {
	cost := &fakeCostRepo{accountErr: types.NewDataFetchError("sts", assert.AnError)}
	sink := &fakeTelemetry{}

	uc := newTestUseCase(cost, &fakeRecRepo{}, sink, &fakeExport{})
	_, err := uc.Run(context.Background(), time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), false)

	require.Error(t, err)
	assert.Empty(t, sink.sent)
}

func TestRunSinkFailureIsNotFatal(t *testing.T) {
	cost := &fakeCostRepo{
		accountID: "123456789012",
		lines:     []entity.CostLineItem{line("AmazonEC2", "100")},
		forecast:  decimal.NewFromInt(300),
	}
	sink := &fakeTelemetry{err: &types.SinkError{Err: assert.AnError}}

	uc := newTestUseCase(cost, &fakeRecRepo{}, sink, &fakeExport{})
	report, err := uc.Run(context.Background(), time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), false)

	require.NoError(t, err, "delivery failure must not fail a computed run")
	require.Len(t, sink.sent, 1)
	assert.True(t, report.CostWorkflow.Ran)
}

func TestRunDryRunSkipsTelemetry(t *testing.T) {
	cost := &fakeCostRepo{
		accountID: "123456789012",
		lines:     []entity.CostLineItem{line("AmazonEC2", "100")},
		forecast:  decimal.NewFromInt(300),
	}
	sink := &fakeTelemetry{}

	uc := newTestUseCase(cost, &fakeRecRepo{}, sink, &fakeExport{})
	report, err := uc.Run(context.Background(), time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), true)

	require.NoError(t, err)
	assert.Empty(t, sink.sent, "dry run must not deliver events")
	assert.NotEmpty(t, report.Events)
}

func TestRunForecastFailureKeepsActuals(t *testing.T) {
	cost := &fakeCostRepo{
		accountID:   "123456789012",
		lines:       []entity.CostLineItem{line("AmazonEC2", "100")},
		forecastErr: types.NewDataFetchError("cost explorer", assert.AnError),
	}
	sink := &fakeTelemetry{}

	uc := newTestUseCase(cost, &fakeRecRepo{}, sink, &fakeExport{})
	report, err := uc.Run(context.Background(), time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), false)

	require.NoError(t, err)
	require.NotNil(t, report.Costs)
	assert.Nil(t, report.Costs.ForecastTotal)
	assert.True(t, report.Costs.Total.Equal(decimal.NewFromInt(100)))
}

func TestRunShowsStatusWhileCollecting(t *testing.T) {
	cost := &fakeCostRepo{
		accountID: "123456789012",
		lines:     []entity.CostLineItem{line("AmazonEC2", "100")},
		forecast:  decimal.NewFromInt(300),
	}
	cons := &recordingConsole{}

	reasoner := &stubReasoner{
		costReply: `{"summary":"ok","risk_assessment":"low","recommended_actions":[]}`,
		planReply: `{"overall_assessment":"ok","immediate_actions":[],"strategic_recommendation":"none"}`,
	}
	uc := NewReportUseCase(cost, &fakeRecRepo{}, reasoner, &fakeTelemetry{}, &fakeExport{}, cons, quietLogger(), testConfig())

	_, err := uc.Run(context.Background(), time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), false)

	require.NoError(t, err)
	require.NotEmpty(t, cons.statusMessages, "a status spinner must run while collecting")
	assert.Equal(t, 1, cons.statusStops, "the spinner must be stopped before output is printed")
}

func TestRunExportsWhenReportNameSet(t *testing.T) {
	cost := &fakeCostRepo{
		accountID: "123456789012",
		lines:     []entity.CostLineItem{line("AmazonEC2", "100")},
		forecast:  decimal.NewFromInt(300),
	}
	exp := &fakeExport{}

	cfg := testConfig()
	cfg.ReportName = "march"
	cfg.ReportType = []string{"csv"}

	reasoner := &stubReasoner{
		costReply: `{"summary":"ok","risk_assessment":"low","recommended_actions":[]}`,
		planReply: `{"overall_assessment":"ok","immediate_actions":[],"strategic_recommendation":"none"}`,
	}
	uc := NewReportUseCase(cost, &fakeRecRepo{}, reasoner, &fakeTelemetry{}, exp, nopConsole{}, quietLogger(), cfg)

	_, err := uc.Run(context.Background(), time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC), false)

	require.NoError(t, err)
	assert.Equal(t, 1, exp.csvCalls)
}
