package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
	"github.com/diillson/aws-finops-reporter-go/internal/domain/repository"
	"github.com/diillson/aws-finops-reporter-go/internal/shared/types"
	"github.com/diillson/aws-finops-reporter-go/pkg/console"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ReportUseCase drives one invocation of the cost-governance job: two
// independent workflows feeding a single telemetry batch.
type ReportUseCase struct {
	costRepo   repository.CostDataRepository
	recRepo    repository.RecommendationRepository
	reasoner   repository.ReasoningRepository
	telemetry  repository.TelemetryRepository
	exportRepo repository.ExportRepository
	console    types.ConsoleInterface
	logger     *logrus.Logger
	cfg        *types.Config
}

// NewReportUseCase creates a new report use case.
func NewReportUseCase(
	costRepo repository.CostDataRepository,
	recRepo repository.RecommendationRepository,
	reasoner repository.ReasoningRepository,
	telemetry repository.TelemetryRepository,
	exportRepo repository.ExportRepository,
	console types.ConsoleInterface,
	logger *logrus.Logger,
	cfg *types.Config,
) *ReportUseCase {
	return &ReportUseCase{
		costRepo:   costRepo,
		recRepo:    recRepo,
		reasoner:   reasoner,
		telemetry:  telemetry,
		exportRepo: exportRepo,
		console:    console,
		logger:     logger,
		cfg:        cfg,
	}
}

// Run executes both workflows for the given run date and delivers the
// combined events. The workflows fail independently: one aborting never
// stops the other from emitting. A sink failure is logged and the run is
// still considered complete, since the numeric results were computed.
func (uc *ReportUseCase) Run(ctx context.Context, now time.Time, dryRun bool) (*entity.RunReport, error) {
	accountID, err := uc.costRepo.GetAccountID(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not resolve AWS account: %w", err)
	}

	meta := eventMeta{
		RunID:     uuid.NewString(),
		AccountID: accountID,
		Region:    uc.cfg.TargetRegion,
	}
	uc.logger.WithFields(logrus.Fields{
		"runId":   meta.RunID,
		"account": accountID,
	}).Info("report run started")

	report := &entity.RunReport{
		RunID:       meta.RunID,
		GeneratedAt: now,
		AccountID:   accountID,
		Region:      uc.cfg.TargetRegion,
	}

	// The workflows share no mutable state, so they run concurrently as a
	// pure latency optimization; each result lands in its own slot.
	var (
		wg      sync.WaitGroup
		costRes *costWorkflowResult
		costErr error
		recRes  *recommendationWorkflowResult
		recErr  error
	)

	status := uc.console.Status("Collecting cost data and savings recommendations...")

	wg.Add(2)
	go func() {
		defer wg.Done()
		costRes, costErr = uc.runCostWorkflow(ctx, now, meta)
	}()
	go func() {
		defer wg.Done()
		recRes, recErr = uc.runRecommendationWorkflow(ctx, meta)
	}()
	wg.Wait()
	status.Stop()

	var events []entity.EventRecord

	if costErr != nil {
		uc.logger.WithError(costErr).Error("cost workflow failed")
		report.CostWorkflow = entity.WorkflowOutcome{FailureNote: costErr.Error()}
	} else {
		report.Window = &costRes.Window
		report.Costs = &costRes.Summary
		report.Analysis = &costRes.Analysis
		report.CostWorkflow = entity.WorkflowOutcome{
			Ran:        true,
			EventCount: len(costRes.Events),
			Degraded:   costRes.Analysis.Degraded,
		}
		events = append(events, costRes.Events...)
	}

	if recErr != nil {
		uc.logger.WithError(recErr).Error("recommendation workflow failed")
		report.RecommendationWorkflow = entity.WorkflowOutcome{FailureNote: recErr.Error()}
	} else {
		report.Savings = &recRes.Summary
		report.ActionPlan = &recRes.Plan
		report.RecommendationWorkflow = entity.WorkflowOutcome{
			Ran:        true,
			EventCount: len(recRes.Events),
			Degraded:   recRes.Plan.Degraded,
		}
		events = append(events, recRes.Events...)
	}

	if costErr != nil && recErr != nil {
		return nil, errors.Join(costErr, recErr)
	}

	report.Events = events

	if dryRun {
		uc.printEvents(events)
	} else if err := uc.telemetry.Send(ctx, events); err != nil {
		// Delivery is best-effort from the core's perspective; the run
		// already computed correct numbers.
		uc.logger.WithError(err).Error("telemetry delivery failed")
		uc.console.LogWarning("Events were computed but could not be delivered: %v", err)
	} else {
		uc.console.LogSuccess("Sent %d events to New Relic", len(events))
	}

	uc.exportReport(report)
	uc.displaySummary(report)

	uc.logger.WithField("events", len(events)).Info("report run finished")
	return report, nil
}

func (uc *ReportUseCase) printEvents(events []entity.EventRecord) {
	payload := make([]map[string]any, 0, len(events))
	for _, ev := range events {
		payload = append(payload, ev.Attributes)
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		uc.console.LogError("Could not render events: %v", err)
		return
	}
	uc.console.Println(string(data))
	uc.console.LogInfo("Dry run: %d events rendered, nothing sent", len(events))
}

func (uc *ReportUseCase) exportReport(report *entity.RunReport) {
	if uc.cfg.ReportName == "" {
		return
	}

	for _, reportType := range uc.cfg.ReportType {
		var (
			path string
			err  error
		)
		switch strings.ToLower(reportType) {
		case "csv":
			path, err = uc.exportRepo.ExportToCSV(*report, uc.cfg.ReportName, uc.cfg.Dir)
		case "json":
			path, err = uc.exportRepo.ExportToJSON(*report, uc.cfg.ReportName, uc.cfg.Dir)
		case "pdf":
			path, err = uc.exportRepo.ExportToPDF(*report, uc.cfg.ReportName, uc.cfg.Dir)
		default:
			uc.console.LogWarning("Unknown report type: %s", reportType)
			continue
		}
		if err != nil {
			uc.console.LogError("Failed to export %s report: %v", reportType, err)
			continue
		}
		uc.console.LogSuccess("Exported %s report to %s", strings.ToUpper(reportType), path)
	}
}

func (uc *ReportUseCase) displaySummary(report *entity.RunReport) {
	table := uc.console.CreateTable()
	table.AddColumn("Workflow")
	table.AddColumn("Status")
	table.AddColumn("Events")
	table.AddColumn("Notes")

	table.AddRow("Cost", outcomeStatus(report.CostWorkflow), report.CostWorkflow.EventCount, outcomeNote(report.CostWorkflow))
	table.AddRow("Recommendations", outcomeStatus(report.RecommendationWorkflow), report.RecommendationWorkflow.EventCount, outcomeNote(report.RecommendationWorkflow))

	uc.console.Println(table.Render())
}

func outcomeStatus(o entity.WorkflowOutcome) string {
	if !o.Ran {
		return console.BoldRed("failed")
	}
	if o.Degraded {
		return console.BrightYellow("ok (analysis degraded)")
	}
	return console.BrightGreen("ok")
}

func outcomeNote(o entity.WorkflowOutcome) string {
	if o.FailureNote != "" {
		return o.FailureNote
	}
	return "-"
}
