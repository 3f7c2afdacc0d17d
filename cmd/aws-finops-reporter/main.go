package main

import (
	"fmt"
	"os"

	"github.com/diillson/aws-finops-reporter-go/internal/adapter/driven/aws"
	"github.com/diillson/aws-finops-reporter-go/internal/adapter/driven/config"
	"github.com/diillson/aws-finops-reporter-go/internal/adapter/driven/export"
	"github.com/diillson/aws-finops-reporter-go/internal/adapter/driven/newrelic"
	"github.com/diillson/aws-finops-reporter-go/internal/adapter/driving/cli"
	"github.com/diillson/aws-finops-reporter-go/internal/application/usecase"
	"github.com/diillson/aws-finops-reporter-go/internal/shared/types"
	"github.com/diillson/aws-finops-reporter-go/pkg/console"
	"github.com/diillson/aws-finops-reporter-go/pkg/logger"
	"github.com/diillson/aws-finops-reporter-go/pkg/version"
)

func main() {
	log := logger.NewLogger()
	consoleImpl := console.NewConsole()
	configRepo := config.NewConfigRepository()

	// The driven adapters need resolved config values, so the use case is
	// built after the CLI has merged file, environment and flags.
	factory := func(cfg *types.Config) *usecase.ReportUseCase {
		costRepo := aws.NewCostDataRepository(cfg.TargetRegion, log)
		recRepo := aws.NewRecommendationRepository(cfg.TargetRegion, log)
		reasoner := aws.NewReasoningRepository(cfg.BedrockRegion, cfg.BedrockModelID, log)
		telemetry := newrelic.NewTelemetryRepository(cfg.NewRelicLicenseKey, cfg.NewRelicAccountID, log)
		exportRepo := export.NewExportRepository()

		return usecase.NewReportUseCase(costRepo, recRepo, reasoner, telemetry, exportRepo, consoleImpl, log, cfg)
	}

	app := cli.NewCLIApp(version.Version, configRepo, factory)
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", console.BoldRed("Error:"), err)
		os.Exit(1)
	}
}
