package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/diillson/aws-finops-reporter-go/internal/application/usecase"
	"github.com/diillson/aws-finops-reporter-go/internal/domain/repository"
	"github.com/diillson/aws-finops-reporter-go/internal/shared/types"
	"github.com/diillson/aws-finops-reporter-go/pkg/version"
	"github.com/spf13/cobra"
)

// UseCaseFactory builds the report use case once the configuration has
// been resolved. The driven adapters need config values (regions, license
// key), so construction is deferred until flags, file and environment have
// been merged.
type UseCaseFactory func(cfg *types.Config) *usecase.ReportUseCase

// CLIApp represents the command-line interface application.
type CLIApp struct {
	rootCmd    *cobra.Command
	configRepo repository.ConfigRepository
	newUseCase UseCaseFactory
	version    string
}

// NewCLIApp creates a new CLI application.
func NewCLIApp(versionStr string, configRepo repository.ConfigRepository, factory UseCaseFactory) *CLIApp {
	app := &CLIApp{
		version:    versionStr,
		configRepo: configRepo,
		newUseCase: factory,
	}

	formattedVersion := version.FormatVersion()

	rootCmd := &cobra.Command{
		Use:     "aws-finops-reporter",
		Short:   "AWS FinOps Reporter CLI",
		Long:    "Collects AWS cost data and savings recommendations, summarizes them with a reasoning model and ships the results to New Relic as events.",
		Version: formattedVersion,
		RunE:    app.runCommand,
	}

	rootCmd.SetVersionTemplate(`{{printf "AWS FinOps Reporter version: %s\n" .Version}}`)

	rootCmd.PersistentFlags().StringP("config-file", "C", "", "Path to a TOML, YAML, or JSON configuration file")
	rootCmd.PersistentFlags().StringP("region", "r", "", "Target AWS region for the run (default: us-east-1)")
	rootCmd.PersistentFlags().String("date", "", "Run date in YYYY-MM-DD format (default: today, UTC)")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Render the events to stdout instead of sending them")
	rootCmd.PersistentFlags().StringP("report-name", "n", "", "Specify the base name for the report file (without extension)")
	rootCmd.PersistentFlags().StringSliceP("report-type", "y", []string{"csv"}, "Specify report types: csv, json, pdf")
	rootCmd.PersistentFlags().StringP("dir", "d", "", "Directory to save the report files (default: current directory)")

	app.rootCmd = rootCmd
	return app
}

// Execute runs the CLI application.
func (app *CLIApp) Execute() error {
	return app.rootCmd.Execute()
}

// parseArgs parses command-line arguments into a CLIArgs struct.
func (app *CLIApp) parseArgs() (*types.CLIArgs, error) {
	configFile, _ := app.rootCmd.Flags().GetString("config-file")
	region, _ := app.rootCmd.Flags().GetString("region")
	date, _ := app.rootCmd.Flags().GetString("date")
	dryRun, _ := app.rootCmd.Flags().GetBool("dry-run")
	reportName, _ := app.rootCmd.Flags().GetString("report-name")
	reportType, _ := app.rootCmd.Flags().GetStringSlice("report-type")
	dir, _ := app.rootCmd.Flags().GetString("dir")

	args := &types.CLIArgs{
		ConfigFile: configFile,
		Region:     region,
		DryRun:     dryRun,
		ReportName: reportName,
		ReportType: reportType,
		Dir:        dir,
	}

	if date != "" {
		parsed, err := time.Parse("2006-01-02", date)
		if err != nil {
			return nil, fmt.Errorf("invalid --date %q, expected YYYY-MM-DD: %w", date, err)
		}
		args.RunDate = &parsed
	}

	if dir != "" {
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, err
		}
		args.Dir = absDir
	}

	return args, nil
}

// resolveConfig merges configuration sources. Precedence, lowest to
// highest: defaults, config file, environment, command-line flags.
func (app *CLIApp) resolveConfig(args *types.CLIArgs) (*types.Config, error) {
	cfg := types.NewConfig()

	if args.ConfigFile != "" {
		fileCfg, err := app.configRepo.LoadConfigFile(args.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if args.Region != "" {
		cfg.TargetRegion = args.Region
	}
	if args.ReportName != "" {
		cfg.ReportName = args.ReportName
	}
	if len(args.ReportType) > 0 {
		cfg.ReportType = args.ReportType
	}
	if args.Dir != "" {
		cfg.Dir = args.Dir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// runCommand is the main entry point for the CLI command.
func (app *CLIApp) runCommand(cmd *cobra.Command, args []string) error {
	displayWelcomeBanner(app.version)

	go version.CheckLatestVersion(app.version)

	cliArgs, err := app.parseArgs()
	if err != nil {
		return err
	}

	cfg, err := app.resolveConfig(cliArgs)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if cliArgs.RunDate != nil {
		now = *cliArgs.RunDate
	}

	ctx := context.Background()
	_, err = app.newUseCase(cfg).Run(ctx, now, cliArgs.DryRun)
	return err
}
