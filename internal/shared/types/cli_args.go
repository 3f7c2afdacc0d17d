package types

import "time"

// CLIArgs represents the command-line arguments.
type CLIArgs struct {
	ConfigFile string
	Region     string
	RunDate    *time.Time
	DryRun     bool
	ReportName string
	ReportType []string
	Dir        string
}
