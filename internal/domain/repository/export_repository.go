package repository

import (
	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
)

// ExportRepository writes a run report to local files for archival or
// hand-off. Each method returns the absolute path of the written file.
type ExportRepository interface {
	ExportToCSV(report entity.RunReport, filename, outputDir string) (string, error)
	ExportToJSON(report entity.RunReport, filename, outputDir string) (string, error)
	ExportToPDF(report entity.RunReport, filename, outputDir string) (string, error)
}
