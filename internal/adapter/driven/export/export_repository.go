package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/diillson/aws-finops-reporter-go/internal/domain/entity"
	"github.com/diillson/aws-finops-reporter-go/internal/domain/repository"
	"github.com/jung-kurt/gofpdf"
)

// ExportRepositoryImpl implements ExportRepository.
type ExportRepositoryImpl struct{}

// NewExportRepository creates a new ExportRepository implementation.
func NewExportRepository() repository.ExportRepository {
	return &ExportRepositoryImpl{}
}

// ExportToCSV writes one row per emitted event, with the summary rows
// carrying the aggregate and analysis columns.
func (r *ExportRepositoryImpl) ExportToCSV(report entity.RunReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "csv")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"Event Type", "Record Type", "Group / Resource", "Cost (USD)", "Cost (JPY)", "Analysis"}
	if err := writer.Write(headers); err != nil {
		return "", err
	}

	for _, ev := range report.Events {
		record := []string{
			ev.EventType,
			ev.RecordType,
			eventSubject(ev),
			attrString(ev, "cost.unblended", "cost.totalUnblended", "cost.estimatedMonthlySavings", "cost.totalEstimatedSavings"),
			attrString(ev, "cost.unblendedJPY", "cost.totalUnblendedJPY", "cost.estimatedMonthlySavingsJpy", "cost.totalEstimatedSavingsJpy"),
			attrString(ev, "analysis.summary", "analysis.overallAssessment"),
		}
		if err := writer.Write(record); err != nil {
			return "", err
		}
	}

	return filepath.Abs(outputFilename)
}

// ExportToJSON writes the full run report verbatim.
func (r *ExportRepositoryImpl) ExportToJSON(report entity.RunReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "json")
	if err != nil {
		return "", err
	}

	file, err := os.Create(outputFilename)
	if err != nil {
		return "", fmt.Errorf("error creating JSON file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		return "", fmt.Errorf("error encoding JSON data: %w", err)
	}

	return filepath.Abs(outputFilename)
}

// ExportToPDF renders a human-readable monthly report.
func (r *ExportRepositoryImpl) ExportToPDF(report entity.RunReport, filename, outputDir string) (string, error) {
	outputFilename, err := generateFilename(filename, outputDir, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	headerColor := [3]int{40, 40, 40}
	headerTextColor := [3]int{255, 255, 255}
	bodyTextColor := [3]int{50, 50, 50}
	lineColor := [3]int{200, 200, 200}

	drawSection := func(title, content string) {
		if content == "" {
			return
		}
		pdf.SetFont("Arial", "B", 12)
		pdf.SetTextColor(0, 0, 0)
		pdf.Cell(0, 8, tr(title))
		pdf.Ln(7)

		pdf.SetDrawColor(lineColor[0], lineColor[1], lineColor[2])
		pdf.Line(pdf.GetX(), pdf.GetY(), pdf.GetX()+190, pdf.GetY())
		pdf.Ln(4)

		pdf.SetFont("Arial", "", 10)
		pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
		pdf.MultiCell(190, 5, tr(content), "", "L", false)
		pdf.Ln(8)
	}

	pdf.SetFillColor(headerColor[0], headerColor[1], headerColor[2])
	pdf.SetTextColor(headerTextColor[0], headerTextColor[1], headerTextColor[2])
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 12, tr(fmt.Sprintf("  AWS FinOps Report - Account %s", report.AccountID)), "", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.SetTextColor(bodyTextColor[0], bodyTextColor[1], bodyTextColor[2])
	pdf.CellFormat(0, 8, tr(fmt.Sprintf("  Run %s - generated %s", report.RunID, report.GeneratedAt.Format("2006-01-02 15:04 UTC"))), "", 1, "L", true, 0, "")
	pdf.Ln(10)

	if report.Window != nil && report.Costs != nil {
		var b strings.Builder
		fmt.Fprintf(&b, "Period: %s to %s (%s)\n", report.Window.Start.Format("2006-01-02"), report.Window.End.Format("2006-01-02"), report.Window.Mode)
		fmt.Fprintf(&b, "Total unblended cost: $%s\n", report.Costs.Total.StringFixed(2))
		if report.Costs.ForecastTotal != nil {
			fmt.Fprintf(&b, "Monthly forecast: $%s\n", report.Costs.ForecastTotal.StringFixed(2))
		}
		for i, c := range report.Costs.TopContributors {
			fmt.Fprintf(&b, "%d. %s: $%s\n", i+1, c.GroupKey, c.Amount.StringFixed(2))
		}
		drawSection("Cost Summary", b.String())
	}

	if report.Analysis != nil {
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n\nRisk assessment: %s\n", report.Analysis.Analysis.Summary, report.Analysis.Analysis.RiskAssessment)
		for _, action := range report.Analysis.Analysis.RecommendedActions {
			fmt.Fprintf(&b, "- %s\n", action)
		}
		if report.Analysis.Degraded {
			fmt.Fprintf(&b, "\n(analysis degraded: %s)\n", report.Analysis.Reason)
		}
		drawSection("Cost Analysis", b.String())
	}

	if report.Savings != nil {
		var b strings.Builder
		fmt.Fprintf(&b, "Recommendations: %d\n", report.Savings.Count)
		fmt.Fprintf(&b, "Total estimated monthly savings: $%s\n", report.Savings.TotalEstimatedSavings.StringFixed(2))
		for resourceType, count := range report.Savings.CountByType {
			fmt.Fprintf(&b, "- %s: %d\n", resourceType, count)
		}
		drawSection("Savings Recommendations", b.String())
	}

	if report.ActionPlan != nil {
		var b strings.Builder
		fmt.Fprintf(&b, "%s\n", report.ActionPlan.Plan.OverallAssessment)
		for _, action := range report.ActionPlan.Plan.ImmediateActions {
			fmt.Fprintf(&b, "- %s\n", action)
		}
		fmt.Fprintf(&b, "\nStrategic: %s\n", report.ActionPlan.Plan.StrategicRecommendation)
		if report.ActionPlan.Degraded {
			fmt.Fprintf(&b, "\n(analysis degraded: %s)\n", report.ActionPlan.Reason)
		}
		drawSection("Action Plan", b.String())
	}

	if err := pdf.OutputFileAndClose(outputFilename); err != nil {
		return "", fmt.Errorf("error writing PDF file: %w", err)
	}

	return filepath.Abs(outputFilename)
}

func generateFilename(base, dir, ext string) (string, error) {
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("could not get current working directory: %w", err)
		}
		dir = cwd
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("error creating output directory '%s': %w", dir, err)
	}
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.%s", base, timestamp, ext)
	return filepath.Join(dir, filename), nil
}

// eventSubject picks the most identifying attribute of a detail record.
func eventSubject(ev entity.EventRecord) string {
	if v, ok := ev.Attributes["aws.currentResourceId"]; ok {
		return fmt.Sprint(v)
	}
	for key, v := range ev.Attributes {
		if strings.HasPrefix(key, "aws.tag.") {
			return fmt.Sprint(v)
		}
	}
	for _, key := range []string{"aws.service", "aws.linkedAccount", "aws.region"} {
		if v, ok := ev.Attributes[key]; ok {
			return fmt.Sprint(v)
		}
	}
	return ""
}

func attrString(ev entity.EventRecord, keys ...string) string {
	for _, key := range keys {
		if v, ok := ev.Attributes[key]; ok {
			return fmt.Sprint(v)
		}
	}
	return ""
}
