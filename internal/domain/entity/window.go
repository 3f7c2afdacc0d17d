package entity

import "time"

// ReportingMode indicates which monthly report a run produces.
type ReportingMode string

const (
	// ModeMonthClose reports the full previous calendar month. Selected
	// when the run date is the first day of a month.
	ModeMonthClose ReportingMode = "month_close"

	// ModeMonthToDate reports the current month up to yesterday, plus a
	// forecast for the remainder of the month.
	ModeMonthToDate ReportingMode = "month_to_date"
)

// ReportingWindow is the period a single run reports on. Start and End are
// inclusive calendar dates. ForecastEnd is set only in month-to-date mode
// and is the last day of the current month.
type ReportingWindow struct {
	Mode        ReportingMode `json:"mode"`
	Start       time.Time     `json:"start"`
	End         time.Time     `json:"end"`
	ForecastEnd *time.Time    `json:"forecast_end,omitempty"`
}

// NewReportingWindow derives the reporting window from the run date. The
// function is total: every valid date maps to exactly one window.
func NewReportingWindow(today time.Time) ReportingWindow {
	today = time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)

	if today.Day() == 1 {
		// Day 1 closes out the previous month. AddDate handles the
		// January rollover into December of the prior year.
		prevMonthEnd := today.AddDate(0, 0, -1)
		prevMonthStart := time.Date(prevMonthEnd.Year(), prevMonthEnd.Month(), 1, 0, 0, 0, 0, time.UTC)
		return ReportingWindow{
			Mode:  ModeMonthClose,
			Start: prevMonthStart,
			End:   prevMonthEnd,
		}
	}

	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	forecastEnd := monthStart.AddDate(0, 1, -1)
	return ReportingWindow{
		Mode:        ModeMonthToDate,
		Start:       monthStart,
		End:         today.AddDate(0, 0, -1),
		ForecastEnd: &forecastEnd,
	}
}

// Days returns the number of calendar days covered by the window.
func (w ReportingWindow) Days() int {
	return int(w.End.Sub(w.Start).Hours()/24) + 1
}
