package models

import "time"

// ReportFilter shapes which records a report covers and which columns
// the server renders in the generated report table.
type ReportFilter struct {
	ProjectID int64     `json:"project_id"`
	TaskID    int64     `json:"task_id"`
	Start     time.Time `json:"start"`
	Finish    time.Time `json:"finish"`

	ShowProject  bool `json:"show_project"`
	ShowTask     bool `json:"show_task"`
	ShowStart    bool `json:"show_start"`
	ShowFinish   bool `json:"show_finish"`
	ShowDuration bool `json:"show_duration"`
	ShowNote     bool `json:"show_note"`
	ShowCost     bool `json:"show_cost"`
}

// NewReportFilter returns a filter with every column visible.
func NewReportFilter() ReportFilter {
	return ReportFilter{
		ShowProject:  true,
		ShowTask:     true,
		ShowStart:    true,
		ShowFinish:   true,
		ShowDuration: true,
		ShowNote:     true,
		ShowCost:     true,
	}
}
