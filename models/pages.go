package models

import "time"

// Pages are the view-models the data sources serve, one per
// server-rendered page kind.

// TimeListPage is the time list for one date, with the record form's
// project/task candidates and the running totals.
type TimeListPage struct {
	Date         time.Time     `json:"date"`
	Record       TimeRecord    `json:"record"`
	Projects     []Project     `json:"projects"`
	Tasks        []ProjectTask `json:"tasks"`
	Records      []TimeRecord  `json:"records"`
	Totals       TimeTotals    `json:"totals"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// TimeEditPage is the single-record edit form.
type TimeEditPage struct {
	Record       TimeRecord    `json:"record"`
	Date         time.Time     `json:"date"`
	Projects     []Project     `json:"projects"`
	Tasks        []ProjectTask `json:"tasks"`
	EmptyProject Project       `json:"-"`
	EmptyTask    ProjectTask   `json:"-"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// TimerPage is the punch-in/punch-out screen: the started record, if
// any, plus the project/task candidates.
type TimerPage struct {
	Record   TimeRecord    `json:"record"`
	Projects []Project     `json:"projects"`
	Tasks    []ProjectTask `json:"tasks"`
}

// ReportFormPage is the report criteria form.
type ReportFormPage struct {
	Filter       ReportFilter  `json:"filter"`
	Projects     []Project     `json:"projects"`
	Tasks        []ProjectTask `json:"tasks"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// ReportPage is a generated report.
type ReportPage struct {
	Filter  ReportFilter `json:"filter"`
	Records []TimeRecord `json:"records"`
	Totals  ReportTotals `json:"totals"`
}

// UsersPage is the user list.
type UsersPage struct {
	Users []User `json:"users"`
}

// ProfilePage is the signed-in user's profile.
type ProfilePage struct {
	User         User   `json:"user"`
	ErrorMessage string `json:"error_message,omitempty"`
}
