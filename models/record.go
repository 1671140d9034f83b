package models

import (
	"fmt"
	"time"
)

type RecordStatus string

const (
	// StatusDraft marks a record created locally and not yet submitted.
	StatusDraft RecordStatus = "DRAFT"
	// StatusCurrent marks a record scraped from the server.
	StatusCurrent RecordStatus = "CURRENT"
)

// TimeRecord represents some work done for a project task.
type TimeRecord struct {
	Entity
	ProjectID int64        `gorm:"column:project_id;index" json:"project_id"`
	TaskID    int64        `gorm:"column:task_id;index" json:"task_id"`
	Start     time.Time    `gorm:"column:start;index" json:"start"`
	Finish    time.Time    `gorm:"column:finish" json:"finish"`
	Note      string       `gorm:"size:500" json:"note"`
	Cost      float64      `json:"cost"`
	Status    RecordStatus `gorm:"size:20;default:DRAFT" json:"status"`

	// Project and Task are resolved from the cache or the parsed page;
	// only their ids are persisted on the record row.
	Project Project     `gorm:"-" json:"project,omitempty"`
	Task    ProjectTask `gorm:"-" json:"task,omitempty"`
}

// SetProject assigns the project and keeps the persisted id in step.
func (r *TimeRecord) SetProject(p Project) {
	r.Project = p
	r.ProjectID = p.ID
}

// SetTask assigns the task and keeps the persisted id in step.
func (r *TimeRecord) SetTask(t ProjectTask) {
	r.Task = t
	r.TaskID = t.ID
}

// SetStart assigns the start time at the server's second granularity.
func (r *TimeRecord) SetStart(t time.Time) {
	r.Start = t.Truncate(time.Second)
}

// SetFinish assigns the finish time at the server's second granularity.
func (r *TimeRecord) SetFinish(t time.Time) {
	r.Finish = t.Truncate(time.Second)
}

func (r *TimeRecord) Duration() time.Duration {
	if r.Start.IsZero() || r.Finish.IsZero() {
		return 0
	}
	return r.Finish.Sub(r.Start)
}

// IsEmpty reports whether the record is missing a project, a task, or a
// start time.
func (r *TimeRecord) IsEmpty() bool {
	return r.Project.IsEmpty() || r.Task.IsEmpty() || r.Start.IsZero()
}

func (r *TimeRecord) String() string {
	return fmt.Sprintf("{id: %d, project: %s, task: %s, start: %s, finish: %s, status: %s}",
		r.ID, r.Project.Name, r.Task.Name, r.Start.Format(time.RFC3339), r.Finish.Format(time.RFC3339), r.Status)
}

// copyWith clones the record with a different time span.
func (r *TimeRecord) copyWith(start, finish time.Time) TimeRecord {
	clone := *r
	clone.Start = start
	clone.Finish = finish
	return clone
}

// Split breaks the record into one record per calendar day it spans.
// The server rejects records crossing midnight, so a multi-day record is
// submitted as: original start to end of that day, zero or more full
// days, then start of the final day to the original finish. Empty
// records and records shorter than a minute yield nothing.
func (r *TimeRecord) Split() []TimeRecord {
	if r.IsEmpty() || r.Finish.IsZero() {
		return nil
	}
	if r.Finish.Sub(r.Start) < time.Minute {
		return nil
	}

	if SameDay(r.Start, r.Finish) {
		return []TimeRecord{*r}
	}

	var parts []TimeRecord

	// The first day.
	parts = append(parts, r.copyWith(r.Start, EndOfDay(r.Start)))

	// Intermediate whole days.
	day := StartOfDay(r.Start).AddDate(0, 0, 1)
	lastDay := StartOfDay(r.Finish)
	for day.Before(lastDay) {
		parts = append(parts, r.copyWith(day, EndOfDay(day)))
		day = day.AddDate(0, 0, 1)
	}

	// The last day.
	parts = append(parts, r.copyWith(lastDay, r.Finish))

	return parts
}
