package data

import (
	"context"
	"time"

	"worktrack/models"
)

// DataSource serves page view-models. Both the cache-backed local
// source and the scraping remote source satisfy it.
type DataSource interface {
	ProjectsPage(ctx context.Context) ([]models.Project, error)
	TasksPage(ctx context.Context) ([]models.ProjectTask, error)
	UsersPage(ctx context.Context) (models.UsersPage, error)
	TimeListPage(ctx context.Context, date time.Time) (models.TimeListPage, error)
	EditPage(ctx context.Context, recordID int64) (models.TimeEditPage, error)
	ReportFormPage(ctx context.Context) (models.ReportFormPage, error)
	ReportPage(ctx context.Context, filter models.ReportFilter) (models.ReportPage, error)
}
