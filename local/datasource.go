// Package local serves every page view-model from the SQLite cache
// alone. It is the fast/offline path; the remote package refreshes the
// cache behind it.
package local

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"worktrack/models"

	"gorm.io/gorm"
)

type DataSource struct {
	db  *gorm.DB
	log *slog.Logger
}

func New(db *gorm.DB, log *slog.Logger) *DataSource {
	return &DataSource{
		db:  db,
		log: log.With("source", "local"),
	}
}

// ProjectsPage lists cached projects, excluding locally-originated ones
// still pending a server id.
func (d *DataSource) ProjectsPage(ctx context.Context) ([]models.Project, error) {
	return d.loadProjects(ctx)
}

func (d *DataSource) loadProjects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := d.db.WithContext(ctx).Where("id <> ?", models.IDNone).Find(&projects).Error
	if err != nil {
		return nil, err
	}

	var keys []models.ProjectTaskKey
	if err := d.db.WithContext(ctx).Find(&keys).Error; err != nil {
		return nil, err
	}
	byProject := make(map[int64][]int64)
	for _, key := range keys {
		byProject[key.ProjectID] = append(byProject[key.ProjectID], key.TaskID)
	}
	for i := range projects {
		projects[i].TaskIDs = byProject[projects[i].ID]
	}

	sortByName(projects, func(p models.Project) string { return p.Name })
	return projects, nil
}

// TasksPage lists cached tasks, excluding pending ones.
func (d *DataSource) TasksPage(ctx context.Context) ([]models.ProjectTask, error) {
	return d.loadTasks(ctx)
}

func (d *DataSource) loadTasks(ctx context.Context) ([]models.ProjectTask, error) {
	var tasks []models.ProjectTask
	err := d.db.WithContext(ctx).Where("id <> ?", models.IDNone).Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	sortByName(tasks, func(t models.ProjectTask) string { return t.Name })
	return tasks, nil
}

// UsersPage lists cached users; an empty cache falls back to the
// signed-in user from preferences so the page is never blank.
func (d *DataSource) UsersPage(ctx context.Context) (models.UsersPage, error) {
	var users []models.User
	err := d.db.WithContext(ctx).Find(&users).Error
	if err != nil {
		return models.UsersPage{}, err
	}
	if len(users) == 0 {
		if user, err := d.User(ctx); err == nil && user != nil {
			users = append(users, *user)
		}
	}
	sortByName(users, func(u models.User) string { return u.Display() })
	return models.UsersPage{Users: users}, nil
}

// TimeListPage builds the time list for a date from cache: the day's
// records, the project/task candidates, and the running totals.
func (d *DataSource) TimeListPage(ctx context.Context, date time.Time) (models.TimeListPage, error) {
	page := models.TimeListPage{Date: date}

	projects, err := d.loadProjects(ctx)
	if err != nil {
		return page, err
	}
	tasks, err := d.loadTasks(ctx)
	if err != nil {
		return page, err
	}
	page.Projects = projects
	page.Tasks = tasks

	records, err := d.loadRecords(ctx, date)
	if err != nil {
		return page, err
	}
	d.resolveRecords(records, projects, tasks)
	page.Records = records

	totals, err := d.loadTotals(ctx, date)
	if err != nil {
		return page, err
	}
	page.Totals = totals

	return page, nil
}

func (d *DataSource) loadRecords(ctx context.Context, day time.Time) ([]models.TimeRecord, error) {
	start := models.StartOfDay(day)
	finish := models.EndOfDay(day)
	var records []models.TimeRecord
	err := d.db.WithContext(ctx).
		Where("start >= ? AND start <= ?", start, finish).
		Order("start").
		Find(&records).Error
	localizeRecords(records)
	return records, err
}

// localizeRecords rebases store-read timestamps into the local zone.
// The store hands them back in UTC, which would shift day boundaries
// computed from them.
func localizeRecords(records []models.TimeRecord) {
	for i := range records {
		records[i].Start = records[i].Start.In(time.Local)
		records[i].Finish = records[i].Finish.In(time.Local)
	}
}

// resolveRecords attaches full project/task values to records that only
// carry ids out of the store.
func (d *DataSource) resolveRecords(records []models.TimeRecord, projects []models.Project, tasks []models.ProjectTask) {
	projectsByID := make(map[int64]models.Project, len(projects))
	for _, p := range projects {
		projectsByID[p.ID] = p
	}
	tasksByID := make(map[int64]models.ProjectTask, len(tasks))
	for _, t := range tasks {
		tasksByID[t.ID] = t
	}
	for i := range records {
		if p, ok := projectsByID[records[i].ProjectID]; ok {
			records[i].Project = p
		}
		if t, ok := tasksByID[records[i].TaskID]; ok {
			records[i].Task = t
		}
	}
}

// EditPage loads one record by its server id, or an empty record for
// IDNone.
func (d *DataSource) EditPage(ctx context.Context, recordID int64) (models.TimeEditPage, error) {
	page := models.TimeEditPage{Date: time.Now()}

	projects, err := d.loadProjects(ctx)
	if err != nil {
		return page, err
	}
	tasks, err := d.loadTasks(ctx)
	if err != nil {
		return page, err
	}
	page.Projects = projects
	page.Tasks = tasks

	if recordID != models.IDNone {
		var record models.TimeRecord
		err := d.db.WithContext(ctx).Where("id = ?", recordID).First(&record).Error
		if err == nil {
			rs := []models.TimeRecord{record}
			localizeRecords(rs)
			d.resolveRecords(rs, projects, tasks)
			page.Record = rs[0]
			page.Date = models.StartOfDay(record.Start)
		} else if err != gorm.ErrRecordNotFound {
			return page, err
		}
	}

	return page, nil
}

// ReportFormPage is a fresh filter over the cached candidates.
func (d *DataSource) ReportFormPage(ctx context.Context) (models.ReportFormPage, error) {
	page := models.ReportFormPage{Filter: models.NewReportFilter()}

	projects, err := d.loadProjects(ctx)
	if err != nil {
		return page, err
	}
	tasks, err := d.loadTasks(ctx)
	if err != nil {
		return page, err
	}
	page.Projects = projects
	page.Tasks = tasks
	return page, nil
}

// ReportPage serves a report from cache: cached report records for the
// range when present, otherwise the time records themselves.
func (d *DataSource) ReportPage(ctx context.Context, filter models.ReportFilter) (models.ReportPage, error) {
	page := models.ReportPage{Filter: filter}

	projects, err := d.loadProjects(ctx)
	if err != nil {
		return page, err
	}
	tasks, err := d.loadTasks(ctx)
	if err != nil {
		return page, err
	}

	records, err := d.loadReportRecords(ctx, filter)
	if err != nil {
		return page, err
	}
	d.resolveRecords(records, projects, tasks)
	page.Records = records
	page.Totals = models.CalculateTotals(records)
	return page, nil
}

func (d *DataSource) loadReportRecords(ctx context.Context, filter models.ReportFilter) ([]models.TimeRecord, error) {
	var reportRecords []models.ReportRecord
	err := d.db.WithContext(ctx).
		Where("start >= ? AND start <= ?", filter.Start, filter.Finish).
		Order("start").
		Find(&reportRecords).Error
	if err != nil {
		return nil, err
	}
	if len(reportRecords) > 0 {
		records := make([]models.TimeRecord, len(reportRecords))
		for i, rr := range reportRecords {
			records[i] = rr.TimeRecord
		}
		localizeRecords(records)
		return records, nil
	}

	var records []models.TimeRecord
	err = d.db.WithContext(ctx).
		Where("start >= ? AND start <= ?", filter.Start, filter.Finish).
		Order("start").
		Find(&records).Error
	localizeRecords(records)
	return records, err
}

// TimerPage is the started record (if any) plus the candidates.
func (d *DataSource) TimerPage(ctx context.Context) (models.TimerPage, error) {
	page := models.TimerPage{}

	projects, err := d.loadProjects(ctx)
	if err != nil {
		return page, err
	}
	tasks, err := d.loadTasks(ctx)
	if err != nil {
		return page, err
	}
	page.Projects = projects
	page.Tasks = tasks

	if record, err := d.StartedRecord(ctx); err == nil && record != nil {
		page.Record = *record
	}
	return page, nil
}

// ProfilePage is the signed-in user from preferences.
func (d *DataSource) ProfilePage(ctx context.Context) (models.ProfilePage, error) {
	user, err := d.User(ctx)
	if err != nil {
		return models.ProfilePage{}, err
	}
	page := models.ProfilePage{}
	if user != nil {
		page.User = *user
	}
	return page, nil
}

func sortByName[E any](items []E, name func(E) string) {
	sort.SliceStable(items, func(i, j int) bool {
		return strings.ToLower(name(items[i])) < strings.ToLower(name(items[j]))
	})
}
