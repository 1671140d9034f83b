package data

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"worktrack/models"

	"gorm.io/gorm"
)

// Saver writes freshly scraped pages into the cache. All writes are
// serialized behind one mutex so two refreshes for the same collection
// cannot interleave their delete/insert/update passes.
type Saver struct {
	db  *gorm.DB
	log *slog.Logger
	mu  sync.Mutex
}

func NewSaver(db *gorm.DB, log *slog.Logger) *Saver {
	return &Saver{
		db:  db,
		log: log.With("component", "saver"),
	}
}

// applyChanges converges one table: deletes first, then inserts
// (capturing the newly assigned row ids back onto the in-memory
// entities), then updates.
func applyChanges[E any](db *gorm.DB, ch *changes[E], dbID func(*E) uint) error {
	if len(ch.deletes) > 0 {
		ids := make([]uint, len(ch.deletes))
		for i := range ch.deletes {
			ids[i] = dbID(&ch.deletes[i])
		}
		if err := db.Where("db_id IN ?", ids).Delete(new(E)).Error; err != nil {
			return err
		}
	}
	if len(ch.inserts) > 0 {
		if err := db.Create(&ch.inserts).Error; err != nil {
			return err
		}
	}
	for i := range ch.updates {
		if err := db.Save(&ch.updates[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

// SaveProjects converges the cached projects with a scraped list.
func (s *Saver) SaveProjects(ctx context.Context, fresh []models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveProjects(ctx, fresh)
}

func (s *Saver) saveProjects(ctx context.Context, fresh []models.Project) error {
	db := s.db.WithContext(ctx)

	var cached []models.Project
	if err := db.Find(&cached).Error; err != nil {
		return err
	}

	ch := reconcile(cached, fresh,
		func(p models.Project) int64 { return p.ID },
		func(fresh *models.Project, cached models.Project) {
			fresh.DBID = cached.DBID
			fresh.Version = cached.Version
		})

	s.logChanges("projects", len(ch.inserts), len(ch.updates), len(ch.deletes))
	return applyChanges(db, &ch, func(p *models.Project) uint { return p.DBID })
}

// SaveTasks converges the cached tasks with a scraped list.
func (s *Saver) SaveTasks(ctx context.Context, fresh []models.ProjectTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveTasks(ctx, fresh)
}

func (s *Saver) saveTasks(ctx context.Context, fresh []models.ProjectTask) error {
	db := s.db.WithContext(ctx)

	var cached []models.ProjectTask
	if err := db.Find(&cached).Error; err != nil {
		return err
	}

	ch := reconcile(cached, fresh,
		func(t models.ProjectTask) int64 { return t.ID },
		func(fresh *models.ProjectTask, cached models.ProjectTask) {
			fresh.DBID = cached.DBID
			fresh.Version = cached.Version
		})

	s.logChanges("tasks", len(ch.inserts), len(ch.updates), len(ch.deletes))
	return applyChanges(db, &ch, func(t *models.ProjectTask) uint { return t.DBID })
}

// SaveProjectTaskKeys converges the association rows derived from the
// projects' scraped task ids. The server exposes no id for the
// association itself, so rows are keyed by value.
func (s *Saver) SaveProjectTaskKeys(ctx context.Context, projects []models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveProjectTaskKeys(ctx, projects)
}

func (s *Saver) saveProjectTaskKeys(ctx context.Context, projects []models.Project) error {
	db := s.db.WithContext(ctx)

	var fresh []models.ProjectTaskKey
	for i := range projects {
		fresh = append(fresh, projects[i].Keys()...)
	}

	var cached []models.ProjectTaskKey
	if err := db.Find(&cached).Error; err != nil {
		return err
	}

	type pair struct{ project, task int64 }
	ch := reconcile(cached, fresh,
		func(k models.ProjectTaskKey) pair { return pair{k.ProjectID, k.TaskID} },
		func(fresh *models.ProjectTaskKey, cached models.ProjectTaskKey) {
			fresh.DBID = cached.DBID
		})

	s.logChanges("project task keys", len(ch.inserts), len(ch.updates), len(ch.deletes))
	return applyChanges(db, &ch, func(k *models.ProjectTaskKey) uint { return k.DBID })
}

// SaveUsers converges the cached users. The users page does not always
// expose server ids, so rows are keyed by login.
func (s *Saver) SaveUsers(ctx context.Context, fresh []models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.db.WithContext(ctx)

	var cached []models.User
	if err := db.Find(&cached).Error; err != nil {
		return err
	}

	ch := reconcile(cached, fresh,
		func(u models.User) string { return u.Username },
		func(fresh *models.User, cached models.User) {
			fresh.DBID = cached.DBID
			fresh.Version = cached.Version
			if fresh.ID == models.IDNone {
				fresh.ID = cached.ID
			}
		})

	s.logChanges("users", len(ch.inserts), len(ch.updates), len(ch.deletes))
	return applyChanges(db, &ch, func(u *models.User) uint { return u.DBID })
}

// SaveTimeListPage persists everything a scraped time page carries: the
// form's project/task candidates, their associations, and the day's
// records.
func (s *Saver) SaveTimeListPage(ctx context.Context, page models.TimeListPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveProjects(ctx, realProjects(page.Projects)); err != nil {
		return err
	}
	if err := s.saveTasks(ctx, realTasks(page.Tasks)); err != nil {
		return err
	}
	if err := s.saveProjectTaskKeys(ctx, realProjects(page.Projects)); err != nil {
		return err
	}
	return s.saveDayRecords(ctx, page.Date, page.Records)
}

// saveDayRecords converges one day's records with the scraped list.
// The scraped page is authoritative for its date only, so the cached
// side of the diff is restricted to that day.
func (s *Saver) saveDayRecords(ctx context.Context, date time.Time, fresh []models.TimeRecord) error {
	db := s.db.WithContext(ctx)

	var cached []models.TimeRecord
	err := db.Where("start >= ? AND start <= ?", models.StartOfDay(date), models.EndOfDay(date)).
		Find(&cached).Error
	if err != nil {
		return err
	}

	ch := reconcile(cached, fresh,
		func(r models.TimeRecord) int64 { return r.ID },
		func(fresh *models.TimeRecord, cached models.TimeRecord) {
			fresh.DBID = cached.DBID
			fresh.Version = cached.Version
		})

	s.logChanges("time records", len(ch.inserts), len(ch.updates), len(ch.deletes))
	return applyChanges(db, &ch, func(r *models.TimeRecord) uint { return r.DBID })
}

// SaveFormPage persists the project/task candidates scraped from an
// edit or report form page.
func (s *Saver) SaveFormPage(ctx context.Context, projects []models.Project, tasks []models.ProjectTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveProjects(ctx, realProjects(projects)); err != nil {
		return err
	}
	if err := s.saveTasks(ctx, realTasks(tasks)); err != nil {
		return err
	}
	return s.saveProjectTaskKeys(ctx, realProjects(projects))
}

// SaveReportPage replaces the cached report records for the filter's
// range. Report rows carry synthetic ids, so a range replace is the
// honest converge here, not an id diff.
func (s *Saver) SaveReportPage(ctx context.Context, page models.ReportPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	db := s.db.WithContext(ctx)
	err := db.Where("start >= ? AND start <= ?", page.Filter.Start, page.Filter.Finish).
		Delete(&models.ReportRecord{}).Error
	if err != nil {
		return err
	}
	if len(page.Records) == 0 {
		return nil
	}
	rows := make([]models.ReportRecord, len(page.Records))
	for i, record := range page.Records {
		record.DBID = 0
		rows[i] = models.ReportRecord{TimeRecord: record}
	}
	return db.Create(&rows).Error
}

// realProjects drops the form's empty placeholder and any other entry
// without a server id; only server-known projects are cached.
func realProjects(projects []models.Project) []models.Project {
	var result []models.Project
	for _, p := range projects {
		if p.ID != models.IDNone {
			result = append(result, p)
		}
	}
	return result
}

func realTasks(tasks []models.ProjectTask) []models.ProjectTask {
	var result []models.ProjectTask
	for _, t := range tasks {
		if t.ID != models.IDNone {
			result = append(result, t)
		}
	}
	return result
}

func (s *Saver) logChanges(collection string, inserts, updates, deletes int) {
	s.log.Debug("reconcile",
		slog.String("collection", collection),
		slog.Int("inserts", inserts),
		slog.Int("updates", updates),
		slog.Int("deletes", deletes),
	)
}
