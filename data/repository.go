package data

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"worktrack/local"
	"worktrack/models"
	"worktrack/remote"
)

// Credentials re-authenticates an expired session.
type Credentials struct {
	Username string
	Password string
}

// Repository is the app's single data entry point. Reads come from the
// local cache; a refresh fetches the live page, saves it into the
// cache, and rereads. An expired session triggers one re-login and one
// replay of the original request, never a retry loop.
type Repository struct {
	local  *local.DataSource
	remote *remote.DataSource
	saver  *Saver
	creds  Credentials
	log    *slog.Logger
}

func NewRepository(localSource *local.DataSource, remoteSource *remote.DataSource, saver *Saver, creds Credentials, log *slog.Logger) *Repository {
	return &Repository{
		local:  localSource,
		remote: remoteSource,
		saver:  saver,
		creds:  creds,
		log:    log.With("component", "repository"),
	}
}

var _ DataSource = (*local.DataSource)(nil)
var _ DataSource = (*remote.DataSource)(nil)

// Login authenticates against the service and remembers the signed-in
// user for the profile page.
func (r *Repository) Login(ctx context.Context) error {
	if err := r.remote.Login(ctx, r.creds.Username, r.creds.Password); err != nil {
		return err
	}
	return r.local.SetUser(ctx, models.User{Username: r.creds.Username})
}

// withAuthRetry runs a remote operation, re-authenticating and
// replaying exactly once when the session has expired.
func (r *Repository) withAuthRetry(ctx context.Context, op func() error) error {
	err := op()
	if !errors.Is(err, remote.ErrAuthenticationRequired) {
		return err
	}
	r.log.Info("session expired, re-authenticating")
	if err := r.Login(ctx); err != nil {
		return err
	}
	return op()
}

func (r *Repository) ProjectsPage(ctx context.Context, refresh bool) ([]models.Project, error) {
	if refresh {
		var fresh []models.Project
		err := r.withAuthRetry(ctx, func() error {
			var err error
			fresh, err = r.remote.ProjectsPage(ctx)
			return err
		})
		if err != nil {
			return nil, err
		}
		if err := r.saver.SaveProjects(ctx, fresh); err != nil {
			return nil, err
		}
	}
	return r.local.ProjectsPage(ctx)
}

func (r *Repository) TasksPage(ctx context.Context, refresh bool) ([]models.ProjectTask, error) {
	if refresh {
		var fresh []models.ProjectTask
		err := r.withAuthRetry(ctx, func() error {
			var err error
			fresh, err = r.remote.TasksPage(ctx)
			return err
		})
		if err != nil {
			return nil, err
		}
		if err := r.saver.SaveTasks(ctx, fresh); err != nil {
			return nil, err
		}
	}
	return r.local.TasksPage(ctx)
}

func (r *Repository) UsersPage(ctx context.Context, refresh bool) (models.UsersPage, error) {
	if refresh {
		var fresh models.UsersPage
		err := r.withAuthRetry(ctx, func() error {
			var err error
			fresh, err = r.remote.UsersPage(ctx)
			return err
		})
		if err != nil {
			return models.UsersPage{}, err
		}
		if err := r.saver.SaveUsers(ctx, fresh.Users); err != nil {
			return models.UsersPage{}, err
		}
	}
	return r.local.UsersPage(ctx)
}

func (r *Repository) TimeListPage(ctx context.Context, date time.Time, refresh bool) (models.TimeListPage, error) {
	if refresh {
		var fresh models.TimeListPage
		err := r.withAuthRetry(ctx, func() error {
			var err error
			fresh, err = r.remote.TimeListPage(ctx, date)
			return err
		})
		if err != nil {
			return models.TimeListPage{Date: date}, err
		}
		if err := r.saver.SaveTimeListPage(ctx, fresh); err != nil {
			return models.TimeListPage{Date: date}, err
		}
	}
	return r.local.TimeListPage(ctx, date)
}

func (r *Repository) EditPage(ctx context.Context, recordID int64, refresh bool) (models.TimeEditPage, error) {
	if refresh {
		var fresh models.TimeEditPage
		err := r.withAuthRetry(ctx, func() error {
			var err error
			fresh, err = r.remote.EditPage(ctx, recordID)
			return err
		})
		if err != nil {
			return models.TimeEditPage{}, err
		}
		if err := r.saver.SaveFormPage(ctx, fresh.Projects, fresh.Tasks); err != nil {
			return models.TimeEditPage{}, err
		}
		// The remote page carries form state (error message, selected
		// record) the cache does not; serve it directly.
		return fresh, nil
	}
	return r.local.EditPage(ctx, recordID)
}

func (r *Repository) ReportFormPage(ctx context.Context, refresh bool) (models.ReportFormPage, error) {
	if refresh {
		var fresh models.ReportFormPage
		err := r.withAuthRetry(ctx, func() error {
			var err error
			fresh, err = r.remote.ReportFormPage(ctx)
			return err
		})
		if err != nil {
			return models.ReportFormPage{}, err
		}
		if err := r.saver.SaveFormPage(ctx, fresh.Projects, fresh.Tasks); err != nil {
			return models.ReportFormPage{}, err
		}
		return fresh, nil
	}
	return r.local.ReportFormPage(ctx)
}

func (r *Repository) ReportPage(ctx context.Context, filter models.ReportFilter, refresh bool) (models.ReportPage, error) {
	if refresh {
		var fresh models.ReportPage
		err := r.withAuthRetry(ctx, func() error {
			var err error
			fresh, err = r.remote.ReportPage(ctx, filter)
			return err
		})
		if err != nil {
			return models.ReportPage{Filter: filter}, err
		}
		if err := r.saver.SaveReportPage(ctx, fresh); err != nil {
			return models.ReportPage{Filter: filter}, err
		}
	}
	return r.local.ReportPage(ctx, filter)
}

func (r *Repository) TimerPage(ctx context.Context) (models.TimerPage, error) {
	return r.local.TimerPage(ctx)
}

func (r *Repository) ProfilePage(ctx context.Context) (models.ProfilePage, error) {
	return r.local.ProfilePage(ctx)
}

// Favorites returns the default project/task for new records.
func (r *Repository) Favorites(ctx context.Context) (projectID, taskID int64, err error) {
	projectID, err = r.local.FavoriteProject(ctx)
	if err != nil {
		return models.IDNone, models.IDNone, err
	}
	taskID, err = r.local.FavoriteTask(ctx)
	if err != nil {
		return models.IDNone, models.IDNone, err
	}
	return projectID, taskID, nil
}

// StartTimer begins tracking a record now and remembers its
// project/task as the favorites.
func (r *Repository) StartTimer(ctx context.Context, record models.TimeRecord) error {
	record.Status = models.StatusDraft
	record.SetStart(time.Now())
	if err := r.local.SetStartedRecord(ctx, &record); err != nil {
		return err
	}
	return r.rememberFavorites(ctx, record)
}

func (r *Repository) rememberFavorites(ctx context.Context, record models.TimeRecord) error {
	if record.ProjectID != models.IDNone {
		if err := r.local.SetFavoriteProject(ctx, record.ProjectID); err != nil {
			return err
		}
	}
	if record.TaskID != models.IDNone {
		if err := r.local.SetFavoriteTask(ctx, record.TaskID); err != nil {
			return err
		}
	}
	return nil
}

// StopTimer finishes the started record and submits it, then refreshes
// the day's cache.
func (r *Repository) StopTimer(ctx context.Context) (models.TimeRecord, error) {
	started, err := r.local.StartedRecord(ctx)
	if err != nil {
		return models.TimeRecord{}, err
	}
	if started == nil {
		return models.TimeRecord{}, errors.New("data: no timer started")
	}
	started.SetFinish(time.Now())
	if err := r.SubmitRecord(ctx, *started, nil); err != nil {
		return *started, err
	}
	return *started, r.local.SetStartedRecord(ctx, nil)
}

// SubmitRecord sends a record to the server, splitting multi-day
// records into one submission per day, then refreshes the affected
// dates. Each fragment gets its own auth retry, so a session expiring
// mid-submit never resubmits fragments that already landed. notify is
// called once per successful fragment with a flag marking the final
// one.
func (r *Repository) SubmitRecord(ctx context.Context, record models.TimeRecord, notify func(index int, last bool)) error {
	parts := record.Split()
	if len(parts) == 0 {
		parts = []models.TimeRecord{record}
	}
	for i, part := range parts {
		err := r.withAuthRetry(ctx, func() error {
			return r.remote.SubmitRecord(ctx, part)
		})
		if err != nil {
			return err
		}
		if notify != nil {
			notify(i, i == len(parts)-1)
		}
	}
	if err := r.rememberFavorites(ctx, record); err != nil {
		return err
	}
	for _, part := range parts {
		if _, err := r.TimeListPage(ctx, part.Start, true); err != nil {
			return err
		}
	}
	return nil
}

// DeleteRecord removes a record remotely and mirrors the delete
// locally.
func (r *Repository) DeleteRecord(ctx context.Context, record models.TimeRecord) error {
	err := r.withAuthRetry(ctx, func() error {
		return r.remote.DeleteRecord(ctx, record.ID)
	})
	if err != nil {
		return err
	}
	_, err = r.TimeListPage(ctx, record.Start, true)
	return err
}
