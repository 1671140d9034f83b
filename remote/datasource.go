package remote

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strconv"
	"time"

	"worktrack/models"
	"worktrack/parser"
)

type DataSource struct {
	client *Client
	log    *slog.Logger
}

func New(client *Client, log *slog.Logger) *DataSource {
	return &DataSource{
		client: client,
		log:    log.With("source", "remote"),
	}
}

// Login submits the login form. The service answers a successful login
// with a redirect to the time page; landing back on the login page
// means the credentials were rejected.
func (d *DataSource) Login(ctx context.Context, username, password string) error {
	form := url.Values{
		"login":     {username},
		"password":  {password},
		"btn_login": {"Login"},
	}
	body, finalPage, err := d.client.postForm(ctx, PageLogin, form)
	if err != nil {
		return err
	}
	if finalPage == PageLogin || body == "" {
		return fmt.Errorf("remote: login rejected for %q", username)
	}
	d.log.Info("logged in", slog.String("username", username))
	return nil
}

func (d *DataSource) ProjectsPage(ctx context.Context) ([]models.Project, error) {
	body, err := d.client.Get(ctx, PageProjects, nil)
	if err != nil {
		return nil, err
	}
	return parser.Projects(body), nil
}

func (d *DataSource) TasksPage(ctx context.Context) ([]models.ProjectTask, error) {
	body, err := d.client.Get(ctx, PageTasks, nil)
	if err != nil {
		return nil, err
	}
	return parser.Tasks(body), nil
}

func (d *DataSource) UsersPage(ctx context.Context) (models.UsersPage, error) {
	body, err := d.client.Get(ctx, PageUsers, nil)
	if err != nil {
		return models.UsersPage{}, err
	}
	return models.UsersPage{Users: parser.Users(body)}, nil
}

func (d *DataSource) TimeListPage(ctx context.Context, date time.Time) (models.TimeListPage, error) {
	query := url.Values{"date": {date.Format(models.DateLayout)}}
	body, err := d.client.Get(ctx, PageTime, query)
	if err != nil {
		return models.TimeListPage{Date: date}, err
	}
	return parser.TimeList(body, date), nil
}

func (d *DataSource) EditPage(ctx context.Context, recordID int64) (models.TimeEditPage, error) {
	query := url.Values{"id": {strconv.FormatInt(recordID, 10)}}
	body, err := d.client.Get(ctx, PageTimeEdit, query)
	if err != nil {
		return models.TimeEditPage{}, err
	}
	page := parser.TimeEdit(body)
	if page.Record.ID == models.IDNone {
		page.Record.ID = recordID
	}
	return page, nil
}

func (d *DataSource) ReportFormPage(ctx context.Context) (models.ReportFormPage, error) {
	body, err := d.client.Get(ctx, PageReports, nil)
	if err != nil {
		return models.ReportFormPage{}, err
	}
	return parser.ReportForm(body), nil
}

// ReportPage submits the report criteria; the service generates the
// report and redirects to it (an allow-listed redirect target).
func (d *DataSource) ReportPage(ctx context.Context, filter models.ReportFilter) (models.ReportPage, error) {
	page := models.ReportPage{Filter: filter}
	body, err := d.client.PostForm(ctx, PageReports, filterForm(filter))
	if err != nil {
		return page, err
	}
	page.Records = parser.Report(body)
	page.Totals = models.CalculateTotals(page.Records)
	return page, nil
}

// CreateRecord submits a new record via the time page's form.
func (d *DataSource) CreateRecord(ctx context.Context, record models.TimeRecord) error {
	form := recordForm(record)
	form.Set("btn_submit", "Submit")
	_, err := d.client.PostForm(ctx, PageTime, form)
	return err
}

// UpdateRecord saves changes to an existing record.
func (d *DataSource) UpdateRecord(ctx context.Context, record models.TimeRecord) error {
	form := recordForm(record)
	form.Set("id", strconv.FormatInt(record.ID, 10))
	form.Set("btn_save", "Save")
	_, err := d.client.PostForm(ctx, PageTimeEdit, form)
	return err
}

// DeleteRecord removes a record on the server.
func (d *DataSource) DeleteRecord(ctx context.Context, recordID int64) error {
	form := url.Values{
		"id":            {strconv.FormatInt(recordID, 10)},
		"delete_button": {"Delete"},
	}
	_, err := d.client.PostForm(ctx, PageTimeDelete, form)
	return err
}

// SubmitRecord sends one single-day record, creating or saving it
// depending on whether the server knows it yet. Multi-day splitting and
// fragment sequencing live in the repository, which can resume after a
// re-login without resubmitting fragments that already landed.
func (d *DataSource) SubmitRecord(ctx context.Context, record models.TimeRecord) error {
	if record.ID == models.IDNone {
		return d.CreateRecord(ctx, record)
	}
	return d.UpdateRecord(ctx, record)
}

// recordForm renders a record as the legacy form field set.
func recordForm(record models.TimeRecord) url.Values {
	form := url.Values{
		"date":    {record.Start.Format(models.DateLayout)},
		"project": {strconv.FormatInt(record.Project.ID, 10)},
		"task":    {strconv.FormatInt(record.Task.ID, 10)},
		"start":   {record.Start.Format(models.TimeLayout)},
		"note":    {record.Note},
	}
	if record.Finish.IsZero() {
		form.Set("finish", "")
	} else {
		form.Set("finish", record.Finish.Format(models.TimeLayout))
	}
	return form
}

// filterForm renders a report filter as the report form's field set.
func filterForm(filter models.ReportFilter) url.Values {
	form := url.Values{
		"start_date":   {filter.Start.Format(models.DateLayout)},
		"end_date":     {filter.Finish.Format(models.DateLayout)},
		"btn_generate": {"Generate"},
	}
	if filter.ProjectID != models.IDNone {
		form.Set("project", strconv.FormatInt(filter.ProjectID, 10))
	}
	if filter.TaskID != models.IDNone {
		form.Set("task", strconv.FormatInt(filter.TaskID, 10))
	}
	setCheckbox(form, "chproject", filter.ShowProject)
	setCheckbox(form, "chtask", filter.ShowTask)
	setCheckbox(form, "chstart", filter.ShowStart)
	setCheckbox(form, "chfinish", filter.ShowFinish)
	setCheckbox(form, "chduration", filter.ShowDuration)
	setCheckbox(form, "chnote", filter.ShowNote)
	setCheckbox(form, "chcost", filter.ShowCost)
	return form
}

func setCheckbox(form url.Values, name string, checked bool) {
	if checked {
		form.Set(name, "1")
	}
}
