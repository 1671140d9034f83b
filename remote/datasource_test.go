package remote

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"worktrack/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sessionCookie = "tt_session"

// fakeService imitates the legacy PHP backend: cookie sessions, HTTP
// 200 everywhere, and a silent redirect to the login page once the
// session is gone.
type fakeService struct {
	mu        sync.Mutex
	loggedIn  bool
	logins    int
	submitted []string

	projectsHTML string
	timeHTML     string
	reportHTML   string
}

func newFakeService() *fakeService {
	return &fakeService{
		projectsHTML: `<html><body><table>
			<tr><td class="tableHeader">Name</td><td class="tableHeader">Description</td></tr>
			<tr><td>Alpha</td><td>Flagship</td><td><a href="project_edit.php?id=5">Edit</a></td></tr>
		</table></body></html>`,
		timeHTML: `<html>
		<script>
		var task_ids = new Array();
		task_ids[5] = "10";
		// Prepare an array of task names.
		</script>
		<body>
		<form name="timeRecordForm">
			<select name="project"><option value="">---</option><option value="5">Alpha</option></select>
			<select name="task"><option value="">---</option><option value="10">Build</option></select>
			<input name="start" value=""><input name="finish" value="">
			<textarea name="note"></textarea>
		</form>
		<table>
			<tr><td class="tableHeader">Project</td><td class="tableHeader">Task</td>
				<td class="tableHeader">Start</td><td class="tableHeader">Finish</td>
				<td class="tableHeader">Note</td><td class="tableHeader">Cost</td></tr>
			<tr><td>Alpha</td><td>Build</td><td>09:00</td><td>17:00</td><td></td><td></td>
				<td><a href="time_edit.php?id=42">Edit</a></td></tr>
		</table></body></html>`,
		reportHTML: `<html><body><form name="reportViewForm"><table>
			<tr><td class="tableHeader">Date</td><td class="tableHeader">Project</td>
				<td class="tableHeader">Task</td><td class="tableHeader">Start</td>
				<td class="tableHeader">Finish</td></tr>
			<tr><td>2026-08-24</td><td>Alpha</td><td>Build</td><td>09:00</td><td>17:00</td></tr>
		</table></form></body></html>`,
	}
}

func (f *fakeService) router() http.Handler {
	r := chi.NewRouter()
	r.Post("/login.php", f.handleLogin)
	r.Get("/login.php", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<html><body><form name="loginForm"></form></body></html>`)
	})
	r.Get("/projects.php", f.authenticated(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, f.projectsHTML)
	}))
	r.Get("/time.php", f.authenticated(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, f.timeHTML)
	}))
	r.Post("/time.php", f.authenticated(f.handleSubmit))
	r.Post("/time_edit.php", f.authenticated(f.handleSave))
	r.Post("/reports.php", f.authenticated(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/report.php", http.StatusFound)
	}))
	r.Get("/report.php", f.authenticated(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, f.reportHTML)
	}))
	return r
}

func (f *fakeService) handleLogin(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	if r.PostFormValue("login") != "jsmith" || r.PostFormValue("password") != "secret" {
		// Rejected logins re-render the login page with HTTP 200.
		fmt.Fprint(w, `<html><body><td class="error">Invalid login.</td></body></html>`)
		return
	}
	f.mu.Lock()
	f.loggedIn = true
	f.logins++
	f.mu.Unlock()
	http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "ok", Path: "/"})
	http.Redirect(w, r, "/time.php", http.StatusFound)
}

func (f *fakeService) handleSubmit(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	f.mu.Lock()
	f.submitted = append(f.submitted, "create "+r.PostFormValue("date")+" "+
		r.PostFormValue("start")+"-"+r.PostFormValue("finish"))
	f.mu.Unlock()
	fmt.Fprint(w, f.timeHTML)
}

func (f *fakeService) handleSave(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	f.mu.Lock()
	f.submitted = append(f.submitted, "save "+r.PostFormValue("id")+" "+
		r.PostFormValue("start")+"-"+r.PostFormValue("finish"))
	f.mu.Unlock()
	fmt.Fprint(w, f.timeHTML)
}

// authenticated redirects to the login page, the way the PHP service
// does, when the session cookie is missing or revoked.
func (f *fakeService) authenticated(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(sessionCookie)
		f.mu.Lock()
		alive := f.loggedIn
		f.mu.Unlock()
		if err != nil || cookie.Value != "ok" || !alive {
			http.Redirect(w, r, "/login.php", http.StatusFound)
			return
		}
		next(w, r)
	}
}

func (f *fakeService) expireSession() {
	f.mu.Lock()
	f.loggedIn = false
	f.mu.Unlock()
}

func (f *fakeService) loginCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.logins
}

func (f *fakeService) submissions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.submitted...)
}

func testSource(t *testing.T) (*DataSource, *fakeService) {
	t.Helper()
	service := newFakeService()
	server := httptest.NewServer(service.router())
	t.Cleanup(server.Close)

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	client, err := NewClient(server.URL, 5*time.Second, log)
	require.NoError(t, err)
	return New(client, log), service
}

func login(t *testing.T, source *DataSource) {
	t.Helper()
	require.NoError(t, source.Login(context.Background(), "jsmith", "secret"))
}

func TestLogin(t *testing.T) {
	source, service := testSource(t)
	login(t, source)
	assert.Equal(t, 1, service.loginCount())
}

func TestLoginRejected(t *testing.T) {
	source, _ := testSource(t)
	err := source.Login(context.Background(), "jsmith", "wrong")
	assert.ErrorContains(t, err, "login rejected")
}

func TestFetchWithoutSession(t *testing.T) {
	source, _ := testSource(t)
	_, err := source.ProjectsPage(context.Background())
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestFetchAfterSessionExpiry(t *testing.T) {
	source, service := testSource(t)
	login(t, source)

	service.expireSession()
	_, err := source.TimeListPage(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrAuthenticationRequired)
}

func TestProjectsPage(t *testing.T) {
	source, _ := testSource(t)
	login(t, source)

	projects, err := source.ProjectsPage(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, int64(5), projects[0].ID)
	assert.Equal(t, "Alpha", projects[0].Name)
}

func TestTimeListPage(t *testing.T) {
	source, _ := testSource(t)
	login(t, source)

	date := time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local)
	page, err := source.TimeListPage(context.Background(), date)
	require.NoError(t, err)

	require.Len(t, page.Records, 1)
	assert.Equal(t, int64(42), page.Records[0].ID)
	assert.Equal(t, int64(5), page.Records[0].ProjectID)
	assert.Equal(t, 8*time.Hour, page.Records[0].Duration())
	assert.Equal(t, 0.00, page.Records[0].Cost)
}

func TestReportPageFollowsGenerateRedirect(t *testing.T) {
	source, _ := testSource(t)
	login(t, source)

	filter := models.NewReportFilter()
	filter.Start = time.Date(2026, 8, 1, 0, 0, 0, 0, time.Local)
	filter.Finish = models.EndOfDay(time.Date(2026, 8, 31, 0, 0, 0, 0, time.Local))

	page, err := source.ReportPage(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, 8*time.Hour, page.Totals.Duration)
}

func TestSubmitRecordCreatesWithoutServerID(t *testing.T) {
	source, service := testSource(t)
	login(t, source)

	record := models.TimeRecord{}
	record.SetProject(models.Project{Entity: models.Entity{ID: 5}, Name: "Alpha"})
	record.SetTask(models.ProjectTask{Entity: models.Entity{ID: 10}, Name: "Build"})
	record.SetStart(time.Date(2026, 8, 24, 9, 0, 0, 0, time.Local))
	record.SetFinish(time.Date(2026, 8, 24, 17, 0, 0, 0, time.Local))

	require.NoError(t, source.SubmitRecord(context.Background(), record))

	submitted := service.submissions()
	require.Len(t, submitted, 1)
	assert.Equal(t, "create 2026-08-24 09:00-17:00", submitted[0])
}

func TestSubmitRecordSavesExistingRecord(t *testing.T) {
	source, service := testSource(t)
	login(t, source)

	record := models.TimeRecord{}
	record.ID = 42
	record.SetProject(models.Project{Entity: models.Entity{ID: 5}, Name: "Alpha"})
	record.SetTask(models.ProjectTask{Entity: models.Entity{ID: 10}, Name: "Build"})
	record.SetStart(time.Date(2026, 8, 24, 9, 0, 0, 0, time.Local))
	record.SetFinish(time.Date(2026, 8, 24, 16, 0, 0, 0, time.Local))

	require.NoError(t, source.SubmitRecord(context.Background(), record))

	submitted := service.submissions()
	require.Len(t, submitted, 1)
	assert.Equal(t, "save 42 09:00-16:00", submitted[0])
}
