package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	"worktrack/config"
	"worktrack/data"
	"worktrack/database"
	"worktrack/local"
	"worktrack/models"
	"worktrack/remote"
)

const usage = `usage: worktrack <command> [flags]

commands:
  projects          list projects
  tasks             list tasks
  users             list users
  list              show the time list for a date (-date 2006-01-02)
  edit              show one record (-id)
  report            show a report (-from, -to)
  profile           show the signed-in user
  start             start the timer (-project, -task, -note)
  stop              stop the timer and submit the record
  add               add a record (-project, -task, -date, -start, -finish, -note)
  delete            delete a record (-id)

Add -refresh to read live server state instead of the cache only.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log := newLogger(cfg.Log)

	if err := database.Init(cfg.Database.Path); err != nil {
		log.Error("open cache database", "path", cfg.Database.Path, "error", err)
		os.Exit(1)
	}
	db := database.GetDB()

	client, err := remote.NewClient(cfg.Service.BaseURL, cfg.Service.Timeout, log)
	if err != nil {
		log.Error("create client", "error", err)
		os.Exit(1)
	}

	repo := data.NewRepository(
		local.New(db, log),
		remote.New(client, log),
		data.NewSaver(db, log),
		data.Credentials{Username: cfg.Service.Username, Password: cfg.Service.Password},
		log,
	)

	ctx := context.Background()
	if err := run(ctx, repo, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, repo *data.Repository, command string, args []string) error {
	switch command {
	case "projects":
		return runProjects(ctx, repo, args)
	case "tasks":
		return runTasks(ctx, repo, args)
	case "users":
		return runUsers(ctx, repo, args)
	case "list":
		return runList(ctx, repo, args)
	case "edit":
		return runEdit(ctx, repo, args)
	case "report":
		return runReport(ctx, repo, args)
	case "profile":
		return runProfile(ctx, repo)
	case "start":
		return runStart(ctx, repo, args)
	case "stop":
		return runStop(ctx, repo)
	case "add":
		return runAdd(ctx, repo, args)
	case "delete":
		return runDelete(ctx, repo, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runProjects(ctx context.Context, repo *data.Repository, args []string) error {
	flags := flag.NewFlagSet("projects", flag.ExitOnError)
	refresh := flags.Bool("refresh", false, "fetch live server state")
	if err := flags.Parse(args); err != nil {
		return err
	}

	projects, err := repo.ProjectsPage(ctx, *refresh)
	if err != nil {
		return err
	}
	w := newTabWriter()
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION\tTASKS")
	for _, p := range projects {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", p.ID, p.Name, p.Description, len(p.TaskIDs))
	}
	return w.Flush()
}

func runTasks(ctx context.Context, repo *data.Repository, args []string) error {
	flags := flag.NewFlagSet("tasks", flag.ExitOnError)
	refresh := flags.Bool("refresh", false, "fetch live server state")
	if err := flags.Parse(args); err != nil {
		return err
	}

	tasks, err := repo.TasksPage(ctx, *refresh)
	if err != nil {
		return err
	}
	w := newTabWriter()
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
	for _, t := range tasks {
		fmt.Fprintf(w, "%d\t%s\t%s\n", t.ID, t.Name, t.Description)
	}
	return w.Flush()
}

func runUsers(ctx context.Context, repo *data.Repository, args []string) error {
	flags := flag.NewFlagSet("users", flag.ExitOnError)
	refresh := flags.Bool("refresh", false, "fetch live server state")
	if err := flags.Parse(args); err != nil {
		return err
	}

	page, err := repo.UsersPage(ctx, *refresh)
	if err != nil {
		return err
	}
	w := newTabWriter()
	fmt.Fprintln(w, "LOGIN\tNAME\tROLES\tINCOMPLETE")
	for _, u := range page.Users {
		incomplete := ""
		if u.IsIncomplete {
			incomplete = "yes"
		}
		fmt.Fprintf(w, "%s\t%s\t%v\t%s\n", u.Username, u.Display(), []string(u.Roles), incomplete)
	}
	return w.Flush()
}

func runList(ctx context.Context, repo *data.Repository, args []string) error {
	flags := flag.NewFlagSet("list", flag.ExitOnError)
	refresh := flags.Bool("refresh", false, "fetch live server state")
	dateArg := flags.String("date", time.Now().Format(models.DateLayout), "date to list")
	if err := flags.Parse(args); err != nil {
		return err
	}
	date, err := time.ParseInLocation(models.DateLayout, *dateArg, time.Local)
	if err != nil {
		return fmt.Errorf("bad -date: %w", err)
	}

	page, err := repo.TimeListPage(ctx, date, *refresh)
	if err != nil {
		return err
	}

	w := newTabWriter()
	fmt.Fprintln(w, "ID\tPROJECT\tTASK\tSTART\tFINISH\tDURATION\tNOTE")
	for _, r := range page.Records {
		finish := ""
		if !r.Finish.IsZero() {
			finish = r.Finish.Format(models.TimeLayout)
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Project.Name, r.Task.Name,
			r.Start.Format(models.TimeLayout), finish,
			formatDuration(r.Duration()), r.Note)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nday %s  week %s  month %s  remaining %s\n",
		formatDuration(page.Totals.Daily),
		formatDuration(page.Totals.Weekly),
		formatDuration(page.Totals.Monthly),
		formatDuration(page.Totals.Remaining))
	return nil
}

func runEdit(ctx context.Context, repo *data.Repository, args []string) error {
	flags := flag.NewFlagSet("edit", flag.ExitOnError)
	refresh := flags.Bool("refresh", false, "fetch live server state")
	id := flags.Int64("id", 0, "record id")
	if err := flags.Parse(args); err != nil {
		return err
	}

	page, err := repo.EditPage(ctx, *id, *refresh)
	if err != nil {
		return err
	}
	if page.Record.ID == models.IDNone {
		return fmt.Errorf("record %d not found", *id)
	}

	r := page.Record
	fmt.Printf("record %d on %s\n", r.ID, page.Date.Format(models.DateLayout))
	fmt.Printf("  project  %s\n", r.Project.Name)
	fmt.Printf("  task     %s\n", r.Task.Name)
	fmt.Printf("  start    %s\n", r.Start.Format(models.TimeLayout))
	if !r.Finish.IsZero() {
		fmt.Printf("  finish   %s\n", r.Finish.Format(models.TimeLayout))
	}
	if r.Note != "" {
		fmt.Printf("  note     %s\n", r.Note)
	}
	if page.ErrorMessage != "" {
		fmt.Printf("  error    %s\n", page.ErrorMessage)
	}
	return nil
}

func runProfile(ctx context.Context, repo *data.Repository) error {
	page, err := repo.ProfilePage(ctx)
	if err != nil {
		return err
	}
	if page.User.IsEmpty() {
		fmt.Println("not signed in yet")
		return nil
	}
	fmt.Printf("signed in as %s (%s)\n", page.User.Display(), page.User.Username)
	return nil
}

func runReport(ctx context.Context, repo *data.Repository, args []string) error {
	flags := flag.NewFlagSet("report", flag.ExitOnError)
	refresh := flags.Bool("refresh", false, "fetch live server state")
	from := flags.String("from", models.StartOfDay(time.Now()).AddDate(0, -1, 0).Format(models.DateLayout), "range start")
	to := flags.String("to", time.Now().Format(models.DateLayout), "range end")
	if err := flags.Parse(args); err != nil {
		return err
	}

	filter := models.NewReportFilter()
	start, err := time.ParseInLocation(models.DateLayout, *from, time.Local)
	if err != nil {
		return fmt.Errorf("bad -from: %w", err)
	}
	finish, err := time.ParseInLocation(models.DateLayout, *to, time.Local)
	if err != nil {
		return fmt.Errorf("bad -to: %w", err)
	}
	filter.Start = start
	filter.Finish = models.EndOfDay(finish)

	page, err := repo.ReportPage(ctx, filter, *refresh)
	if err != nil {
		return err
	}

	w := newTabWriter()
	fmt.Fprintln(w, "DATE\tPROJECT\tTASK\tSTART\tFINISH\tDURATION\tNOTE\tCOST")
	for _, r := range page.Records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%.2f\n",
			r.Start.Format(models.DateLayout), r.Project.Name, r.Task.Name,
			r.Start.Format(models.TimeLayout), r.Finish.Format(models.TimeLayout),
			formatDuration(r.Duration()), r.Note, r.Cost)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ntotal %s  cost %.2f\n", formatDuration(page.Totals.Duration), page.Totals.Cost)
	return nil
}

func runStart(ctx context.Context, repo *data.Repository, args []string) error {
	flags := flag.NewFlagSet("start", flag.ExitOnError)
	projectID := flags.Int64("project", 0, "project id")
	taskID := flags.Int64("task", 0, "task id")
	note := flags.String("note", "", "record note")
	if err := flags.Parse(args); err != nil {
		return err
	}

	record, err := buildRecord(ctx, repo, *projectID, *taskID)
	if err != nil {
		return err
	}
	record.Note = *note

	if err := repo.StartTimer(ctx, record); err != nil {
		return err
	}
	fmt.Printf("timer started: %s / %s\n", record.Project.Name, record.Task.Name)
	return nil
}

func runStop(ctx context.Context, repo *data.Repository) error {
	record, err := repo.StopTimer(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("tracked %s on %s / %s\n",
		formatDuration(record.Duration()), record.Project.Name, record.Task.Name)
	return nil
}

func runAdd(ctx context.Context, repo *data.Repository, args []string) error {
	flags := flag.NewFlagSet("add", flag.ExitOnError)
	projectID := flags.Int64("project", 0, "project id")
	taskID := flags.Int64("task", 0, "task id")
	dateArg := flags.String("date", time.Now().Format(models.DateLayout), "record date")
	startArg := flags.String("start", "", "start time (15:04)")
	finishArg := flags.String("finish", "", "finish time (15:04)")
	note := flags.String("note", "", "record note")
	if err := flags.Parse(args); err != nil {
		return err
	}

	record, err := buildRecord(ctx, repo, *projectID, *taskID)
	if err != nil {
		return err
	}
	record.Note = *note

	date, err := time.ParseInLocation(models.DateLayout, *dateArg, time.Local)
	if err != nil {
		return fmt.Errorf("bad -date: %w", err)
	}
	start, err := time.ParseInLocation(models.TimeLayout, *startArg, time.Local)
	if err != nil {
		return fmt.Errorf("bad -start: %w", err)
	}
	finish, err := time.ParseInLocation(models.TimeLayout, *finishArg, time.Local)
	if err != nil {
		return fmt.Errorf("bad -finish: %w", err)
	}
	record.SetStart(time.Date(date.Year(), date.Month(), date.Day(), start.Hour(), start.Minute(), 0, 0, time.Local))
	record.SetFinish(time.Date(date.Year(), date.Month(), date.Day(), finish.Hour(), finish.Minute(), 0, 0, time.Local))

	return repo.SubmitRecord(ctx, record, func(index int, last bool) {
		if last {
			fmt.Println("record submitted")
		}
	})
}

func runDelete(ctx context.Context, repo *data.Repository, args []string) error {
	flags := flag.NewFlagSet("delete", flag.ExitOnError)
	id := flags.String("id", "", "record id")
	dateArg := flags.String("date", time.Now().Format(models.DateLayout), "record date")
	if err := flags.Parse(args); err != nil {
		return err
	}

	recordID, err := strconv.ParseInt(*id, 10, 64)
	if err != nil {
		return fmt.Errorf("bad -id: %w", err)
	}
	date, err := time.ParseInLocation(models.DateLayout, *dateArg, time.Local)
	if err != nil {
		return fmt.Errorf("bad -date: %w", err)
	}

	record := models.TimeRecord{}
	record.ID = recordID
	record.SetStart(date)
	return repo.DeleteRecord(ctx, record)
}

// buildRecord resolves the project/task flags against the cache,
// falling back to the stored favorites when a flag is omitted.
func buildRecord(ctx context.Context, repo *data.Repository, projectID, taskID int64) (models.TimeRecord, error) {
	var record models.TimeRecord

	favProject, favTask, err := repo.Favorites(ctx)
	if err != nil {
		return record, err
	}
	if projectID == models.IDNone {
		projectID = favProject
	}
	if taskID == models.IDNone {
		taskID = favTask
	}

	projects, err := repo.ProjectsPage(ctx, false)
	if err != nil {
		return record, err
	}
	tasks, err := repo.TasksPage(ctx, false)
	if err != nil {
		return record, err
	}

	for _, p := range projects {
		if p.ID == projectID {
			record.SetProject(p)
		}
	}
	for _, t := range tasks {
		if t.ID == taskID {
			record.SetTask(t)
		}
	}
	if record.Project.IsEmpty() {
		return record, fmt.Errorf("unknown project %d (try 'worktrack projects -refresh')", projectID)
	}
	if record.Task.IsEmpty() {
		return record, fmt.Errorf("unknown task %d (try 'worktrack tasks -refresh')", taskID)
	}
	if !record.Project.HasTask(record.Task.ID) && len(record.Project.TaskIDs) > 0 {
		return record, fmt.Errorf("task %q is not assignable under project %q", record.Task.Name, record.Project.Name)
	}
	return record, nil
}

func newTabWriter() *tabwriter.Writer {
	return tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		return "-" + formatDuration(-d)
	}
	return fmt.Sprintf("%d:%02d", int(d.Hours()), int(d.Minutes())%60)
}
