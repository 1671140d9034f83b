package parser

import (
	"time"

	"worktrack/models"

	"github.com/PuerkitoBio/goquery"
)

// ReportForm parses the report criteria page: the project/task
// candidates and the current filter state (period dates and show-column
// checkboxes).
func ReportForm(page string) models.ReportFormPage {
	result := models.ReportFormPage{Filter: models.NewReportFilter()}

	doc, err := parseDocument(page)
	if err != nil {
		return result
	}
	result.ErrorMessage = findError(doc)

	form := doc.Find("form[name='reportForm']").First()
	if form.Length() == 0 {
		return result
	}

	projectSelect := form.Find("select[name='project']").First()
	taskSelect := form.Find("select[name='task']").First()

	projects, emptyProject := parseProjectOptions(projectSelect)
	tasks, emptyTask := parseTaskOptions(taskSelect)
	applyTaskIDs(projects, parseTaskIDs(doc))

	result.Projects = projects
	result.Tasks = tasks

	filter := &result.Filter
	filter.ProjectID = selectedProject(projectSelect, projects, emptyProject).ID
	filter.TaskID = selectedTask(taskSelect, tasks, emptyTask).ID

	if start, err := time.ParseInLocation(models.DateLayout, form.Find("input[name='start_date']").AttrOr("value", ""), time.Local); err == nil {
		filter.Start = start
	}
	if finish, err := time.ParseInLocation(models.DateLayout, form.Find("input[name='end_date']").AttrOr("value", ""), time.Local); err == nil {
		filter.Finish = models.EndOfDay(finish)
	}

	filter.ShowProject = checkboxChecked(form, "chproject")
	filter.ShowTask = checkboxChecked(form, "chtask")
	filter.ShowStart = checkboxChecked(form, "chstart")
	filter.ShowFinish = checkboxChecked(form, "chfinish")
	filter.ShowDuration = checkboxChecked(form, "chduration")
	filter.ShowNote = checkboxChecked(form, "chnote")
	filter.ShowCost = checkboxChecked(form, "chcost")

	return result
}

func checkboxChecked(form *goquery.Selection, name string) bool {
	input := form.Find("input[name='" + name + "']").First()
	if input.Length() == 0 {
		return false
	}
	_, checked := input.Attr("checked")
	return checked
}
