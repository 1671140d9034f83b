package parser

import (
	"time"

	"worktrack/models"
)

// TimeEdit parses the single-record edit form. The record's date comes
// from the form's own date input; start/finish times are combined with
// it.
func TimeEdit(page string) models.TimeEditPage {
	result := models.TimeEditPage{}

	doc, err := parseDocument(page)
	if err != nil {
		return result
	}
	result.ErrorMessage = findError(doc)

	form := doc.Find("form[name='timeRecordForm']").First()
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
	result.EmptyProject = emptyProject
	result.EmptyTask = emptyTask

	date := time.Now()
	if parsed, err := time.ParseInLocation(models.DateLayout, form.Find("input[name='date']").AttrOr("value", ""), time.Local); err == nil {
		date = parsed
	}
	result.Date = date

	record := models.TimeRecord{Status: models.StatusCurrent}
	record.SetProject(selectedProject(projectSelect, projects, emptyProject))
	record.SetTask(selectedTask(taskSelect, tasks, emptyTask))
	if start, ok := combineTime(date, form.Find("input[name='start']").AttrOr("value", "")); ok {
		record.SetStart(start)
	}
	if finish, ok := combineTime(date, form.Find("input[name='finish']").AttrOr("value", "")); ok {
		record.SetFinish(finish)
	}
	record.Note = form.Find("textarea[name='note']").Text()
	if id, err := parseFormID(form.Find("input[name='id']").AttrOr("value", "")); err == nil {
		record.ID = id
	}
	result.Record = record

	return result
}
