package parser

import (
	"time"

	"worktrack/models"

	"github.com/PuerkitoBio/goquery"
)

// TimeList parses the time page for one date: the record form with its
// project/task candidates, the script-embedded task associations, and
// the day's records table.
func TimeList(page string, date time.Time) models.TimeListPage {
	result := models.TimeListPage{Date: date}

	doc, err := parseDocument(page)
	if err != nil {
		return result
	}

	form := doc.Find("form[name='timeRecordForm']").First()
	if form.Length() > 0 {
		projectSelect := form.Find("select[name='project']").First()
		taskSelect := form.Find("select[name='task']").First()

		projects, emptyProject := parseProjectOptions(projectSelect)
		tasks, emptyTask := parseTaskOptions(taskSelect)
		applyTaskIDs(projects, parseTaskIDs(doc))

		result.Projects = projects
		result.Tasks = tasks

		record := models.TimeRecord{Status: models.StatusDraft}
		record.SetProject(selectedProject(projectSelect, projects, emptyProject))
		record.SetTask(selectedTask(taskSelect, tasks, emptyTask))
		if start, ok := combineTime(date, form.Find("input[name='start']").AttrOr("value", "")); ok {
			record.SetStart(start)
		}
		if finish, ok := combineTime(date, form.Find("input[name='finish']").AttrOr("value", "")); ok {
			record.SetFinish(finish)
		}
		record.Note = form.Find("textarea[name='note']").Text()
		result.Record = record
	}

	result.Records = parseTimeListRecords(doc, date, result.Projects, result.Tasks)
	result.ErrorMessage = findError(doc)
	return result
}

// parseTimeListRecords extracts the day's records table. Project and
// task cells are resolved against the page's candidate lists by name,
// so the cached rows keep their server ids.
func parseTimeListRecords(doc *goquery.Document, date time.Time, projects []models.Project, tasks []models.ProjectTask) []models.TimeRecord {
	table := findTable(doc, "Project", "Task")
	if table == nil {
		return nil
	}

	rows := table.Find("tr")
	if rows.Length() < 2 {
		return nil
	}

	cols := columnIndexes(rows.First(), "Project", "Task", "Start", "Finish", "Note", "Cost")

	var records []models.TimeRecord
	rows.Slice(1, goquery.ToEnd).Each(func(_ int, row *goquery.Selection) {
		record, ok := parseTimeListRow(row, date, cols)
		if !ok {
			return
		}
		record.SetProject(resolveProject(projects, record.Project.Name))
		record.SetTask(resolveTask(tasks, record.Task.Name))
		records = append(records, record)
	})
	return records
}

func parseTimeListRow(row *goquery.Selection, date time.Time, cols map[string]int) (models.TimeRecord, bool) {
	cells := row.Find("td")

	record := models.TimeRecord{Status: models.StatusCurrent}
	record.ID = entityID(row)

	projectCell := cellAt(cells, cols["Project"])
	if projectCell == nil {
		return record, false
	}
	if projectCell.AttrOr("class", "") == tableHeaderClass {
		return record, false
	}
	record.Project = models.Project{Name: ownText(projectCell)}

	if cell := cellAt(cells, cols["Task"]); cell != nil {
		record.Task = models.ProjectTask{Name: ownText(cell)}
	}

	if col := cols["Start"]; col >= 0 {
		cell := cellAt(cells, col)
		if cell == nil {
			return record, false
		}
		start, ok := combineTime(date, ownText(cell))
		if !ok {
			return record, false
		}
		record.SetStart(start)
	}

	if col := cols["Finish"]; col >= 0 {
		cell := cellAt(cells, col)
		if cell == nil {
			return record, false
		}
		// An open record's finish cell is blank while the timer runs.
		text := ownText(cell)
		if text != "" {
			finish, ok := combineTime(date, text)
			if !ok {
				return record, false
			}
			record.SetFinish(finish)
		}
	}

	if col := cols["Note"]; col >= 0 {
		if cell := cellAt(cells, col); cell != nil {
			record.Note = ownText(cell)
		}
	}

	if col := cols["Cost"]; col >= 0 {
		if cell := cellAt(cells, col); cell != nil {
			record.Cost = parseCost(ownText(cell))
		}
	}

	return record, true
}

// resolveProject matches a scraped project name against the page's
// candidate list; unknown names fall back to a name-only project.
func resolveProject(projects []models.Project, name string) models.Project {
	for _, p := range projects {
		if p.Name == name {
			return p
		}
	}
	return models.Project{Name: name}
}

func resolveTask(tasks []models.ProjectTask, name string) models.ProjectTask {
	for _, t := range tasks {
		if t.Name == name {
			return t
		}
	}
	return models.ProjectTask{Name: name}
}
