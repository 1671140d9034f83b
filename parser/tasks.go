package parser

import (
	"worktrack/models"

	"github.com/PuerkitoBio/goquery"
)

// Tasks parses the tasks list page.
func Tasks(page string) []models.ProjectTask {
	doc, err := parseDocument(page)
	if err != nil {
		return nil
	}

	table := findTable(doc, "Name", "Description")
	if table == nil {
		return nil
	}

	var tasks []models.ProjectTask
	dataRows(table).Each(func(_ int, row *goquery.Selection) {
		if task, ok := parseTaskRow(row); ok {
			tasks = append(tasks, task)
		}
	})
	return tasks
}

func parseTaskRow(row *goquery.Selection) (models.ProjectTask, bool) {
	cells := row.Find("td")
	if cells.Length() < 2 {
		return models.ProjectTask{}, false
	}

	name := ownText(cells.Eq(0))
	if name == "" {
		return models.ProjectTask{}, false
	}

	task := models.ProjectTask{
		Name:        name,
		Description: ownText(cells.Eq(1)),
	}
	task.ID = entityID(row)
	return task, true
}
