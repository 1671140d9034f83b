package parser

import (
	"worktrack/models"

	"github.com/PuerkitoBio/goquery"
)

// Projects parses the projects list page.
func Projects(page string) []models.Project {
	doc, err := parseDocument(page)
	if err != nil {
		return nil
	}

	table := findTable(doc, "Name", "Description")
	if table == nil {
		return nil
	}

	var projects []models.Project
	dataRows(table).Each(func(_ int, row *goquery.Selection) {
		if project, ok := parseProjectRow(row); ok {
			projects = append(projects, project)
		}
	})
	return projects
}

func parseProjectRow(row *goquery.Selection) (models.Project, bool) {
	cells := row.Find("td")
	if cells.Length() < 2 {
		return models.Project{}, false
	}

	name := ownText(cells.Eq(0))
	if name == "" {
		return models.Project{}, false
	}

	project := models.Project{
		Name:        name,
		Description: ownText(cells.Eq(1)),
	}
	project.ID = entityID(row)
	return project, true
}
