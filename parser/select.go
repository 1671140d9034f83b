package parser

import (
	"strconv"

	"worktrack/models"

	"github.com/PuerkitoBio/goquery"
)

// parseProjectOptions builds the project candidate list from a
// <select>'s options. The option with an empty value attribute is the
// designated "no project" placeholder and is returned separately.
func parseProjectOptions(sel *goquery.Selection) (projects []models.Project, empty models.Project) {
	sel.Find("option").Each(func(_ int, option *goquery.Selection) {
		name := ownText(option)
		value := option.AttrOr("value", "")
		item := models.Project{Name: name}
		if value == "" {
			empty = item
		} else if id, err := strconv.ParseInt(value, 10, 64); err == nil {
			item.ID = id
		}
		projects = append(projects, item)
	})
	return projects, empty
}

// parseTaskOptions is the task flavour of parseProjectOptions.
func parseTaskOptions(sel *goquery.Selection) (tasks []models.ProjectTask, empty models.ProjectTask) {
	sel.Find("option").Each(func(_ int, option *goquery.Selection) {
		name := ownText(option)
		value := option.AttrOr("value", "")
		item := models.ProjectTask{Name: name}
		if value == "" {
			empty = item
		} else if id, err := strconv.ParseInt(value, 10, 64); err == nil {
			item.ID = id
		}
		tasks = append(tasks, item)
	})
	return tasks, empty
}

// selectedValue returns the value of the select's currently selected
// option, or "" when nothing is selected.
func selectedValue(sel *goquery.Selection) string {
	var value string
	sel.Find("option").EachWithBreak(func(_ int, option *goquery.Selection) bool {
		if _, selected := option.Attr("selected"); selected {
			value = option.AttrOr("value", "")
			return false
		}
		return true
	})
	return value
}

// selectedProject resolves the select's chosen project against the
// candidate list, falling back to the empty placeholder when nothing is
// selected or the selected value is blank.
func selectedProject(sel *goquery.Selection, projects []models.Project, empty models.Project) models.Project {
	value := selectedValue(sel)
	if value == "" {
		return empty
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return empty
	}
	for _, p := range projects {
		if p.ID == id {
			return p
		}
	}
	return empty
}

// selectedTask is the task flavour of selectedProject.
func selectedTask(sel *goquery.Selection, tasks []models.ProjectTask, empty models.ProjectTask) models.ProjectTask {
	value := selectedValue(sel)
	if value == "" {
		return empty
	}
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return empty
	}
	for _, t := range tasks {
		if t.ID == id {
			return t
		}
	}
	return empty
}
