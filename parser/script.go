package parser

import (
	"regexp"
	"strconv"
	"strings"

	"worktrack/models"

	"github.com/PuerkitoBio/goquery"
)

// The server embeds project→task associations in a generated script
// block as a sequence of JS assignments:
//
//	var task_ids = new Array();
//	task_ids[5] = "10,11,12";
//	task_ids[6] = "13";
//	// Prepare an array of task names.
//
// The block is cut between the two markers, split into statements on
// ';', and each statement is matched independently so one malformed
// assignment cannot poison the rest.
const (
	taskIDsStartMarker = "var task_ids = new Array();"
	taskIDsEndMarker   = "// Prepare an array of task names."
)

var taskIDsPattern = regexp.MustCompile(`task_ids\[(\d+)\] = "([^"]*)"`)

// findScript returns the text between the markers inside the first
// script element containing the start marker. A missing end marker
// means "to the end of the script".
func findScript(doc *goquery.Document, startMarker, endMarker string) string {
	var found string
	doc.Find("script").EachWithBreak(func(_ int, script *goquery.Selection) bool {
		text := script.Text()
		start := strings.Index(text, startMarker)
		if start < 0 {
			return true
		}
		start += len(startMarker)
		end := strings.Index(text[start:], endMarker)
		if end < 0 {
			found = text[start:]
		} else {
			found = text[start : start+end]
		}
		return false
	})
	return found
}

// parseTaskIDs extracts the project→task-id associations from the page
// script. Statements that do not look like an assignment are skipped.
func parseTaskIDs(doc *goquery.Document) map[int64][]int64 {
	script := findScript(doc, taskIDsStartMarker, taskIDsEndMarker)
	if script == "" {
		return nil
	}

	assocs := make(map[int64][]int64)
	for _, statement := range strings.Split(script, ";") {
		projectID, taskIDs, ok := parseTaskIDAssignment(statement)
		if !ok {
			continue
		}
		assocs[projectID] = append(assocs[projectID], taskIDs...)
	}
	if len(assocs) == 0 {
		return nil
	}
	return assocs
}

// parseTaskIDAssignment parses one `task_ids[<id>] = "<csv>"` statement.
func parseTaskIDAssignment(statement string) (projectID int64, taskIDs []int64, ok bool) {
	match := taskIDsPattern.FindStringSubmatch(statement)
	if match == nil {
		return 0, nil, false
	}

	projectID, err := strconv.ParseInt(match[1], 10, 64)
	if err != nil {
		return 0, nil, false
	}

	for _, field := range strings.Split(match[2], ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		taskID, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		taskIDs = append(taskIDs, taskID)
	}
	return projectID, taskIDs, true
}

// applyTaskIDs resets every project's associations and reassigns them
// from the parsed script data.
func applyTaskIDs(projects []models.Project, assocs map[int64][]int64) {
	for i := range projects {
		projects[i].ClearTasks()
		if taskIDs, ok := assocs[projects[i].ID]; ok {
			projects[i].AddTasks(taskIDs)
		}
	}
}
