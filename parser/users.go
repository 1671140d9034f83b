package parser

import (
	"worktrack/models"

	"github.com/PuerkitoBio/goquery"
)

// uncompletedEntryClass decorates user names the server flags as having
// an open (uncompleted) time entry.
const uncompletedEntryClass = "uncompleted-entry active"

// Users parses the users list page.
func Users(page string) []models.User {
	doc, err := parseDocument(page)
	if err != nil {
		return nil
	}

	table := findTable(doc, "Name", "Login")
	if table == nil {
		return nil
	}

	var users []models.User
	dataRows(table).Each(func(_ int, row *goquery.Selection) {
		if user, ok := parseUserRow(row); ok {
			users = append(users, user)
		}
	})
	return users
}

func parseUserRow(row *goquery.Selection) (models.User, bool) {
	cells := row.Find("td")
	if cells.Length() < 2 {
		return models.User{}, false
	}

	nameCell := cells.Eq(0)
	user := models.User{
		DisplayName: ownText(nameCell),
		Username:    ownText(cells.Eq(1)),
	}
	if user.Username == "" {
		return models.User{}, false
	}

	nameCell.Find("span").Each(func(_ int, span *goquery.Selection) {
		if span.AttrOr("class", "") == uncompletedEntryClass {
			user.IsIncomplete = true
		}
	})

	if cells.Length() > 2 {
		user.Roles = models.ParseRoles(ownText(cells.Eq(2)))
	}

	user.ID = entityID(row)
	return user, true
}
