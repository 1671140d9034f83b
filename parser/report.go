package parser

import (
	"time"

	"worktrack/models"

	"github.com/PuerkitoBio/goquery"
)

// Report parses a generated report page into time records. Column
// positions are detected from the header row, so columns hidden by the
// report filter or reordered by the server leave the matching fields at
// their defaults instead of corrupting neighbours.
func Report(page string) []models.TimeRecord {
	doc, err := parseDocument(page)
	if err != nil {
		return nil
	}

	table := findReportTable(doc)
	if table == nil {
		return nil
	}

	rows := table.Find("tr")
	if rows.Length() < 2 {
		return nil
	}

	cols := columnIndexes(rows.First(), "Date", "Project", "Task", "Start", "Finish", "Note", "Cost")
	if cols["Date"] < 0 {
		return nil
	}

	// Ids are synthetic and assigned only to kept rows, so skipped
	// divider rows leave no gaps.
	var records []models.TimeRecord
	rows.Slice(1, goquery.ToEnd).Each(func(_ int, row *goquery.Selection) {
		if record, ok := parseRecordRow(row, int64(len(records)+1), cols); ok {
			records = append(records, record)
		}
	})
	return records
}

// findReportTable locates the records table inside the report view
// form: the table holding a header cell labelled "Date", wherever that
// column sits.
func findReportTable(doc *goquery.Document) *goquery.Selection {
	form := doc.Find("form[name='reportViewForm']").First()
	if form.Length() == 0 {
		return nil
	}

	var table *goquery.Selection
	form.Find("td."+tableHeaderClass).EachWithBreak(func(_ int, td *goquery.Selection) bool {
		if ownText(td) != "Date" {
			return true
		}
		candidate := td.Closest("table")
		if candidate.Length() == 0 {
			return true
		}
		table = candidate
		return false
	})
	return table
}

// parseRecordRow extracts one record from a report row. The report
// exposes no record ids, so rows get sequential ids for list identity.
// Returns false for non-data rows (totals dividers styled as headers,
// rows with unparseable times).
func parseRecordRow(row *goquery.Selection, id int64, cols map[string]int) (models.TimeRecord, bool) {
	cells := row.Find("td")

	record := models.TimeRecord{Status: models.StatusCurrent}
	record.ID = id

	dateCell := cellAt(cells, cols["Date"])
	if dateCell == nil {
		return record, false
	}
	date, err := time.ParseInLocation(models.DateLayout, ownText(dateCell), time.Local)
	if err != nil {
		return record, false
	}

	if col := cols["Project"]; col >= 0 {
		cell := cellAt(cells, col)
		if cell == nil {
			return record, false
		}
		// A "project" cell carrying the header styling is a secondary
		// header row (subtotal divider), not data.
		if cell.AttrOr("class", "") == tableHeaderClass {
			return record, false
		}
		record.SetProject(models.Project{Name: ownText(cell)})
	}

	if col := cols["Task"]; col >= 0 {
		cell := cellAt(cells, col)
		if cell == nil {
			return record, false
		}
		record.SetTask(models.ProjectTask{Name: ownText(cell)})
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
		finish, ok := combineTime(date, ownText(cell))
		if !ok {
			return record, false
		}
		record.SetFinish(finish)
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

func cellAt(cells *goquery.Selection, index int) *goquery.Selection {
	if index < 0 || index >= cells.Length() {
		return nil
	}
	return cells.Eq(index)
}

// combineTime merges a "15:04" time-of-day cell with the row's date.
func combineTime(date time.Time, text string) (time.Time, bool) {
	clock, err := time.Parse(models.TimeLayout, text)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(),
		clock.Hour(), clock.Minute(), 0, 0, date.Location()), true
}
