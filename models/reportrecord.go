package models

// ReportRecord is a report-scraped record cached separately from the
// time list's records: report rows have synthetic ids and may carry
// fewer columns, so they never overwrite time records.
type ReportRecord struct {
	TimeRecord
}

func (ReportRecord) TableName() string {
	return "report_records"
}
