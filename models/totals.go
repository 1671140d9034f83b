package models

import "time"

// ReportTotals aggregates a filtered record set.
type ReportTotals struct {
	Duration time.Duration `json:"duration"`
	Cost     float64       `json:"cost"`
}

// CalculateTotals sums a record set. Only positive durations count, so
// an unfinished or corrupt record never contributes time; cost is
// summed unconditionally.
func CalculateTotals(records []TimeRecord) ReportTotals {
	var totals ReportTotals
	for _, record := range records {
		if duration := record.Duration(); duration > 0 {
			totals.Duration += duration
		}
		totals.Cost += record.Cost
	}
	return totals
}

// TimeTotals aggregates tracked time around a focus date for the timer
// screen: the day's total, the week's, the month's, and how much of the
// monthly quota is still open.
type TimeTotals struct {
	Daily     time.Duration `json:"daily"`
	Weekly    time.Duration `json:"weekly"`
	Monthly   time.Duration `json:"monthly"`
	Remaining time.Duration `json:"remaining"`
}
