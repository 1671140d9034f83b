package local

import (
	"context"
	"time"

	"worktrack/models"
)

// Workday configuration of the tracked organization: Sunday through
// Thursday, nine hours per day.
const workdayHours = 9 * time.Hour

var workdays = map[time.Weekday]bool{
	time.Sunday:    true,
	time.Monday:    true,
	time.Tuesday:   true,
	time.Wednesday: true,
	time.Thursday:  true,
}

// loadTotals computes daily, weekly (Sunday–Saturday), and monthly
// totals around a date with a single range query spanning all three
// windows, then derives the remaining monthly quota.
func (d *DataSource) loadTotals(ctx context.Context, date time.Time) (models.TimeTotals, error) {
	var totals models.TimeTotals

	dayStart := models.StartOfDay(date)
	dayEnd := models.EndOfDay(date)

	weekStart := models.StartOfDay(date.AddDate(0, 0, -int(date.Weekday())))
	weekEnd := models.EndOfDay(weekStart.AddDate(0, 0, 6))

	monthStart := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	monthEnd := models.EndOfDay(monthStart.AddDate(0, 1, -1))

	from := weekStart
	if monthStart.Before(from) {
		from = monthStart
	}
	to := weekEnd
	if monthEnd.After(to) {
		to = monthEnd
	}

	var records []models.TimeRecord
	err := d.db.WithContext(ctx).
		Where("start >= ? AND start <= ?", from, to).
		Find(&records).Error
	if err != nil {
		return totals, err
	}

	for _, record := range records {
		duration := record.Duration()
		if duration <= 0 {
			continue
		}
		if !record.Start.Before(dayStart) && !record.Start.After(dayEnd) {
			totals.Daily += duration
		}
		if !record.Start.Before(weekStart) && !record.Start.After(weekEnd) {
			totals.Weekly += duration
		}
		if !record.Start.Before(monthStart) && !record.Start.After(monthEnd) {
			totals.Monthly += duration
		}
	}

	totals.Remaining = MonthlyQuota(date) - totals.Monthly
	return totals, nil
}

// MonthlyQuota is the expected tracked time for the date's month: a
// fixed workday duration for every workday of the month.
func MonthlyQuota(date time.Time) time.Duration {
	var quota time.Duration
	day := time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, date.Location())
	for day.Month() == date.Month() {
		if workdays[day.Weekday()] {
			quota += workdayHours
		}
		day = day.AddDate(0, 0, 1)
	}
	return quota
}
