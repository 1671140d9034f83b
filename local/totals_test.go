package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonthlyQuota(t *testing.T) {
	// August 2026 has 22 workdays (Sunday through Thursday).
	august := time.Date(2026, 8, 15, 0, 0, 0, 0, time.Local)
	assert.Equal(t, 22*workdayHours, MonthlyQuota(august))

	// February 2026 starts on a Sunday and has 28 days: 20 workdays.
	february := time.Date(2026, 2, 10, 0, 0, 0, 0, time.Local)
	assert.Equal(t, 20*workdayHours, MonthlyQuota(february))
}

func TestLoadTotalsWindows(t *testing.T) {
	source, db := testSource(t)
	ctx := context.Background()

	// Monday 2026-08-24; its week runs Sunday the 23rd to Saturday the 29th.
	focus := time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local)

	seedRecord(t, db, 1, 5, 10, focus.Add(9*time.Hour), focus.Add(17*time.Hour))
	sameWeek := focus.AddDate(0, 0, 1)
	seedRecord(t, db, 2, 5, 10, sameWeek.Add(9*time.Hour), sameWeek.Add(11*time.Hour))
	sameMonth := time.Date(2026, 8, 3, 9, 0, 0, 0, time.Local)
	seedRecord(t, db, 3, 5, 10, sameMonth, sameMonth.Add(4*time.Hour))
	lastMonth := time.Date(2026, 7, 31, 9, 0, 0, 0, time.Local)
	seedRecord(t, db, 4, 5, 10, lastMonth, lastMonth.Add(3*time.Hour))

	totals, err := source.loadTotals(ctx, focus)
	require.NoError(t, err)

	assert.Equal(t, 8*time.Hour, totals.Daily)
	assert.Equal(t, 10*time.Hour, totals.Weekly)
	assert.Equal(t, 14*time.Hour, totals.Monthly)
	assert.Equal(t, MonthlyQuota(focus)-14*time.Hour, totals.Remaining)
}

func TestLoadTotalsIgnoresOpenRecords(t *testing.T) {
	source, db := testSource(t)
	ctx := context.Background()

	focus := time.Date(2026, 8, 24, 0, 0, 0, 0, time.Local)
	seedRecord(t, db, 1, 5, 10, focus.Add(9*time.Hour), time.Time{})

	totals, err := source.loadTotals(ctx, focus)
	require.NoError(t, err)
	assert.Zero(t, totals.Daily)
}
