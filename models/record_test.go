package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(start, finish time.Time) TimeRecord {
	record := TimeRecord{}
	record.SetProject(Project{Entity: Entity{ID: 5}, Name: "Alpha"})
	record.SetTask(ProjectTask{Entity: Entity{ID: 10}, Name: "Build"})
	record.SetStart(start)
	record.SetFinish(finish)
	return record
}

func TestSplitSameDay(t *testing.T) {
	record := testRecord(
		time.Date(2026, 8, 24, 9, 0, 0, 0, time.Local),
		time.Date(2026, 8, 24, 17, 0, 0, 0, time.Local))

	parts := record.Split()
	require.Len(t, parts, 1)
	assert.Equal(t, record, parts[0])
}

func TestSplitAcrossMidnight(t *testing.T) {
	start := time.Date(2026, 8, 24, 22, 0, 0, 0, time.Local)
	finish := time.Date(2026, 8, 25, 2, 0, 0, 0, time.Local)
	record := testRecord(start, finish)

	parts := record.Split()
	require.Len(t, parts, 2)

	assert.Equal(t, start, parts[0].Start)
	assert.Equal(t, EndOfDay(start), parts[0].Finish)
	assert.Equal(t, StartOfDay(finish), parts[1].Start)
	assert.Equal(t, finish, parts[1].Finish)
}

func TestSplitMultipleDays(t *testing.T) {
	start := time.Date(2026, 8, 24, 18, 30, 0, 0, time.Local)
	finish := time.Date(2026, 8, 27, 6, 15, 0, 0, time.Local)
	record := testRecord(start, finish)

	parts := record.Split()
	require.Len(t, parts, 4)

	// First fragment runs to the end of its day.
	assert.Equal(t, start, parts[0].Start)
	assert.Equal(t, 23, parts[0].Finish.Hour())
	assert.Equal(t, 59, parts[0].Finish.Minute())

	// Middle fragments cover whole days.
	for _, part := range parts[1:3] {
		assert.Equal(t, StartOfDay(part.Start), part.Start)
		assert.Equal(t, EndOfDay(part.Start), part.Finish)
	}

	// Last fragment starts at midnight of the finish day.
	assert.Equal(t, StartOfDay(finish), parts[3].Start)
	assert.Equal(t, finish, parts[3].Finish)

	// Consecutive fragments are on adjacent days with no overlap.
	for i := 1; i < len(parts); i++ {
		assert.True(t, parts[i-1].Finish.Before(parts[i].Start))
		assert.True(t, SameDay(parts[i-1].Finish.AddDate(0, 0, 1), parts[i].Start))
	}

	// Every fragment keeps the record's identity fields.
	for _, part := range parts {
		assert.Equal(t, record.ProjectID, part.ProjectID)
		assert.Equal(t, record.TaskID, part.TaskID)
		assert.True(t, SameDay(part.Start, part.Finish))
	}
}

func TestSplitRejectsShortAndEmptyRecords(t *testing.T) {
	start := time.Date(2026, 8, 24, 9, 0, 0, 0, time.Local)

	short := testRecord(start, start.Add(30*time.Second))
	assert.Nil(t, short.Split())

	open := testRecord(start, time.Time{})
	assert.Nil(t, open.Split())

	missing := TimeRecord{}
	missing.SetStart(start)
	missing.SetFinish(start.Add(time.Hour))
	assert.Nil(t, missing.Split())
}

func TestSetStartTruncatesToSeconds(t *testing.T) {
	record := TimeRecord{}
	record.SetStart(time.Date(2026, 8, 24, 9, 0, 0, 123456789, time.Local))
	assert.Zero(t, record.Start.Nanosecond())
}

func TestDuration(t *testing.T) {
	record := testRecord(
		time.Date(2026, 8, 24, 9, 0, 0, 0, time.Local),
		time.Date(2026, 8, 24, 17, 30, 0, 0, time.Local))
	assert.Equal(t, 8*time.Hour+30*time.Minute, record.Duration())

	record.Finish = time.Time{}
	assert.Equal(t, time.Duration(0), record.Duration())
}
