package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport(t *testing.T) {
	records := Report(loadPage(t, "report.html"))
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, "Alpha", first.Project.Name)
	assert.Equal(t, "Build", first.Task.Name)
	assert.Equal(t, time.Date(2026, 8, 24, 9, 0, 0, 0, time.Local), first.Start)
	assert.Equal(t, time.Date(2026, 8, 24, 17, 0, 0, 0, time.Local), first.Finish)
	assert.Equal(t, "Morning work", first.Note)
	assert.Equal(t, 0.00, first.Cost)

	second := records[1]
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, "Beta", second.Project.Name)
	assert.Equal(t, time.Date(2026, 8, 25, 10, 30, 0, 0, time.Local), second.Start)
	assert.Equal(t, 90*time.Minute, second.Duration())
	assert.Equal(t, 37.50, second.Cost)
}

func TestReportSkipsSubtotalRows(t *testing.T) {
	records := Report(loadPage(t, "report.html"))
	for _, r := range records {
		assert.NotEqual(t, "Subtotal", r.Project.Name)
	}
}

func TestReportReorderedColumns(t *testing.T) {
	page := `<html><body><form name="reportViewForm"><table>
		<tr><td class="tableHeader">Note</td><td class="tableHeader">Date</td>
			<td class="tableHeader">Start</td><td class="tableHeader">Finish</td></tr>
		<tr><td>Late shift</td><td>2026-08-24</td><td>20:00</td><td>22:30</td></tr>
	</table></form></body></html>`

	records := Report(page)
	require.Len(t, records, 1)
	// The note column sits at index zero and still parses.
	assert.Equal(t, "Late shift", records[0].Note)
	assert.Equal(t, time.Date(2026, 8, 24, 20, 0, 0, 0, time.Local), records[0].Start)
	assert.Equal(t, 150*time.Minute, records[0].Duration())
}

func TestReportUnrecognizedPage(t *testing.T) {
	assert.Empty(t, Report("<html><body><table><tr><td>Date</td></tr></table></body></html>"))
	assert.Empty(t, Report(""))
}

func TestParseCost(t *testing.T) {
	assert.Equal(t, 0.00, parseCost(""))
	assert.Equal(t, 0.00, parseCost("   "))
	assert.Equal(t, 0.00, parseCost("n/a"))
	assert.Equal(t, 12.5, parseCost("12.5"))
}
