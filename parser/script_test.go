package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskIDs(t *testing.T) {
	doc, err := parseDocument(`<html><head><script>
		var task_ids = new Array();
		task_ids[5] = "10,11,12";task_ids[6] = "13";
		// Prepare an array of task names.
		task_names[10] = "ignored";
	</script></head></html>`)
	require.NoError(t, err)

	assocs := parseTaskIDs(doc)
	assert.Equal(t, map[int64][]int64{
		5: {10, 11, 12},
		6: {13},
	}, assocs)
}

func TestParseTaskIDsEmptyAssociation(t *testing.T) {
	doc, err := parseDocument(`<html><script>
		var task_ids = new Array();
		task_ids[7] = "";
		// Prepare an array of task names.
	</script></html>`)
	require.NoError(t, err)

	assocs := parseTaskIDs(doc)
	require.Contains(t, assocs, int64(7))
	assert.Empty(t, assocs[7])
}

func TestParseTaskIDsMalformedStatementSkipped(t *testing.T) {
	doc, err := parseDocument(`<html><script>
		var task_ids = new Array();
		task_ids[oops] = "1";task_ids[8] = "2, 3";
		// Prepare an array of task names.
	</script></html>`)
	require.NoError(t, err)

	assert.Equal(t, map[int64][]int64{8: {2, 3}}, parseTaskIDs(doc))
}

func TestParseTaskIDsMissingScript(t *testing.T) {
	doc, err := parseDocument(`<html><script>var something_else = 1;</script></html>`)
	require.NoError(t, err)

	assert.Nil(t, parseTaskIDs(doc))
}

func TestParseTaskIDsMissingEndMarker(t *testing.T) {
	doc, err := parseDocument(`<html><script>
		var task_ids = new Array();
		task_ids[9] = "4";
	</script></html>`)
	require.NoError(t, err)

	assert.Equal(t, map[int64][]int64{9: {4}}, parseTaskIDs(doc))
}
