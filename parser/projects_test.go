package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjects(t *testing.T) {
	projects := Projects(loadPage(t, "projects.html"))
	require.Len(t, projects, 2)

	assert.Equal(t, int64(5), projects[0].ID)
	assert.Equal(t, "Alpha", projects[0].Name)
	assert.Equal(t, "Flagship product", projects[0].Description)

	assert.Equal(t, int64(6), projects[1].ID)
	assert.Equal(t, "Beta", projects[1].Name)
	assert.Empty(t, projects[1].Description)
}

func TestProjectsUnrecognizedPage(t *testing.T) {
	assert.Empty(t, Projects("<html><body><p>maintenance</p></body></html>"))
	assert.Empty(t, Projects(""))
}

func TestTasks(t *testing.T) {
	tasks := Tasks(loadPage(t, "tasks.html"))
	require.Len(t, tasks, 2)

	assert.Equal(t, int64(10), tasks[0].ID)
	assert.Equal(t, "Build", tasks[0].Name)
	assert.Equal(t, "Implementation work", tasks[0].Description)

	assert.Equal(t, int64(11), tasks[1].ID)
	assert.Equal(t, "Review", tasks[1].Name)
}

func TestTasksUnrecognizedPage(t *testing.T) {
	assert.Empty(t, Tasks("<html><body><table><tr><td>Name</td></tr></table></body></html>"))
}
