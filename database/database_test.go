package database

import (
	"path/filepath"
	"testing"

	"worktrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenMigrates(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)

	for _, model := range []interface{}{
		&models.Project{}, &models.ProjectTask{}, &models.ProjectTaskKey{},
		&models.User{}, &models.TimeRecord{}, &models.ReportRecord{},
		&models.Preference{},
	} {
		assert.True(t, db.Migrator().HasTable(model))
	}
}

func TestInit(t *testing.T) {
	require.NoError(t, Init(filepath.Join(t.TempDir(), "cache.db")))
	assert.NotNil(t, GetDB())
}
