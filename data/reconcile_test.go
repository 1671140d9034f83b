package data

import (
	"testing"

	"worktrack/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func project(id int64, dbID uint, name string) models.Project {
	p := models.Project{Name: name}
	p.ID = id
	p.DBID = dbID
	return p
}

func TestReconcile(t *testing.T) {
	cached := []models.Project{
		project(1, 100, "Alpha"),
		project(2, 101, "Beta"),
	}
	fresh := []models.Project{
		project(1, 0, "Alpha renamed"),
		project(3, 0, "Gamma"),
	}

	ch := reconcile(cached, fresh,
		func(p models.Project) int64 { return p.ID },
		func(fresh *models.Project, cached models.Project) {
			fresh.DBID = cached.DBID
		})

	require.Len(t, ch.updates, 1)
	assert.Equal(t, "Alpha renamed", ch.updates[0].Name)
	// The update adopts the cached row's physical identity.
	assert.Equal(t, uint(100), ch.updates[0].DBID)

	require.Len(t, ch.inserts, 1)
	assert.Equal(t, "Gamma", ch.inserts[0].Name)

	require.Len(t, ch.deletes, 1)
	assert.Equal(t, int64(2), ch.deletes[0].ID)
}

func TestReconcileEmptyFreshDeletesAll(t *testing.T) {
	cached := []models.Project{project(1, 100, "Alpha"), project(2, 101, "Beta")}

	ch := reconcile(cached, nil,
		func(p models.Project) int64 { return p.ID },
		func(*models.Project, models.Project) {})

	assert.Empty(t, ch.inserts)
	assert.Empty(t, ch.updates)
	assert.Len(t, ch.deletes, 2)
}

func TestReconcileEmptyCacheInsertsAll(t *testing.T) {
	fresh := []models.Project{project(1, 0, "Alpha")}

	ch := reconcile(nil, fresh,
		func(p models.Project) int64 { return p.ID },
		func(*models.Project, models.Project) {})

	assert.Len(t, ch.inserts, 1)
	assert.Empty(t, ch.updates)
	assert.Empty(t, ch.deletes)
}

func TestReconcileDuplicateCachedKeys(t *testing.T) {
	// Several cached rows can share the sentinel id (records scraped
	// without an edit link). Each fresh row consumes one; the rest are
	// deleted instead of lingering forever.
	cached := []models.Project{
		project(0, 100, "Stray one"),
		project(0, 101, "Stray two"),
		project(0, 102, "Stray three"),
	}
	fresh := []models.Project{project(0, 0, "Kept")}

	ch := reconcile(cached, fresh,
		func(p models.Project) int64 { return p.ID },
		func(fresh *models.Project, cached models.Project) {
			fresh.DBID = cached.DBID
		})

	require.Len(t, ch.updates, 1)
	assert.Equal(t, uint(100), ch.updates[0].DBID)
	assert.Empty(t, ch.inserts)
	require.Len(t, ch.deletes, 2)
	for _, deleted := range ch.deletes {
		assert.NotEqual(t, uint(100), deleted.DBID)
	}
}

func TestReconcileIdentical(t *testing.T) {
	cached := []models.Project{project(1, 100, "Alpha")}
	fresh := []models.Project{project(1, 0, "Alpha")}

	ch := reconcile(cached, fresh,
		func(p models.Project) int64 { return p.ID },
		func(fresh *models.Project, cached models.Project) {
			fresh.DBID = cached.DBID
		})

	assert.Empty(t, ch.inserts)
	assert.Empty(t, ch.deletes)
	require.Len(t, ch.updates, 1)
	assert.Equal(t, cached[0], ch.updates[0])
}
