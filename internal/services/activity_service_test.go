package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tresorier/caisse/internal/models"
)

func TestActivityService_RecordAndList(t *testing.T) {
	db := setupTestDB(t)
	service := NewActivityService(db)
	actor := Actor{ID: 7, Name: "Caissier"}

	project := models.Project{Name: "Fonctionnement"}
	require.NoError(t, db.Create(&project).Error)

	service.Record(actor, models.ActionCreate, "project", project.ID, project, "initial", &project)
	service.Record(actor, models.ActionDelete, "supplier", 3, nil, "", nil)

	entries, err := service.List("", nil, 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first
	assert.Equal(t, "supplier", entries[0].EntityKind)
	assert.Equal(t, models.ActionDelete, entries[0].Action)
	assert.Empty(t, entries[0].Snapshot)

	assert.Equal(t, "project", entries[1].EntityKind)
	assert.Equal(t, "Caissier", entries[1].ActorName)
	assert.Contains(t, entries[1].Snapshot, "Fonctionnement")
	require.NotNil(t, entries[1].ProjectID)
	assert.Equal(t, project.ID, *entries[1].ProjectID)
}

func TestActivityService_ListFilters(t *testing.T) {
	db := setupTestDB(t)
	service := NewActivityService(db)

	service.Record(Actor{}, models.ActionCreate, "project", 1, nil, "", nil)
	service.Record(Actor{}, models.ActionCreate, "expense", 2, nil, "", nil)

	entries, err := service.List("expense", nil, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "expense", entries[0].EntityKind)
}

func TestActivityService_SurvivesSubjectDeletion(t *testing.T) {
	db := setupTestDB(t)
	service := NewActivityService(db)

	supplier := models.Supplier{Name: "Quincaillerie Centrale"}
	require.NoError(t, db.Create(&supplier).Error)

	service.Record(Actor{ID: 1}, models.ActionDelete, "supplier", supplier.ID, supplier, "", nil)
	require.NoError(t, db.Delete(&supplier).Error)

	entries, err := service.List("supplier", nil, 0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Snapshot, "Quincaillerie Centrale")
}
