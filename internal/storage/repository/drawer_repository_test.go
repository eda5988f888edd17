package repository

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entrepot/internal/testutil"
)

// Unit Tests

func TestNewMySQLDrawerRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLDrawerRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func TestDrawerRepository_FindAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLDrawerRepository(db)

	_, err := db.Exec(`
		INSERT INTO StorageDrawers (id, name, capacity, slotRows, slotColumns, createdAt)
		VALUES
			('d1', 'A', 5, NULL, NULL, '2025-01-01 10:00:00'),
			('d2', 'B', NULL, 2, 4, '2025-01-02 10:00:00'),
			('d3', 'C', NULL, NULL, NULL, '2025-01-03 10:00:00')
	`)
	require.NoError(t, err)

	drawers, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, drawers, 3)

	// creation order
	assert.Equal(t, "A", drawers[0].Name)
	assert.Equal(t, "B", drawers[1].Name)
	assert.Equal(t, "C", drawers[2].Name)

	assert.Equal(t, 5, drawers[0].EffectiveCapacity())
	assert.Equal(t, 8, drawers[1].EffectiveCapacity())
	// no dimensions at all falls back to one row of five
	assert.Equal(t, 5, drawers[2].EffectiveCapacity())
}

func TestDrawerRepository_FindAll_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLDrawerRepository(db)

	drawers, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, drawers)
}
