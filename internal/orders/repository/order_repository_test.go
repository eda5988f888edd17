package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"entrepot/internal/domain"
	"entrepot/internal/errors"
	"entrepot/internal/testutil"
)

// Unit Tests

func TestNewMySQLOrderRepository(t *testing.T) {
	db := &sql.DB{}
	repo := NewMySQLOrderRepository(db)

	assert.NotNil(t, repo)
	assert.Equal(t, db, repo.db)
}

// Integration Tests

func insertOrder(t *testing.T, db *sql.DB, id, clientID, status string, extra map[string]any) {
	t.Helper()

	cols := "id, clientId, status"
	placeholders := "?, ?, ?"
	args := []any{id, clientID, status}
	for col, val := range extra {
		cols += ", " + col
		placeholders += ", ?"
		args = append(args, val)
	}

	_, err := db.Exec("INSERT INTO Orders ("+cols+") VALUES ("+placeholders+")", args...)
	require.NoError(t, err)
}

func TestOrderRepository_FindByID_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "STORED", map[string]any{
		"priceMRU":        1000.0,
		"commission":      100.0,
		"shippingCost":    200.0,
		"amountPaid":      500.0,
		"weight":          2.5,
		"storageLocation": "A-03",
	})

	order, err := repo.FindByID(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.NotNil(t, order)
	assert.Equal(t, "ord-1", order.ID)
	assert.Equal(t, "cli-1", order.ClientID)
	assert.Equal(t, domain.StatusStored, order.Status)
	assert.Equal(t, 1000.0, order.PriceMRU)
	assert.Equal(t, 500.0, order.AmountPaid)
	require.NotNil(t, order.Weight)
	assert.Equal(t, 2.5, *order.Weight)
	require.NotNil(t, order.StorageLocation)
	assert.Equal(t, "A-03", *order.StorageLocation)
	assert.Nil(t, order.ShipmentID)
	assert.Nil(t, order.WithdrawalDate)
}

func TestOrderRepository_FindByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	order, err := repo.FindByID(context.Background(), "no-such-order")
	assert.Error(t, err)
	assert.Nil(t, order)

	nfe, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, nfe)
}

func TestOrderRepository_FindStored(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "STORED", map[string]any{"storageLocation": "A-01"})
	insertOrder(t, db, "ord-2", "cli-2", "STORED", map[string]any{"storageLocation": "Floor"})
	insertOrder(t, db, "ord-3", "cli-3", "ARRIVED_AT_OFFICE", nil)

	stored, err := repo.FindStored(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestOrderRepository_FindByIDs_PreservesSequence(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "STORED", nil)
	insertOrder(t, db, "ord-2", "cli-1", "STORED", nil)
	insertOrder(t, db, "ord-3", "cli-1", "STORED", nil)

	orders, err := repo.FindByIDs(context.Background(), []string{"ord-3", "ord-1", "ord-2"})
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "ord-3", orders[0].ID)
	assert.Equal(t, "ord-1", orders[1].ID)
	assert.Equal(t, "ord-2", orders[2].ID)
}

func TestOrderRepository_FindByIDs_MissingOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "STORED", nil)

	_, err := repo.FindByIDs(context.Background(), []string{"ord-1", "ord-9"})
	assert.Error(t, err)

	_, ok := errors.IsNotFoundError(err)
	assert.True(t, ok)
}

func TestOrderRepository_TransitionStatus_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "NEW", nil)

	err := repo.TransitionStatus(context.Background(), "ord-1", domain.StatusNew, domain.StatusOrdered, nil)
	require.NoError(t, err)

	order, err := repo.FindByID(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOrdered, order.Status)
}

func TestOrderRepository_TransitionStatus_StaleStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "ORDERED", nil)

	// compare-and-swap against a status the order already left
	err := repo.TransitionStatus(context.Background(), "ord-1", domain.StatusNew, domain.StatusOrdered, nil)
	assert.Error(t, err)

	_, ok := errors.IsConflictError(err)
	assert.True(t, ok)
}

func TestOrderRepository_TransitionStatus_ClearsLocation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "STORED", map[string]any{
		"storageLocation": "A-01",
		"weight":          1.5,
	})

	err := repo.TransitionStatus(context.Background(), "ord-1", domain.StatusStored, domain.StatusOutForDelivery, nil)
	require.NoError(t, err)

	order, err := repo.FindByID(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusOutForDelivery, order.Status)
	assert.Nil(t, order.StorageLocation)
}

func TestOrderRepository_AssignSlot_Success(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "ARRIVED_AT_OFFICE", nil)

	err := repo.AssignSlot(context.Background(), "ord-1", "A-02", false)
	require.NoError(t, err)

	order, err := repo.FindByID(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusStored, order.Status)
	require.NotNil(t, order.StorageLocation)
	assert.Equal(t, "A-02", *order.StorageLocation)
}

func TestOrderRepository_AssignSlot_Reslot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "STORED", map[string]any{"storageLocation": "A-01"})

	// a stored order can move to another slot
	err := repo.AssignSlot(context.Background(), "ord-1", "B-01", false)
	require.NoError(t, err)

	order, err := repo.FindByID(context.Background(), "ord-1")
	require.NoError(t, err)
	require.NotNil(t, order.StorageLocation)
	assert.Equal(t, "B-01", *order.StorageLocation)
}

func TestOrderRepository_AssignSlot_StrictOccupiedSlot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "STORED", map[string]any{"storageLocation": "A-01"})
	insertOrder(t, db, "ord-2", "cli-2", "ARRIVED_AT_OFFICE", nil)

	err := repo.AssignSlot(context.Background(), "ord-2", "A-01", true)
	assert.Error(t, err)

	_, ok := errors.IsConflictError(err)
	assert.True(t, ok)
}

func TestOrderRepository_AssignSlot_StrictFloorNeverChecked(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "STORED", map[string]any{"storageLocation": "Floor"})
	insertOrder(t, db, "ord-2", "cli-2", "ARRIVED_AT_OFFICE", nil)

	err := repo.AssignSlot(context.Background(), "ord-2", "Floor", true)
	require.NoError(t, err)
}

func TestOrderRepository_AssignSlot_WrongStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "OUT_FOR_DELIVERY", nil)

	err := repo.AssignSlot(context.Background(), "ord-1", "A-01", false)
	assert.Error(t, err)

	_, ok := errors.IsConflictError(err)
	assert.True(t, ok)
}

func TestOrderRepository_ApplyPayments(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "STORED", map[string]any{"amountPaid": 100.0})
	insertOrder(t, db, "ord-2", "cli-1", "STORED", nil)

	err := repo.ApplyPayments(context.Background(), []PaymentUpdate{
		{OrderID: "ord-1", AmountPaid: 600},
		{OrderID: "ord-2", AmountPaid: 200},
	})
	require.NoError(t, err)

	order, err := repo.FindByID(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, 600.0, order.AmountPaid)

	order, err = repo.FindByID(context.Background(), "ord-2")
	require.NoError(t, err)
	assert.Equal(t, 200.0, order.AmountPaid)
}

func TestOrderRepository_ApplyPayments_UnknownOrderRollsBack(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "STORED", map[string]any{"amountPaid": 100.0})

	err := repo.ApplyPayments(context.Background(), []PaymentUpdate{
		{OrderID: "ord-1", AmountPaid: 600},
		{OrderID: "ord-9", AmountPaid: 200},
	})
	assert.Error(t, err)

	// the first update must not survive the failed batch
	order, err := repo.FindByID(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, 100.0, order.AmountPaid)
}

func TestOrderRepository_SettleOrders(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "COMPLETED", map[string]any{"amountPaid": 200.0})

	withdrawnAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err := repo.SettleOrders(context.Background(), []SettlementUpdate{
		{OrderID: "ord-1", AmountPaid: 700},
	}, withdrawnAt)
	require.NoError(t, err)

	order, err := repo.FindByID(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, 700.0, order.AmountPaid)
	require.NotNil(t, order.WithdrawalDate)
	assert.Equal(t, withdrawnAt, order.WithdrawalDate.UTC())
}

func TestOrderRepository_SettleOrders_NotCompleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "STORED", nil)

	err := repo.SettleOrders(context.Background(), []SettlementUpdate{
		{OrderID: "ord-1", AmountPaid: 700},
	}, time.Now().UTC())
	assert.Error(t, err)

	_, ok := errors.IsConflictError(err)
	assert.True(t, ok)
}

func TestOrderRepository_LaunchOrders(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "STORED", map[string]any{"storageLocation": "A-01", "weight": 1.0})
	insertOrder(t, db, "ord-2", "cli-2", "STORED", map[string]any{"storageLocation": "Floor", "weight": 2.0})

	err := repo.LaunchOrders(context.Background(), []string{"ord-1", "ord-2"})
	require.NoError(t, err)

	for _, id := range []string{"ord-1", "ord-2"} {
		order, err := repo.FindByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusOutForDelivery, order.Status)
		assert.Nil(t, order.StorageLocation)
	}
}

func TestOrderRepository_LaunchOrders_AllOrNothing(t *testing.T) {
	db := testutil.SetupTestDB(t)
	testutil.SetupTestTables(t, db)
	defer testutil.CleanupTestDB(t, db)

	repo := NewMySQLOrderRepository(db)

	insertOrder(t, db, "ord-1", "cli-1", "STORED", map[string]any{"storageLocation": "A-01"})
	insertOrder(t, db, "ord-2", "cli-2", "ARRIVED_AT_OFFICE", nil)

	err := repo.LaunchOrders(context.Background(), []string{"ord-1", "ord-2"})
	assert.Error(t, err)

	_, ok := errors.IsConflictError(err)
	assert.True(t, ok)

	// the launched sibling must be rolled back
	order, err := repo.FindByID(context.Background(), "ord-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusStored, order.Status)
}
