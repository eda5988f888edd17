package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"entrepot/internal/domain"
	"entrepot/internal/errors"
)

const orderColumns = `id, clientId, shipmentId, storeId, status,
	       priceMRU, commission, shippingCost, localDeliveryCost,
	       amountPaid, deliveryFeePrepaid, weight, storageLocation,
	       deliveryRunId, driverId, withdrawalDate, createdAt, updatedAt`

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var (
		order              domain.Order
		shipmentID         sql.NullString
		weight             sql.NullFloat64
		storageLocation    sql.NullString
		deliveryRunID      sql.NullString
		driverID           sql.NullString
		withdrawalDate     sql.NullTime
		deliveryFeePrepaid bool
	)

	err := row.Scan(
		&order.ID, &order.ClientID, &shipmentID, &order.StoreID, &order.Status,
		&order.PriceMRU, &order.Commission, &order.ShippingCost, &order.LocalDeliveryCost,
		&order.AmountPaid, &deliveryFeePrepaid, &weight, &storageLocation,
		&deliveryRunID, &driverID, &withdrawalDate, &order.CreatedAt, &order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.DeliveryFeePrepaid = deliveryFeePrepaid
	if shipmentID.Valid {
		order.ShipmentID = &shipmentID.String
	}
	if weight.Valid {
		order.Weight = &weight.Float64
	}
	if storageLocation.Valid {
		order.StorageLocation = &storageLocation.String
	}
	if deliveryRunID.Valid {
		order.DeliveryRunID = &deliveryRunID.String
	}
	if driverID.Valid {
		order.DriverID = &driverID.String
	}
	if withdrawalDate.Valid {
		order.WithdrawalDate = &withdrawalDate.Time
	}
	return &order, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id string) (*domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE id = ?`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}
	return order, nil
}

// FindStored returns every order currently in storage. This is the
// snapshot the slot advisor derives occupancy from.
func (r *MySQLOrderRepository) FindStored(ctx context.Context) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE status = ?`

	rows, err := r.db.QueryContext(ctx, query, string(domain.StatusStored))
	if err != nil {
		return nil, fmt.Errorf("querying stored orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *MySQLOrderRepository) FindByRunID(ctx context.Context, runID string) ([]domain.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE deliveryRunId = ?`

	rows, err := r.db.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("querying run orders: %w", err)
	}
	defer rows.Close()

	return collectOrders(rows)
}

// FindByIDs fetches orders and returns them in the sequence the ids were
// given, which is the sequence bulk payment allocation processes them in.
// Unknown ids are reported as a NotFoundError.
func (r *MySQLOrderRepository) FindByIDs(ctx context.Context, ids []string) ([]domain.Order, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	placeholders := strings.Repeat("?,", len(ids)-1) + "?"
	query := `SELECT ` + orderColumns + ` FROM Orders WHERE id IN (` + placeholders + `)`

	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying orders by ids: %w", err)
	}
	defer rows.Close()

	found, err := collectOrders(rows)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]domain.Order, len(found))
	for _, o := range found {
		byID[o.ID] = o
	}

	ordered := make([]domain.Order, 0, len(ids))
	for _, id := range ids {
		o, ok := byID[id]
		if !ok {
			return nil, errors.NewNotFoundError(fmt.Sprintf("order %s not found", id))
		}
		ordered = append(ordered, o)
	}
	return ordered, nil
}

func collectOrders(rows *sql.Rows) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning order: %w", err)
		}
		orders = append(orders, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating orders: %w", err)
	}
	return orders, nil
}

// TransitionStatus moves an order from one status to another with a
// compare-and-swap on the current status, so a concurrent transition
// surfaces as a conflict instead of a silent overwrite. The storage
// location is rewritten in the same statement: nil clears it, which is
// required whenever an order leaves STORED.
func (r *MySQLOrderRepository) TransitionStatus(ctx context.Context, id string, from, to domain.OrderStatus, location *string) error {
	query := `UPDATE Orders SET status = ?, storageLocation = ? WHERE id = ? AND status = ?`

	result, err := r.db.ExecContext(ctx, query, string(to), location, id, string(from))
	if err != nil {
		return fmt.Errorf("updating order status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewConflictError(fmt.Sprintf("order %s is no longer in status %s", id, from))
	}
	return nil
}

// AssignSlot commits a storage placement: the order moves to STORED at
// the given location. With strict occupancy the target slot is re-checked
// under a row lock inside the same transaction, so two staff members
// racing for one slot resolve to a conflict the caller can retry with a
// fresh recommendation. The floor pseudo-location is never occupancy
// checked.
func (r *MySQLOrderRepository) AssignSlot(ctx context.Context, orderID, location string, strict bool) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return fmt.Errorf("beginning assign transaction: %w", err)
	}
	defer tx.Rollback()

	if strict && location != domain.FloorLocation {
		var occupants int
		lockQuery := `SELECT COUNT(*) FROM Orders WHERE storageLocation = ? AND status = ? AND id <> ? FOR UPDATE`
		err = tx.QueryRowContext(ctx, lockQuery, location, string(domain.StatusStored), orderID).Scan(&occupants)
		if err != nil {
			return fmt.Errorf("checking slot occupancy: %w", err)
		}
		if occupants > 0 {
			return errors.NewConflictError(fmt.Sprintf("slot %s is already occupied", location))
		}
	}

	query := `UPDATE Orders SET status = ?, storageLocation = ? WHERE id = ? AND status IN (?, ?)`
	result, err := tx.ExecContext(ctx, query,
		string(domain.StatusStored), location, orderID,
		string(domain.StatusArrivedAtOffice), string(domain.StatusStored),
	)
	if err != nil {
		return fmt.Errorf("assigning slot: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return errors.NewConflictError(fmt.Sprintf("order %s is not ready for storage", orderID))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing slot assignment: %w", err)
	}
	return nil
}

// PaymentUpdate carries the new cumulative amountPaid for one order.
type PaymentUpdate struct {
	OrderID    string
	AmountPaid float64
}

// ApplyPayments persists the result of a bulk payment allocation in one
// transaction.
func (r *MySQLOrderRepository) ApplyPayments(ctx context.Context, updates []PaymentUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning payment transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE Orders SET amountPaid = ? WHERE id = ?`
	for _, u := range updates {
		result, err := tx.ExecContext(ctx, query, u.AmountPaid, u.OrderID)
		if err != nil {
			return fmt.Errorf("updating amount paid for order %s: %w", u.OrderID, err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("getting rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return errors.NewNotFoundError(fmt.Sprintf("order %s not found", u.OrderID))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing payments: %w", err)
	}
	return nil
}

// SettlementUpdate closes out one completed order at driver settlement:
// amountPaid becomes the full order cost and the withdrawal date is set.
type SettlementUpdate struct {
	OrderID    string
	AmountPaid float64
}

// SettleOrders applies the settlement side effect to every completed
// order of a run in one transaction.
func (r *MySQLOrderRepository) SettleOrders(ctx context.Context, updates []SettlementUpdate, withdrawnAt time.Time) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning settlement transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE Orders SET amountPaid = ?, withdrawalDate = ? WHERE id = ? AND status = ?`
	for _, u := range updates {
		result, err := tx.ExecContext(ctx, query, u.AmountPaid, withdrawnAt, u.OrderID, string(domain.StatusCompleted))
		if err != nil {
			return fmt.Errorf("settling order %s: %w", u.OrderID, err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("getting rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return errors.NewConflictError(fmt.Sprintf("order %s is not completed", u.OrderID))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing settlement: %w", err)
	}
	return nil
}

// LaunchOrders dispatches a run: each order moves to OUT_FOR_DELIVERY and
// leaves its storage slot. All or nothing.
func (r *MySQLOrderRepository) LaunchOrders(ctx context.Context, orderIDs []string) error {
	if len(orderIDs) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning launch transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE Orders SET status = ?, storageLocation = NULL WHERE id = ? AND status = ?`
	for _, id := range orderIDs {
		result, err := tx.ExecContext(ctx, query,
			string(domain.StatusOutForDelivery), id, string(domain.StatusStored),
		)
		if err != nil {
			return fmt.Errorf("launching order %s: %w", id, err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("getting rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return errors.NewConflictError(fmt.Sprintf("order %s is not ready for dispatch", id))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing launch: %w", err)
	}
	return nil
}
