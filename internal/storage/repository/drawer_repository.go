package repository

import (
	"context"
	"database/sql"
	"fmt"

	"entrepot/internal/domain"
)

type MySQLDrawerRepository struct {
	db *sql.DB
}

func NewMySQLDrawerRepository(db *sql.DB) *MySQLDrawerRepository {
	return &MySQLDrawerRepository{db: db}
}

// FindAll returns the configured drawers in creation order, which is the
// tie-break order the advisor uses.
func (r *MySQLDrawerRepository) FindAll(ctx context.Context) ([]domain.StorageDrawer, error) {
	query := `
		SELECT id, name, capacity, slotRows, slotColumns, createdAt, updatedAt
		FROM StorageDrawers
		ORDER BY createdAt, id
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying drawers: %w", err)
	}
	defer rows.Close()

	var drawers []domain.StorageDrawer
	for rows.Next() {
		var (
			d        domain.StorageDrawer
			capacity sql.NullInt64
			slotRows sql.NullInt64
			slotCols sql.NullInt64
		)
		err := rows.Scan(&d.ID, &d.Name, &capacity, &slotRows, &slotCols, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning drawer: %w", err)
		}
		d.Capacity = int(capacity.Int64)
		d.Rows = int(slotRows.Int64)
		d.Columns = int(slotCols.Int64)
		drawers = append(drawers, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating drawers: %w", err)
	}
	return drawers, nil
}
