package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the integration test database. Tests are skipped when
// no MySQL instance named 'entrepot_test' is reachable on localhost:3306.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/entrepot_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	err = db.Ping()
	if err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

// CleanupTestDB empties the test tables and closes the pool.
func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"Orders", "StorageDrawers"}
	for _, table := range tables {
		_, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema the repository tests expect.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createOrdersTable := `
	CREATE TABLE IF NOT EXISTS Orders (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		clientId VARCHAR(36) NOT NULL,
		shipmentId VARCHAR(36),
		storeId VARCHAR(36) NOT NULL DEFAULT '',
		status VARCHAR(32) NOT NULL DEFAULT 'NEW',
		priceMRU DECIMAL(12,2) NOT NULL DEFAULT 0,
		commission DECIMAL(12,2) NOT NULL DEFAULT 0,
		shippingCost DECIMAL(12,2) NOT NULL DEFAULT 0,
		localDeliveryCost DECIMAL(12,2) NOT NULL DEFAULT 0,
		amountPaid DECIMAL(12,2) NOT NULL DEFAULT 0,
		deliveryFeePrepaid TINYINT(1) NOT NULL DEFAULT 0,
		weight DECIMAL(10,3),
		storageLocation VARCHAR(64),
		deliveryRunId VARCHAR(36),
		driverId VARCHAR(36),
		withdrawalDate DATETIME,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_status (status),
		INDEX idx_run (deliveryRunId),
		INDEX idx_client (clientId),
		INDEX idx_location (storageLocation)
	)`

	createDrawersTable := `
	CREATE TABLE IF NOT EXISTS StorageDrawers (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		name VARCHAR(64) NOT NULL UNIQUE,
		capacity INT,
		slotRows INT,
		slotColumns INT,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"Orders", createOrdersTable},
		{"StorageDrawers", createDrawersTable},
	}

	for _, tbl := range tables {
		_, err := db.Exec(tbl.query)
		if err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
