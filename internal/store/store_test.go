package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/nativesins/shop-api/internal/models"
)

// testSchema mirrors the production migrations in SQLite dialect so store
// tests run real SQL against an in-memory database.
var testSchema = []string{
	`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'customer',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE addresses (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		line1 TEXT NOT NULL,
		line2 TEXT NOT NULL DEFAULT '',
		town TEXT NOT NULL,
		city TEXT NOT NULL,
		postcode TEXT NOT NULL,
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category TEXT NOT NULL,
		name TEXT NOT NULL UNIQUE,
		slug TEXT NOT NULL,
		price TEXT NOT NULL DEFAULT '0',
		description TEXT NOT NULL,
		one_size_stock INTEGER NOT NULL DEFAULT 0,
		small_stock INTEGER NOT NULL DEFAULT 0,
		medium_stock INTEGER NOT NULL DEFAULT 0,
		large_stock INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE orders (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		reference TEXT NOT NULL,
		address_id INTEGER NULL,
		shipping_method TEXT NULL,
		status TEXT NOT NULL DEFAULT 'open',
		order_total TEXT NOT NULL DEFAULT '0',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE order_lines (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		order_id INTEGER NOT NULL,
		product_id INTEGER NOT NULL,
		size TEXT NOT NULL DEFAULT '',
		quantity INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE checkout_resume_tokens (
		token TEXT PRIMARY KEY,
		user_id INTEGER NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`,
}

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", "file::memory:?_time_format=sqlite")
	require.NoError(t, err)
	// One connection, or every query would see its own empty memory database.
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	for _, stmt := range testSchema {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return db
}

func seedUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()
	accounts := &AccountStore{DB: db}
	user, err := accounts.CreateUser(context.Background(), "Joe", "Tester", email, "sup3r-secret", models.RoleCustomer)
	require.NoError(t, err)
	return user
}

func seedProduct(t *testing.T, db *sql.DB, params CreateProductParams) *models.Product {
	t.Helper()
	catalog := &CatalogStore{DB: db}
	product, err := catalog.CreateProduct(context.Background(), params)
	require.NoError(t, err)
	return product
}

func seedAddress(t *testing.T, db *sql.DB, userID int64) *models.Address {
	t.Helper()
	book := &AddressBook{DB: db}
	address, err := book.AddAddress(context.Background(), userID, "1 High Street", "", "Camden", "London", "NW1 8QP")
	require.NoError(t, err)
	return address
}

func requireDecimalEqual(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	require.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}
