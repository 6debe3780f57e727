package database

import "database/sql"

// migrations creates the schema on first boot. Statements are idempotent so
// restarting against an existing database is safe.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		first_name VARCHAR(100) NOT NULL,
		last_name VARCHAR(100) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(100) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'customer',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		line1 VARCHAR(255) NOT NULL,
		line2 VARCHAR(255) NOT NULL DEFAULT '',
		town VARCHAR(100) NOT NULL,
		city VARCHAR(100) NOT NULL,
		postcode VARCHAR(20) NOT NULL,
		is_default BOOLEAN NOT NULL DEFAULT FALSE,
		created_at DATETIME NOT NULL,
		INDEX idx_addresses_user (user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		category VARCHAR(20) NOT NULL,
		name VARCHAR(255) NOT NULL UNIQUE,
		slug VARCHAR(255) NOT NULL,
		price DECIMAL(10,2) NOT NULL DEFAULT 0,
		description TEXT NOT NULL,
		one_size_stock INT NOT NULL DEFAULT 0,
		small_stock INT NOT NULL DEFAULT 0,
		medium_stock INT NOT NULL DEFAULT 0,
		large_stock INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT NOT NULL,
		reference CHAR(36) NOT NULL,
		address_id BIGINT NULL,
		shipping_method VARCHAR(20) NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'open',
		order_total DECIMAL(10,2) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		INDEX idx_orders_user_status (user_id, status)
	)`,
	`CREATE TABLE IF NOT EXISTS order_lines (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		order_id BIGINT NOT NULL,
		product_id BIGINT NOT NULL,
		size VARCHAR(10) NOT NULL DEFAULT '',
		quantity INT NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		INDEX idx_order_lines_order (order_id)
	)`,
	`CREATE TABLE IF NOT EXISTS checkout_resume_tokens (
		token CHAR(36) PRIMARY KEY,
		user_id BIGINT NOT NULL,
		created_at DATETIME NOT NULL
	)`,
}

// Migrate brings the schema up to date.
func Migrate(db *sql.DB) error {
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
