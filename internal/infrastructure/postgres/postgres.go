// Package postgres implements the domain repositories on PostgreSQL via
// database/sql and lib/pq. Users embed their cart as a JSONB column so a
// cart mutation is one atomic row update, mirroring a document store's
// per-document isolation.
package postgres

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

func Connect(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

// Migrate creates the schema if it does not exist yet.
func Migrate(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'customer',
			cart JSONB NOT NULL DEFAULT '[]',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price BIGINT NOT NULL CHECK (price >= 0),
			image_url TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL,
			is_featured BOOLEAN NOT NULL DEFAULT FALSE,
			stock INTEGER NOT NULL DEFAULT 0 CHECK (stock >= 0),
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_products_featured ON products (is_featured) WHERE is_featured`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products (category)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users (id),
			total_amount BIGINT NOT NULL CHECK (total_amount >= 0),
			discount_amount BIGINT NOT NULL DEFAULT 0 CHECK (discount_amount >= 0),
			coupon_code TEXT NOT NULL DEFAULT '',
			coupon_discount_percent INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			payment_method TEXT NOT NULL DEFAULT '',
			shipping_street TEXT NOT NULL DEFAULT '',
			shipping_city TEXT NOT NULL DEFAULT '',
			shipping_state TEXT NOT NULL DEFAULT '',
			shipping_country TEXT NOT NULL DEFAULT '',
			shipping_zip_code TEXT NOT NULL DEFAULT '',
			shipping_method TEXT NOT NULL DEFAULT 'standard',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_orders_user_created ON orders (user_id, created_at DESC)`,
		`CREATE TABLE IF NOT EXISTS order_lines (
			order_id UUID NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			product_id UUID NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity >= 1),
			unit_price BIGINT NOT NULL CHECK (unit_price >= 0),
			PRIMARY KEY (order_id, position)
		)`,
		`CREATE TABLE IF NOT EXISTS coupons (
			code TEXT PRIMARY KEY,
			user_id UUID NOT NULL,
			discount_percentage INTEGER NOT NULL,
			expiration_date TIMESTAMPTZ NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_coupons_user ON coupons (user_id)`,
		`CREATE TABLE IF NOT EXISTS activities (
			id UUID PRIMARY KEY,
			activity TEXT NOT NULL,
			user_id UUID NOT NULL,
			user_email TEXT NOT NULL,
			entity_type TEXT NOT NULL,
			entity_id TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			details JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_created ON activities (created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_entity ON activities (entity_type, entity_id)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
