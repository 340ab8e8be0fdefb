package pipeline

import (
	"context"
	"fmt"

	"github.com/aluiziolira/go-catalog-sync/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createProductsTable = `
CREATE TABLE IF NOT EXISTS products (
	id        TEXT PRIMARY KEY,
	type      TEXT NOT NULL,
	title     TEXT NOT NULL,
	subtitle  TEXT NOT NULL,
	kind      TEXT NOT NULL DEFAULT '',
	price     DOUBLE PRECISION NOT NULL,
	quantity  INTEGER NOT NULL,
	synced_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

const upsertProduct = `
INSERT INTO products (id, type, title, subtitle, kind, price, quantity, synced_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())
ON CONFLICT (id) DO UPDATE SET
	type = EXCLUDED.type,
	title = EXCLUDED.title,
	subtitle = EXCLUDED.subtitle,
	kind = EXCLUDED.kind,
	price = EXCLUDED.price,
	quantity = EXCLUDED.quantity,
	synced_at = now()`

// PostgresSink persists products into a single table, upserting by id
// so repeated runs refresh rather than duplicate.
type PostgresSink struct {
	pool *pgxpool.Pool
}

// NewPostgresSink connects to Postgres and ensures the products table
// exists.
func NewPostgresSink(ctx context.Context, dsn string) (*PostgresSink, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, createProductsTable); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensure products table: %w", err)
	}
	return &PostgresSink{pool: pool}, nil
}

// Save upserts one product.
func (ps *PostgresSink) Save(ctx context.Context, product *models.Product) error {
	_, err := ps.pool.Exec(ctx, upsertProduct,
		product.ID,
		product.Type,
		product.Title,
		product.Subtitle,
		product.Kind,
		product.Price,
		product.Quantity,
	)
	if err != nil {
		return fmt.Errorf("upsert product %s: %w", product.ID, err)
	}
	return nil
}

// Close releases the connection pool.
func (ps *PostgresSink) Close() error {
	ps.pool.Close()
	return nil
}

// Validate pings the database.
func (ps *PostgresSink) Validate() error {
	return ps.pool.Ping(context.Background())
}
