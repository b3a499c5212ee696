package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/RooJenkins/UPLO5/internal/models"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// Migrate creates the catalog schema if it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS brands (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			slug TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS stores (
			id BIGSERIAL PRIMARY KEY,
			name TEXT NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS products (
			id BIGSERIAL PRIMARY KEY,
			brand_id BIGINT NOT NULL REFERENCES brands(id),
			store_id BIGINT NOT NULL REFERENCES stores(id),
			external_id TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT 'other',
			product_url TEXT NOT NULL,
			buy_url TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (store_id, external_id)
		)`,
		`CREATE TABLE IF NOT EXISTS product_images (
			product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			src_url TEXT NOT NULL,
			position INT NOT NULL,
			UNIQUE (product_id, src_url)
		)`,
		`CREATE TABLE IF NOT EXISTS variants (
			product_id BIGINT NOT NULL REFERENCES products(id) ON DELETE CASCADE,
			color TEXT,
			size TEXT,
			sku TEXT,
			price_cents BIGINT NOT NULL CHECK (price_cents >= 0),
			in_stock BOOLEAN NOT NULL DEFAULT TRUE
		)`,
		// Plain UNIQUE treats NULL color/size rows as distinct, so
		// re-ingestion would duplicate size-only variants.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_variants_natural_key
			ON variants (product_id, COALESCE(color, ''), COALESCE(size, ''), price_cents)`,
		`CREATE INDEX IF NOT EXISTS idx_products_category ON products(category)`,
		`CREATE INDEX IF NOT EXISTS idx_product_images_product ON product_images(product_id, position)`,
		`CREATE INDEX IF NOT EXISTS idx_variants_product ON variants(product_id)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// CountProducts returns the total catalog size
func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM products")
	return count, err
}

// GetStats returns catalog counts grouped by brand and category
func (s *Store) GetStats(ctx context.Context) (*models.CatalogStats, error) {
	stats := &models.CatalogStats{
		ByBrand:    map[string]int64{},
		ByCategory: map[string]int64{},
	}

	if err := s.db.GetContext(ctx, &stats.TotalProducts, "SELECT COUNT(*) FROM products"); err != nil {
		return nil, err
	}
	if err := s.db.GetContext(ctx, &stats.TotalBrands, "SELECT COUNT(*) FROM brands"); err != nil {
		return nil, err
	}

	type nameCount struct {
		Name  string `db:"name"`
		Count int64  `db:"count"`
	}

	var byBrand []nameCount
	err := s.db.SelectContext(ctx, &byBrand, `
		SELECT b.name AS name, COUNT(p.id) AS count
		FROM brands b
		LEFT JOIN products p ON b.id = p.brand_id
		GROUP BY b.name
		ORDER BY count DESC`)
	if err != nil {
		return nil, err
	}
	for _, row := range byBrand {
		stats.ByBrand[row.Name] = row.Count
	}

	var byCategory []nameCount
	err = s.db.SelectContext(ctx, &byCategory, `
		SELECT category AS name, COUNT(*) AS count
		FROM products
		GROUP BY category
		ORDER BY count DESC`)
	if err != nil {
		return nil, err
	}
	for _, row := range byCategory {
		stats.ByCategory[row.Name] = row.Count
	}

	return stats, nil
}
