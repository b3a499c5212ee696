package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/RooJenkins/UPLO5/internal/models"
)

// Slugify converts a brand name into its URL slug.
func Slugify(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// getOrCreateBrandTx resolves a brand id by exact name, creating the row on
// first reference.
func getOrCreateBrandTx(ctx context.Context, tx *sqlx.Tx, name string) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, "SELECT id FROM brands WHERE name = $1", name)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up brand %q: %w", name, err)
	}

	err = tx.GetContext(ctx, &id,
		"INSERT INTO brands (name, slug) VALUES ($1, $2) RETURNING id",
		name, Slugify(name))
	if err != nil {
		return 0, fmt.Errorf("failed to create brand %q: %w", name, err)
	}
	return id, nil
}

func getOrCreateStoreTx(ctx context.Context, tx *sqlx.Tx, name string) (int64, error) {
	var id int64
	err := tx.GetContext(ctx, &id, "SELECT id FROM stores WHERE name = $1", name)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("failed to look up store %q: %w", name, err)
	}

	err = tx.GetContext(ctx, &id,
		"INSERT INTO stores (name) VALUES ($1) RETURNING id", name)
	if err != nil {
		return 0, fmt.Errorf("failed to create store %q: %w", name, err)
	}
	return id, nil
}

// upsertProductTx inserts or refreshes one product keyed by
// (store_id, external_id). id and created_at are stable across re-scrapes.
func upsertProductTx(ctx context.Context, tx *sqlx.Tx, brandID, storeID int64, p *models.ScrapedProduct) (int64, error) {
	var productID int64
	err := tx.GetContext(ctx, &productID, `
		INSERT INTO products (
			brand_id, store_id, external_id, name, description,
			category, product_url, buy_url
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (store_id, external_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			product_url = EXCLUDED.product_url,
			buy_url = EXCLUDED.buy_url,
			updated_at = NOW()
		RETURNING id`,
		brandID, storeID, p.ExternalID, p.Name, p.Description,
		p.Category, p.ProductURL, p.BuyURL)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert product %s/%s: %w", p.Store, p.ExternalID, err)
	}
	return productID, nil
}

func insertImagesTx(ctx context.Context, tx *sqlx.Tx, productID int64, images []string) error {
	for idx, srcURL := range images {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO product_images (product_id, src_url, position)
			VALUES ($1, $2, $3)
			ON CONFLICT (product_id, src_url) DO NOTHING`,
			productID, srcURL, idx)
		if err != nil {
			return fmt.Errorf("failed to insert image for product %d: %w", productID, err)
		}
	}
	return nil
}

func insertVariantsTx(ctx context.Context, tx *sqlx.Tx, productID int64, variants []models.ScrapedVariant) error {
	for _, v := range variants {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO variants (product_id, color, size, sku, price_cents, in_stock)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (product_id, COALESCE(color, ''), COALESCE(size, ''), price_cents) DO NOTHING`,
			productID, nullable(v.Color), nullable(v.Size), nullable(v.SKU),
			v.PriceCents, v.InStock)
		if err != nil {
			return fmt.Errorf("failed to insert variant for product %d: %w", productID, err)
		}
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// SaveProducts persists one scrape run inside a single transaction. Any
// failure rolls back the whole batch. Returns the ids of upserted products
// in input order.
func (s *Store) SaveProducts(ctx context.Context, products []models.ScrapedProduct) ([]int64, error) {
	if len(products) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Brand/store rows repeat across a run; cache resolved ids.
	brandIDs := map[string]int64{}
	storeIDs := map[string]int64{}

	ids := make([]int64, 0, len(products))
	for i := range products {
		p := &products[i]

		brandID, ok := brandIDs[p.Brand]
		if !ok {
			brandID, err = getOrCreateBrandTx(ctx, tx, p.Brand)
			if err != nil {
				return nil, err
			}
			brandIDs[p.Brand] = brandID
		}

		storeID, ok := storeIDs[p.Store]
		if !ok {
			storeID, err = getOrCreateStoreTx(ctx, tx, p.Store)
			if err != nil {
				return nil, err
			}
			storeIDs[p.Store] = storeID
		}

		productID, err := upsertProductTx(ctx, tx, brandID, storeID, p)
		if err != nil {
			return nil, err
		}

		if err := insertImagesTx(ctx, tx, productID, p.Images); err != nil {
			return nil, err
		}
		if err := insertVariantsTx(ctx, tx, productID, p.Variants); err != nil {
			return nil, err
		}

		ids = append(ids, productID)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit scrape batch: %w", err)
	}
	return ids, nil
}
