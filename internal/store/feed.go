package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"github.com/RooJenkins/UPLO5/internal/models"
)

// ErrProductNotFound marks a detail lookup for a nonexistent id, as opposed
// to a backend failure.
var ErrProductNotFound = errors.New("product not found")

// FeedFilter narrows the feed query. Zero values mean "no filter" except
// InStock, which the caller defaults to true.
type FeedFilter struct {
	Brand    string
	Category string
	InStock  bool
	PriceMin *int64
	PriceMax *int64
	AfterID  int64 // keyset cursor: only rows with id > AfterID
	Limit    int
}

// feedRow is the scan target for one feed query row.
type feedRow struct {
	ProductID     int64          `db:"product_id"`
	BrandName     string         `db:"brand_name"`
	StoreName     string         `db:"store_name"`
	Name          string         `db:"name"`
	Description   string         `db:"description"`
	Category      string         `db:"category"`
	ProductURL    string         `db:"product_url"`
	BuyURL        string         `db:"buy_url"`
	UpdatedAt     sql.NullTime   `db:"updated_at"`
	ImageURLs     pq.StringArray `db:"image_urls"`
	MinPriceCents int64          `db:"min_price_cents"`
	MaxPriceCents int64          `db:"max_price_cents"`
	Colors        pq.StringArray `db:"available_colors"`
	Sizes         pq.StringArray `db:"available_sizes"`
	InStock       bool           `db:"in_stock"`
}

// buildFeedQuery assembles the feed SQL and its arguments. The result is
// ordered by ascending product id; that ordering is what makes the keyset
// cursor correct, so no secondary sort key may be added here.
func buildFeedQuery(f FeedFilter) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(`
		SELECT
			p.id AS product_id,
			b.name AS brand_name,
			s.name AS store_name,
			p.name,
			p.description,
			p.category,
			p.product_url,
			p.buy_url,
			p.updated_at,
			COALESCE(
				(SELECT array_agg(u.src_url)
				 FROM (SELECT pi.src_url
				       FROM product_images pi
				       WHERE pi.product_id = p.id
				       ORDER BY pi.position
				       LIMIT 3) u),
				'{}'
			) AS image_urls,
			COALESCE((SELECT MIN(v.price_cents) FROM variants v WHERE v.product_id = p.id), 0) AS min_price_cents,
			COALESCE((SELECT MAX(v.price_cents) FROM variants v WHERE v.product_id = p.id), 0) AS max_price_cents,
			COALESCE(
				(SELECT array_agg(DISTINCT v.color) FROM variants v
				 WHERE v.product_id = p.id AND v.color IS NOT NULL),
				'{}'
			) AS available_colors,
			COALESCE(
				(SELECT array_agg(DISTINCT v.size) FROM variants v
				 WHERE v.product_id = p.id AND v.size IS NOT NULL),
				'{}'
			) AS available_sizes,
			COALESCE((SELECT bool_or(v.in_stock) FROM variants v WHERE v.product_id = p.id), FALSE) AS in_stock
		FROM products p
		JOIN brands b ON p.brand_id = b.id
		JOIN stores s ON p.store_id = s.id
		WHERE 1=1`)

	var args []interface{}
	where, whereArgs := feedConditions(f, len(args))
	sb.WriteString(where)
	args = append(args, whereArgs...)

	sb.WriteString(fmt.Sprintf(" ORDER BY p.id ASC LIMIT $%d", len(args)+1))
	// One extra row decides whether a next page exists.
	args = append(args, f.Limit+1)

	return sb.String(), args
}

// feedConditions renders the shared WHERE clauses for the page and count
// queries, starting placeholders at $argOffset+1.
func feedConditions(f FeedFilter, argOffset int) (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}

	next := func() int { return argOffset + len(args) + 1 }

	if f.AfterID > 0 {
		sb.WriteString(fmt.Sprintf(" AND p.id > $%d", next()))
		args = append(args, f.AfterID)
	}
	if f.Brand != "" {
		sb.WriteString(fmt.Sprintf(" AND b.name = $%d", next()))
		args = append(args, f.Brand)
	}
	if f.Category != "" {
		sb.WriteString(fmt.Sprintf(" AND p.category = $%d", next()))
		args = append(args, f.Category)
	}
	if f.InStock {
		sb.WriteString(` AND EXISTS (
			SELECT 1 FROM variants v
			WHERE v.product_id = p.id AND v.in_stock = TRUE)`)
	}
	if f.PriceMin != nil {
		// NULL aggregates (no variants) fail both comparisons and drop out.
		sb.WriteString(fmt.Sprintf(` AND (SELECT MAX(v.price_cents) FROM variants v WHERE v.product_id = p.id) >= $%d`, next()))
		args = append(args, *f.PriceMin)
	}
	if f.PriceMax != nil {
		sb.WriteString(fmt.Sprintf(` AND (SELECT MIN(v.price_cents) FROM variants v WHERE v.product_id = p.id) <= $%d`, next()))
		args = append(args, *f.PriceMax)
	}

	return sb.String(), args
}

// GetFeedPage returns one feed page plus the cursor for the next one.
// Reads are not isolated across pages; concurrent writes may cause an item
// to be skipped or repeated between page fetches.
func (s *Store) GetFeedPage(ctx context.Context, f FeedFilter) ([]models.FeedItem, string, error) {
	query, args := buildFeedQuery(f)

	var rows []feedRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, "", fmt.Errorf("feed query failed: %w", err)
	}

	nextCursor := ""
	if len(rows) > f.Limit {
		rows = rows[:f.Limit]
		nextCursor = fmt.Sprintf("%d", rows[len(rows)-1].ProductID)
	}

	items := make([]models.FeedItem, 0, len(rows))
	for _, r := range rows {
		item := models.FeedItem{
			ProductID:       r.ProductID,
			BrandName:       r.BrandName,
			StoreName:       r.StoreName,
			Name:            r.Name,
			Description:     r.Description,
			Category:        r.Category,
			ImageURLs:       []string(r.ImageURLs),
			MinPriceCents:   r.MinPriceCents,
			MaxPriceCents:   r.MaxPriceCents,
			AvailableColors: []string(r.Colors),
			AvailableSizes:  []string(r.Sizes),
			InStock:         r.InStock,
			ProductURL:      r.ProductURL,
			BuyURL:          r.BuyURL,
		}
		if r.UpdatedAt.Valid {
			item.UpdatedAt = r.UpdatedAt.Time
		}
		if item.ImageURLs == nil {
			item.ImageURLs = []string{}
		}
		if item.AvailableColors == nil {
			item.AvailableColors = []string{}
		}
		if item.AvailableSizes == nil {
			item.AvailableSizes = []string{}
		}
		items = append(items, item)
	}

	return items, nextCursor, nil
}

// CountFeed returns the total number of products matching the filter,
// ignoring the cursor.
func (s *Store) CountFeed(ctx context.Context, f FeedFilter) (int64, error) {
	f.AfterID = 0

	var sb strings.Builder
	sb.WriteString(`
		SELECT COUNT(*)
		FROM products p
		JOIN brands b ON p.brand_id = b.id
		JOIN stores s ON p.store_id = s.id
		WHERE 1=1`)

	where, args := feedConditions(f, 0)
	sb.WriteString(where)

	var count int64
	if err := s.db.GetContext(ctx, &count, sb.String(), args...); err != nil {
		return 0, fmt.Errorf("feed count failed: %w", err)
	}
	return count, nil
}

// GetProductDetail returns the full aggregate for one product: the product
// row, all images ordered by position and all variants ordered by color then
// size. A missing id yields ErrProductNotFound.
func (s *Store) GetProductDetail(ctx context.Context, id int64) (*models.ProductDetail, error) {
	var row struct {
		ID          int64        `db:"id"`
		BrandName   string       `db:"brand_name"`
		StoreName   string       `db:"store_name"`
		Name        string       `db:"name"`
		Description string       `db:"description"`
		Category    string       `db:"category"`
		ProductURL  string       `db:"product_url"`
		BuyURL      string       `db:"buy_url"`
		CreatedAt   sql.NullTime `db:"created_at"`
		UpdatedAt   sql.NullTime `db:"updated_at"`
	}

	err := s.db.GetContext(ctx, &row, `
		SELECT
			p.id, b.name AS brand_name, s.name AS store_name,
			p.name, p.description, p.category,
			p.product_url, p.buy_url, p.created_at, p.updated_at
		FROM products p
		JOIN brands b ON p.brand_id = b.id
		JOIN stores s ON p.store_id = s.id
		WHERE p.id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("product query failed: %w", err)
	}

	images := []models.ProductImage{}
	err = s.db.SelectContext(ctx, &images, `
		SELECT product_id, src_url, position
		FROM product_images
		WHERE product_id = $1
		ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("product images query failed: %w", err)
	}

	variants := []models.Variant{}
	err = s.db.SelectContext(ctx, &variants, `
		SELECT product_id, color, size, sku, price_cents, in_stock
		FROM variants
		WHERE product_id = $1
		ORDER BY color, size`, id)
	if err != nil {
		return nil, fmt.Errorf("product variants query failed: %w", err)
	}

	detail := &models.ProductDetail{
		ID:          row.ID,
		Brand:       models.ProductBrandInfo{Name: row.BrandName},
		Store:       models.ProductStoreInfo{Name: row.StoreName},
		Name:        row.Name,
		Description: row.Description,
		Category:    row.Category,
		Images:      images,
		Variants:    variants,
		ProductURL:  row.ProductURL,
		BuyURL:      row.BuyURL,
	}
	if row.CreatedAt.Valid {
		detail.CreatedAt = row.CreatedAt.Time
	}
	if row.UpdatedAt.Valid {
		detail.UpdatedAt = row.UpdatedAt.Time
	}
	return detail, nil
}
