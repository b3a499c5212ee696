package models

import "time"

// ProductImage is an ordered product image
type ProductImage struct {
	ProductID int64  `db:"product_id" json:"product_id"`
	SrcURL    string `db:"src_url" json:"src_url"`
	Position  int    `db:"position" json:"position"`
}

// Variant is a color/size/price combination of a product. A product is
// considered in stock when any of its variants is.
type Variant struct {
	ProductID  int64   `db:"product_id" json:"product_id"`
	Color      *string `db:"color" json:"color"`
	Size       *string `db:"size" json:"size"`
	SKU        *string `db:"sku" json:"sku"`
	PriceCents int64   `db:"price_cents" json:"price_cents"`
	InStock    bool    `db:"in_stock" json:"in_stock"`
}

// ScrapedVariant is a variant as extracted by a retailer adapter, before
// persistence.
type ScrapedVariant struct {
	Color      string `json:"color,omitempty"`
	Size       string `json:"size,omitempty"`
	SKU        string `json:"sku,omitempty"`
	PriceCents int64  `json:"price_cents"`
	InStock    bool   `json:"in_stock"`
}

// ScrapedProduct is the canonical record all retailer adapters converge to.
type ScrapedProduct struct {
	ExternalID  string           `json:"external_id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Category    string           `json:"category"`
	Brand       string           `json:"brand"`
	Store       string           `json:"store"`
	ProductURL  string           `json:"product_url"`
	BuyURL      string           `json:"buy_url"`
	Images      []string         `json:"images"`
	Variants    []ScrapedVariant `json:"variants"`
}

// InStock reports whether any variant is in stock.
func (p *ScrapedProduct) InStock() bool {
	for _, v := range p.Variants {
		if v.InStock {
			return true
		}
	}
	return false
}

// FeedItem is a denormalized product summary for the feed endpoint.
type FeedItem struct {
	ProductID       int64     `db:"product_id" json:"product_id"`
	BrandName       string    `db:"brand_name" json:"brand_name"`
	StoreName       string    `db:"store_name" json:"store_name"`
	Name            string    `db:"name" json:"name"`
	Description     string    `db:"description" json:"description"`
	Category        string    `db:"category" json:"category"`
	ImageURLs       []string  `json:"image_urls"`
	MinPriceCents   int64     `db:"min_price_cents" json:"min_price_cents"`
	MaxPriceCents   int64     `db:"max_price_cents" json:"max_price_cents"`
	AvailableColors []string  `json:"available_colors"`
	AvailableSizes  []string  `json:"available_sizes"`
	InStock         bool      `db:"in_stock" json:"in_stock"`
	ProductURL      string    `db:"product_url" json:"product_url"`
	BuyURL          string    `db:"buy_url" json:"buy_url"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// FeedPage is one page of the feed plus the cursor for the next one.
type FeedPage struct {
	Items          []FeedItem `json:"items"`
	NextCursor     string     `json:"next_cursor,omitempty"`
	CatalogVersion string     `json:"catalog_version"`
	TotalCount     int64      `json:"total_count"`
}

// ProductBrandInfo is the nested brand block of a product detail response.
type ProductBrandInfo struct {
	Name    string `json:"name"`
	LogoURL string `json:"logo_url,omitempty"`
}

// ProductStoreInfo is the nested store block of a product detail response.
type ProductStoreInfo struct {
	Name   string `json:"name"`
	Domain string `json:"domain,omitempty"`
}

// ProductDetail is the full single-product aggregate.
type ProductDetail struct {
	ID          int64            `json:"id"`
	Brand       ProductBrandInfo `json:"brand"`
	Store       ProductStoreInfo `json:"store"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Category    string           `json:"category"`
	Images      []ProductImage   `json:"images"`
	Variants    []Variant        `json:"variants"`
	ProductURL  string           `json:"product_url"`
	BuyURL      string           `json:"buy_url"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// CatalogStats summarizes the persisted catalog.
type CatalogStats struct {
	TotalProducts int64            `json:"total_products"`
	TotalBrands   int64            `json:"total_brands"`
	ByBrand       map[string]int64 `json:"by_brand"`
	ByCategory    map[string]int64 `json:"by_category"`
}
