package models

import "time"

// Event types published to the catalog events topic
const (
	EventTypeScrapeRunCompleted = "scrape_run.completed"
	EventTypeProductUpserted    = "product.upserted"
)

// BaseEvent carries fields common to all catalog events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ScrapeRunCompletedEvent is published after a scrape run commits.
type ScrapeRunCompletedEvent struct {
	BaseEvent
	RunID          string `json:"run_id"`
	Source         string `json:"source"`
	ProductCount   int    `json:"product_count"`
	CatalogVersion string `json:"catalog_version"`
}

// ProductUpsertedEvent signals that a product was created or refreshed.
type ProductUpsertedEvent struct {
	BaseEvent
	RunID      string `json:"run_id"`
	ProductID  int64  `json:"product_id"`
	StoreName  string `json:"store_name"`
	ExternalID string `json:"external_id"`
}
