package model

import "time"

// Stock is keyed by (product, variant, warehouse). VariantID is nil for simple products.
type Stock struct {
	ProductID int64  `json:"product_id"`
	VariantID *int64 `json:"product_variant_id,omitempty"`
	GudangID  string `json:"gudang_id"`
	Stock     string `json:"stock"`
}

type Warehouse struct {
	ID      string `json:"id"`
	StoreID int64  `json:"store_id"`
	Name    string `json:"name"`
	City    string `json:"city"`
}

// SubmissionEvent is one journal row describing how far a submission got.
type SubmissionEvent struct {
	ID           string    `db:"id" json:"id"`
	SubmissionID string    `db:"submission_id" json:"submission_id"`
	StoreID      int64     `db:"store_id" json:"store_id"`
	ProductID    int64     `db:"product_id" json:"product_id"`
	Step         string    `db:"step" json:"step"`
	EntityType   string    `db:"entity_type" json:"entity_type"`
	EntityID     *int64    `db:"entity_id" json:"entity_id"`
	Status       string    `db:"status" json:"status"`
	Message      string    `db:"message" json:"message"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
