package model

type CategoryKind string

const (
	CategoryProduct CategoryKind = "product"
	CategoryGeneral CategoryKind = "general"
)

type Category struct {
	ID       int64      `json:"id"`
	StoreID  int64      `json:"store_id"`
	ParentID *int64     `json:"parent_id"`
	Name     string     `json:"name"`
	Slug     string     `json:"slug"`
	ImageURL string     `json:"image_url"`
	IsActive bool       `json:"is_active"`
	Children []Category `json:"children,omitempty"`
}
