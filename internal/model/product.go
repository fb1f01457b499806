package model

import "time"

// ProductFields are the base product attributes sent to the hub API.
type ProductFields struct {
	Name              string `json:"name"`
	ShortDescription  string `json:"short_description"`
	LongDescription   string `json:"long_description"`
	ProductCategoryID int64  `json:"product_category_id"`
	GeneralCategoryID int64  `json:"general_category_id"`
	SKU               string `json:"sku"`
	Price             string `json:"price"`
	DiscountPrice     string `json:"discount_price"`
	Weight            string `json:"weight"`
	Length            string `json:"length"`
	Width             string `json:"width"`
	Height            string `json:"height"`
	TargetCustomer    string `json:"target_customer"`
	Status            string `json:"status"`
	IsGratisOngkir    bool   `json:"is_gratis_ongkir"`
	IsCashback        bool   `json:"is_cashback"`
	CashbackUnit      string `json:"cashback_unit"`
	CashbackValue     string `json:"cashback_value"`
	DropshiperUnit    string `json:"dropshiper_unit"`
	DropshiperValue   string `json:"dropshiper_value"`
}

type Product struct {
	ID      int64 `json:"id"`
	StoreID int64 `json:"store_id"`
	ProductFields
	Images []ProductImage `json:"images"`
}

type SimpleStock struct {
	GudangID string `json:"gudang_id"`
	Stock    string `json:"stock"`
}

// ProductDraft is the whole product form as edited by one operator session.
type ProductDraft struct {
	Key         string         `json:"key"`
	StoreID     int64          `json:"store_id"`
	ProductID   int64          `json:"product_id,omitempty"`
	Duplicate   bool           `json:"duplicate"`
	Product     ProductFields  `json:"product"`
	Images      []ProductImage `json:"images"`
	HasVariants bool           `json:"has_variants"`
	Options     []Option       `json:"options"`
	Variants    []*Variant     `json:"variants"`
	SimpleStock SimpleStock    `json:"simple_stock"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// IsUpdate reports whether submitting edits an existing product in place.
func (d *ProductDraft) IsUpdate() bool {
	return d.ProductID != 0 && !d.Duplicate
}
