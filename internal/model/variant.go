package model

// Option is a named product dimension such as Warna or Ukuran.
type Option struct {
	ID     int64    `json:"id,omitempty"`
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

type OptionValue struct {
	ID              int64  `json:"id"`
	StoreID         int64  `json:"store_id"`
	ProductOptionID int64  `json:"product_option_id"`
	Value           string `json:"value"`
}

// Variant is one purchasable combination of option values.
// Decimal fields stay strings exactly as the operator typed them.
type Variant struct {
	ID            int64    `json:"id,omitempty"`
	SKU           string   `json:"sku"`
	Price         string   `json:"price"`
	DiscountPrice string   `json:"discount_price"`
	Weight        string   `json:"weight"`
	OptionValues  []string `json:"option_values"`
	GudangID      string   `json:"gudang_id"`
	Stock         string   `json:"stock"`
	Image         ImageRef `json:"image"`
	IsActive      bool     `json:"is_active"`
}
