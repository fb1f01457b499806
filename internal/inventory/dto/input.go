package dto

type UpdateStockInput struct {
	StoreID   int64
	ProductID int64
	VariantID *int64 // nil for products without variants
	GudangID  string
	Stock     string
}
