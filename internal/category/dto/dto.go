package dto

import "github.com/koperasihub/product-form-service/internal/model"

type CategoryFilters struct {
	StoreID  int64
	Kind     model.CategoryKind
	ParentID *int64 // Nil means ignore, zero means root categories
	IsActive *bool
	// AsTree nests children under their parents and returns only the roots.
	AsTree bool
}
