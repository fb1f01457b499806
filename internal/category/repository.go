package category

import (
	"context"

	"github.com/koperasihub/product-form-service/internal/model"
)

// Repository is the category source of record; *hubapi.Client satisfies it.
type Repository interface {
	ListCategories(ctx context.Context, storeID int64, kind model.CategoryKind) ([]model.Category, error)
}
