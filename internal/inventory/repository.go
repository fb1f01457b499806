package inventory

import (
	"context"

	"github.com/koperasihub/product-form-service/internal/model"
)

// Repository is backed by the hub API; stock lives there, not here.
type Repository interface {
	UpdateStock(ctx context.Context, stock *model.Stock) error
	ListWarehouses(ctx context.Context, storeID int64) ([]model.Warehouse, error)
}
