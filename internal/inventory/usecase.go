package inventory

import (
	"context"

	"github.com/koperasihub/product-form-service/internal/inventory/dto"
	"github.com/koperasihub/product-form-service/internal/model"
)

type UseCase interface {
	UpdateStock(ctx context.Context, input *dto.UpdateStockInput) error
	ListWarehouses(ctx context.Context, storeID int64) ([]model.Warehouse, error)
}
