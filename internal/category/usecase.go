package category

import (
	"context"
	"errors"

	"github.com/koperasihub/product-form-service/internal/category/dto"
	"github.com/koperasihub/product-form-service/internal/model"
)

var ErrInvalidKind = errors.New("category kind must be product or general")

type UseCase interface {
	ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error)
	InvalidateCache(ctx context.Context, storeID int64) error
}
