package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/koperasihub/product-form-service/internal/inventory"
	"github.com/koperasihub/product-form-service/internal/inventory/dto"
	"github.com/koperasihub/product-form-service/internal/model"
	"github.com/koperasihub/product-form-service/pkg/cache"
	"github.com/koperasihub/product-form-service/pkg/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	ErrBusy             = errors.New("system busy, please try again later (lock)")
	ErrWarehouseMissing = errors.New("warehouse is required")
	ErrInvalidStock     = errors.New("stock must be a non-negative number")
)

type inventoryUseCase struct {
	repo   inventory.Repository
	locker cache.Locker
	logger logger.ZapLogger

	lockAttempts int
	lockBackoff  time.Duration
}

// NewInventoryUseCase accepts a nil locker, in which case writes are not serialised.
func NewInventoryUseCase(repo inventory.Repository, locker cache.Locker, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:         repo,
		locker:       locker,
		logger:       log,
		lockAttempts: 3,
		lockBackoff:  100 * time.Millisecond,
	}
}

func (uc *inventoryUseCase) UpdateStock(ctx context.Context, input *dto.UpdateStockInput) error {
	if input.GudangID == "" {
		return ErrWarehouseMissing
	}
	qty := input.Stock
	if qty == "" {
		qty = "0"
	}
	d, err := decimal.NewFromString(qty)
	if err != nil || d.IsNegative() {
		return fmt.Errorf("%w: %q", ErrInvalidStock, input.Stock)
	}

	// Key: lock:stock:{productID}:{variantID}:{gudangID}
	lockKey := fmt.Sprintf("lock:stock:%d:%d:%s", input.ProductID, variantKey(input.VariantID), input.GudangID)
	release, err := uc.lock(ctx, lockKey)
	if err != nil {
		return err
	}
	defer release()

	err = uc.repo.UpdateStock(ctx, &model.Stock{
		ProductID: input.ProductID,
		VariantID: input.VariantID,
		GudangID:  input.GudangID,
		Stock:     d.String(),
	})
	if err != nil {
		return err
	}

	uc.logger.Debug("stock updated",
		zap.Int64("product_id", input.ProductID),
		zap.Int64("variant_id", variantKey(input.VariantID)),
		zap.String("gudang_id", input.GudangID),
		zap.String("stock", d.String()),
	)
	return nil
}

func (uc *inventoryUseCase) lock(ctx context.Context, key string) (func(), error) {
	if uc.locker == nil {
		return func() {}, nil
	}

	value := uuid.New().String()
	acquired := false
	for i := 0; i < uc.lockAttempts; i++ {
		ok, err := uc.locker.AcquireLock(ctx, key, value, 5*time.Second)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		if i == uc.lockAttempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(uc.lockBackoff):
		}
	}
	if !acquired {
		return nil, ErrBusy
	}

	return func() {
		if err := uc.locker.ReleaseLock(context.WithoutCancel(ctx), key, value); err != nil {
			uc.logger.Warn("failed to release lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (uc *inventoryUseCase) ListWarehouses(ctx context.Context, storeID int64) ([]model.Warehouse, error) {
	return uc.repo.ListWarehouses(ctx, storeID)
}

func variantKey(id *int64) int64 {
	if id == nil {
		return 0
	}
	return *id
}
