package usecase

import (
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"time"

	"github.com/koperasihub/product-form-service/internal/category"
	"github.com/koperasihub/product-form-service/internal/category/dto"
	"github.com/koperasihub/product-form-service/internal/model"
	"github.com/koperasihub/product-form-service/pkg/cache"
	"github.com/koperasihub/product-form-service/pkg/logger"
	"go.uber.org/zap"
)

const cacheTTL = 5 * time.Minute

type categoryUseCase struct {
	repo   category.Repository
	cache  cache.Store
	logger logger.ZapLogger
}

// NewCategoryUseCase accepts a nil cache; every call then goes to the hub.
func NewCategoryUseCase(repo category.Repository, store cache.Store, log logger.ZapLogger) category.UseCase {
	return &categoryUseCase{
		repo:   repo,
		cache:  store,
		logger: log,
	}
}

type cachedList struct {
	Categories []model.Category
	Count      int
}

func (uc *categoryUseCase) ListCategories(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error) {
	if filters.Kind == "" {
		filters.Kind = model.CategoryProduct
	}
	if filters.Kind != model.CategoryProduct && filters.Kind != model.CategoryGeneral {
		return nil, 0, category.ErrInvalidKind
	}

	// 1. Cache
	cacheKey, err := generateCacheKey(filters)
	if err == nil && uc.cache != nil {
		data, found, err := uc.cache.GetBytes(ctx, cacheKey)
		if err != nil {
			uc.logger.Warn("category cache read failed", zap.String("key", cacheKey), zap.Error(err))
		}
		if found {
			var hit cachedList
			if err := json.Unmarshal(data, &hit); err == nil {
				return hit.Categories, hit.Count, nil
			}
		}
	}

	// 2. Hub
	all, err := uc.repo.ListCategories(ctx, filters.StoreID, filters.Kind)
	if err != nil {
		return nil, 0, err
	}

	categories := filter(all, filters)
	if filters.AsTree {
		categories = buildTree(categories)
	}
	count := len(categories)

	// 3. Fill cache
	if cacheKey != "" && uc.cache != nil {
		if data, err := json.Marshal(cachedList{Categories: categories, Count: count}); err == nil {
			if err := uc.cache.SetBytes(ctx, cacheKey, data, cacheTTL); err != nil {
				uc.logger.Warn("category cache write failed", zap.String("key", cacheKey), zap.Error(err))
			}
		}
	}
	return categories, count, nil
}

// InvalidateCache drops every cached list of the store.
func (uc *categoryUseCase) InvalidateCache(ctx context.Context, storeID int64) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.DeletePattern(ctx, fmt.Sprintf("categories:list:%d:*", storeID))
}

func generateCacheKey(filters *dto.CategoryFilters) (string, error) {
	data, err := json.Marshal(filters)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("categories:list:%d:%x", filters.StoreID, md5.Sum(data)), nil
}

func filter(all []model.Category, f *dto.CategoryFilters) []model.Category {
	out := make([]model.Category, 0, len(all))
	for _, c := range all {
		if f.IsActive != nil && c.IsActive != *f.IsActive {
			continue
		}
		if f.ParentID != nil && !f.AsTree {
			if *f.ParentID == 0 && c.ParentID != nil && *c.ParentID != 0 {
				continue
			}
			if *f.ParentID != 0 && (c.ParentID == nil || *c.ParentID != *f.ParentID) {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// buildTree nests categories under their parents, keeping input order.
// Categories whose parent is missing from the list become roots.
func buildTree(flat []model.Category) []model.Category {
	present := make(map[int64]bool, len(flat))
	children := make(map[int64][]model.Category, len(flat))
	for _, c := range flat {
		present[c.ID] = true
	}

	var roots []model.Category
	for _, c := range flat {
		c.Children = nil
		if c.ParentID != nil && *c.ParentID != 0 && *c.ParentID != c.ID && present[*c.ParentID] {
			children[*c.ParentID] = append(children[*c.ParentID], c)
			continue
		}
		roots = append(roots, c)
	}

	visited := make(map[int64]bool, len(flat))
	var attach func(c model.Category) model.Category
	attach = func(c model.Category) model.Category {
		if visited[c.ID] {
			return c
		}
		visited[c.ID] = true
		for _, child := range children[c.ID] {
			c.Children = append(c.Children, attach(child))
		}
		return c
	}

	out := make([]model.Category, 0, len(roots))
	for _, r := range roots {
		out = append(out, attach(r))
	}
	return out
}
