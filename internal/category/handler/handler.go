package handler

import (
	"context"
	"errors"

	"github.com/koperasihub/product-form-service/internal/auth"
	"github.com/koperasihub/product-form-service/internal/category"
	"github.com/koperasihub/product-form-service/internal/category/dto"
	"github.com/koperasihub/product-form-service/internal/model"
	"github.com/koperasihub/product-form-service/pkg/grpcjson"
	"github.com/koperasihub/product-form-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "koperasihub.product.v1.CategoryService"

type ListCategoriesRequest struct {
	Kind       string `json:"kind"`
	ParentID   *int64 `json:"parent_id,omitempty"`
	ActiveOnly bool   `json:"active_only"`
	Tree       bool   `json:"tree"`
	// Refresh drops the store's cached lists before reading.
	Refresh bool `json:"refresh"`
}

type ListCategoriesResponse struct {
	Categories []model.Category `json:"categories"`
	Total      int              `json:"total"`
}

type CategoryServer interface {
	ListCategories(context.Context, *ListCategoriesRequest) (*ListCategoriesResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CategoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListCategories", Handler: grpcjson.Unary("/"+ServiceName+"/ListCategories", CategoryServer.ListCategories)},
	},
}

func Register(s grpc.ServiceRegistrar, srv CategoryServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type CategoryHandler struct {
	uc     category.UseCase
	logger logger.ZapLogger
}

func NewCategoryHandler(uc category.UseCase, log logger.ZapLogger) *CategoryHandler {
	return &CategoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *CategoryHandler) ListCategories(ctx context.Context, req *ListCategoriesRequest) (*ListCategoriesResponse, error) {
	storeID := auth.GetStoreID(ctx)
	if storeID == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing store")
	}

	if req.Refresh {
		if err := h.uc.InvalidateCache(ctx, storeID); err != nil {
			h.logger.Warn("failed to invalidate category cache", zap.Int64("store_id", storeID), zap.Error(err))
		}
	}

	filters := &dto.CategoryFilters{
		StoreID:  storeID,
		Kind:     model.CategoryKind(req.Kind),
		ParentID: req.ParentID,
		AsTree:   req.Tree,
	}
	if req.ActiveOnly {
		active := true
		filters.IsActive = &active
	}

	cats, count, err := h.uc.ListCategories(ctx, filters)
	if err != nil {
		if errors.Is(err, category.ErrInvalidKind) {
			return nil, status.Error(codes.InvalidArgument, err.Error())
		}
		h.logger.Error("failed to list categories", zap.Error(err))
		return nil, status.Error(codes.Unavailable, err.Error())
	}

	return &ListCategoriesResponse{
		Categories: cats,
		Total:      count,
	}, nil
}
