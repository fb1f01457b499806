package handler

import (
	"context"
	"errors"

	"github.com/koperasihub/product-form-service/internal/auth"
	"github.com/koperasihub/product-form-service/internal/inventory"
	"github.com/koperasihub/product-form-service/internal/inventory/dto"
	"github.com/koperasihub/product-form-service/internal/inventory/usecase"
	"github.com/koperasihub/product-form-service/internal/model"
	"github.com/koperasihub/product-form-service/pkg/grpcjson"
	"github.com/koperasihub/product-form-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "koperasihub.product.v1.InventoryService"

type UpdateStockRequest struct {
	ProductID int64  `json:"product_id"`
	VariantID *int64 `json:"product_variant_id,omitempty"`
	GudangID  string `json:"gudang_id"`
	Stock     string `json:"stock"`
}

type ListWarehousesResponse struct {
	Warehouses []model.Warehouse `json:"warehouses"`
}

type InventoryServer interface {
	UpdateStock(context.Context, *UpdateStockRequest) (*emptypb.Empty, error)
	ListWarehouses(context.Context, *emptypb.Empty) (*ListWarehousesResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InventoryServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "UpdateStock", Handler: grpcjson.Unary("/"+ServiceName+"/UpdateStock", InventoryServer.UpdateStock)},
		{MethodName: "ListWarehouses", Handler: grpcjson.Unary("/"+ServiceName+"/ListWarehouses", InventoryServer.ListWarehouses)},
	},
}

func Register(s grpc.ServiceRegistrar, srv InventoryServer) {
	s.RegisterService(&ServiceDesc, srv)
}

type InventoryHandler struct {
	uc     inventory.UseCase
	logger logger.ZapLogger
}

func NewInventoryHandler(uc inventory.UseCase, log logger.ZapLogger) *InventoryHandler {
	return &InventoryHandler{
		uc:     uc,
		logger: log,
	}
}

func (h *InventoryHandler) UpdateStock(ctx context.Context, req *UpdateStockRequest) (*emptypb.Empty, error) {
	storeID := auth.GetStoreID(ctx)
	if storeID == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing store")
	}
	if req.ProductID == 0 {
		return nil, status.Error(codes.InvalidArgument, "product_id is required")
	}

	err := h.uc.UpdateStock(ctx, &dto.UpdateStockInput{
		StoreID:   storeID,
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		GudangID:  req.GudangID,
		Stock:     req.Stock,
	})
	switch {
	case err == nil:
		return &emptypb.Empty{}, nil
	case errors.Is(err, usecase.ErrWarehouseMissing), errors.Is(err, usecase.ErrInvalidStock):
		return nil, status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, usecase.ErrBusy):
		return nil, status.Error(codes.Aborted, err.Error())
	default:
		h.logger.Error("failed to update stock", zap.Int64("product_id", req.ProductID), zap.Error(err))
		return nil, status.Error(codes.Unavailable, err.Error())
	}
}

func (h *InventoryHandler) ListWarehouses(ctx context.Context, _ *emptypb.Empty) (*ListWarehousesResponse, error) {
	storeID := auth.GetStoreID(ctx)
	if storeID == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing store")
	}

	warehouses, err := h.uc.ListWarehouses(ctx, storeID)
	if err != nil {
		h.logger.Error("failed to list warehouses", zap.Error(err))
		return nil, status.Error(codes.Unavailable, err.Error())
	}
	return &ListWarehousesResponse{Warehouses: warehouses}, nil
}
