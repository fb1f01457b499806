package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/koperasihub/product-form-service/internal/auth"
	"github.com/koperasihub/product-form-service/internal/hubapi"
	"github.com/koperasihub/product-form-service/internal/product"
	"github.com/koperasihub/product-form-service/internal/product/dto"
	"github.com/koperasihub/product-form-service/pkg/i18n"
	"github.com/koperasihub/product-form-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type ProductHandler struct {
	uc     product.UseCase
	tr     *i18n.Translator
	logger logger.ZapLogger
}

func NewProductHandler(uc product.UseCase, tr *i18n.Translator, log logger.ZapLogger) *ProductHandler {
	return &ProductHandler{
		uc:     uc,
		tr:     tr,
		logger: log,
	}
}

func (h *ProductHandler) PreviewVariants(ctx context.Context, req *DraftRequest) (*DraftResponse, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if req.Draft == nil {
		return nil, status.Error(codes.InvalidArgument, product.ErrDraftRequired.Error())
	}
	req.Draft.StoreID = user.StoreID

	d, err := h.uc.PreviewVariants(ctx, req.Draft)
	if err != nil {
		return nil, h.toStatus(user, err)
	}
	return &DraftResponse{Draft: d}, nil
}

// LoadProductDraft opens a persisted product for editing.
func (h *ProductHandler) LoadProductDraft(ctx context.Context, req *DraftRequest) (*DraftResponse, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if req.Draft == nil {
		return nil, status.Error(codes.InvalidArgument, product.ErrDraftRequired.Error())
	}
	req.Draft.StoreID = user.StoreID

	d, err := h.uc.LoadProductDraft(ctx, req.Draft)
	if err != nil {
		return nil, h.toStatus(user, err)
	}
	return &DraftResponse{Draft: d}, nil
}

func (h *ProductHandler) StageImages(ctx context.Context, req *StageImagesRequest) (*StageImagesResponse, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	res, err := h.uc.StageImages(ctx, &dto.StageImagesInput{
		StoreID:      user.StoreID,
		DraftKey:     req.DraftKey,
		VariantIndex: req.VariantIndex,
		Files:        req.Files,
	})
	if err != nil {
		return nil, h.toStatus(user, err)
	}

	rejected := make([]RejectedFile, 0, len(res.Rejected))
	for _, r := range res.Rejected {
		rejected = append(rejected, RejectedFile{
			Name:    r.Name,
			Reason:  r.Reason,
			Message: h.tr.T(user.Language, r.Reason, map[string]any{"Name": r.Name, "MaxKB": r.MaxKB}),
		})
	}
	return &StageImagesResponse{Draft: res.Draft, Rejected: rejected}, nil
}

func (h *ProductHandler) SaveDraft(ctx context.Context, req *DraftRequest) (*DraftResponse, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	if req.Draft == nil {
		return nil, status.Error(codes.InvalidArgument, product.ErrDraftRequired.Error())
	}
	req.Draft.StoreID = user.StoreID

	d, err := h.uc.SaveDraft(ctx, req.Draft)
	if err != nil {
		return nil, h.toStatus(user, err)
	}
	return &DraftResponse{Draft: d}, nil
}

func (h *ProductHandler) GetDraft(ctx context.Context, req *DraftKeyRequest) (*DraftResponse, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	d, err := h.uc.GetDraft(ctx, user.StoreID, req.Key)
	if err != nil {
		return nil, h.toStatus(user, err)
	}
	return &DraftResponse{Draft: d}, nil
}

func (h *ProductHandler) DiscardDraft(ctx context.Context, req *DraftKeyRequest) (*emptypb.Empty, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	if err := h.uc.DiscardDraft(ctx, user.StoreID, req.Key); err != nil {
		return nil, h.toStatus(user, err)
	}
	return &emptypb.Empty{}, nil
}

func (h *ProductHandler) SubmitProduct(ctx context.Context, req *SubmitRequest) (*SubmitResponse, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	draft := req.Draft
	if draft == nil {
		if req.DraftKey == "" {
			return nil, status.Error(codes.InvalidArgument, product.ErrDraftRequired.Error())
		}
		if draft, err = h.uc.GetDraft(ctx, user.StoreID, req.DraftKey); err != nil {
			return nil, h.toStatus(user, err)
		}
	}
	draft.StoreID = user.StoreID

	res, err := h.uc.SubmitProduct(ctx, &dto.SubmitInput{
		Draft:  draft,
		Role:   user.Role,
		UserID: user.UserID,
	})
	if err != nil {
		return nil, h.toStatus(user, err)
	}
	return &SubmitResponse{
		Result:  res,
		Message: h.tr.T(user.Language, "SubmissionSucceeded", nil),
	}, nil
}

func (h *ProductHandler) ListSubmissionEvents(ctx context.Context, req *ListSubmissionEventsRequest) (*ListSubmissionEventsResponse, error) {
	user, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	page, pageSize := req.Page, req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}

	events, total, err := h.uc.ListSubmissionEvents(ctx, &dto.EventFilters{
		StoreID:      user.StoreID,
		ProductID:    req.ProductID,
		SubmissionID: req.SubmissionID,
		Status:       req.Status,
		Since:        req.Since,
		Page:         page,
		PageSize:     pageSize,
	})
	if err != nil {
		h.logger.Error("failed to list submission events", zap.Error(err))
		return nil, status.Error(codes.Internal, h.tr.T(user.Language, "RequestFailed", nil))
	}

	return &ListSubmissionEventsResponse{
		Events:   events,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func caller(ctx context.Context) (auth.UserContext, error) {
	user := auth.FromContext(ctx)
	if user.StoreID == 0 {
		return user, status.Error(codes.Unauthenticated, "missing store")
	}
	return user, nil
}

// toStatus maps use case errors onto gRPC codes with a localized message.
func (h *ProductHandler) toStatus(user auth.UserContext, err error) error {
	lang := user.Language

	var verrs product.ValidationErrors
	var stepErr *product.StepError
	var apiErr *hubapi.APIError
	switch {
	case errors.As(err, &verrs):
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			msgs = append(msgs, h.tr.T(lang, e.MessageID, e.Data))
		}
		return status.Error(codes.InvalidArgument, strings.Join(msgs, "; "))

	case errors.Is(err, product.ErrSubmissionInProgress):
		return status.Error(codes.Aborted, h.tr.T(lang, "SubmissionInProgress", nil))

	case errors.Is(err, product.ErrDraftNotFound), errors.Is(err, product.ErrVariantNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, product.ErrDraftRequired), errors.Is(err, product.ErrProductRequired):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()

	case errors.As(err, &stepErr):
		reason := product.Reason(err)
		if reason == "" {
			reason = h.tr.T(lang, "RequestFailed", nil)
		}
		msg := h.tr.T(lang, "SubmissionFailed", map[string]any{"Step": stepErr.Step, "Reason": reason})

		code := codes.Unavailable
		if errors.As(err, &apiErr) {
			code = apiCode(apiErr)
		}
		h.logger.Warn("submission step failed", zap.String("step", stepErr.Step), zap.Error(err))
		return status.Error(code, msg)

	case errors.As(err, &apiErr):
		reason := apiErr.Message
		if reason == "" {
			reason = h.tr.T(lang, "RequestFailed", nil)
		}
		h.logger.Warn("hub request failed", zap.Int("status", apiErr.StatusCode), zap.Error(err))
		return status.Error(apiCode(apiErr), reason)
	}

	h.logger.Error("product request failed", zap.Error(err))
	return status.Error(codes.Internal, h.tr.T(lang, "RequestFailed", nil))
}

// apiCode treats hub 4xx answers as a rejected request and anything else
// as the hub being unavailable.
func apiCode(err *hubapi.APIError) codes.Code {
	if err.StatusCode >= http.StatusBadRequest && err.StatusCode < http.StatusInternalServerError {
		return codes.FailedPrecondition
	}
	return codes.Unavailable
}
