package handler

import (
	"context"
	"fmt"
	"net"
	"testing"

	"github.com/koperasihub/product-form-service/internal/hubapi"
	"github.com/koperasihub/product-form-service/internal/model"
	"github.com/koperasihub/product-form-service/internal/product"
	"github.com/koperasihub/product-form-service/internal/product/dto"
	"github.com/koperasihub/product-form-service/internal/upload"
	"github.com/koperasihub/product-form-service/pkg/grpcjson"
	"github.com/koperasihub/product-form-service/pkg/i18n"
	"github.com/koperasihub/product-form-service/pkg/logger"
	"github.com/koperasihub/product-form-service/pkg/middleware"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
)

type stubUseCase struct {
	product.UseCase
	err       error
	submitted *dto.SubmitInput
	drafts    map[string]*model.ProductDraft
	discarded string
}

func (s *stubUseCase) PreviewVariants(ctx context.Context, d *model.ProductDraft) (*model.ProductDraft, error) {
	return d, s.err
}

func (s *stubUseCase) LoadProductDraft(ctx context.Context, d *model.ProductDraft) (*model.ProductDraft, error) {
	if s.err != nil {
		return nil, s.err
	}
	d.Variants = []*model.Variant{{ID: 301, OptionValues: []string{"Merah"}}}
	return d, nil
}

func (s *stubUseCase) StageImages(ctx context.Context, in *dto.StageImagesInput) (*dto.StageImagesResult, error) {
	return &dto.StageImagesResult{
		Draft:    &model.ProductDraft{Key: in.DraftKey, StoreID: in.StoreID},
		Rejected: []upload.Rejection{{Name: "big.png", Reason: upload.ReasonTooLarge, MaxKB: 2048}},
	}, nil
}

func (s *stubUseCase) GetDraft(ctx context.Context, storeID int64, key string) (*model.ProductDraft, error) {
	if d, ok := s.drafts[key]; ok && d.StoreID == storeID {
		return d, nil
	}
	return nil, product.ErrDraftNotFound
}

func (s *stubUseCase) DiscardDraft(ctx context.Context, storeID int64, key string) error {
	s.discarded = key
	return nil
}

func (s *stubUseCase) SubmitProduct(ctx context.Context, in *dto.SubmitInput) (*dto.SubmitResult, error) {
	s.submitted = in
	if s.err != nil {
		return nil, s.err
	}
	return &dto.SubmitResult{ProductID: 9, Created: true}, nil
}

func dial(t *testing.T, uc product.UseCase) *grpc.ClientConn {
	t.Helper()
	tr, err := i18n.New("en")
	if err != nil {
		t.Fatalf("i18n: %v", err)
	}

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(middleware.ContextInterceptor()))
	Register(srv, NewProductHandler(uc, tr, logger.NewNop()))
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func withStore(lang string) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(),
		"x-store-id", "7",
		"x-user-id", "u-1",
		"x-role", "vendor",
		"accept-language", lang,
	)
}

func TestSubmitErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		lang string
		code codes.Code
		msg  string
	}{
		{
			name: "validation is localized",
			err:  product.ValidationErrors{{MessageID: "ValidationNoImages", Message: "Add at least one product image"}},
			lang: "id",
			code: codes.InvalidArgument,
			msg:  "Tambahkan minimal satu foto produk",
		},
		{
			name: "variant validation names the combination",
			err: product.ValidationErrors{{
				MessageID: "ValidationVariantFieldRequired",
				Data:      map[string]any{"Combination": "Biru", "Field": "image"},
			}},
			lang: "en",
			code: codes.InvalidArgument,
			msg:  "Variant Biru: image is required",
		},
		{
			name: "hub rejection keeps its message",
			err:  &product.StepError{Step: product.StepSaveProduct, Err: &hubapi.APIError{StatusCode: 422, Message: "SKU sudah digunakan"}},
			lang: "en",
			code: codes.FailedPrecondition,
			msg:  "Saving the product failed while save_product: SKU sudah digunakan",
		},
		{
			name: "transport failure falls back",
			err:  &product.StepError{Step: product.StepUploadImages, Err: context.DeadlineExceeded},
			lang: "en",
			code: codes.DeadlineExceeded,
		},
		{
			name: "server error is unavailable",
			err:  &product.StepError{Step: product.StepUpdateStock, Err: &hubapi.APIError{StatusCode: 502, Message: "request failed"}},
			lang: "en",
			code: codes.Unavailable,
			msg:  "Saving the product failed while update_stock: request failed",
		},
		{
			name: "concurrent submit",
			err:  product.ErrSubmissionInProgress,
			lang: "en",
			code: codes.Aborted,
			msg:  "This product is already being saved, please wait",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &stubUseCase{err: tt.err}
			conn := dial(t, uc)

			var resp SubmitResponse
			err := grpcjson.Invoke(withStore(tt.lang), conn, method("SubmitProduct"), &SubmitRequest{Draft: &model.ProductDraft{}}, &resp)
			st, _ := status.FromError(err)
			if st.Code() != tt.code {
				t.Fatalf("code %s want %s (%v)", st.Code(), tt.code, err)
			}
			if tt.msg != "" && st.Message() != tt.msg {
				t.Fatalf("message %q want %q", st.Message(), tt.msg)
			}
		})
	}
}

func TestSubmitFromSavedDraft(t *testing.T) {
	uc := &stubUseCase{drafts: map[string]*model.ProductDraft{"k1": {Key: "k1", StoreID: 7}}}
	conn := dial(t, uc)

	var resp SubmitResponse
	if err := grpcjson.Invoke(withStore("en"), conn, method("SubmitProduct"), &SubmitRequest{DraftKey: "k1"}, &resp); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if resp.Result == nil || resp.Result.ProductID != 9 || resp.Message != "Product saved" {
		t.Fatalf("unexpected response %+v", resp)
	}
	if uc.submitted.Role != "vendor" || uc.submitted.UserID != "u-1" || uc.submitted.Draft.Key != "k1" {
		t.Fatalf("caller identity not forwarded: %+v", uc.submitted)
	}

	err := grpcjson.Invoke(withStore("en"), conn, method("SubmitProduct"), &SubmitRequest{DraftKey: "missing"}, &resp)
	if status.Code(err) != codes.NotFound {
		t.Fatalf("expected not found got %v", err)
	}
}

func TestMissingStoreIsUnauthenticated(t *testing.T) {
	conn := dial(t, &stubUseCase{})

	var resp DraftResponse
	err := grpcjson.Invoke(context.Background(), conn, method("PreviewVariants"), &DraftRequest{Draft: &model.ProductDraft{}}, &resp)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected unauthenticated got %v", err)
	}
}

func TestPreviewForcesCallerStore(t *testing.T) {
	conn := dial(t, &stubUseCase{})

	var resp DraftResponse
	err := grpcjson.Invoke(withStore("en"), conn, method("PreviewVariants"), &DraftRequest{Draft: &model.ProductDraft{StoreID: 99}}, &resp)
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if resp.Draft.StoreID != 7 {
		t.Fatalf("store id should come from metadata, got %d", resp.Draft.StoreID)
	}
}

func TestStageImagesLocalizesRejections(t *testing.T) {
	conn := dial(t, &stubUseCase{})

	var resp StageImagesResponse
	if err := grpcjson.Invoke(withStore("id"), conn, method("StageImages"), &StageImagesRequest{DraftKey: "k1"}, &resp); err != nil {
		t.Fatalf("stage: %v", err)
	}
	if len(resp.Rejected) != 1 || resp.Rejected[0].Message != "big.png: ukuran gambar melebihi 2048 KB" {
		t.Fatalf("unexpected rejections %+v", resp.Rejected)
	}
}

func TestDiscardDraftReturnsEmpty(t *testing.T) {
	uc := &stubUseCase{}
	conn := dial(t, uc)

	var resp emptypb.Empty
	if err := grpcjson.Invoke(withStore("en"), conn, method("DiscardDraft"), &DraftKeyRequest{Key: "k1"}, &resp); err != nil {
		t.Fatalf("discard: %v", err)
	}
	if uc.discarded != "k1" {
		t.Fatalf("discard not forwarded")
	}
}

func TestLoadProductDraft(t *testing.T) {
	conn := dial(t, &stubUseCase{})

	var resp DraftResponse
	err := grpcjson.Invoke(withStore("en"), conn, method("LoadProductDraft"), &DraftRequest{Draft: &model.ProductDraft{StoreID: 99, ProductID: 42}}, &resp)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resp.Draft.StoreID != 7 || len(resp.Draft.Variants) != 1 || resp.Draft.Variants[0].ID != 301 {
		t.Fatalf("unexpected draft %+v", resp.Draft)
	}
}

func TestLoadProductDraftErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
		msg  string
	}{
		{"missing product id", product.ErrProductRequired, codes.InvalidArgument, "product id is required"},
		{"hub rejection", fmt.Errorf("load variants: %w", &hubapi.APIError{StatusCode: 404, Message: "Produk tidak ditemukan"}), codes.FailedPrecondition, "Produk tidak ditemukan"},
		{"hub down", &hubapi.APIError{StatusCode: 503}, codes.Unavailable, "Request failed, please try again"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := dial(t, &stubUseCase{err: tt.err})

			var resp DraftResponse
			err := grpcjson.Invoke(withStore("en"), conn, method("LoadProductDraft"), &DraftRequest{Draft: &model.ProductDraft{}}, &resp)
			st, _ := status.FromError(err)
			if st.Code() != tt.code || st.Message() != tt.msg {
				t.Fatalf("got %s %q want %s %q", st.Code(), st.Message(), tt.code, tt.msg)
			}
		})
	}
}
