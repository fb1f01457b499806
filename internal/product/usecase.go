package product

import (
	"context"

	"github.com/koperasihub/product-form-service/internal/hubapi"
	"github.com/koperasihub/product-form-service/internal/model"
	"github.com/koperasihub/product-form-service/internal/product/dto"
)

type UseCase interface {
	// Form state
	PreviewVariants(ctx context.Context, draft *model.ProductDraft) (*model.ProductDraft, error)
	LoadProductDraft(ctx context.Context, draft *model.ProductDraft) (*model.ProductDraft, error)
	StageImages(ctx context.Context, input *dto.StageImagesInput) (*dto.StageImagesResult, error)
	SaveDraft(ctx context.Context, draft *model.ProductDraft) (*model.ProductDraft, error)
	GetDraft(ctx context.Context, storeID int64, key string) (*model.ProductDraft, error)
	DiscardDraft(ctx context.Context, storeID int64, key string) error

	// Submission
	SubmitProduct(ctx context.Context, input *dto.SubmitInput) (*dto.SubmitResult, error)
	ListSubmissionEvents(ctx context.Context, filters *dto.EventFilters) ([]model.SubmissionEvent, int, error)
}

// CatalogAPI is the slice of the hub API the product form drives.
type CatalogAPI interface {
	CreateProduct(ctx context.Context, p *hubapi.ProductPayload) (int64, error)
	UpdateProduct(ctx context.Context, id int64, p *hubapi.ProductPayload) (int64, error)
	CreateOption(ctx context.Context, p *hubapi.OptionPayload) (int64, error)
	ListOptionValues(ctx context.Context, f hubapi.OptionValueFilter) ([]model.OptionValue, error)
	CreateOptionValue(ctx context.Context, p *hubapi.OptionValuePayload) (int64, error)
	ListVariants(ctx context.Context, productID int64) ([]*model.Variant, error)
	CreateVariant(ctx context.Context, p *hubapi.VariantPayload) (int64, error)
	UpdateVariant(ctx context.Context, id int64, p *hubapi.VariantPayload) (int64, error)
}
