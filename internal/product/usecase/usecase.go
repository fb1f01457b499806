package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/koperasihub/product-form-service/internal/inventory"
	"github.com/koperasihub/product-form-service/internal/model"
	"github.com/koperasihub/product-form-service/internal/product"
	"github.com/koperasihub/product-form-service/internal/product/dto"
	"github.com/koperasihub/product-form-service/internal/upload"
	"github.com/koperasihub/product-form-service/internal/variant"
	"github.com/koperasihub/product-form-service/pkg/cache"
	"github.com/koperasihub/product-form-service/pkg/logger"
	"go.uber.org/zap"
)

// EventPublisher is satisfied by *broker.KafkaProducer.
type EventPublisher interface {
	Publish(ctx context.Context, key string, value []byte) error
}

type Config struct {
	DraftTTL        time.Duration
	MaxCombinations int // 0 means unlimited
	UploadMaxBytes  int
	SubmitLockTTL   time.Duration
}

// Dependencies groups collaborators. Journal, Locker and Publisher may be nil.
type Dependencies struct {
	API       product.CatalogAPI
	Inventory inventory.UseCase
	Resolver  *upload.Resolver
	Drafts    product.DraftRepository
	Journal   product.JournalRepository
	Locker    cache.Locker
	Publisher EventPublisher
	Logger    logger.ZapLogger
}

type productUseCase struct {
	api       product.CatalogAPI
	inventory inventory.UseCase
	resolver  *upload.Resolver
	drafts    product.DraftRepository
	journal   product.JournalRepository
	locker    cache.Locker
	publisher EventPublisher
	logger    logger.ZapLogger
	cfg       Config
	now       func() time.Time
}

func NewProductUseCase(deps Dependencies, cfg Config) product.UseCase {
	if cfg.DraftTTL <= 0 {
		cfg.DraftTTL = 24 * time.Hour
	}
	if cfg.SubmitLockTTL <= 0 {
		cfg.SubmitLockTTL = 2 * time.Minute
	}
	return &productUseCase{
		api:       deps.API,
		inventory: deps.Inventory,
		resolver:  deps.Resolver,
		drafts:    deps.Drafts,
		journal:   deps.Journal,
		locker:    deps.Locker,
		publisher: deps.Publisher,
		logger:    deps.Logger,
		cfg:       cfg,
		now:       time.Now,
	}
}

// PreviewVariants regenerates the variant list from the draft's options,
// keeping the operator's edits for combinations that still exist.
func (uc *productUseCase) PreviewVariants(ctx context.Context, draft *model.ProductDraft) (*model.ProductDraft, error) {
	if draft == nil {
		return nil, product.ErrDraftRequired
	}
	if errs := checkOptions(draft, uc.cfg.MaxCombinations); len(errs) > 0 {
		return nil, errs
	}
	reconcile(draft)
	return draft, nil
}

// LoadProductDraft fills the draft of a persisted product with the hub's
// variants, ids included, and stores it. The hub does not return stock, so
// stock and warehouse carry over from a draft variant with the same option
// values; other variants get the draft warehouse and an empty stock.
func (uc *productUseCase) LoadProductDraft(ctx context.Context, draft *model.ProductDraft) (*model.ProductDraft, error) {
	if draft == nil {
		return nil, product.ErrDraftRequired
	}
	if draft.ProductID == 0 {
		return nil, product.ErrProductRequired
	}

	loaded, err := uc.api.ListVariants(ctx, draft.ProductID)
	if err != nil {
		return nil, fmt.Errorf("load variants of product %d: %w", draft.ProductID, err)
	}

	combos := make([][]string, len(loaded))
	for i, v := range loaded {
		combos[i] = v.OptionValues
	}
	edited := make(map[*model.Variant]bool, len(draft.Variants))
	for _, v := range draft.Variants {
		edited[v] = true
	}
	for i, match := range variant.Reconcile(combos, draft.Variants, variant.Defaults{}) {
		v := loaded[i]
		if edited[match] {
			v.GudangID, v.Stock = match.GudangID, match.Stock
			continue
		}
		v.GudangID = draft.SimpleStock.GudangID
	}

	draft.Variants = loaded
	if len(loaded) > 0 {
		draft.HasVariants = true
	}
	if len(variant.ValidOptions(draft.Options)) > 0 {
		if errs := checkOptions(draft, uc.cfg.MaxCombinations); len(errs) > 0 {
			return nil, errs
		}
		reconcile(draft)
	}

	uc.logger.Debug("loaded product draft",
		zap.Int64("store_id", draft.StoreID),
		zap.Int64("product_id", draft.ProductID),
		zap.Int("variants", len(loaded)),
	)
	return uc.SaveDraft(ctx, draft)
}

func reconcile(d *model.ProductDraft) {
	if !d.HasVariants {
		return
	}
	d.Variants = variant.Reconcile(variant.Combinations(d.Options), d.Variants, variant.Defaults{
		BaseSKU:  d.Product.SKU,
		Price:    d.Product.Price,
		Weight:   d.Product.Weight,
		GudangID: d.SimpleStock.GudangID,
	})
}

func (uc *productUseCase) StageImages(ctx context.Context, input *dto.StageImagesInput) (*dto.StageImagesResult, error) {
	draft, err := uc.GetDraft(ctx, input.StoreID, input.DraftKey)
	if err != nil {
		return nil, err
	}

	accepted, rejected := upload.Stage(input.Files, uc.cfg.UploadMaxBytes)

	if input.VariantIndex != nil {
		idx := *input.VariantIndex
		if idx < 0 || idx >= len(draft.Variants) || draft.Variants[idx] == nil {
			return nil, fmt.Errorf("%w: index %d", product.ErrVariantNotFound, idx)
		}
		if len(accepted) > 0 {
			draft.Variants[idx].Image = model.LocalImage(accepted[0])
			for _, f := range accepted[1:] {
				rejected = append(rejected, upload.Rejection{Name: f.Name, Reason: upload.ReasonSingleImage})
			}
		}
	} else {
		appendGallery(draft, accepted)
	}

	if len(accepted) > 0 {
		if draft, err = uc.SaveDraft(ctx, draft); err != nil {
			return nil, err
		}
	}
	return &dto.StageImagesResult{Draft: draft, Rejected: rejected}, nil
}

// appendGallery adds files after the existing images. The first image of
// an otherwise primary-less gallery becomes primary.
func appendGallery(d *model.ProductDraft, files []*model.LocalFile) {
	hasPrimary := false
	next := 0
	for _, img := range d.Images {
		hasPrimary = hasPrimary || img.IsPrimary
		if img.DisplayOrder >= next {
			next = img.DisplayOrder + 1
		}
	}
	for _, f := range files {
		d.Images = append(d.Images, model.ProductImage{
			Image:        model.LocalImage(f),
			IsPrimary:    !hasPrimary,
			DisplayOrder: next,
		})
		hasPrimary = true
		next++
	}
}

func (uc *productUseCase) SaveDraft(ctx context.Context, draft *model.ProductDraft) (*model.ProductDraft, error) {
	if draft == nil {
		return nil, product.ErrDraftRequired
	}
	if draft.Key == "" {
		draft.Key = uuid.New().String()
	}
	draft.UpdatedAt = uc.now()

	if err := uc.drafts.Save(ctx, draft, uc.cfg.DraftTTL); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}
	return draft, nil
}

func (uc *productUseCase) GetDraft(ctx context.Context, storeID int64, key string) (*model.ProductDraft, error) {
	draft, err := uc.drafts.Get(ctx, storeID, key)
	if err != nil {
		return nil, err
	}
	if draft == nil {
		return nil, product.ErrDraftNotFound
	}
	return draft, nil
}

func (uc *productUseCase) DiscardDraft(ctx context.Context, storeID int64, key string) error {
	return uc.drafts.Delete(ctx, storeID, key)
}

func (uc *productUseCase) ListSubmissionEvents(ctx context.Context, filters *dto.EventFilters) ([]model.SubmissionEvent, int, error) {
	if uc.journal == nil {
		return []model.SubmissionEvent{}, 0, nil
	}
	return uc.journal.ListEvents(ctx, filters)
}

func (uc *productUseCase) logEvent(ctx context.Context, e *model.SubmissionEvent) {
	if uc.journal == nil {
		return
	}
	e.ID = uuid.New().String()
	e.CreatedAt = uc.now()
	if err := uc.journal.LogEvent(context.WithoutCancel(ctx), e); err != nil {
		uc.logger.Error("failed to journal submission step",
			zap.String("submission_id", e.SubmissionID),
			zap.String("step", e.Step),
			zap.Error(err),
		)
	}
}
