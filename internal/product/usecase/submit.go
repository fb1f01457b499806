package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/koperasihub/product-form-service/internal/hubapi"
	inventorydto "github.com/koperasihub/product-form-service/internal/inventory/dto"
	"github.com/koperasihub/product-form-service/internal/model"
	"github.com/koperasihub/product-form-service/internal/product"
	"github.com/koperasihub/product-form-service/internal/product/dto"
	"github.com/koperasihub/product-form-service/internal/upload"
	"github.com/koperasihub/product-form-service/internal/variant"
	"go.uber.org/zap"
)

const (
	EventProductSubmitted = "ProductSubmitted"

	statusSuccess = "success"
	statusFailed  = "failed"
)

// ProductSubmittedEvent is published once a submission went through completely.
type ProductSubmittedEvent struct {
	Event        string    `json:"event"`
	SubmissionID string    `json:"submission_id"`
	StoreID      int64     `json:"store_id"`
	ProductID    int64     `json:"product_id"`
	Created      bool      `json:"created"`
	VariantIDs   []int64   `json:"variant_ids"`
	UserID       string    `json:"user_id"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// submission carries the state of one SubmitProduct call. IDs obtained from
// the hub are written back into the draft so a retry after a partial
// failure updates instead of duplicating.
type submission struct {
	uc     *productUseCase
	id     string
	draft  *model.ProductDraft
	meta   upload.Meta
	result *dto.SubmitResult
	// valueIDs maps option name and value to the hub option value id.
	valueIDs map[string]int64
}

func (uc *productUseCase) SubmitProduct(ctx context.Context, input *dto.SubmitInput) (*dto.SubmitResult, error) {
	if input == nil || input.Draft == nil {
		return nil, product.ErrDraftRequired
	}
	d := input.Draft

	reconcile(d)
	if errs := validateSubmit(d, uc.cfg.MaxCombinations); len(errs) > 0 {
		return nil, errs
	}

	release, err := uc.lockSubmission(ctx, d)
	if err != nil {
		return nil, err
	}
	defer release()

	s := &submission{
		uc:    uc,
		id:    uuid.New().String(),
		draft: d,
		meta: upload.Meta{
			Role:    input.Role,
			UserID:  input.UserID,
			StoreID: d.StoreID,
		},
		result:   &dto.SubmitResult{},
		valueIDs: make(map[string]int64),
	}
	s.result.SubmissionID = s.id

	log := uc.logger.With(
		zap.String("submission_id", s.id),
		zap.Int64("store_id", d.StoreID),
	)

	if err := s.run(ctx); err != nil {
		log.Warn("product submission failed", zap.Int64("product_id", d.ProductID), zap.Error(err))
		if d.Key != "" {
			if _, saveErr := uc.SaveDraft(context.WithoutCancel(ctx), d); saveErr != nil {
				log.Error("failed to keep draft after failed submission", zap.Error(saveErr))
			}
		}
		return nil, err
	}

	if d.Key != "" {
		if err := uc.drafts.Delete(context.WithoutCancel(ctx), d.StoreID, d.Key); err != nil {
			log.Warn("failed to discard submitted draft", zap.String("key", d.Key), zap.Error(err))
		}
	}
	uc.publishSubmitted(ctx, s, input.UserID)

	log.Info("product submitted",
		zap.Int64("product_id", s.result.ProductID),
		zap.Bool("created", s.result.Created),
		zap.Int("variants", len(s.result.VariantIDs)),
		zap.Int("uploaded", s.result.Uploaded),
	)
	return s.result, nil
}

// lockSubmission makes a second submit of the same product fail fast while
// the first is still running.
func (uc *productUseCase) lockSubmission(ctx context.Context, d *model.ProductDraft) (func(), error) {
	noop := func() {}
	if uc.locker == nil {
		return noop, nil
	}

	var target string
	switch {
	case d.IsUpdate():
		target = strconv.FormatInt(d.ProductID, 10)
	case d.Key != "":
		target = d.Key
	default:
		return noop, nil
	}

	// Key: lock:submit:{storeID}:{productID or draft key}
	key := fmt.Sprintf("lock:submit:%d:%s", d.StoreID, target)
	value := uuid.New().String()
	ok, err := uc.locker.AcquireLock(ctx, key, value, uc.cfg.SubmitLockTTL)
	if err != nil {
		uc.logger.Error("failed to acquire submit lock, continuing unlocked", zap.String("key", key), zap.Error(err))
		return noop, nil
	}
	if !ok {
		return nil, product.ErrSubmissionInProgress
	}
	return func() {
		if err := uc.locker.ReleaseLock(context.WithoutCancel(ctx), key, value); err != nil {
			uc.logger.Warn("failed to release submit lock", zap.String("key", key), zap.Error(err))
		}
	}, nil
}

func (uc *productUseCase) publishSubmitted(ctx context.Context, s *submission, userID string) {
	if uc.publisher == nil {
		return
	}
	payload, err := json.Marshal(ProductSubmittedEvent{
		Event:        EventProductSubmitted,
		SubmissionID: s.id,
		StoreID:      s.draft.StoreID,
		ProductID:    s.result.ProductID,
		Created:      s.result.Created,
		VariantIDs:   s.result.VariantIDs,
		UserID:       userID,
		OccurredAt:   uc.now(),
	})
	if err != nil {
		uc.logger.Error("failed to encode submitted event", zap.Error(err))
		return
	}
	key := strconv.FormatInt(s.result.ProductID, 10)
	if err := uc.publisher.Publish(context.WithoutCancel(ctx), key, payload); err != nil {
		uc.logger.Error("failed to publish submitted event",
			zap.String("submission_id", s.id),
			zap.Int64("product_id", s.result.ProductID),
			zap.Error(err),
		)
	}
}

type step struct {
	name string
	fn   func(context.Context) error
}

func (s *submission) run(ctx context.Context) error {
	steps := []step{
		{product.StepUploadImages, s.uploadImages},
		{product.StepSaveProduct, s.saveProduct},
	}
	if s.draft.HasVariants {
		steps = append(steps,
			step{product.StepSaveOptions, s.saveOptions},
			step{product.StepUploadVariantImages, s.uploadVariantImages},
			step{product.StepSaveVariants, s.saveVariants},
		)
	} else {
		steps = append(steps, step{product.StepUpdateStock, s.updateSimpleStock})
	}

	for _, st := range steps {
		if err := ctx.Err(); err != nil {
			return &product.StepError{Step: st.name, Err: err}
		}
		if err := st.fn(ctx); err != nil {
			var stepErr *product.StepError
			if !errors.As(err, &stepErr) {
				stepErr = &product.StepError{Step: st.name, Err: err}
			}
			s.record(ctx, stepErr.Step, "", nil, stepErr.Err)
			return stepErr
		}
	}
	return nil
}

func (s *submission) uploadImages(ctx context.Context) error {
	meta := s.meta
	meta.Type = upload.TypeProduct
	n, err := s.uc.resolver.ResolveImages(ctx, s.draft.Images, meta)
	if err != nil {
		return err
	}
	s.result.Uploaded += n
	s.record(ctx, product.StepUploadImages, "image", nil, nil)
	return nil
}

func (s *submission) saveProduct(ctx context.Context) error {
	d := s.draft
	payload := &hubapi.ProductPayload{
		StoreID:       d.StoreID,
		ProductFields: d.Product,
	}
	for _, img := range d.Images {
		if img.Image.IsLocal() || img.Image.URL == "" {
			continue
		}
		payload.Images = append(payload.Images, hubapi.ImagePayload{
			ImageURL:     img.Image.URL,
			IsPrimary:    img.IsPrimary,
			DisplayOrder: img.DisplayOrder,
		})
	}

	if d.Duplicate {
		// A copy gets its own options and variants.
		for i := range d.Options {
			d.Options[i].ID = 0
		}
		for _, v := range d.Variants {
			if v != nil {
				v.ID = 0
			}
		}
	}

	var (
		id  int64
		err error
	)
	update := d.IsUpdate()
	if update {
		id, err = s.uc.api.UpdateProduct(ctx, d.ProductID, payload)
	} else {
		id, err = s.uc.api.CreateProduct(ctx, payload)
	}
	if err != nil {
		return err
	}

	d.ProductID = id
	d.Duplicate = false
	s.result.ProductID = id
	s.result.Created = !update
	s.record(ctx, product.StepSaveProduct, "product", &id, nil)
	return nil
}

func (s *submission) saveOptions(ctx context.Context) error {
	d := s.draft
	for i := range d.Options {
		opt := &d.Options[i]
		if !variant.IsValid(*opt) {
			continue
		}
		name := strings.TrimSpace(opt.Name)

		if opt.ID == 0 {
			id, err := s.uc.api.CreateOption(ctx, &hubapi.OptionPayload{
				StoreID:   d.StoreID,
				ProductID: d.ProductID,
				Name:      name,
			})
			if err != nil {
				return fmt.Errorf("option %s: %w", name, err)
			}
			opt.ID = id
			s.record(ctx, product.StepSaveOptions, "option", &id, nil)
		}

		existing, err := s.uc.api.ListOptionValues(ctx, hubapi.OptionValueFilter{OptionID: opt.ID, StoreID: d.StoreID})
		if err != nil {
			return fmt.Errorf("option %s values: %w", name, err)
		}
		for _, ov := range existing {
			if ov.ProductOptionID == 0 || ov.ProductOptionID == opt.ID {
				s.valueIDs[valueKey(name, ov.Value)] = ov.ID
			}
		}

		for _, value := range opt.Values {
			k := valueKey(name, value)
			if _, ok := s.valueIDs[k]; ok {
				continue
			}
			id, err := s.uc.api.CreateOptionValue(ctx, &hubapi.OptionValuePayload{
				StoreID:         d.StoreID,
				ProductOptionID: opt.ID,
				Value:           value,
			})
			if err != nil {
				return fmt.Errorf("option value %s %s: %w", name, value, err)
			}
			s.valueIDs[k] = id
			s.record(ctx, product.StepSaveOptions, "option_value", &id, nil)
		}
	}
	return nil
}

func (s *submission) uploadVariantImages(ctx context.Context) error {
	meta := s.meta
	meta.Type = upload.TypeVariant
	n, err := s.uc.resolver.ResolveVariantImages(ctx, s.draft.Variants, meta)
	if err != nil {
		return err
	}
	s.result.Uploaded += n
	if n > 0 {
		s.record(ctx, product.StepUploadVariantImages, "image", nil, nil)
	}
	return nil
}

func (s *submission) saveVariants(ctx context.Context) error {
	d := s.draft
	options := variant.ValidOptions(d.Options)

	for _, v := range d.Variants {
		if v == nil {
			continue
		}
		label := variant.Label(v.OptionValues)

		payload := &hubapi.VariantPayload{
			StoreID:        d.StoreID,
			ProductID:      d.ProductID,
			SKU:            v.SKU,
			Price:          v.Price,
			DiscountPrice:  v.DiscountPrice,
			Weight:         v.Weight,
			Image:          v.Image.URL,
			IsActive:       v.IsActive,
			OptionValueIDs: s.resolveValueIDs(options, v.OptionValues),
		}

		var err error
		id := v.ID
		if id != 0 {
			id, err = s.uc.api.UpdateVariant(ctx, v.ID, payload)
		} else {
			id, err = s.uc.api.CreateVariant(ctx, payload)
		}
		if err != nil {
			return fmt.Errorf("variant %s: %w", label, err)
		}
		v.ID = id
		s.result.VariantIDs = append(s.result.VariantIDs, id)
		s.record(ctx, product.StepSaveVariants, "variant", &id, nil)

		variantID := id
		err = s.uc.inventory.UpdateStock(ctx, &inventorydto.UpdateStockInput{
			StoreID:   d.StoreID,
			ProductID: d.ProductID,
			VariantID: &variantID,
			GudangID:  v.GudangID,
			Stock:     v.Stock,
		})
		if err != nil {
			return &product.StepError{Step: product.StepUpdateStock, Err: fmt.Errorf("variant %s: %w", label, err)}
		}
		s.record(ctx, product.StepUpdateStock, "variant", &variantID, nil)
	}
	return nil
}

// resolveValueIDs maps a combination to hub value ids. A reused variant may
// carry its values in an older option order, so each value goes to the
// option at its own position when that option has it, else to the first
// unclaimed option that does. Unknown values are skipped.
func (s *submission) resolveValueIDs(options []model.Option, values []string) []int64 {
	ids := make([]int64, 0, len(values))
	claimed := make([]bool, len(options))
	lookup := func(i int, value string) bool {
		if claimed[i] {
			return false
		}
		id, ok := s.valueIDs[valueKey(strings.TrimSpace(options[i].Name), value)]
		if ok {
			claimed[i] = true
			ids = append(ids, id)
		}
		return ok
	}

	for i, value := range values {
		if i < len(options) && lookup(i, value) {
			continue
		}
		for j := range options {
			if lookup(j, value) {
				break
			}
		}
	}
	return ids
}

func (s *submission) updateSimpleStock(ctx context.Context) error {
	d := s.draft
	err := s.uc.inventory.UpdateStock(ctx, &inventorydto.UpdateStockInput{
		StoreID:   d.StoreID,
		ProductID: d.ProductID,
		GudangID:  d.SimpleStock.GudangID,
		Stock:     d.SimpleStock.Stock,
	})
	if err != nil {
		return err
	}
	id := d.ProductID
	s.record(ctx, product.StepUpdateStock, "product", &id, nil)
	return nil
}

func (s *submission) record(ctx context.Context, step, entityType string, entityID *int64, err error) {
	e := &model.SubmissionEvent{
		SubmissionID: s.id,
		StoreID:      s.draft.StoreID,
		ProductID:    s.draft.ProductID,
		Step:         step,
		EntityType:   entityType,
		EntityID:     entityID,
		Status:       statusSuccess,
	}
	if err != nil {
		e.Status = statusFailed
		e.Message = err.Error()
	}
	s.uc.logEvent(ctx, e)
}

func valueKey(option, value string) string {
	return option + "\x00" + value
}
