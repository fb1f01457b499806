package handler

import (
	"time"

	"github.com/koperasihub/product-form-service/internal/model"
	"github.com/koperasihub/product-form-service/internal/product/dto"
)

type DraftRequest struct {
	Draft *model.ProductDraft `json:"draft"`
}

type DraftKeyRequest struct {
	Key string `json:"key"`
}

type DraftResponse struct {
	Draft *model.ProductDraft `json:"draft"`
}

type StageImagesRequest struct {
	DraftKey     string             `json:"draft_key"`
	VariantIndex *int               `json:"variant_index,omitempty"`
	Files        []*model.LocalFile `json:"files"`
}

type RejectedFile struct {
	Name    string `json:"name"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type StageImagesResponse struct {
	Draft    *model.ProductDraft `json:"draft"`
	Rejected []RejectedFile      `json:"rejected"`
}

// SubmitRequest carries either the draft itself or the key of a saved one.
type SubmitRequest struct {
	Draft    *model.ProductDraft `json:"draft,omitempty"`
	DraftKey string              `json:"draft_key,omitempty"`
}

type SubmitResponse struct {
	Result  *dto.SubmitResult `json:"result"`
	Message string            `json:"message"`
}

type ListSubmissionEventsRequest struct {
	ProductID    int64      `json:"product_id"`
	SubmissionID string     `json:"submission_id"`
	Status       string     `json:"status"`
	Since        *time.Time `json:"since,omitempty"`
	Page         int        `json:"page"`
	PageSize     int        `json:"page_size"`
}

type ListSubmissionEventsResponse struct {
	Events   []model.SubmissionEvent `json:"events"`
	Total    int                     `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
}
