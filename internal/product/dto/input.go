package dto

import (
	"github.com/koperasihub/product-form-service/internal/model"
	"github.com/koperasihub/product-form-service/internal/upload"
)

type StageImagesInput struct {
	StoreID  int64
	DraftKey string
	// VariantIndex selects a variant image slot; nil targets the product gallery.
	VariantIndex *int
	Files        []*model.LocalFile
}

type StageImagesResult struct {
	Draft    *model.ProductDraft
	Rejected []upload.Rejection
}

type SubmitInput struct {
	Draft  *model.ProductDraft
	Role   string
	UserID string
}

type SubmitResult struct {
	SubmissionID string  `json:"submission_id"`
	ProductID    int64   `json:"product_id"`
	Created      bool    `json:"created"`
	VariantIDs   []int64 `json:"variant_ids"`
	Uploaded     int     `json:"uploaded"`
}
