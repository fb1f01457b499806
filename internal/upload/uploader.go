// Package upload turns locally held images into remote URLs. Images stay
// as in-memory blobs in the draft until the product is submitted.
package upload

import (
	"context"

	"github.com/koperasihub/product-form-service/internal/hubapi"
	"github.com/koperasihub/product-form-service/internal/model"
)

const (
	TypeProduct = "product"
	TypeVariant = "variant"
)

// Meta travels with every upload so the file store can attribute it.
type Meta struct {
	Role    string
	UserID  string
	StoreID int64
	Type    string
}

type Uploader interface {
	Upload(ctx context.Context, file *model.LocalFile, meta Meta) (string, error)
}

type fileStore interface {
	Upload(ctx context.Context, r *hubapi.UploadRequest) (string, error)
}

// HubUploader stores files through the hub's own upload endpoint.
type HubUploader struct {
	store fileStore
}

func NewHubUploader(store fileStore) *HubUploader {
	return &HubUploader{store: store}
}

func (u *HubUploader) Upload(ctx context.Context, file *model.LocalFile, meta Meta) (string, error) {
	return u.store.Upload(ctx, &hubapi.UploadRequest{
		File:    file,
		Role:    meta.Role,
		UserID:  meta.UserID,
		StoreID: meta.StoreID,
		Type:    meta.Type,
	})
}
