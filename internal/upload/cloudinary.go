package upload

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/koperasihub/product-form-service/internal/model"
)

type CloudinaryConfig struct {
	CloudName string
	APIKey    string
	APISecret string
	Folder    string
}

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cfg *CloudinaryConfig) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, err
	}
	folder := cfg.Folder
	if folder == "" {
		folder = "koperasihub"
	}
	return &CloudinaryUploader{cld: cld, folder: folder}, nil
}

// Upload stores the file under <folder>/<store>/<type> and returns the secure URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, file *model.LocalFile, meta Meta) (string, error) {
	unique := true
	overwrite := false
	params := uploader.UploadParams{
		Folder:         path.Join(u.folder, strconv.FormatInt(meta.StoreID, 10), meta.Type),
		ResourceType:   "image",
		UniqueFilename: &unique,
		Overwrite:      &overwrite,
	}
	if name := strings.TrimSuffix(file.Name, path.Ext(file.Name)); name != "" {
		params.PublicID = name
	}

	result, err := u.cld.Upload.Upload(ctx, bytes.NewReader(file.Data), params)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload %s: %w", file.Name, err)
	}
	if result.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload %s: %s", file.Name, result.Error.Message)
	}
	if result.SecureURL == "" {
		return "", fmt.Errorf("cloudinary upload %s: no url returned", file.Name)
	}
	return result.SecureURL, nil
}
