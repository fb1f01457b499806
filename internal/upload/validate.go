package upload

import (
	"net/http"

	"github.com/koperasihub/product-form-service/internal/model"
)

const DefaultMaxBytes = 2 << 20

var allowedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Rejection explains why one picked file was refused. Reason is an i18n message id.
type Rejection struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
	MaxKB  int    `json:"max_kb,omitempty"`
}

const (
	ReasonInvalidType = "UploadInvalidType"
	ReasonTooLarge    = "UploadTooLarge"
	// A variant holds one image; extra files picked for it are refused.
	ReasonSingleImage = "UploadSingleImage"
)

// Validate sniffs the content instead of trusting the declared type.
func Validate(file *model.LocalFile, maxBytes int) *Rejection {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	if len(file.Data) == 0 || !allowedTypes[http.DetectContentType(file.Data)] {
		return &Rejection{Name: file.Name, Reason: ReasonInvalidType}
	}
	if len(file.Data) > maxBytes {
		return &Rejection{Name: file.Name, Reason: ReasonTooLarge, MaxKB: maxBytes >> 10}
	}
	return nil
}

// Stage splits picked files into accepted and rejected ones. A bad file
// never blocks the others.
func Stage(files []*model.LocalFile, maxBytes int) ([]*model.LocalFile, []Rejection) {
	accepted := make([]*model.LocalFile, 0, len(files))
	var rejected []Rejection
	for _, f := range files {
		if f == nil {
			continue
		}
		if r := Validate(f, maxBytes); r != nil {
			rejected = append(rejected, *r)
			continue
		}
		if f.ContentType == "" {
			f.ContentType = http.DetectContentType(f.Data)
		}
		accepted = append(accepted, f)
	}
	return accepted, rejected
}
