package product

import (
	"errors"
	"fmt"
	"strings"

	"github.com/koperasihub/product-form-service/internal/hubapi"
)

var (
	ErrDraftNotFound        = errors.New("draft not found")
	ErrDraftRequired        = errors.New("draft is required")
	ErrProductRequired      = errors.New("product id is required")
	ErrSubmissionInProgress = errors.New("submission already in progress")
)

// Submission steps, in the order they run.
const (
	StepUploadImages        = "upload_images"
	StepSaveProduct         = "save_product"
	StepSaveOptions         = "save_options"
	StepUploadVariantImages = "upload_variant_images"
	StepSaveVariants        = "save_variants"
	StepUpdateStock         = "update_stock"
)

// ValidationError is a form problem caught before any remote call.
// MessageID and Data feed the translator; Message is the English fallback.
type ValidationError struct {
	Field       string         `json:"field"`
	Combination string         `json:"combination,omitempty"`
	MessageID   string         `json:"message_id"`
	Data        map[string]any `json:"data,omitempty"`
	Message     string         `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

type ValidationErrors []*ValidationError

func (ve ValidationErrors) Error() string {
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// StepError is a remote failure in the middle of a submission. Steps that
// completed before it stay committed.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%s: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}

// Reason extracts an operator-facing message: the hub's own message when
// there is one, otherwise an empty string so callers use their fallback.
func Reason(err error) string {
	var apiErr *hubapi.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

var ErrVariantNotFound = errors.New("variant not found in draft")
