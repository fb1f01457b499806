package product

import (
	"context"
	"time"

	"github.com/koperasihub/product-form-service/internal/model"
	"github.com/koperasihub/product-form-service/internal/product/dto"
)

// JournalRepository records how far each submission got. Nothing is rolled
// back on failure, so this is the operator's view of partial commits.
type JournalRepository interface {
	LogEvent(ctx context.Context, event *model.SubmissionEvent) error
	ListEvents(ctx context.Context, filters *dto.EventFilters) ([]model.SubmissionEvent, int, error)
}

// DraftRepository holds product forms between requests.
type DraftRepository interface {
	Save(ctx context.Context, draft *model.ProductDraft, ttl time.Duration) error
	// Get returns nil, nil when the draft does not exist or expired.
	Get(ctx context.Context, storeID int64, key string) (*model.ProductDraft, error)
	Delete(ctx context.Context, storeID int64, key string) error
}
