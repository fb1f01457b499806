package repository

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/koperasihub/product-form-service/internal/model"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryDraftRepository is the single-process fallback used when Redis is
// not configured. Drafts are stored encoded so callers never share state.
type MemoryDraftRepository struct {
	mu      sync.Mutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryDraftRepository() *MemoryDraftRepository {
	return &MemoryDraftRepository{entries: make(map[string]memoryEntry), now: time.Now}
}

func (r *MemoryDraftRepository) Save(ctx context.Context, d *model.ProductDraft, ttl time.Duration) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = r.now().Add(ttl)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[draftKey(d.StoreID, d.Key)] = memoryEntry{data: data, expiresAt: expiresAt}
	return nil
}

func (r *MemoryDraftRepository) Get(ctx context.Context, storeID int64, key string) (*model.ProductDraft, error) {
	k := draftKey(storeID, key)

	r.mu.Lock()
	entry, ok := r.entries[k]
	if ok && !entry.expiresAt.IsZero() && !r.now().Before(entry.expiresAt) {
		delete(r.entries, k)
		ok = false
	}
	r.mu.Unlock()

	if !ok {
		return nil, nil
	}
	var d model.ProductDraft
	if err := json.Unmarshal(entry.data, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *MemoryDraftRepository) Delete(ctx context.Context, storeID int64, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.entries, draftKey(storeID, key))
	return nil
}
