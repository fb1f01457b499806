package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/koperasihub/product-form-service/internal/model"
	"github.com/redis/go-redis/v9"
)

// RedisDraftRepository keeps drafts as JSON documents that expire on their own.
type RedisDraftRepository struct {
	client *redis.Client
}

func NewRedisDraftRepository(client *redis.Client) *RedisDraftRepository {
	return &RedisDraftRepository{client: client}
}

func draftKey(storeID int64, key string) string {
	return fmt.Sprintf("draft:%d:%s", storeID, key)
}

func (r *RedisDraftRepository) Save(ctx context.Context, d *model.ProductDraft, ttl time.Duration) error {
	data, err := json.Marshal(d)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, draftKey(d.StoreID, d.Key), data, ttl).Err()
}

func (r *RedisDraftRepository) Get(ctx context.Context, storeID int64, key string) (*model.ProductDraft, error) {
	data, err := r.client.Get(ctx, draftKey(storeID, key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var d model.ProductDraft
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("decode draft %s: %w", key, err)
	}
	return &d, nil
}

func (r *RedisDraftRepository) Delete(ctx context.Context, storeID int64, key string) error {
	return r.client.Del(ctx, draftKey(storeID, key)).Err()
}
