package upload

import (
	"context"
	"fmt"

	"github.com/koperasihub/product-form-service/internal/model"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 4

// Resolver uploads every local image of a batch and swaps in the remote URL.
// Uploads within a batch run concurrently; the batch fails as a whole.
type Resolver struct {
	uploader Uploader
	limit    int
}

func NewResolver(u Uploader, concurrency int) *Resolver {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Resolver{uploader: u, limit: concurrency}
}

// ResolveImages replaces local product images in place, keeping the
// primary flag and display order. It returns the number of uploads.
func (r *Resolver) ResolveImages(ctx context.Context, images []model.ProductImage, meta Meta) (int, error) {
	refs := make([]*model.ImageRef, 0, len(images))
	for i := range images {
		refs = append(refs, &images[i].Image)
	}
	return r.resolve(ctx, refs, meta)
}

func (r *Resolver) ResolveVariantImages(ctx context.Context, variants []*model.Variant, meta Meta) (int, error) {
	refs := make([]*model.ImageRef, 0, len(variants))
	for _, v := range variants {
		if v != nil {
			refs = append(refs, &v.Image)
		}
	}
	return r.resolve(ctx, refs, meta)
}

func (r *Resolver) resolve(ctx context.Context, refs []*model.ImageRef, meta Meta) (int, error) {
	pending := make([]*model.ImageRef, 0, len(refs))
	for _, ref := range refs {
		if ref.IsLocal() {
			pending = append(pending, ref)
		}
	}
	if len(pending) == 0 {
		return 0, nil
	}

	urls := make([]string, len(pending))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.limit)
	for i, ref := range pending {
		g.Go(func() error {
			url, err := r.uploader.Upload(gctx, ref.File, meta)
			if err != nil {
				return fmt.Errorf("upload %s: %w", ref.File.Name, err)
			}
			urls[i] = url
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	// On failure above, every ref still holds its local file.
	for i, ref := range pending {
		*ref = model.RemoteImage(urls[i])
	}
	return len(pending), nil
}
