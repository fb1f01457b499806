package auth

import (
	"context"
	"strconv"

	"github.com/koperasihub/product-form-service/pkg/middleware"
	"google.golang.org/grpc/metadata"
)

type UserContext struct {
	StoreID  int64
	UserID   string
	Role     string
	Language string
}

// FromContext collects the caller identity populated by middleware.ContextInterceptor.
func FromContext(ctx context.Context) UserContext {
	return UserContext{
		StoreID:  GetStoreID(ctx),
		UserID:   lookup(ctx, middleware.UserIDKey, "x-user-id"),
		Role:     lookup(ctx, middleware.RoleKey, "x-role"),
		Language: lookup(ctx, middleware.LanguageKey, "accept-language"),
	}
}

// GetStoreID returns 0 when the caller did not send a usable store id.
func GetStoreID(ctx context.Context) int64 {
	raw := lookup(ctx, middleware.StoreIDKey, "x-store-id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func GetLanguage(ctx context.Context) string {
	return lookup(ctx, middleware.LanguageKey, "accept-language")
}

func lookup(ctx context.Context, key any, header string) string {
	if val, ok := ctx.Value(key).(string); ok {
		return val
	}

	// Fallback to metadata
	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get(header); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}
