package middleware

import (
	"context"
	"time"

	"github.com/koperasihub/product-form-service/pkg/logger"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	StoreIDKey  ctxKey = "store_id"
	UserIDKey   ctxKey = "user_id"
	RoleKey     ctxKey = "role"
	LanguageKey ctxKey = "language"
)

var headerKeys = map[string]ctxKey{
	"x-store-id":      StoreIDKey,
	"x-user-id":       UserIDKey,
	"x-role":          RoleKey,
	"accept-language": LanguageKey,
}

// ContextInterceptor copies caller identity from incoming metadata into the context.
func ContextInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			for header, key := range headerKeys {
				if vals := md.Get(header); len(vals) > 0 && vals[0] != "" {
					ctx = context.WithValue(ctx, key, vals[0])
				}
			}
		}
		return handler(ctx, req)
	}
}

func LoggingInterceptor(log logger.ZapLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		fields := []zap.Field{
			zap.String("method", info.FullMethod),
			zap.Duration("duration", time.Since(start)),
			zap.String("code", status.Code(err).String()),
		}
		if err != nil {
			log.Warn("grpc request failed", append(fields, zap.Error(err))...)
		} else {
			log.Debug("grpc request", fields...)
		}
		return resp, err
	}
}
