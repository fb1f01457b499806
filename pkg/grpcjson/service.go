package grpcjson

import (
	"context"

	"google.golang.org/grpc"
)

// Unary adapts a typed method, usually a method expression such as
// Server.Method, into a grpc.MethodHandler for a hand written ServiceDesc.
func Unary[S, Req, Resp any](fullMethod string, fn func(S, context.Context, *Req) (Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return fn(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return fn(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// Invoke calls a unary method with the JSON content subtype.
func Invoke(ctx context.Context, cc grpc.ClientConnInterface, method string, in, out any, opts ...grpc.CallOption) error {
	return cc.Invoke(ctx, method, in, out, append(opts, grpc.CallContentSubtype(Name))...)
}
