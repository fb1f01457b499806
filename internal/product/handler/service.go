package handler

import (
	"context"

	"github.com/koperasihub/product-form-service/pkg/grpcjson"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
)

const ServiceName = "koperasihub.product.v1.ProductFormService"

type ProductFormServer interface {
	PreviewVariants(context.Context, *DraftRequest) (*DraftResponse, error)
	LoadProductDraft(context.Context, *DraftRequest) (*DraftResponse, error)
	StageImages(context.Context, *StageImagesRequest) (*StageImagesResponse, error)
	SaveDraft(context.Context, *DraftRequest) (*DraftResponse, error)
	GetDraft(context.Context, *DraftKeyRequest) (*DraftResponse, error)
	DiscardDraft(context.Context, *DraftKeyRequest) (*emptypb.Empty, error)
	SubmitProduct(context.Context, *SubmitRequest) (*SubmitResponse, error)
	ListSubmissionEvents(context.Context, *ListSubmissionEventsRequest) (*ListSubmissionEventsResponse, error)
}

func method(name string) string {
	return "/" + ServiceName + "/" + name
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProductFormServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "PreviewVariants", Handler: grpcjson.Unary(method("PreviewVariants"), ProductFormServer.PreviewVariants)},
		{MethodName: "LoadProductDraft", Handler: grpcjson.Unary(method("LoadProductDraft"), ProductFormServer.LoadProductDraft)},
		{MethodName: "StageImages", Handler: grpcjson.Unary(method("StageImages"), ProductFormServer.StageImages)},
		{MethodName: "SaveDraft", Handler: grpcjson.Unary(method("SaveDraft"), ProductFormServer.SaveDraft)},
		{MethodName: "GetDraft", Handler: grpcjson.Unary(method("GetDraft"), ProductFormServer.GetDraft)},
		{MethodName: "DiscardDraft", Handler: grpcjson.Unary(method("DiscardDraft"), ProductFormServer.DiscardDraft)},
		{MethodName: "SubmitProduct", Handler: grpcjson.Unary(method("SubmitProduct"), ProductFormServer.SubmitProduct)},
		{MethodName: "ListSubmissionEvents", Handler: grpcjson.Unary(method("ListSubmissionEvents"), ProductFormServer.ListSubmissionEvents)},
	},
}

func Register(s grpc.ServiceRegistrar, srv ProductFormServer) {
	s.RegisterService(&ServiceDesc, srv)
}
