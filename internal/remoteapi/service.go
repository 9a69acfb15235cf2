// Package remoteapi defines the conecta.remote.v1.TableStore gRPC service.
// Messages are google.protobuf.Struct values so that rows travel as plain
// JSON-shaped maps without a generated schema.
package remoteapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "conecta.remote.v1.TableStore"

const (
	MethodSelect              = "/" + ServiceName + "/Select"
	MethodGet                 = "/" + ServiceName + "/Get"
	MethodInsert              = "/" + ServiceName + "/Insert"
	MethodUpsert              = "/" + ServiceName + "/Upsert"
	MethodDelete              = "/" + ServiceName + "/Delete"
	MethodPing                = "/" + ServiceName + "/Ping"
	MethodPresignReportUpload = "/" + ServiceName + "/PresignReportUpload"
	MethodAuthenticate        = "/" + ServiceName + "/Authenticate"
)

// TableStoreServer is the server API for the TableStore service.
type TableStoreServer interface {
	Select(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Get(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Insert(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Upsert(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Delete(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error)
	PresignReportUpload(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Authenticate(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// UnimplementedTableStoreServer answers every method with codes.Unimplemented.
type UnimplementedTableStoreServer struct{}

func (UnimplementedTableStoreServer) Select(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Select not implemented")
}
func (UnimplementedTableStoreServer) Get(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Get not implemented")
}
func (UnimplementedTableStoreServer) Insert(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Insert not implemented")
}
func (UnimplementedTableStoreServer) Upsert(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Upsert not implemented")
}
func (UnimplementedTableStoreServer) Delete(context.Context, *structpb.Struct) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Delete not implemented")
}
func (UnimplementedTableStoreServer) Ping(context.Context, *emptypb.Empty) (*emptypb.Empty, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedTableStoreServer) PresignReportUpload(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method PresignReportUpload not implemented")
}

func (UnimplementedTableStoreServer) Authenticate(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Authenticate not implemented")
}

func unaryHandler[Req proto.Message](method string, newReq func() Req,
	call func(TableStoreServer, context.Context, Req) (any, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TableStoreServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: method}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TableStoreServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func newStruct() *structpb.Struct { return &structpb.Struct{} }
func newEmpty() *emptypb.Empty    { return &emptypb.Empty{} }

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TableStoreServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Select", Handler: unaryHandler(MethodSelect, newStruct,
			func(s TableStoreServer, ctx context.Context, in *structpb.Struct) (any, error) { return s.Select(ctx, in) })},
		{MethodName: "Get", Handler: unaryHandler(MethodGet, newStruct,
			func(s TableStoreServer, ctx context.Context, in *structpb.Struct) (any, error) { return s.Get(ctx, in) })},
		{MethodName: "Insert", Handler: unaryHandler(MethodInsert, newStruct,
			func(s TableStoreServer, ctx context.Context, in *structpb.Struct) (any, error) { return s.Insert(ctx, in) })},
		{MethodName: "Upsert", Handler: unaryHandler(MethodUpsert, newStruct,
			func(s TableStoreServer, ctx context.Context, in *structpb.Struct) (any, error) { return s.Upsert(ctx, in) })},
		{MethodName: "Delete", Handler: unaryHandler(MethodDelete, newStruct,
			func(s TableStoreServer, ctx context.Context, in *structpb.Struct) (any, error) { return s.Delete(ctx, in) })},
		{MethodName: "Ping", Handler: unaryHandler(MethodPing, newEmpty,
			func(s TableStoreServer, ctx context.Context, in *emptypb.Empty) (any, error) { return s.Ping(ctx, in) })},
		{MethodName: "PresignReportUpload", Handler: unaryHandler(MethodPresignReportUpload, newStruct,
			func(s TableStoreServer, ctx context.Context, in *structpb.Struct) (any, error) {
				return s.PresignReportUpload(ctx, in)
			})},
		{MethodName: "Authenticate", Handler: unaryHandler(MethodAuthenticate, newStruct,
			func(s TableStoreServer, ctx context.Context, in *structpb.Struct) (any, error) { return s.Authenticate(ctx, in) })},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "conecta/remote/v1/table_store.proto",
}

func RegisterTableStoreServer(s grpc.ServiceRegistrar, srv TableStoreServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// TableStoreClient is the client API for the TableStore service.
type TableStoreClient struct {
	cc grpc.ClientConnInterface
}

func NewTableStoreClient(cc grpc.ClientConnInterface) *TableStoreClient {
	return &TableStoreClient{cc: cc}
}

func (c *TableStoreClient) Select(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodSelect, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TableStoreClient) Get(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGet, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TableStoreClient) Insert(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, MethodInsert, in, new(emptypb.Empty), opts...)
}

func (c *TableStoreClient) Upsert(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, MethodUpsert, in, new(emptypb.Empty), opts...)
}

func (c *TableStoreClient) Delete(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, MethodDelete, in, new(emptypb.Empty), opts...)
}

func (c *TableStoreClient) Ping(ctx context.Context, opts ...grpc.CallOption) error {
	return c.cc.Invoke(ctx, MethodPing, new(emptypb.Empty), new(emptypb.Empty), opts...)
}

func (c *TableStoreClient) PresignReportUpload(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodPresignReportUpload, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *TableStoreClient) Authenticate(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodAuthenticate, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
