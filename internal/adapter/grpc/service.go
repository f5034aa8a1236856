package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "cashhealth.v1.CashHealthService"

// CashHealthServiceServer is the server API for the CashHealthService service
// Requests and responses are google.protobuf.Struct messages; field names are snake_case
type CashHealthServiceServer interface {
	ListPeriods(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetKPIs(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetMonthlySeries(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetCategoryBreakdown(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetProjection(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPendingInflows(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetOverview(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(CashHealthServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

// unaryHandler adapts a server method to the shape grpc.ServiceDesc expects
func unaryHandler(name string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(CashHealthServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod(name),
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(CashHealthServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// CashHealthServiceDesc is the grpc.ServiceDesc for CashHealthService
var CashHealthServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*CashHealthServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListPeriods", Handler: unaryHandler("ListPeriods", CashHealthServiceServer.ListPeriods)},
		{MethodName: "GetKPIs", Handler: unaryHandler("GetKPIs", CashHealthServiceServer.GetKPIs)},
		{MethodName: "GetMonthlySeries", Handler: unaryHandler("GetMonthlySeries", CashHealthServiceServer.GetMonthlySeries)},
		{MethodName: "GetCategoryBreakdown", Handler: unaryHandler("GetCategoryBreakdown", CashHealthServiceServer.GetCategoryBreakdown)},
		{MethodName: "GetProjection", Handler: unaryHandler("GetProjection", CashHealthServiceServer.GetProjection)},
		{MethodName: "GetPendingInflows", Handler: unaryHandler("GetPendingInflows", CashHealthServiceServer.GetPendingInflows)},
		{MethodName: "GetOverview", Handler: unaryHandler("GetOverview", CashHealthServiceServer.GetOverview)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cashhealth/v1/cashhealth.proto",
}

// RegisterCashHealthServiceServer registers srv on s
func RegisterCashHealthServiceServer(s grpc.ServiceRegistrar, srv CashHealthServiceServer) {
	s.RegisterService(&CashHealthServiceDesc, srv)
}

// Client is the client API for CashHealthService
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a client on an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, name string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if in == nil {
		in = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, fullMethod(name), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListPeriods(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "ListPeriods", in, opts...)
}

func (c *Client) GetKPIs(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetKPIs", in, opts...)
}

func (c *Client) GetMonthlySeries(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetMonthlySeries", in, opts...)
}

func (c *Client) GetCategoryBreakdown(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetCategoryBreakdown", in, opts...)
}

func (c *Client) GetProjection(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetProjection", in, opts...)
}

func (c *Client) GetPendingInflows(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetPendingInflows", in, opts...)
}

func (c *Client) GetOverview(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, "GetOverview", in, opts...)
}
