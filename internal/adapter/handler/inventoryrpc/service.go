package inventoryrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "inventory.v1.InventoryService"

	AddItemMethod            = "/" + ServiceName + "/AddItem"
	GetItemMethod            = "/" + ServiceName + "/GetItem"
	UpdateItemQuantityMethod = "/" + ServiceName + "/UpdateItemQuantity"
	RemoveItemMethod         = "/" + ServiceName + "/RemoveItem"
	GetLogsMethod            = "/" + ServiceName + "/GetLogs"
)

type InventoryServiceServer interface {
	AddItem(context.Context, *AddItemRequest) (*MutationResponse, error)
	GetItem(context.Context, *GetItemRequest) (*GetItemResponse, error)
	UpdateItemQuantity(context.Context, *UpdateItemQuantityRequest) (*MutationResponse, error)
	RemoveItem(context.Context, *RemoveItemRequest) (*MutationResponse, error)
	GetLogs(context.Context, *GetLogsRequest) (*GetLogsResponse, error)
}

// UnimplementedInventoryServiceServer can be embedded to keep servers
// compiling when methods are added.
type UnimplementedInventoryServiceServer struct{}

func (UnimplementedInventoryServiceServer) AddItem(context.Context, *AddItemRequest) (*MutationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddItem not implemented")
}

func (UnimplementedInventoryServiceServer) GetItem(context.Context, *GetItemRequest) (*GetItemResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetItem not implemented")
}

func (UnimplementedInventoryServiceServer) UpdateItemQuantity(context.Context, *UpdateItemQuantityRequest) (*MutationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateItemQuantity not implemented")
}

func (UnimplementedInventoryServiceServer) RemoveItem(context.Context, *RemoveItemRequest) (*MutationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RemoveItem not implemented")
}

func (UnimplementedInventoryServiceServer) GetLogs(context.Context, *GetLogsRequest) (*GetLogsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetLogs not implemented")
}

func RegisterInventoryServiceServer(s grpc.ServiceRegistrar, srv InventoryServiceServer) {
	s.RegisterService(&InventoryService_ServiceDesc, srv)
}

// unaryHandler adapts a typed server method to a grpc.MethodHandler.
func unaryHandler[Req any, Resp any](fullMethod string, call func(InventoryServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(InventoryServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(InventoryServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var InventoryService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InventoryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "AddItem",
			Handler:    unaryHandler(AddItemMethod, InventoryServiceServer.AddItem),
		},
		{
			MethodName: "GetItem",
			Handler:    unaryHandler(GetItemMethod, InventoryServiceServer.GetItem),
		},
		{
			MethodName: "UpdateItemQuantity",
			Handler:    unaryHandler(UpdateItemQuantityMethod, InventoryServiceServer.UpdateItemQuantity),
		},
		{
			MethodName: "RemoveItem",
			Handler:    unaryHandler(RemoveItemMethod, InventoryServiceServer.RemoveItem),
		},
		{
			MethodName: "GetLogs",
			Handler:    unaryHandler(GetLogsMethod, InventoryServiceServer.GetLogs),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "inventory/v1/inventory.proto",
}

type InventoryServiceClient interface {
	AddItem(ctx context.Context, in *AddItemRequest, opts ...grpc.CallOption) (*MutationResponse, error)
	GetItem(ctx context.Context, in *GetItemRequest, opts ...grpc.CallOption) (*GetItemResponse, error)
	UpdateItemQuantity(ctx context.Context, in *UpdateItemQuantityRequest, opts ...grpc.CallOption) (*MutationResponse, error)
	RemoveItem(ctx context.Context, in *RemoveItemRequest, opts ...grpc.CallOption) (*MutationResponse, error)
	GetLogs(ctx context.Context, in *GetLogsRequest, opts ...grpc.CallOption) (*GetLogsResponse, error)
}

type inventoryServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewInventoryServiceClient(cc grpc.ClientConnInterface) InventoryServiceClient {
	return &inventoryServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *inventoryServiceClient) AddItem(ctx context.Context, in *AddItemRequest, opts ...grpc.CallOption) (*MutationResponse, error) {
	return invoke[MutationResponse](ctx, c.cc, AddItemMethod, in, opts)
}

func (c *inventoryServiceClient) GetItem(ctx context.Context, in *GetItemRequest, opts ...grpc.CallOption) (*GetItemResponse, error) {
	return invoke[GetItemResponse](ctx, c.cc, GetItemMethod, in, opts)
}

func (c *inventoryServiceClient) UpdateItemQuantity(ctx context.Context, in *UpdateItemQuantityRequest, opts ...grpc.CallOption) (*MutationResponse, error) {
	return invoke[MutationResponse](ctx, c.cc, UpdateItemQuantityMethod, in, opts)
}

func (c *inventoryServiceClient) RemoveItem(ctx context.Context, in *RemoveItemRequest, opts ...grpc.CallOption) (*MutationResponse, error) {
	return invoke[MutationResponse](ctx, c.cc, RemoveItemMethod, in, opts)
}

func (c *inventoryServiceClient) GetLogs(ctx context.Context, in *GetLogsRequest, opts ...grpc.CallOption) (*GetLogsResponse, error) {
	return invoke[GetLogsResponse](ctx, c.cc, GetLogsMethod, in, opts)
}
