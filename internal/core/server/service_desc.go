package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "fieldgate.inspector.v1.Inspector"

// InspectorServer is the server API for the inspector service. Every request
// and response is a google.protobuf.Struct so that arbitrary document values
// travel without a generated schema per document type.
type InspectorServer interface {
	OpenDocument(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListDocuments(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListFields(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetField(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SetField(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SnapshotDocument(context.Context, *structpb.Struct) (*structpb.Struct, error)
	SaveDocument(context.Context, *structpb.Struct) (*structpb.Struct, error)
	LoadDocument(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CloseDocument(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type structCall func(InspectorServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

// unary adapts a method to grpc.MethodHandler.
func unary(method string, call structCall) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(InspectorServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + method,
			}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*structpb.Struct))
			})
		},
	}
}

// ServiceDesc describes the inspector service for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*InspectorServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("OpenDocument", InspectorServer.OpenDocument),
		unary("ListDocuments", InspectorServer.ListDocuments),
		unary("ListFields", InspectorServer.ListFields),
		unary("GetField", InspectorServer.GetField),
		unary("SetField", InspectorServer.SetField),
		unary("SnapshotDocument", InspectorServer.SnapshotDocument),
		unary("SaveDocument", InspectorServer.SaveDocument),
		unary("LoadDocument", InspectorServer.LoadDocument),
		unary("CloseDocument", InspectorServer.CloseDocument),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fieldgate/inspector/v1/inspector.proto",
}

// InspectorClient calls the inspector service over a client connection.
type InspectorClient struct {
	cc grpc.ClientConnInterface
}

// NewInspectorClient returns a client over cc.
func NewInspectorClient(cc grpc.ClientConnInterface) *InspectorClient {
	return &InspectorClient{cc: cc}
}

// Call invokes method with req.
func (c *InspectorClient) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
