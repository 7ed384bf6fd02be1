// Package dashboardpb defines the batterymon.v1.Dashboard gRPC service.
//
// The service is described with protobuf well-known types only, so it needs
// no generated message code:
//
//	service Dashboard {
//	  rpc GetSnapshot(google.protobuf.Empty) returns (google.protobuf.Struct);
//	  rpc Refresh(google.protobuf.Empty) returns (google.protobuf.Struct);
//	  rpc SetAutoUpdate(google.protobuf.BoolValue) returns (google.protobuf.BoolValue);
//	}
//
// Snapshots travel as a Struct holding the JSON form of ports.Snapshot.
package dashboardpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	// FileName is the path the service descriptor is registered under
	FileName = "batterymon/v1/dashboard.proto"

	ServiceName = "batterymon.v1.Dashboard"

	GetSnapshotMethod   = "/" + ServiceName + "/GetSnapshot"
	RefreshMethod       = "/" + ServiceName + "/Refresh"
	SetAutoUpdateMethod = "/" + ServiceName + "/SetAutoUpdate"
)

// DashboardServer is the server API for the Dashboard service
type DashboardServer interface {
	GetSnapshot(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Refresh(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	SetAutoUpdate(context.Context, *wrapperspb.BoolValue) (*wrapperspb.BoolValue, error)
}

// UnimplementedDashboardServer can be embedded for forward compatibility
type UnimplementedDashboardServer struct{}

func (UnimplementedDashboardServer) GetSnapshot(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSnapshot not implemented")
}

func (UnimplementedDashboardServer) Refresh(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method Refresh not implemented")
}

func (UnimplementedDashboardServer) SetAutoUpdate(context.Context, *wrapperspb.BoolValue) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method SetAutoUpdate not implemented")
}

// RegisterDashboardServer registers srv on s
func RegisterDashboardServer(s grpc.ServiceRegistrar, srv DashboardServer) {
	s.RegisterService(&Dashboard_ServiceDesc, srv)
}

// Dashboard_ServiceDesc is the grpc.ServiceDesc for the Dashboard service
var Dashboard_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DashboardServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetSnapshot", Handler: getSnapshotHandler},
		{MethodName: "Refresh", Handler: refreshHandler},
		{MethodName: "SetAutoUpdate", Handler: setAutoUpdateHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: FileName,
}

func getSnapshotHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServer).GetSnapshot(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetSnapshotMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DashboardServer).GetSnapshot(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func refreshHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServer).Refresh(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RefreshMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DashboardServer).Refresh(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func setAutoUpdateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.BoolValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DashboardServer).SetAutoUpdate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SetAutoUpdateMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DashboardServer).SetAutoUpdate(ctx, req.(*wrapperspb.BoolValue))
	}
	return interceptor(ctx, in, info, handler)
}

// DashboardClient is the client API for the Dashboard service
type DashboardClient interface {
	GetSnapshot(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Refresh(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	SetAutoUpdate(ctx context.Context, in *wrapperspb.BoolValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error)
}

type dashboardClient struct {
	cc grpc.ClientConnInterface
}

// NewDashboardClient creates a client on cc
func NewDashboardClient(cc grpc.ClientConnInterface) DashboardClient {
	return &dashboardClient{cc: cc}
}

func (c *dashboardClient) GetSnapshot(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetSnapshotMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dashboardClient) Refresh(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, RefreshMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *dashboardClient) SetAutoUpdate(ctx context.Context, in *wrapperspb.BoolValue, opts ...grpc.CallOption) (*wrapperspb.BoolValue, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, SetAutoUpdateMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// The descriptor is registered so server reflection can describe the service
func init() {
	fd, err := protodesc.NewFile(fileDescriptor(), protoregistry.GlobalFiles)
	if err != nil {
		panic("dashboardpb: build descriptor: " + err.Error())
	}
	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic("dashboardpb: register descriptor: " + err.Error())
	}
}

func fileDescriptor() *descriptorpb.FileDescriptorProto {
	method := func(name, in, out string) *descriptorpb.MethodDescriptorProto {
		return &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(name),
			InputType:  proto.String(in),
			OutputType: proto.String(out),
		}
	}

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(FileName),
		Package: proto.String("batterymon.v1"),
		Dependency: []string{
			"google/protobuf/empty.proto",
			"google/protobuf/struct.proto",
			"google/protobuf/wrappers.proto",
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("Dashboard"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("GetSnapshot", ".google.protobuf.Empty", ".google.protobuf.Struct"),
				method("Refresh", ".google.protobuf.Empty", ".google.protobuf.Struct"),
				method("SetAutoUpdate", ".google.protobuf.BoolValue", ".google.protobuf.BoolValue"),
			},
		}},
		Syntax: proto.String("proto3"),
	}
}
