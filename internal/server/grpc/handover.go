package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "nhh.v1.Handover"

// HandoverServer is the server API of nhh.v1.Handover. Every request and
// response is a google.protobuf.Struct.
type HandoverServer interface {
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Refresh(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Verify(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Logout(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Me(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListOfficers(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateListing(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListListings(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetListing(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateListingStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateInterest(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateInterestStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListInterests(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CreateTransfer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	UpdateTransferStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListTransfers(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(HandoverServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func handler(name string, m unaryMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	full := "/" + ServiceName + "/" + name
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return m(srv.(HandoverServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return m(srv.(HandoverServer), ctx, req.(*structpb.Struct))
		})
	}
}

var methods = []struct {
	name string
	m    unaryMethod
}{
	{"Register", HandoverServer.Register},
	{"Login", HandoverServer.Login},
	{"Refresh", HandoverServer.Refresh},
	{"Verify", HandoverServer.Verify},
	{"Logout", HandoverServer.Logout},
	{"Me", HandoverServer.Me},
	{"ListOfficers", HandoverServer.ListOfficers},
	{"CreateListing", HandoverServer.CreateListing},
	{"ListListings", HandoverServer.ListListings},
	{"GetListing", HandoverServer.GetListing},
	{"UpdateListingStatus", HandoverServer.UpdateListingStatus},
	{"CreateInterest", HandoverServer.CreateInterest},
	{"UpdateInterestStatus", HandoverServer.UpdateInterestStatus},
	{"ListInterests", HandoverServer.ListInterests},
	{"CreateTransfer", HandoverServer.CreateTransfer},
	{"UpdateTransferStatus", HandoverServer.UpdateTransferStatus},
	{"ListTransfers", HandoverServer.ListTransfers},
}

// ServiceDesc describes nhh.v1.Handover for grpc.Server.RegisterService.
var ServiceDesc = func() grpc.ServiceDesc {
	d := grpc.ServiceDesc{
		ServiceName: ServiceName,
		HandlerType: (*HandoverServer)(nil),
		Streams:     []grpc.StreamDesc{},
		Metadata:    "nhh/v1/handover.proto",
	}
	for _, m := range methods {
		d.Methods = append(d.Methods, grpc.MethodDesc{MethodName: m.name, Handler: handler(m.name, m.m)})
	}
	return d
}()

// RegisterHandoverServer registers srv on s.
func RegisterHandoverServer(s grpc.ServiceRegistrar, srv HandoverServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// Client calls nhh.v1.Handover methods by name.
type Client struct{ cc grpc.ClientConnInterface }

// NewClient wraps a connection.
func NewClient(cc grpc.ClientConnInterface) *Client { return &Client{cc: cc} }

// Call invokes method (for example "Login") with req.
func (c *Client) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
