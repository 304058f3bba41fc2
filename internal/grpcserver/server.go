// Package grpcserver exposes the job listing as the gRPC service
// directory.v1.ListingService.
//
// The service has no generated stubs: requests and responses are
// google.protobuf.Struct messages (see codec.go) and the service
// descriptor is declared by hand below.
package grpcserver

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"jobmate/directory-service/internal/listing"
	"jobmate/directory-service/pkg/logging"
)

const (
	ServiceName  = "directory.v1.ListingService"
	SearchMethod = "/" + ServiceName + "/Search"
	SeedMethod   = "/" + ServiceName + "/Seed"
)

// ListingServer is the server API of ListingService.
type ListingServer interface {
	Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	Seed(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes ListingService for grpc.Server.RegisterService.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ListingServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Search", Handler: unary(SearchMethod, ListingServer.Search)},
		{MethodName: "Seed", Handler: unary(SeedMethod, ListingServer.Seed)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "directory/v1/listing.proto",
}

func unary(fullMethod string, call func(ListingServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ListingServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(ListingServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// ─── Server ──────────────────────────────────────────────────────────────────

var _ ListingServer = (*Server)(nil)

// Server implements ListingServer on top of the listing loader and executor.
type Server struct {
	loader *listing.Loader
	exec   listing.Executor
	log    *logging.Logger
}

// NewServer constructs a Server.
func NewServer(loader *listing.Loader, exec listing.Executor, log *logging.Logger) *Server {
	return &Server{loader: loader, exec: exec, log: log.With("component", "grpc")}
}

// Register mounts the service on s.
func (s *Server) Register(gs *grpc.Server) {
	gs.RegisterService(&ServiceDesc, s)
}

// Search returns one result page for the requested filter.
func (s *Server) Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f, err := s.filter(req)
	if err != nil {
		return nil, err
	}

	res, err := s.exec.Execute(ctx, f)
	if err != nil {
		return nil, s.toGRPCError(err)
	}
	return encode(PageToStruct(f, res))
}

// Seed returns the initial state for the requested filter.
func (s *Server) Seed(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f, err := s.filter(req)
	if err != nil {
		return nil, err
	}

	seed, err := s.loader.Load(ctx, listing.Values(f))
	if err != nil {
		return nil, s.toGRPCError(err)
	}
	if seed.Companies == nil {
		seed.Companies = []listing.CompanyOption{}
	}
	return encode(SeedToStruct(seed))
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

// filter decodes req. Bad values fall back to defaults; only a message that
// does not have the request shape is rejected.
func (s *Server) filter(req *structpb.Struct) (listing.FilterState, error) {
	f, err := FilterFromStruct(req)
	var verr *listing.ValidationError
	switch {
	case err == nil:
	case errors.As(err, &verr):
		s.log.Debug("listing parameters replaced by defaults", "err", err)
	default:
		return f, status.Errorf(codes.InvalidArgument, "malformed listing request: %v", err)
	}
	return f, nil
}

func encode(out *structpb.Struct, err error) (*structpb.Struct, error) {
	if err != nil {
		return nil, status.Error(codes.Internal, "encode response")
	}
	return out, nil
}

// toGRPCError maps listing errors to gRPC status errors.
func (s *Server) toGRPCError(err error) error {
	var (
		qerr *listing.QueryError
		lerr *listing.LoadError
		verr *listing.ValidationError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Error())
	case errors.As(err, &lerr):
		s.log.Error("seed load failed", "err", err)
		return status.Error(codes.Unavailable, lerr.Message())
	case errors.As(err, &qerr):
		s.log.Error("listing query failed", "err", err)
		return status.Error(codes.Unavailable, "listing query failed")
	default:
		s.log.Error("unexpected listing error", "err", err)
		return status.Error(codes.Internal, "internal server error")
	}
}
