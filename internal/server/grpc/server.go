// Package grpcserver exposes the handover portal over gRPC.
package grpcserver

import (
	"context"
	"net"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/and161185/nhh/internal/convert"
	"github.com/and161185/nhh/internal/model"
	"github.com/and161185/nhh/internal/service"
)

// Server wires services into gRPC handlers.
type Server struct {
	auth      service.AuthService
	officers  service.OfficerService
	listings  service.ListingService
	interests service.InterestService
	transfers service.TransferService
	log       *zap.Logger
}

// Services groups the collaborators of Server.
type Services struct {
	Auth      service.AuthService
	Officers  service.OfficerService
	Listings  service.ListingService
	Interests service.InterestService
	Transfers service.TransferService
}

var _ HandoverServer = (*Server)(nil)

// New constructs a gRPC server with injected services.
func New(svc Services, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		auth:      svc.Auth,
		officers:  svc.Officers,
		listings:  svc.Listings,
		interests: svc.Interests,
		transfers: svc.Transfers,
		log:       log,
	}
}

func remoteIP(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	addr := p.Addr.String()
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func clientMeta(ctx context.Context) *model.ClientMeta {
	m := &model.ClientMeta{IP: remoteIP(ctx)}
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ua := md.Get("user-agent"); len(ua) > 0 {
			m.UserAgent = ua[0]
		}
	}
	return m
}

// fail maps err to a status; causes hidden from the client are logged here.
func (s *Server) fail(err error) error {
	st := toStatus(err)
	if status.Code(st) == codes.Internal {
		s.log.Error("request failed", zap.Error(err))
	}
	return st
}

func (s *Server) reply(m map[string]any) (*structpb.Struct, error) {
	out, err := convert.Struct(m)
	if err != nil {
		return nil, s.fail(err)
	}
	return out, nil
}

// --- Auth ---

// Register creates an officer and signs them in.
func (s *Server) Register(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	o, pair, err := s.auth.Register(ctx, convert.RegisterInput(req), clientMeta(ctx))
	if err != nil {
		return nil, s.fail(err)
	}
	return s.reply(convert.AuthResult(o, pair))
}

// Login exchanges credentials for a token pair.
func (s *Server) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	o, pair, err := s.auth.Login(ctx, convert.Credentials(req), clientMeta(ctx))
	if err != nil {
		return nil, s.fail(err)
	}
	return s.reply(convert.AuthResult(o, pair))
}

// Refresh rotates a refresh token.
func (s *Server) Refresh(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	o, pair, err := s.auth.Refresh(ctx, convert.Of(req).String("refresh_token"), clientMeta(ctx))
	if err != nil {
		return nil, s.fail(err)
	}
	return s.reply(convert.AuthResult(o, pair))
}

// Verify checks credentials without issuing tokens.
func (s *Server) Verify(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	v, err := s.auth.Verify(ctx, convert.Credentials(req), clientMeta(ctx))
	if err != nil {
		return nil, s.fail(err)
	}
	return s.reply(convert.Verification(v))
}

// Logout revokes the session behind a refresh token.
func (s *Server) Logout(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if err := s.auth.Logout(ctx, convert.Of(req).String("refresh_token")); err != nil {
		return nil, s.fail(err)
	}
	return s.reply(map[string]any{"status": "success"})
}

// --- Officers ---

func (s *Server) Me(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	o, err := s.officers.Me(ctx, ViewerFromCtx(ctx))
	if err != nil {
		return nil, s.fail(err)
	}
	return s.reply(convert.Officer(o))
}

func (s *Server) ListOfficers(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	list, err := s.officers.List(ctx, ViewerFromCtx(ctx))
	if err != nil {
		return nil, s.fail(err)
	}
	return s.reply(convert.Officers(list))
}

// --- Listings ---

func (s *Server) CreateListing(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := convert.ListingInput(req)
	if err != nil {
		return nil, s.fail(err)
	}
	v, err := s.listings.Create(ctx, ViewerFromCtx(ctx), in)
	if err != nil {
		return nil, s.fail(err)
	}
	return s.reply(convert.Listing(v))
}

func (s *Server) ListListings(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	list, err := s.listings.List(ctx, ViewerFromCtx(ctx))
	if err != nil {
		return nil, s.fail(err)
	}
	return s.reply(convert.Listings(list))
}

func (s *Server) GetListing(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := convert.Of(req).UUID("id")
	if err != nil {
		return nil, s.fail(err)
	}
	v, err := s.listings.Get(ctx, ViewerFromCtx(ctx), id)
	if err != nil {
		return nil, s.fail(err)
	}
	return s.reply(convert.Listing(v))
}

func (s *Server) UpdateListingStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := convert.Of(req)
	id, err := f.UUID("id")
	if err != nil {
		return nil, s.fail(err)
	}
	v, err := s.listings.UpdateStatus(ctx, ViewerFromCtx(ctx), id, model.ListingStatus(f.String("status")))
	if err != nil {
		return nil, s.fail(err)
	}
	return s.reply(convert.Listing(v))
}

// --- Interests ---

func (s *Server) CreateInterest(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := convert.Of(req)
	listingID, err := f.UUID("listing_id")
	if err != nil {
		return nil, s.fail(err)
	}
	in, err := s.interests.Create(ctx, ViewerFromCtx(ctx), listingID, f.String("message"))
	if err != nil {
		return nil, s.fail(err)
	}
	return s.reply(convert.Interest(*in))
}

func (s *Server) UpdateInterestStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := convert.Of(req)
	id, err := f.UUID("id")
	if err != nil {
		return nil, s.fail(err)
	}
	in, err := s.interests.UpdateStatus(ctx, ViewerFromCtx(ctx), id, model.InterestStatus(f.String("status")))
	if err != nil {
		return nil, s.fail(err)
	}
	return s.reply(convert.Interest(*in))
}

func (s *Server) ListInterests(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	listingID, err := convert.Of(req).UUID("listing_id")
	if err != nil {
		return nil, s.fail(err)
	}
	list, err := s.interests.ListForListing(ctx, ViewerFromCtx(ctx), listingID)
	if err != nil {
		return nil, s.fail(err)
	}
	return s.reply(convert.Interests(list))
}

// --- Transfers ---

func (s *Server) CreateTransfer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := convert.TransferInput(req)
	if err != nil {
		return nil, s.fail(err)
	}
	v, err := s.transfers.Create(ctx, ViewerFromCtx(ctx), in)
	if err != nil {
		return nil, s.fail(err)
	}
	return s.reply(convert.Transfer(v))
}

func (s *Server) UpdateTransferStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	f := convert.Of(req)
	id, err := f.UUID("id")
	if err != nil {
		return nil, s.fail(err)
	}
	v, err := s.transfers.UpdateStatus(ctx, ViewerFromCtx(ctx), id,
		model.TransferStatus(f.String("status")), f.OptString("consent_pdf_url"))
	if err != nil {
		return nil, s.fail(err)
	}
	return s.reply(convert.Transfer(v))
}

func (s *Server) ListTransfers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	listingID, err := convert.Of(req).UUID("listing_id")
	if err != nil {
		return nil, s.fail(err)
	}
	list, err := s.transfers.ListForListing(ctx, ViewerFromCtx(ctx), listingID)
	if err != nil {
		return nil, s.fail(err)
	}
	return s.reply(convert.Transfers(list))
}
