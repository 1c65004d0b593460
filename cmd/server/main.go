// Command nhh-server starts the handover portal gRPC server.
package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/and161185/nhh/internal/access"
	"github.com/and161185/nhh/internal/config"
	"github.com/and161185/nhh/internal/crypto"
	"github.com/and161185/nhh/internal/limiter"
	"github.com/and161185/nhh/internal/migrate"
	"github.com/and161185/nhh/internal/repository/postgres"
	grpcserver "github.com/and161185/nhh/internal/server/grpc"
	"github.com/and161185/nhh/internal/service"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

// main loads configuration, runs migrations, and serves gRPC until signalled.
func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		_, _ = os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(2)
	}

	logger, _ := zap.NewProduction()
	if cfg.Dev {
		logger, _ = zap.NewDevelopment()
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("addr", cfg.Addr),
		zap.Bool("dev", cfg.Dev),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := migrate.Up(ctx, cfg.DSN, logger); err != nil {
		logger.Fatal("migrate up", zap.Error(err))
	}

	db, err := postgres.New(ctx, cfg.DSN)
	if err != nil {
		logger.Fatal("postgres.New", zap.Error(err))
	}
	defer db.Close()

	// Repositories
	officerRepo := postgres.NewOfficerRepo(db)
	sessionRepo := postgres.NewSessionRepo(db)
	listingRepo := postgres.NewListingRepo(db)
	interestRepo := postgres.NewInterestRepo(db)
	transferRepo := postgres.NewTransferRepo(db)

	hasher := crypto.NewArgon2Hasher(crypto.DefaultParams)
	cipher := crypto.NewFieldCipher(cfg.EncryptionKey)
	redactor := access.NewRedactor(cipher, logger.Named("redact"))

	var lim limiter.Limiter
	if cfg.LoginMaxFails > 0 {
		lim = limiter.NewPG(db.Pool, limiter.Policy{
			Window:   cfg.LoginWindow,
			MaxFails: cfg.LoginMaxFails,
			BlockFor: cfg.LoginBlockFor,
		})
	}

	// Services
	sessions := service.NewSessionStore(sessionRepo, hasher, logger.Named("sessions"))
	tokens := service.NewJWTIssuer(service.TokenConfig{
		AccessSecret:  []byte(cfg.AccessSecret),
		RefreshSecret: []byte(cfg.RefreshSecret),
		AccessTTL:     cfg.AccessTTL(),
		RefreshTTL:    cfg.RefreshTTL(),
	}, sessions, hasher)
	authSvc := service.NewAuthService(officerRepo, sessions, tokens, hasher, lim, logger.Named("auth"))

	go service.NewSweeper(sessions, cfg.SweepInterval, logger.Named("sweeper")).Run(ctx)

	opts := []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(
			grpcserver.RecoverUnary(logger),
			grpcserver.LoggingUnary(logger),
			grpcserver.AuthUnary(authSvc),
		),
	}
	if !cfg.Dev {
		creds, err := credentials.NewServerTLSFromFile(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			logger.Fatal("failed to load TLS cert/key", zap.Error(err))
		}
		opts = append(opts, grpc.Creds(creds))
	}
	s := grpc.NewServer(opts...)

	app := grpcserver.New(grpcserver.Services{
		Auth:      authSvc,
		Officers:  service.NewOfficerService(officerRepo),
		Listings:  service.NewListingService(listingRepo, redactor),
		Interests: service.NewInterestService(interestRepo, listingRepo),
		Transfers: service.NewTransferService(transferRepo, listingRepo, officerRepo, cipher, redactor),
	}, logger.Named("grpc"))
	grpcserver.RegisterHandoverServer(s, app)

	// Health & reflection (dev)
	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus(grpcserver.ServiceName, healthpb.HealthCheckResponse_SERVING)
	if cfg.Dev {
		reflection.Register(s)
	}

	lis, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		logger.Fatal("listen", zap.Error(err))
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", cfg.Addr), zap.Bool("tls", !cfg.Dev))
		errCh <- s.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		hs.Shutdown()
		done := make(chan struct{})
		go func() {
			s.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			s.Stop()
		}
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
