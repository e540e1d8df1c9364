package api

import (
	"context"
	"fmt"
	"net"

	"pictiv/internal/config"
	"pictiv/internal/database"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// StudioServiceName is the health-checked service name besides "".
const StudioServiceName = "pictiv.studio.API"

// GRPCServer serves the standard gRPC health protocol, reporting SERVING
// while the document store is available.
type GRPCServer struct {
	server   *grpc.Server
	health   *health.Server
	store    database.Store
	listener net.Listener
	log      zerolog.Logger
}

func NewGRPCServer(cfg config.GRPCConfig, store database.Store, logger *zerolog.Logger) (*GRPCServer, error) {
	addr := fmt.Sprintf(":%d", cfg.Port)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("grpc listen %s: %w", addr, err)
	}

	unary := ChainUnaryInterceptors(
		RecoveryUnaryInterceptor(logger),
		LoggingUnaryInterceptor(logger),
	)
	grpcServer := grpc.NewServer(grpc.UnaryInterceptor(unary))

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	if cfg.Reflection {
		reflection.Register(grpcServer)
	}

	serverLogger := zerolog.Nop()
	if logger != nil {
		serverLogger = logger.With().Str("component", "grpc").Logger()
	}

	s := &GRPCServer{
		server:   grpcServer,
		health:   healthServer,
		store:    store,
		listener: lis,
		log:      serverLogger,
	}
	s.RefreshHealth()
	return s, nil
}

// RefreshHealth publishes the current store availability.
func (s *GRPCServer) RefreshHealth() {
	st := healthpb.HealthCheckResponse_SERVING
	if reason := database.UnavailableReason(s.store); reason != nil {
		st = healthpb.HealthCheckResponse_NOT_SERVING
		s.log.Warn().Err(reason).Msg("store unavailable, health NOT_SERVING")
	}
	s.health.SetServingStatus("", st)
	s.health.SetServingStatus(StudioServiceName, st)
}

func (s *GRPCServer) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *GRPCServer) Serve() error {
	s.log.Info().Str("addr", s.Addr()).Msg("gRPC health listening")
	return s.server.Serve(s.listener)
}

func (s *GRPCServer) Shutdown(ctx context.Context) {
	if s.server == nil {
		return
	}
	s.health.Shutdown()

	done := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		s.log.Warn().Msg("gRPC graceful shutdown timed out; forcing stop")
		s.server.Stop()
	}
}
