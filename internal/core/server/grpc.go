// Package server provides gRPC server lifecycle management.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	"github.com/beatforge/fieldgate/internal/core/api"
	"github.com/beatforge/fieldgate/internal/core/auth"
	"github.com/beatforge/fieldgate/internal/core/config"
)

// shutdownTimeout bounds graceful shutdown before a forced stop.
const shutdownTimeout = 30 * time.Second

// GRPCServer manages gRPC server lifecycle.
type GRPCServer struct {
	server   *grpc.Server
	health   *health.Server
	listener net.Listener
	config   *config.InspectorConfig
	logger   *slog.Logger
}

// NewGRPCServer creates gRPC server with interceptors and service registration.
// authenticator may be nil only when cfg.AuthEnabled is false.
func NewGRPCServer(cfg *config.InspectorConfig, service *api.InspectorService, authenticator *auth.Authenticator, logger *slog.Logger) (*GRPCServer, error) {
	if cfg == nil {
		return nil, fmt.Errorf("cfg cannot be nil")
	}
	if service == nil {
		return nil, fmt.Errorf("service cannot be nil")
	}
	if cfg.AuthEnabled && authenticator == nil {
		return nil, fmt.Errorf("authenticator cannot be nil when auth is enabled")
	}
	if logger == nil {
		logger = slog.Default()
	}

	interceptors := []grpc.UnaryServerInterceptor{
		loggingInterceptor(logger),
		timeoutInterceptor(cfg.RequestTimeout),
	}
	if cfg.AuthEnabled {
		interceptors = append(interceptors, authenticator.UnaryInterceptor())
	}

	server := grpc.NewServer(grpc.ChainUnaryInterceptor(interceptors...))
	server.RegisterService(&ServiceDesc, &inspectorHandlers{svc: service})

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return &GRPCServer{
		server: server,
		health: healthServer,
		config: cfg,
		logger: logger,
	}, nil
}

// Start binds listener and serves gRPC requests.
// Blocks until Shutdown is called.
func (s *GRPCServer) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", addr, err)
	}
	return s.Serve(listener)
}

// Serve serves on an existing listener.
func (s *GRPCServer) Serve(listener net.Listener) error {
	s.listener = listener
	s.logger.Info("inspector listening", "addr", listener.Addr().String(), "auth", s.config.AuthEnabled)
	return s.server.Serve(listener)
}

// Shutdown marks the server not serving and stops it gracefully, forcing a
// stop after shutdownTimeout or when ctx ends.
func (s *GRPCServer) Shutdown(ctx context.Context) error {
	s.health.Shutdown()

	stopped := make(chan struct{})
	go func() {
		s.server.GracefulStop()
		close(stopped)
	}()

	select {
	case <-stopped:
		return nil
	case <-ctx.Done():
		s.server.Stop()
		return fmt.Errorf("shutdown cancelled by context: %w", ctx.Err())
	case <-time.After(shutdownTimeout):
		s.server.Stop()
		return fmt.Errorf("graceful shutdown timeout, forced stop")
	}
}

// timeoutInterceptor bounds each call by the configured request timeout.
func timeoutInterceptor(timeout time.Duration) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if timeout <= 0 {
			return handler(ctx, req)
		}
		ctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		return handler(ctx, req)
	}
}

// loggingInterceptor logs each call with its status code and duration.
func loggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		level := slog.LevelDebug
		if err != nil {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "rpc",
			"method", info.FullMethod,
			"code", status.Code(err).String(),
			"duration", time.Since(start),
		)
		return resp, err
	}
}
