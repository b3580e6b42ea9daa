package grpc

import (
	"context"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
	"google.golang.org/grpc/status"

	dashboardhealth "github.com/tair/inventory-dashboard/internal/dashboard/health"
	"github.com/tair/inventory-dashboard/pkg/logger"
)

// ServiceName is the name reported to grpc.health.v1 clients
const ServiceName = "inventory.dashboard"

// HealthServer exposes the dashboard health over grpc.health.v1
type HealthServer struct {
	server  *grpc.Server
	health  *health.Server
	checker *dashboardhealth.Checker
}

// NewHealthServer creates the gRPC server with tracing and logging
func NewHealthServer(checker *dashboardhealth.Checker) *HealthServer {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(LoggingInterceptor),
	)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(server, hs)
	reflection.Register(server)

	return &HealthServer{server: server, health: hs, checker: checker}
}

// Server returns the underlying gRPC server
func (s *HealthServer) Server() *grpc.Server { return s.server }

// Health returns the grpc.health.v1 implementation
func (s *HealthServer) Health() *health.Server { return s.health }

// Refresh probes the checker and publishes the serving status
func (s *HealthServer) Refresh(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	result := s.checker.Check(ctx)

	serving := healthpb.HealthCheckResponse_SERVING
	if result.Status == dashboardhealth.StatusUnhealthy {
		serving = healthpb.HealthCheckResponse_NOT_SERVING
	}
	s.health.SetServingStatus("", serving)
	s.health.SetServingStatus(ServiceName, serving)
	return serving
}

// Watch refreshes the serving status every interval until ctx is cancelled
func (s *HealthServer) Watch(ctx context.Context, interval time.Duration) {
	s.Refresh(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.health.Shutdown()
			return
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}

// LoggingInterceptor logs gRPC requests with structured logging
func LoggingInterceptor(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	duration := time.Since(start)

	if err != nil {
		logger.Error(ctx).
			Str("method", info.FullMethod).
			Str("protocol", "grpc").
			Str("grpc_status", status.Code(err).String()).
			Dur("duration", duration).
			Err(err).
			Msg("gRPC request failed")
		return resp, err
	}

	logger.Debug(ctx).
		Str("method", info.FullMethod).
		Str("protocol", "grpc").
		Dur("duration", duration).
		Msg("gRPC request completed")
	return resp, nil
}
