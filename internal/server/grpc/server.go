package grpc

import (
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ClassifyServiceName is the service identifier reported to health probes.
const ClassifyServiceName = "digitd.Classify"

// Server exposes the standard gRPC health service so orchestrators can probe
// digitd readiness without going through the HTTP surface.
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
}

// NewServer creates a gRPC server with the health service registered.
func NewServer() *Server {
	s := grpc.NewServer()
	h := health.NewServer()
	healthpb.RegisterHealthServer(s, h)

	return &Server{
		grpcServer: s,
		health:     h,
	}
}

// SetServing updates the health status reported for the classify service.
// It is flipped on once models are loaded, and off again when a config
// reload fails.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}

	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ClassifyServiceName, status)
}

// Serve listens on the given port and blocks until the server stops.
func (s *Server) Serve(port int) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("failed to listen on port %d: %w", port, err)
	}

	slog.Info("gRPC server listening", "port", port)
	return s.grpcServer.Serve(lis)
}

// Stop gracefully stops the server.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
