package grpcapi

import (
	"context"
	"log/slog"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health service key reported for the acquiring service.
const ServiceName = "acquiring.v1.AcquiringService"

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

type HealthHandler struct {
	server *health.Server
	checks map[string]Checker
}

func NewHealthHandler(checks map[string]Checker) *HealthHandler {
	h := &HealthHandler{server: health.NewServer(), checks: checks}
	h.SetServing(false)
	return h
}

// NewServer builds a gRPC server exposing the health service and reflection.
func NewServer(h *HealthHandler, opts ...grpc.ServerOption) *grpc.Server {
	srv := grpc.NewServer(opts...)
	healthpb.RegisterHealthServer(srv, h.server)
	reflection.Register(srv)
	return srv
}

func (h *HealthHandler) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	h.server.SetServingStatus(ServiceName, status)
	h.server.SetServingStatus("", status)
}

// Check runs every check once and updates the serving status.
func (h *HealthHandler) Check(ctx context.Context) bool {
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			slog.Warn("health check failed", "check", name, "error", err.Error())
			h.SetServing(false)
			return false
		}
	}
	h.SetServing(true)
	return true
}

// Watch re-runs the checks every interval until ctx is done.
func (h *HealthHandler) Watch(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			checkCtx, cancel := context.WithTimeout(ctx, interval)
			h.Check(checkCtx)
			cancel()
		}
	}
}

// Shutdown flips every service to NOT_SERVING ahead of GracefulStop.
func (h *HealthHandler) Shutdown() {
	h.server.Shutdown()
}
