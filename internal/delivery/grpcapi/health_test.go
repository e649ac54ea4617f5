package grpcapi

import (
	"context"
	"errors"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

func startServer(t *testing.T, h *HealthHandler) healthpb.HealthClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewServer(h)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return healthpb.NewHealthClient(conn)
}

func servingStatus(t *testing.T, client healthpb.HealthClient) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := client.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	if err != nil {
		t.Fatalf("health check: %v", err)
	}
	return resp.GetStatus()
}

func TestHealthHandler(t *testing.T) {
	t.Run("Given a fresh handler When checked Then NOT_SERVING", func(t *testing.T) {
		client := startServer(t, NewHealthHandler(nil))
		if got := servingStatus(t, client); got != healthpb.HealthCheckResponse_NOT_SERVING {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("Given passing checks When checked Then SERVING", func(t *testing.T) {
		h := NewHealthHandler(map[string]Checker{"db": func(context.Context) error { return nil }})
		client := startServer(t, h)

		if !h.Check(context.Background()) {
			t.Fatal("expected checks to pass")
		}
		if got := servingStatus(t, client); got != healthpb.HealthCheckResponse_SERVING {
			t.Fatalf("got %v", got)
		}
	})

	t.Run("Given a failing check When checked Then NOT_SERVING", func(t *testing.T) {
		h := NewHealthHandler(map[string]Checker{"redis": func(context.Context) error { return errors.New("down") }})
		client := startServer(t, h)
		h.SetServing(true)

		if h.Check(context.Background()) {
			t.Fatal("expected check failure")
		}
		if got := servingStatus(t, client); got != healthpb.HealthCheckResponse_NOT_SERVING {
			t.Fatalf("got %v", got)
		}
	})
}
