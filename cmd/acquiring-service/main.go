package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LavaJover/shvark-acquiring-service/internal/app/background"
	"github.com/LavaJover/shvark-acquiring-service/internal/app/setup"
	"github.com/LavaJover/shvark-acquiring-service/internal/config"
	"github.com/LavaJover/shvark-acquiring-service/internal/delivery/grpcapi"
	"github.com/LavaJover/shvark-acquiring-service/internal/delivery/http/handlers"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()

	logger, logCloser, err := setup.NewLogger(cfg.LogConfig)
	if err != nil {
		log.Fatalf("failed to init logger: %v\n", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger.With("service", "acquiring-service", "env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := setup.InitializeDependencies(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to init dependencies: %v\n", err)
	}
	defer deps.Close()

	uc := setup.InitializeUseCases(deps)

	// HTTP: webhook, return pages, cart API, metrics
	handler := handlers.NewHandler(uc.ReconcileUsecase, uc.SessionUsecase, uc.CartUsecase, uc.PromoUsecase)
	httpServer := &http.Server{
		Addr:         cfg.HTTPServer.Addr(),
		Handler:      handlers.NewRouter(handler, deps.Registry),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
	}

	// gRPC: health and reflection
	health := grpcapi.NewHealthHandler(deps.HealthChecks())
	grpcServer := grpcapi.NewServer(health)
	lis, err := net.Listen("tcp", cfg.GRPCServer.Addr())
	if err != nil {
		log.Fatalf("failed to listen: %v", err)
	}

	background.NewBackgroundTasks(uc.Sweeper, cfg.App.SweepInterval, uc.OutboxRelay, cfg.App.OutboxInterval).StartAll(ctx)
	go health.Watch(ctx, 30*time.Second)

	errCh := make(chan error, 2)
	go func() {
		slog.Info("gRPC server started", "addr", cfg.GRPCServer.Addr())
		if err := grpcServer.Serve(lis); err != nil {
			errCh <- err
		}
	}()
	go func() {
		slog.Info("HTTP server started", "addr", cfg.HTTPServer.Addr())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	health.Check(ctx)

	select {
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	case err := <-errCh:
		slog.Error("server failed", "error", err.Error())
	}

	health.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown failed", "error", err.Error())
	}
	grpcServer.GracefulStop()
	slog.Info("acquiring service stopped")
}
