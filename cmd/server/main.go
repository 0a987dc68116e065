package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/light-bringer/staysearch-service/internal/config"
	"github.com/light-bringer/staysearch-service/internal/pkg/logging"
	"github.com/light-bringer/staysearch-service/internal/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		logrus.Fatalf("Failed to run server: %v", err)
	}
}

func run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, File: cfg.LogFile})
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"spanner_db":   cfg.SpannerDB,
		"grpc_port":    cfg.GRPCPort,
		"http_port":    cfg.HTTPPort,
		"result_cache": cfg.ResultCache,
		"search_api":   cfg.SearchAPIURL,
	}).Info("Starting Stay Search Service...")

	// 2. Initialize service dependencies (DI container)
	serviceOpts, err := services.NewServiceOptions(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	// 3. Create gRPC server with health and reflection (for grpcurl and debugging)
	grpcServer := grpc.NewServer()
	healthpb.RegisterHealthServer(grpcServer, serviceOpts.Health.Server())
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		return fmt.Errorf("failed to listen on gRPC port: %w", err)
	}

	go serviceOpts.Health.Run(ctx)

	go func() {
		logger.Infof("gRPC server listening on :%s", cfg.GRPCPort)
		if err := grpcServer.Serve(lis); err != nil {
			logger.WithError(err).Error("gRPC server error")
		}
	}()

	// 4. Create HTTP server
	httpServer := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           serviceOpts.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("HTTP server listening on :%s", cfg.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("HTTP server error")
		}
	}()

	// 5. Graceful shutdown handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	logger.Info("Shutting down gracefully...")
	serviceOpts.Health.Shutdown()
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("HTTP server shutdown error")
	}

	grpcServer.GracefulStop()
	logger.Info("Server gracefully stopped")

	return nil
}
