package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/simaogato/cashhealth-backend/internal/adapter/backend"
	grpcadapter "github.com/simaogato/cashhealth-backend/internal/adapter/grpc"
	"github.com/simaogato/cashhealth-backend/internal/config"
	"github.com/simaogato/cashhealth-backend/internal/logger"
	"github.com/simaogato/cashhealth-backend/internal/usecase/dashboard"
	"github.com/simaogato/cashhealth-backend/internal/usecase/ledger"
)

func main() {
	// 1. Configuration and logging
	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error().Err(err).Msg("Server failed")
		stop()
		os.Exit(1)
	}
}

// run owns every resource it opens and releases them before returning
func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	// 2. Open the ledger source and load the snapshot once
	result, err := backend.NewFactory(log).Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to open ledger source: %w", err)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			log.Warn().Err(err).Msg("Failed to release ledger source")
		}
	}()

	store, err := ledger.Load(ctx, result.Source)
	if err != nil {
		// Malformed data aborts startup; the error names the offending record
		return fmt.Errorf("failed to load ledger: %w", err)
	}
	log.Info().
		Str("source", store.Source()).
		Int("transactions", store.Len()).
		Int("periods", len(store.Periods())).
		Msg("Ledger loaded")

	// 3. Initialize Services (Use Cases)
	dashboardService := dashboard.NewDashboardService(store, cfg.CacheTTL, log)

	// 4. Start gRPC Server
	grpcServer := grpclib.NewServer(
		grpclib.ChainUnaryInterceptor(
			grpcadapter.LoggingInterceptor(log),
			grpcadapter.RecoveryInterceptor(),
		),
	)
	grpcadapter.RegisterCashHealthServiceServer(grpcServer, grpcadapter.NewServer(dashboardService))

	healthServer := health.NewServer()
	healthServer.SetServingStatus(grpcadapter.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	reflection.Register(grpcServer)

	addr := ":" + cfg.GRPCPort
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("gRPC server listening")
		if err := grpcServer.Serve(lis); err != nil && !errors.Is(err, grpclib.ErrServerStopped) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down gracefully...")
		healthServer.Shutdown()
		grpcServer.GracefulStop()
		log.Info().Msg("gRPC server stopped")
		return nil
	})

	return g.Wait()
}
