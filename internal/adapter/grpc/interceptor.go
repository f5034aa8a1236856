package grpc

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/simaogato/cashhealth-backend/internal/logger"
)

// RequestIDHeader is the metadata key carrying the caller's request id
const RequestIDHeader = "x-request-id"

// LoggingInterceptor returns a gRPC unary server interceptor that tags each
// call with a request id (taken from metadata or generated), stores a request
// scoped logger in the context and logs the outcome with its duration.
func LoggingInterceptor(base zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (interface{}, error) {
		requestID := ""
		if md, ok := metadata.FromIncomingContext(ctx); ok {
			if ids := md.Get(RequestIDHeader); len(ids) > 0 {
				requestID = ids[0]
			}
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}

		log := base.With().
			Str("request_id", requestID).
			Str("method", info.FullMethod).
			Logger()
		ctx = logger.WithContext(ctx, log)
		_ = grpc.SetHeader(ctx, metadata.Pairs(RequestIDHeader, requestID))

		start := time.Now()
		resp, err := handler(ctx, req)

		code := status.Code(err)
		event := log.Info()
		switch code {
		case codes.OK:
		case codes.InvalidArgument, codes.FailedPrecondition, codes.Canceled:
			event = log.Warn().Err(err)
		default:
			event = log.Error().Err(err)
		}
		event.Str("code", code.String()).Dur("duration", time.Since(start)).Msg("gRPC call")

		return resp, err
	}
}

// RecoveryInterceptor turns a panicking handler into an Internal error
func RecoveryInterceptor() grpc.UnaryServerInterceptor {
	return func(
		ctx context.Context,
		req interface{},
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (resp interface{}, err error) {
		defer func() {
			if r := recover(); r != nil {
				log := logger.FromContext(ctx)
				log.Error().Interface("panic", r).Str("method", info.FullMethod).Msg("recovered from panic")
				resp = nil
				err = status.Error(codes.Internal, "internal error")
			}
		}()

		return handler(ctx, req)
	}
}
