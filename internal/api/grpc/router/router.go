package router

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/dtroode/storefront-server/internal/api/grpc/middleware"
	"github.com/dtroode/storefront-server/internal/logger"
)

// Router builds the operations gRPC server.
type Router struct {
	health *health.Server
	logger *logger.Logger
}

// New creates a Router exposing the given health server.
func New(health *health.Server, logger *logger.Logger) *Router {
	return &Router{health: health, logger: logger}
}

func loggingSkip(_ context.Context, c interceptors.CallMeta) bool {
	return !strings.HasPrefix(c.FullMethod(), "/grpc.reflection.")
}

// Register creates the gRPC server with panic recovery and request logging,
// and registers the health and reflection services.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			middleware.Recovery(r.logger),
			selector.UnaryServerInterceptor(
				logging.HandleGRPC,
				selector.MatchFunc(loggingSkip),
			),
		),
	)

	healthpb.RegisterHealthServer(s, r.health)
	reflection.Register(s)

	return s
}
