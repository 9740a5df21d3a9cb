package router

import (
	"context"
	"testing"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/storefront-server/internal/testutil"
)

func TestRouter_Register(t *testing.T) {
	t.Parallel()

	r := New(health.NewServer(), testutil.MakeNoopLogger())
	s := r.Register()
	if s == nil {
		t.Fatalf("expected non-nil grpc server")
	}

	info := s.GetServiceInfo()
	assert.Contains(t, info, healthpb.Health_ServiceDesc.ServiceName)
}

func TestLoggingSkip(t *testing.T) {
	t.Parallel()

	check := interceptors.NewServerCallMeta("/grpc.health.v1.Health/Check", nil, nil)
	refl := interceptors.NewServerCallMeta("/grpc.reflection.v1.ServerReflection/ServerReflectionInfo", nil, nil)

	assert.True(t, loggingSkip(context.Background(), check))
	assert.False(t, loggingSkip(context.Background(), refl))
}
