package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/storefront-server/internal/testutil"
)

func status(t *testing.T, s *health.Server, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := s.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestChecker_CheckOnce(t *testing.T) {
	srv := health.NewServer()
	redisUp := true
	c := NewChecker(srv, map[string]Probe{
		"postgres": func(context.Context) error { return nil },
		"redis": func(context.Context) error {
			if redisUp {
				return nil
			}
			return errors.New("connection refused")
		},
	}, time.Second, testutil.MakeNoopLogger())

	assert.Empty(t, c.CheckOnce(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, srv, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, srv, "redis"))

	redisUp = false
	assert.Equal(t, []string{"redis"}, c.CheckOnce(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, srv, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, srv, "redis"))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, srv, "postgres"))
}

func TestChecker_NoProbesIsServing(t *testing.T) {
	srv := health.NewServer()
	c := NewChecker(srv, nil, 0, testutil.MakeNoopLogger())

	assert.Empty(t, c.CheckOnce(context.Background()))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, srv, ""))
}

func TestChecker_RunStopsWithContext(t *testing.T) {
	srv := health.NewServer()
	c := NewChecker(srv, nil, 5*time.Millisecond, testutil.MakeNoopLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("checker did not stop")
	}
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, srv, ""))
}
