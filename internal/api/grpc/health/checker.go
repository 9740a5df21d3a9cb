// Package health reports backing store availability through the standard
// gRPC health service.
package health

import (
	"context"
	"sort"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/storefront-server/internal/logger"
)

// Probe checks one dependency. A nil error means healthy.
type Probe func(ctx context.Context) error

// Checker periodically runs probes and publishes the result per service
// name. The overall status ("") is SERVING only when every probe passes.
type Checker struct {
	server   *health.Server
	probes   map[string]Probe
	interval time.Duration
	timeout  time.Duration
	logger   *logger.Logger
}

func NewChecker(server *health.Server, probes map[string]Probe, interval time.Duration, logger *logger.Logger) *Checker {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &Checker{
		server:   server,
		probes:   probes,
		interval: interval,
		timeout:  interval / 2,
		logger:   logger,
	}
}

// CheckOnce runs every probe and updates the published statuses.
// It returns the names of the failing probes.
func (c *Checker) CheckOnce(ctx context.Context) []string {
	names := make([]string, 0, len(c.probes))
	for name := range c.probes {
		names = append(names, name)
	}
	sort.Strings(names)

	var failing []string
	for _, name := range names {
		probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := c.probes[name](probeCtx)
		cancel()

		status := healthpb.HealthCheckResponse_SERVING
		if err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			failing = append(failing, name)
			c.logger.Warn("Health: probe failed",
				"probe", name,
				"error", err.Error())
		}
		c.server.SetServingStatus(name, status)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if len(failing) > 0 {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	c.server.SetServingStatus("", overall)

	return failing
}

// Run checks until ctx is done, then marks everything as not serving.
func (c *Checker) Run(ctx context.Context) {
	c.CheckOnce(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
			c.CheckOnce(ctx)
		}
	}
}
