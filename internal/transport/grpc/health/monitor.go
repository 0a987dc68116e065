package health

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ServiceName is the gRPC health service name of the whole process.
// The empty name is also kept in sync for clients that query without one.
const ServiceName = "staysearch.v1.SearchService"

const probeTimeout = 5 * time.Second

// Probe checks one dependency. Critical probes decide the overall status;
// the others are only reported under their own service name.
type Probe struct {
	Name     string
	Check    func(ctx context.Context) error
	Critical bool
}

// Monitor polls dependencies and publishes their status on a grpc health server.
type Monitor struct {
	server   *health.Server
	probes   []Probe
	interval time.Duration
	logger   logrus.FieldLogger

	mu     sync.Mutex
	failed map[string]bool
}

// NewMonitor creates a monitor. Every status starts as NOT_SERVING until the first check.
func NewMonitor(probes []Probe, interval time.Duration, logger logrus.FieldLogger) *Monitor {
	server := health.NewServer()
	server.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	server.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	for _, p := range probes {
		server.SetServingStatus(p.Name, healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return &Monitor{
		server:   server,
		probes:   probes,
		interval: interval,
		logger:   logger,
		failed:   make(map[string]bool),
	}
}

// Server returns the health server to register on a grpc.Server.
func (m *Monitor) Server() *health.Server {
	return m.server
}

// Run checks immediately, then on every tick until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	m.CheckOnce(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.CheckOnce(ctx)
		}
	}
}

// CheckOnce runs every probe and updates the published statuses.
func (m *Monitor) CheckOnce(ctx context.Context) {
	healthy := true
	for _, p := range m.probes {
		status := healthpb.HealthCheckResponse_SERVING
		if err := m.check(ctx, p); err != nil {
			status = healthpb.HealthCheckResponse_NOT_SERVING
			if p.Critical {
				healthy = false
			}
		}
		m.server.SetServingStatus(p.Name, status)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if !healthy {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	m.server.SetServingStatus("", overall)
	m.server.SetServingStatus(ServiceName, overall)
}

// Shutdown marks everything NOT_SERVING and ignores later updates.
func (m *Monitor) Shutdown() {
	m.server.Shutdown()
}

func (m *Monitor) check(ctx context.Context, p Probe) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	err := p.Check(ctx)

	m.mu.Lock()
	wasFailing := m.failed[p.Name]
	m.failed[p.Name] = err != nil
	m.mu.Unlock()

	// log transitions only
	switch {
	case err != nil && !wasFailing:
		m.logger.WithError(err).WithField("dependency", p.Name).Warn("health check failing")
	case err == nil && wasFailing:
		m.logger.WithField("dependency", p.Name).Info("health check recovered")
	}
	return err
}
