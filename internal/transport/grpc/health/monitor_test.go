package health

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type toggle struct {
	down atomic.Bool
}

func (t *toggle) check(context.Context) error {
	if t.down.Load() {
		return errors.New("unreachable")
	}
	return nil
}

func status(t *testing.T, m *Monitor, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := m.Server().Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.Status
}

func TestMonitor_StartsNotServing(t *testing.T) {
	logger, _ := test.NewNullLogger()
	m := NewMonitor([]Probe{{Name: "spanner", Check: (&toggle{}).check, Critical: true}}, time.Hour, logger)

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, m, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, m, ServiceName))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, m, "spanner"))
}

func TestMonitor_CheckOnce(t *testing.T) {
	spanner, cache, api := &toggle{}, &toggle{}, &toggle{}
	logger, hook := test.NewNullLogger()
	m := NewMonitor([]Probe{
		{Name: "spanner", Check: spanner.check, Critical: true},
		{Name: "result-cache", Check: cache.check, Critical: true},
		{Name: "search-api", Check: api.check},
	}, time.Hour, logger)

	m.CheckOnce(context.Background())
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, m, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, m, "search-api"))

	t.Run("non-critical failure keeps serving", func(t *testing.T) {
		api.down.Store(true)
		m.CheckOnce(context.Background())

		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, m, ServiceName))
		assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, m, "search-api"))
		require.NotNil(t, hook.LastEntry())
		assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
		assert.Equal(t, "search-api", hook.LastEntry().Data["dependency"])
	})

	t.Run("critical failure stops serving", func(t *testing.T) {
		cache.down.Store(true)
		m.CheckOnce(context.Background())

		assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, m, ""))
		assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, m, "result-cache"))
		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, m, "spanner"))
	})

	t.Run("recovery is logged once", func(t *testing.T) {
		cache.down.Store(false)
		api.down.Store(false)
		hook.Reset()

		m.CheckOnce(context.Background())
		m.CheckOnce(context.Background())

		assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, m, ""))
		assert.Len(t, hook.AllEntries(), 2)
		for _, e := range hook.AllEntries() {
			assert.Equal(t, logrus.InfoLevel, e.Level)
		}
	})
}

func TestMonitor_RunStopsWithContext(t *testing.T) {
	var calls atomic.Int32
	logger, _ := test.NewNullLogger()
	m := NewMonitor([]Probe{{
		Name:     "spanner",
		Critical: true,
		Check: func(context.Context) error {
			calls.Add(1)
			return nil
		},
	}}, 10*time.Millisecond, logger)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	assert.Eventually(t, func() bool { return calls.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("monitor did not stop")
	}
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, status(t, m, ""))
}

func TestMonitor_Shutdown(t *testing.T) {
	logger, _ := test.NewNullLogger()
	m := NewMonitor([]Probe{{Name: "spanner", Check: (&toggle{}).check, Critical: true}}, time.Hour, logger)
	m.CheckOnce(context.Background())

	m.Shutdown()
	m.CheckOnce(context.Background())

	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, status(t, m, ""))
}
