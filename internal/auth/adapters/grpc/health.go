package grpc

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"taskflow/pkg/logger"
)

// ServiceName - имя сервиса в ответах grpc.health.v1.Health.
const ServiceName = "taskflow.auth"

const (
	defaultHealthInterval = 10 * time.Second
	probeTimeout          = 2 * time.Second

	msgProbeFailed    = "health probe failed"
	msgStatusChanged  = "health status changed"
	msgHealthStopping = "health reporter stopping"
)

// Probe - проверка доступности одной зависимости.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// HealthReporter публикует статус SERVING только пока все зависимости доступны.
type HealthReporter struct {
	server   *health.Server
	probes   []Probe
	interval time.Duration

	mu     sync.Mutex
	status healthpb.HealthCheckResponse_ServingStatus
}

// NewHealthReporter создает репортер с начальным статусом NOT_SERVING.
func NewHealthReporter(interval time.Duration, probes ...Probe) *HealthReporter {
	if interval <= 0 {
		interval = defaultHealthInterval
	}

	h := &HealthReporter{
		server:   health.NewServer(),
		probes:   probes,
		interval: interval,
		status:   healthpb.HealthCheckResponse_NOT_SERVING,
	}
	h.server.SetServingStatus("", h.status)
	h.server.SetServingStatus(ServiceName, h.status)
	return h
}

// Register регистрирует сервис grpc.health.v1.Health.
func (h *HealthReporter) Register(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, h.server)
}

// Check опрашивает все зависимости и обновляет публикуемый статус.
func (h *HealthReporter) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	for _, probe := range h.probes {
		probeCtx, cancel := context.WithTimeout(ctx, probeTimeout)
		err := probe.Check(probeCtx)
		cancel()
		if err != nil {
			logger.Log(ctx).Warn(ctx, msgProbeFailed, zap.String("dependency", probe.Name), zap.Error(err))
			status = healthpb.HealthCheckResponse_NOT_SERVING
		}
	}

	h.mu.Lock()
	changed := h.status != status
	h.status = status
	h.mu.Unlock()

	if changed {
		logger.Log(ctx).Info(ctx, msgStatusChanged, zap.String("status", status.String()))
	}
	h.server.SetServingStatus("", status)
	h.server.SetServingStatus(ServiceName, status)
	return status
}

// Run периодически вызывает Check до отмены ctx, затем переводит все сервисы в NOT_SERVING.
func (h *HealthReporter) Run(ctx context.Context) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	h.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Log(ctx).Debug(ctx, msgHealthStopping)
			h.server.Shutdown()
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}
