package workers

import (
	"chat-hub/observability"
	"context"
	"log/slog"
	"time"
)

type ProcessSampler interface {
	Sample() (observability.ProcessStats, error)
}

// HeartbeatWorker samples the process (CPU, RAM, goroutines) and publishes
// the result to /health and to the prometheus gauges.
type HeartbeatWorker struct {
	log        *slog.Logger
	sampler    ProcessSampler
	monitoring *observability.MonitoringManager
	metrics    *observability.Metrics
	interval   time.Duration
}

func NewHeartbeatWorker(
	log *slog.Logger,
	sampler ProcessSampler,
	monitoring *observability.MonitoringManager,
	metrics *observability.Metrics,
	interval time.Duration,
) *HeartbeatWorker {
	return &HeartbeatWorker{
		log:        log,
		sampler:    sampler,
		monitoring: monitoring,
		metrics:    metrics,
		interval:   interval,
	}
}

func (w *HeartbeatWorker) Run(ctx context.Context) error {
	w.log.Info("Starting heartbeat worker", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.beat()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			w.beat()
		}
	}
}

func (w *HeartbeatWorker) beat() {
	stats, err := w.sampler.Sample()
	if err != nil {
		w.log.Error("Failed to collect self stats", "err", err)
		return
	}
	w.monitoring.Update(stats)
	w.metrics.ProcessRSS.Set(float64(stats.RSSBytes))
	w.metrics.ProcessCPU.Set(stats.CPUPercent)
}
