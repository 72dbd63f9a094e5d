package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// ProcessStats is the latest sample reported by /health.
type ProcessStats struct {
	PID         int32     `json:"pid"`
	RSSBytes    uint64    `json:"rss_bytes"`
	CPUPercent  float64   `json:"cpu_percent"`
	Goroutines  int       `json:"goroutines"`
	Connections int64     `json:"connections"`
	SampledAt   time.Time `json:"sampled_at"`
}

// MonitoringManager keeps the latest process sample and live counters.
type MonitoringManager struct {
	mu          sync.RWMutex
	latestStats ProcessStats
	connections int64
	startedAt   time.Time
}

func NewMonitoringManager() *MonitoringManager {
	return &MonitoringManager{startedAt: time.Now().UTC()}
}

func (m *MonitoringManager) Update(stats ProcessStats) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.latestStats = stats
}

func (m *MonitoringManager) GetLatest() ProcessStats {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stats := m.latestStats
	stats.Connections = atomic.LoadInt64(&m.connections)
	return stats
}

func (m *MonitoringManager) ConnectionOpened() { atomic.AddInt64(&m.connections, 1) }
func (m *MonitoringManager) ConnectionClosed() { atomic.AddInt64(&m.connections, -1) }

func (m *MonitoringManager) Uptime() time.Duration {
	return time.Since(m.startedAt)
}
