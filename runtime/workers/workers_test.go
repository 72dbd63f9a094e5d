package workers

import (
	"chat-hub/domain"
	"chat-hub/mocks"
	"chat-hub/observability"
	"chat-hub/runtime"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestStreamReaper_Evicts_On_Each_Tick(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	sequencer := mocks.NewMockISequencer(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	var calls int
	var mu sync.Mutex
	sequencer.EXPECT().EvictIdle(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ time.Time) (int, error) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			if calls == 3 {
				cancel()
			}
			return 1, nil
		}).
		MinTimes(3)

	reaper := NewStreamReaper(logs.GetLoggerFromLevel(slog.LevelDebug), sequencer, 10*time.Millisecond)

	req.NoError(reaper.Run(ctx))
}

type frameSource struct {
	frames chan runtime.Frame
}

func (f frameSource) Frames(context.Context) (<-chan runtime.Frame, error) {
	return f.frames, nil
}

type frameSink struct {
	mu     sync.Mutex
	frames []runtime.Frame
}

func (f *frameSink) Deliver(_ context.Context, frame runtime.Frame) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = append(f.frames, frame)
	return nil
}

func TestBackplaneListener_Replays_Frames(t *testing.T) {
	req := require.New(t)
	source := frameSource{frames: make(chan runtime.Frame, 2)}
	sink := &frameSink{}
	listener := NewBackplaneListener(logs.GetLoggerFromLevel(slog.LevelDebug), source, sink)

	frame, err := runtime.NewFrame(runtime.KindUnicast, "alice", "", domain.NewOutbound(domain.ReceiveNotification, nil))
	req.NoError(err)
	source.frames <- frame
	source.frames <- frame
	close(source.frames)

	// When the subscription ends without the context being cancelled
	err = listener.Run(context.Background())

	// Then every frame was replayed and the worker asks for a restart
	req.Error(err)
	req.Len(sink.frames, 2)
	req.Equal("alice", sink.frames[0].Target)
}

type sampler struct {
	stats observability.ProcessStats
	err   error
}

func (s sampler) Sample() (observability.ProcessStats, error) { return s.stats, s.err }

func TestHeartbeat_Publishes_Latest_Sample(t *testing.T) {
	req := require.New(t)
	monitoring := observability.NewMonitoringManager()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	stats := observability.ProcessStats{PID: 42, RSSBytes: 1024, CPUPercent: 12.5, Goroutines: 7}
	worker := NewHeartbeatWorker(logs.GetLoggerFromLevel(slog.LevelDebug), sampler{stats: stats}, monitoring, metrics, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	req.NoError(worker.Run(ctx))

	latest := monitoring.GetLatest()
	req.Equal(int32(42), latest.PID)
	req.Equal(uint64(1024), latest.RSSBytes)
}

func TestHeartbeat_Sampling_Error_Keeps_Previous(t *testing.T) {
	req := require.New(t)
	monitoring := observability.NewMonitoringManager()
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	worker := NewHeartbeatWorker(logs.GetLoggerFromLevel(slog.LevelDebug),
		sampler{err: fmt.Errorf("no such process")}, monitoring, metrics, time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	req.NoError(worker.Run(ctx))

	req.Zero(monitoring.GetLatest().PID)
}

type staleLease struct {
	mu       sync.Mutex
	renewals int
	stale    []domain.PresenceRelease
}

func (l *staleLease) Renew(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.renewals++
	return nil
}

func (l *staleLease) ReapExpired(context.Context) ([]domain.PresenceRelease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	released := l.stale
	l.stale = nil
	return released, nil
}

func TestPresenceLease_Announces_Released_Presence(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	tracker := mocks.NewMockIPresenceTracker(ctrl)
	lease := &staleLease{stale: []domain.PresenceRelease{{RoomID: "room-1", UserID: "alice", Released: 2}}}

	ctx, cancel := context.WithCancel(context.Background())
	// Then the room hears that alice is gone, once
	tracker.EXPECT().Announce(gomock.Any(), "alice", "room-1", domain.PresenceDisconnected).
		DoAndReturn(func(context.Context, string, string, domain.PresenceEventType) (domain.PresenceDelta, error) {
			cancel()
			return domain.PresenceDelta{}, nil
		}).Times(1)

	worker := NewPresenceLease(logs.GetLoggerFromLevel(slog.LevelDebug), lease, tracker, 10*time.Millisecond)

	// When the worker runs until the announcement
	req.NoError(worker.Run(ctx))
	lease.mu.Lock()
	defer lease.mu.Unlock()
	req.GreaterOrEqual(lease.renewals, 1)
}
