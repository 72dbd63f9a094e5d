package sequencer

import (
	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/observability"
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/mama165/sdk-go/logs"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	chunks []domain.StreamChunk
}

func (r *recorder) emit(_ context.Context, chunk domain.StreamChunk) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.chunks = append(r.chunks, chunk)
	return nil
}

func (r *recorder) sequences() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	seqs := make([]int64, 0, len(r.chunks))
	for _, c := range r.chunks {
		seqs = append(seqs, c.SequenceNumber)
	}
	return seqs
}

func (r *recorder) terminals() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.chunks {
		if c.IsComplete {
			n++
		}
	}
	return n
}

func newSequencer(bufferSize int, idle time.Duration) (*Sequencer, *MemoryStore, *recorder) {
	rec := &recorder{}
	store := NewMemoryStore(time.Minute)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	return NewSequencer(log, store, rec.emit, metrics, bufferSize, idle), store, rec
}

func chunk(seq int64, complete bool) domain.StreamChunk {
	c := domain.StreamChunk{
		ConversationID: "conv-1",
		RequestID:      "req-1",
		UserID:         "alice",
		SequenceNumber: seq,
		Delta:          "token",
		IsComplete:     complete,
	}
	if complete {
		reason := domain.FinishStop
		c.FinishReason = &reason
	}
	return c
}

func stream(n int) []domain.StreamChunk {
	chunks := make([]domain.StreamChunk, 0, n)
	for i := 0; i < n; i++ {
		chunks = append(chunks, chunk(int64(i), i == n-1))
	}
	return chunks
}

func expected(n int) []int64 {
	seqs := make([]int64, 0, n)
	for i := 0; i < n; i++ {
		seqs = append(seqs, int64(i))
	}
	return seqs
}

func TestSequencer_In_Order(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s, _, rec := newSequencer(16, time.Minute)

	for _, c := range stream(5) {
		req.NoError(s.Submit(ctx, c))
	}

	req.Equal(expected(5), rec.sequences())
	req.Equal(1, rec.terminals())
}

func TestSequencer_Permutation_With_Duplicates(t *testing.T) {
	const n = 30
	for seed := int64(1); seed <= 20; seed++ {
		req := require.New(t)
		ctx := context.Background()
		s, _, rec := newSequencer(2*n, time.Minute)

		// Given every chunk delivered twice in a random order
		chunks := append(stream(n), stream(n)...)
		rnd := rand.New(rand.NewSource(seed))
		rnd.Shuffle(len(chunks), func(i, j int) { chunks[i], chunks[j] = chunks[j], chunks[i] })

		// When all of them are submitted
		for _, c := range chunks {
			req.NoError(s.Submit(ctx, c))
		}

		// Then the client observed 0..n-1 exactly once and a single terminal chunk
		req.Equal(expected(n), rec.sequences(), "seed %d", seed)
		req.Equal(1, rec.terminals(), "seed %d", seed)
	}
}

func TestSequencer_Concurrent_Submit_Keeps_Order(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	const n = 50
	s, _, rec := newSequencer(2*n, time.Minute)

	chunks := append(stream(n), stream(n)...)
	rand.New(rand.NewSource(42)).Shuffle(len(chunks), func(i, j int) { chunks[i], chunks[j] = chunks[j], chunks[i] })

	var wg sync.WaitGroup
	wg.Add(len(chunks))
	for _, c := range chunks {
		go func(c domain.StreamChunk) {
			defer wg.Done()
			_ = s.Submit(ctx, c)
		}(c)
	}
	wg.Wait()

	req.Equal(expected(n), rec.sequences())
	req.Equal(1, rec.terminals())
}

func TestSequencer_Buffer_Full_Asks_For_Redelivery(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s, _, rec := newSequencer(2, time.Minute)

	// Given two chunks ahead of the gap are buffered
	req.NoError(s.Submit(ctx, chunk(1, false)))
	req.NoError(s.Submit(ctx, chunk(2, false)))

	// When a third chunk arrives ahead of the gap
	err := s.Submit(ctx, chunk(3, true))

	// Then it is refused so that the bus redelivers it
	req.ErrorIs(err, errors.ErrStreamBufferFull)
	req.Empty(rec.sequences())

	// When the gap is filled and the refused chunk comes back
	req.NoError(s.Submit(ctx, chunk(0, false)))
	req.NoError(s.Submit(ctx, chunk(3, true)))

	// Then everything is delivered in order
	req.Equal(expected(4), rec.sequences())
	req.Equal(1, rec.terminals())
}

func TestSequencer_Late_Chunks_After_Completion_Are_Discarded(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s, _, rec := newSequencer(8, time.Minute)

	req.NoError(s.Submit(ctx, chunk(0, false)))
	req.NoError(s.Submit(ctx, chunk(1, true)))

	// When chunks are redelivered after the terminal one
	req.NoError(s.Submit(ctx, chunk(1, true)))
	req.NoError(s.Submit(ctx, chunk(0, false)))
	req.NoError(s.Submit(ctx, chunk(2, false)))

	// Then nothing else reaches the client
	req.Equal(expected(2), rec.sequences())
	req.Equal(1, rec.terminals())
}

func TestSequencer_Terminal_Waits_For_Its_Turn(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s, _, rec := newSequencer(8, time.Minute)

	// Given the terminal chunk arrives first
	req.NoError(s.Submit(ctx, chunk(2, true)))
	// And a chunk numbered past it
	req.NoError(s.Submit(ctx, chunk(3, false)))
	req.Empty(rec.sequences())

	// When the missing chunks arrive
	req.NoError(s.Submit(ctx, chunk(1, false)))
	req.NoError(s.Submit(ctx, chunk(0, false)))

	// Then the terminal chunk is the last one delivered
	req.Equal(expected(3), rec.sequences())
	req.Equal(1, rec.terminals())
}

func TestSequencer_Idle_Stream_Is_Evicted_With_Timeout_Chunk(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s, store, rec := newSequencer(8, 30*time.Second)
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return t0 }
	store.now = func() time.Time { return t0 }

	// Given a stream stuck behind a missing chunk
	req.NoError(s.Submit(ctx, chunk(0, false)))
	req.NoError(s.Submit(ctx, chunk(2, false)))

	// When the idle timeout has not elapsed yet
	evicted, err := s.EvictIdle(ctx, t0.Add(10*time.Second))
	req.NoError(err)
	req.Equal(0, evicted)

	// When it has elapsed
	evicted, err = s.EvictIdle(ctx, t0.Add(time.Minute))
	req.NoError(err)
	req.Equal(1, evicted)

	// Then one synthetic terminal chunk is emitted at the expected position
	req.Equal([]int64{0, 1}, rec.sequences())
	last := rec.chunks[len(rec.chunks)-1]
	req.True(last.IsComplete)
	req.Equal(domain.FinishTimeout, *last.FinishReason)
	req.Equal(IdleTimeoutMessage, *last.ErrorMessage)
	req.Equal("alice", last.UserID)

	// And the stream is closed for late chunks
	req.NoError(s.Submit(ctx, chunk(1, false)))
	req.Equal([]int64{0, 1}, rec.sequences())
	req.Equal(1, rec.terminals())
}

func TestSequencer_Streams_Are_Independent(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	s, _, rec := newSequencer(8, time.Minute)

	other := chunk(0, true)
	other.RequestID = "req-2"

	req.NoError(s.Submit(ctx, chunk(1, true)))
	req.NoError(s.Submit(ctx, other))

	// Then only the complete stream was delivered
	req.Len(rec.chunks, 1)
	req.Equal("req-2", rec.chunks[0].RequestID)
}

// flaky fails the first emit of each listed sequence number.
type flaky struct {
	recorder
	failOn map[int64]bool
}

func (f *flaky) emit(ctx context.Context, chunk domain.StreamChunk) error {
	if f.failOn[chunk.SequenceNumber] {
		delete(f.failOn, chunk.SequenceNumber)
		return fmt.Errorf("delivery layer unavailable")
	}
	return f.recorder.emit(ctx, chunk)
}

func TestSequencer_Failed_Delivery_Resumes_On_Redelivery(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	out := &flaky{failOn: map[int64]bool{1: true, 2: true}}
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	s := NewSequencer(logs.GetLoggerFromLevel(slog.LevelDebug), NewMemoryStore(time.Minute), out.emit,
		metrics, 8, time.Minute)

	// Given chunk 1 cannot be delivered
	req.NoError(s.Submit(ctx, chunk(0, false)))
	req.Error(s.Submit(ctx, chunk(1, false)))
	req.Equal([]int64{0}, out.sequences())

	// When the bus redelivers it
	req.NoError(s.Submit(ctx, chunk(1, false)))
	req.Equal([]int64{0, 1}, out.sequences())

	// Given the terminal chunk cannot be delivered either
	req.Error(s.Submit(ctx, chunk(2, true)))
	req.Equal(0, out.terminals())

	// When it is redelivered
	req.NoError(s.Submit(ctx, chunk(2, true)))

	// Then every chunk reached the client once, ending with a single terminal chunk
	req.Equal(expected(3), out.sequences())
	req.Equal(1, out.terminals())
	req.NoError(s.Submit(ctx, chunk(2, true)))
	req.Equal(1, out.terminals())
}

func TestSequencer_Failed_Delivery_Resumes_With_Next_Chunk(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	out := &flaky{failOn: map[int64]bool{1: true}}
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	s := NewSequencer(logs.GetLoggerFromLevel(slog.LevelDebug), NewMemoryStore(time.Minute), out.emit,
		metrics, 8, time.Minute)

	req.NoError(s.Submit(ctx, chunk(0, false)))
	req.Error(s.Submit(ctx, chunk(1, false)))

	// When the following chunk arrives before the redelivery
	req.NoError(s.Submit(ctx, chunk(2, true)))

	// Then the stuck chunk goes out first, and its late redelivery is a duplicate
	req.Equal(expected(3), out.sequences())
	req.NoError(s.Submit(ctx, chunk(1, false)))
	req.Equal(expected(3), out.sequences())
	req.Equal(1, out.terminals())
}

func TestSequencer_Failed_Timeout_Chunk_Is_Retried(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	out := &flaky{failOn: map[int64]bool{1: true}}
	store := NewMemoryStore(time.Minute)
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	s := NewSequencer(logs.GetLoggerFromLevel(slog.LevelDebug), store, out.emit, metrics, 8, 30*time.Second)
	t0 := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return t0 }
	store.now = func() time.Time { return t0 }

	req.NoError(s.Submit(ctx, chunk(0, false)))

	// When the timeout chunk cannot be delivered
	evicted, err := s.EvictIdle(ctx, t0.Add(time.Minute))
	req.NoError(err)
	req.Equal(0, evicted)

	// Then the next pass delivers it
	evicted, err = s.EvictIdle(ctx, t0.Add(time.Minute))
	req.NoError(err)
	req.Equal(1, evicted)
	req.Equal([]int64{0, 1}, out.sequences())
	req.Equal(1, out.terminals())
}

func TestSequencer_Failure_Midway_Resumes_On_Any_Redelivery(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	out := &flaky{failOn: map[int64]bool{1: true}}
	metrics := observability.NewMetrics(prometheus.NewRegistry())
	s := NewSequencer(logs.GetLoggerFromLevel(slog.LevelDebug), NewMemoryStore(time.Minute), out.emit,
		metrics, 8, time.Minute)

	// Given chunks 1 and 2 waiting for chunk 0
	req.NoError(s.Submit(ctx, chunk(1, false)))
	req.NoError(s.Submit(ctx, chunk(2, true)))

	// When chunk 0 goes out but chunk 1 cannot
	req.Error(s.Submit(ctx, chunk(0, false)))
	req.Equal([]int64{0}, out.sequences())

	// Then the redelivery of chunk 0 itself releases the rest
	req.NoError(s.Submit(ctx, chunk(0, false)))
	req.Equal(expected(3), out.sequences())
	req.Equal(1, out.terminals())
}
