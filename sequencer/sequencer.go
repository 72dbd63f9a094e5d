// Package sequencer turns the unordered, at-least-once chunks of a streamed response
// into an ordered, duplicate-free sequence per (conversation, request).
package sequencer

import (
	"chat-hub/contract"
	"chat-hub/domain"
	"chat-hub/errors"
	"chat-hub/observability"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/samber/lo"
)

const IdleTimeoutMessage = "stream idle timeout"

// Emit delivers an in-order chunk to its client.
type Emit func(ctx context.Context, chunk domain.StreamChunk) error

type Sequencer struct {
	log         *slog.Logger
	store       contract.ISequencerStore
	emit        Emit
	metrics     *observability.Metrics
	bufferSize  int
	idleTimeout time.Duration
	now         func() time.Time
}

func NewSequencer(log *slog.Logger, store contract.ISequencerStore, emit Emit,
	metrics *observability.Metrics, bufferSize int, idleTimeout time.Duration) *Sequencer {
	return &Sequencer{
		log:         log,
		store:       store,
		emit:        emit,
		metrics:     metrics,
		bufferSize:  bufferSize,
		idleTimeout: idleTimeout,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Submit accepts a chunk in any order and delivers every chunk that became contiguous.
// Delivery happens under the stream lock, so the client sees strictly increasing
// sequence numbers and at most one terminal chunk.
// Progress is persisted chunk by chunk: when delivery fails, the chunk stays at the head
// of the buffer and its redelivery resumes from there.
func (s *Sequencer) Submit(ctx context.Context, chunk domain.StreamChunk) error {
	key := chunk.Key()
	unlock, err := s.store.Lock(ctx, key)
	if err != nil {
		return fmt.Errorf("lock stream %s: %w", key, err)
	}
	defer unlock()

	state, err := s.store.Load(ctx, key)
	if err != nil {
		return fmt.Errorf("load stream %s: %w", key, err)
	}
	if state == nil {
		state = &domain.StreamState{Key: key, UserID: chunk.UserID}
	}

	seq := chunk.SequenceNumber
	fresh := false
	switch {
	case state.Closed:
		s.drop(key, seq, "late")
		return nil
	case state.TerminalSeq != nil && seq > *state.TerminalSeq:
		s.drop(key, seq, "past_terminal")
	case seq < state.Next || state.Buffered(seq):
		s.drop(key, seq, "duplicate")
	case seq > state.Next && len(state.Buffer) >= s.bufferSize:
		s.metrics.StreamChunks.WithLabelValues("overflow").Inc()
		return fmt.Errorf("stream %s at seq %d: %w", key, seq, errors.ErrStreamBufferFull)
	default:
		fresh = true
		if chunk.IsComplete {
			state.TerminalSeq = lo.ToPtr(seq)
			// Chunks numbered past the terminal can never be delivered
			state.Buffer = lo.Filter(state.Buffer, func(c domain.StreamChunk, _ int) bool {
				return c.SequenceNumber < seq
			})
		}
		state.Insert(chunk)
	}

	if !state.Ready() {
		if !fresh {
			return nil
		}
		state.LastSeenAt = s.now()
		s.metrics.StreamChunks.WithLabelValues("buffered").Inc()
		s.log.Debug("Chunk buffered", "stream", key.String(), "seq", seq, "next", state.Next)
		return s.save(ctx, *state)
	}
	if !fresh {
		// A previous delivery failed midway, any redelivery resumes it
		s.log.Debug("Resuming stream delivery", "stream", key.String(), "seq", seq, "next", state.Next)
	}
	state.LastSeenAt = s.now()
	return s.flush(ctx, state)
}

// flush emits the contiguous head of the buffer one chunk at a time.
// State is saved after each emitted chunk and the stream is closed only once the
// terminal chunk went out.
func (s *Sequencer) flush(ctx context.Context, state *domain.StreamState) error {
	for state.Ready() {
		head := state.Buffer[0]
		if err := s.emit(ctx, head); err != nil {
			// Keep the buffered chunk so a redelivery can resume here
			if saveErr := s.store.Save(ctx, *state); saveErr != nil {
				s.log.Warn("Failed to save stream after delivery error", "stream", state.Key.String(), "error", saveErr)
			}
			return fmt.Errorf("emit chunk %d of %s: %w", head.SequenceNumber, state.Key, err)
		}
		state.Pop()
		s.metrics.StreamChunks.WithLabelValues("delivered").Inc()
		if head.IsComplete {
			if err := s.store.Close(ctx, state.Key); err != nil {
				return fmt.Errorf("close stream %s: %w", state.Key, err)
			}
			return nil
		}
		if err := s.save(ctx, *state); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sequencer) save(ctx context.Context, state domain.StreamState) error {
	if err := s.store.Save(ctx, state); err != nil {
		return fmt.Errorf("save stream %s: %w", state.Key, err)
	}
	return nil
}

// EvictIdle closes streams without activity for longer than the idle timeout.
// Each evicted stream receives one synthetic terminal chunk.
func (s *Sequencer) EvictIdle(ctx context.Context, now time.Time) (int, error) {
	cutoff := now.Add(-s.idleTimeout)
	keys, err := s.store.Idle(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("list idle streams: %w", err)
	}
	evicted := 0
	for _, key := range keys {
		ok, err := s.evict(ctx, key, cutoff, now)
		if err != nil {
			s.log.Warn("Failed to evict idle stream", "stream", key.String(), "error", err)
			continue
		}
		if ok {
			evicted++
		}
	}
	return evicted, nil
}

func (s *Sequencer) evict(ctx context.Context, key domain.StreamKey, cutoff, now time.Time) (bool, error) {
	unlock, err := s.store.Lock(ctx, key)
	if err != nil {
		return false, err
	}
	defer unlock()

	state, err := s.store.Load(ctx, key)
	if err != nil {
		return false, err
	}
	// Activity may have happened between Idle and Lock
	if state == nil || state.Closed || !state.LastSeenAt.Before(cutoff) {
		return false, nil
	}
	// The stream stays open until its timeout chunk went out, the next pass retries otherwise
	timeout := domain.StreamChunk{
		ConversationID: key.ConversationID,
		RequestID:      key.RequestID,
		UserID:         state.UserID,
		SequenceNumber: state.Next,
		IsComplete:     true,
		FinishReason:   lo.ToPtr(domain.FinishTimeout),
		ErrorMessage:   lo.ToPtr(IdleTimeoutMessage),
		Timestamp:      now,
	}
	if err = s.emit(ctx, timeout); err != nil {
		return false, fmt.Errorf("emit timeout chunk of %s: %w", key, err)
	}
	s.metrics.StreamChunks.WithLabelValues("delivered").Inc()
	if err = s.store.Close(ctx, key); err != nil {
		return false, err
	}
	s.metrics.StreamChunks.WithLabelValues("evicted").Inc()
	s.log.Info("Idle stream evicted", "stream", key.String(), "next", state.Next, "buffered", len(state.Buffer))
	return true, nil
}

func (s *Sequencer) drop(key domain.StreamKey, seq int64, reason string) {
	s.metrics.StreamChunks.WithLabelValues(reason).Inc()
	s.log.Debug("Chunk dropped", "stream", key.String(), "seq", seq, "reason", reason)
}
